package middleware

import "github.com/biosecret/go-tasks/auth"

// Rule sets used by the router.
var (
	TaskID = Chain{{
		Field:    "id",
		Location: LocationParams,
		Checks: []Check{
			Tag("required", "Task ID is required"),
			Tag("objectid", "Invalid ID format"),
		},
	}}

	TaskTitle = Chain{{
		Field:    "title",
		Location: LocationBody,
		Checks:   []Check{Tag("required", "Title is required")},
	}}

	// TaskTitleOptional lets a partial update omit the title but not blank it.
	TaskTitleOptional = Chain{{
		Field:    "title",
		Location: LocationBody,
		Optional: true,
		Checks:   []Check{Tag("required", "Title is required")},
	}}

	TaskDescription = Chain{{
		Field:    "description",
		Location: LocationBody,
		Optional: true,
		Checks: []Check{
			IsString("Description must be a string"),
			Tag("max=100", "Description must be at most 100 characters long"),
		},
	}}

	TaskCompleted = Chain{{
		Field:    "completed",
		Location: LocationBody,
		Optional: true,
		Checks:   []Check{IsBoolLike(`Completed must be a boolean or "true"/"false"`)},
	}}

	TaskCompletedQuery = Chain{{
		Field:    "completed",
		Location: LocationQuery,
		Optional: true,
		Checks:   []Check{IsString("Completed must be a string")},
	}}

	UserCredentials = Chain{
		{
			Field:    "username",
			Location: LocationBody,
			Checks: []Check{
				Tag("required", "Username is required"),
				IsString("Username must be a string"),
				Tag("min=3", "Username must be at least 3 characters long"),
			},
		},
		{
			Field:    "password",
			Location: LocationBody,
			Checks: []Check{
				Tag("required", "Password is required"),
				Tag("min=6", "Password must be at least 6 characters long"),
				MaxBytes(auth.MaxPasswordBytes, "Password must be at most 72 bytes long"),
			},
		},
	}
)
