package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/go-tasks/auth"
)

type errorsBody struct {
	Errors []FieldError `json:"errors"`
	Error  string       `json:"error"`
}

func newTestApp(method, path string, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Add(method, path, handlers...)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, errorsBody) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body errorsBody
	if resp.StatusCode != fiber.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func paths(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Path+": "+e.Msg)
	}
	return out
}

func TestValidate_TaskCreate(t *testing.T) {
	app := newTestApp(fiber.MethodPost, "/tasks", Validate(TaskDescription, TaskTitle))

	tests := []struct {
		name   string
		body   string
		status int
		errs   []string
	}{
		{"valid", `{"title":"buy milk","description":"2 liters"}`, 200, nil},
		{"title only", `{"title":"buy milk"}`, 200, nil},
		{"empty title", `{"title":""}`, 400, []string{"title: Title is required"}},
		{"missing title", `{}`, 400, []string{"title: Title is required"}},
		{"description not string", `{"title":"x","description":5}`, 400, []string{"description: Description must be a string"}},
		{
			"description too long and title missing",
			`{"description":"` + strings.Repeat("a", 101) + `"}`,
			400,
			[]string{"description: Description must be at most 100 characters long", "title: Title is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, jsonRequest(fiber.MethodPost, "/tasks", tt.body))
			assert.Equal(t, tt.status, status)
			if tt.errs != nil {
				assert.Equal(t, tt.errs, paths(body.Errors))
				for _, e := range body.Errors {
					assert.Equal(t, "field", e.Type)
					assert.Equal(t, LocationBody, e.Location)
				}
			}
		})
	}
}

func TestValidate_TaskID(t *testing.T) {
	app := newTestApp(fiber.MethodGet, "/tasks/:id", Validate(TaskID))

	status, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/tasks/67720c1e65c42f81c591e778", nil))
	assert.Equal(t, 200, status)

	status, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/tasks/not-an-id", nil))
	assert.Equal(t, 400, status)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Invalid ID format", body.Errors[0].Msg)
	assert.Equal(t, LocationParams, body.Errors[0].Location)
	assert.Equal(t, "not-an-id", body.Errors[0].Value)
}

func TestValidate_CompletedBodyAndQuery(t *testing.T) {
	app := newTestApp(fiber.MethodPut, "/tasks", Validate(TaskCompleted, TaskTitleOptional))

	for _, body := range []string{`{"completed":true}`, `{"completed":"false"}`, `{}`} {
		status, _ := do(t, app, jsonRequest(fiber.MethodPut, "/tasks", body))
		assert.Equal(t, 200, status, body)
	}

	status, body := do(t, app, jsonRequest(fiber.MethodPut, "/tasks", `{"completed":"yes","title":""}`))
	assert.Equal(t, 400, status)
	assert.Equal(t, []string{
		`completed: Completed must be a boolean or "true"/"false"`,
		"title: Title is required",
	}, paths(body.Errors))

	q := newTestApp(fiber.MethodGet, "/tasks", Validate(TaskCompletedQuery))
	for _, target := range []string{"/tasks", "/tasks?completed=true", "/tasks?completed=whatever"} {
		status, _ := do(t, q, httptest.NewRequest(fiber.MethodGet, target, nil))
		assert.Equal(t, 200, status, target)
	}
}

func TestValidate_UserCredentials(t *testing.T) {
	app := newTestApp(fiber.MethodPost, "/user-register", Validate(UserCredentials))

	status, _ := do(t, app, jsonRequest(fiber.MethodPost, "/user-register", `{"username":"alice","password":"secret1"}`))
	assert.Equal(t, 200, status)

	status, body := do(t, app, jsonRequest(fiber.MethodPost, "/user-register", `{"username":"al","password":"12345"}`))
	assert.Equal(t, 400, status)
	assert.Equal(t, []string{
		"username: Username must be at least 3 characters long",
		"password: Password must be at least 6 characters long",
	}, paths(body.Errors))

	status, body = do(t, app, jsonRequest(fiber.MethodPost, "/user-register", `{"username":12345,"password":"secret1"}`))
	assert.Equal(t, 400, status)
	assert.Equal(t, []string{"username: Username must be a string"}, paths(body.Errors))

	status, body = do(t, app, jsonRequest(fiber.MethodPost, "/user-register", `{}`))
	assert.Equal(t, 400, status)
	assert.Len(t, body.Errors, 5)
}

func TestValidate_PasswordByteLimit(t *testing.T) {
	app := newTestApp(fiber.MethodPost, "/user-register", Validate(UserCredentials))
	register := func(password string) (int, errorsBody) {
		body, err := json.Marshal(map[string]string{"username": "alice", "password": password})
		require.NoError(t, err)
		return do(t, app, jsonRequest(fiber.MethodPost, "/user-register", string(body)))
	}

	status, _ := register(strings.Repeat("a", auth.MaxPasswordBytes))
	assert.Equal(t, 200, status)

	status, body := register(strings.Repeat("a", 80))
	assert.Equal(t, 400, status)
	assert.Equal(t, []string{"password: Password must be at most 72 bytes long"}, paths(body.Errors))

	// 40 characters, 80 bytes
	status, body = register(strings.Repeat("é", 40))
	assert.Equal(t, 400, status)
	assert.Equal(t, []string{"password: Password must be at most 72 bytes long"}, paths(body.Errors))
}

func TestValidate_InvalidJSON(t *testing.T) {
	app := newTestApp(fiber.MethodPost, "/tasks", Validate(TaskTitle))

	status, body := do(t, app, jsonRequest(fiber.MethodPost, "/tasks", `{"title":`))
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid JSON body", body.Error)

	status, body = do(t, app, jsonRequest(fiber.MethodPost, "/tasks", `["title"]`))
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid JSON body", body.Error)
}

func TestValidate_NonJSONBodyIsEmpty(t *testing.T) {
	app := newTestApp(fiber.MethodPost, "/tasks", Validate(TaskTitle))

	req := httptest.NewRequest(fiber.MethodPost, "/tasks", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, body := do(t, app, req)
	assert.Equal(t, 400, status)
	assert.Equal(t, []string{"title: Title is required"}, paths(body.Errors))
}

func TestStringifyAndToBool(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "5", Stringify(float64(5)))
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, `["a"]`, Stringify([]any{"a"}))

	b, ok := ToBool("true")
	assert.True(t, ok)
	assert.True(t, b)
	_, ok = ToBool("TRUE")
	assert.False(t, ok)
	_, ok = ToBool(float64(1))
	assert.False(t, ok)
}

func TestJWTMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	app := fiber.New()
	app.Get("/private", JWTMiddleware(issuer), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(UserIDLocalsKey).(string))
	})

	token, err := issuer.Issue("67720c1e65c42f81c591e778", "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", 401, `{"error":"missing token"}`},
		{"no bearer prefix", token, 401, `{"error":"invalid token format"}`},
		{"bad token", "Bearer nope", 401, `{"error":"invalid or expired token"}`},
		{"ok", "Bearer " + token, 200, "67720c1e65c42f81c591e778"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			raw, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(raw))
		})
	}
}
