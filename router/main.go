package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-tasks/handlers"
	"github.com/biosecret/go-tasks/middleware"
)

// Options controls optional parts of the route table.
type Options struct {
	// RequireAuth puts the JWT middleware in front of every /api/tasks route.
	RequireAuth bool
	Tokens      middleware.TokenParser
}

func SetupRoutes(app *fiber.App, h *handlers.Handler, opts Options) {
	app.Get("/", h.HandleHealthCheck)

	api := app.Group("/api")

	tasks := api.Group("/tasks")
	if opts.RequireAuth {
		tasks.Use(middleware.JWTMiddleware(opts.Tokens))
	}
	tasks.Post("", middleware.Validate(middleware.TaskDescription, middleware.TaskTitle), h.HandleCreateTask)
	tasks.Get("", middleware.Validate(middleware.TaskCompletedQuery), h.HandleAllTasks)
	tasks.Get("/events", h.HandleTaskEvents)
	tasks.Get("/:id", middleware.Validate(middleware.TaskID), h.HandleGetOneTask)
	tasks.Put("/:id", middleware.Validate(
		middleware.TaskID,
		middleware.TaskCompleted,
		middleware.TaskTitleOptional,
		middleware.TaskDescription,
	), h.HandleUpdateTask)
	tasks.Delete("/:id", middleware.Validate(middleware.TaskID), h.HandleDeleteTask)

	api.Post("/user-register", middleware.Validate(middleware.UserCredentials), h.RegisterHandler)
	api.Post("/user-login", middleware.Validate(middleware.UserCredentials), h.LoginHandler)
}
