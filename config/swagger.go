package config

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"

	_ "github.com/biosecret/go-tasks/docs"
)

func AddSwaggerRoutes(app *fiber.App) {
	app.Get("/swagger.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})

	// setup swagger UI
	app.Get("/api-docs/*", swagger.New(swagger.Config{URL: "/swagger.json"}))
}
