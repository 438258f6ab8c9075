package main

import (
	"github.com/biosecret/go-tasks/app"
	_ "github.com/biosecret/go-tasks/docs"
)

// @title Task Manager API
// @version 1.0.0
// @description Task and user management API
// @BasePath /api
func main() {
	// setup and run app
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
