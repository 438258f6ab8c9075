package handlers

import (
	"github.com/biosecret/go-tasks/middleware"
	"github.com/biosecret/go-tasks/models"
)

// Request and response shapes referenced by the swagger annotations.

type createTaskRequest struct {
	Title       string `json:"title" example:"Buy milk"`
	Description string `json:"description,omitempty" example:"Two liters, semi-skimmed"`
}

type updateTaskRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
}

type credentialsRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret1"`
}

type taskEnvelope struct {
	Task models.Task `json:"task"`
}

type userEnvelope struct {
	User models.User `json:"user"`
}

type loginResponse struct {
	Message string `json:"message" example:"User logged in successfully"`
	Token   string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message" example:"Task deleted successfully"`
}

type errorResponse struct {
	Error string `json:"error" example:"Task dont exists"`
}

type internalErrorResponse struct {
	Error   string `json:"error" example:"Internal server error"`
	ErrorID string `json:"errorId" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
}

type validationErrors struct {
	Errors []middleware.FieldError `json:"errors"`
}
