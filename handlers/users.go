package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-tasks/auth"
	"github.com/biosecret/go-tasks/middleware"
	"github.com/biosecret/go-tasks/models"
	"github.com/biosecret/go-tasks/repository"
)

const msgUserExists = "User already exists"

func credentials(c *fiber.Ctx) (string, string, error) {
	body, err := middleware.Body(c)
	if err != nil {
		return "", "", err
	}
	var username, password string
	if v, ok := middleware.BodyString(body, "username"); ok {
		username = *v
	}
	if v, ok := middleware.BodyString(body, "password"); ok {
		password = *v
	}
	return username, password, nil
}

// RegisterHandler godoc
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body credentialsRequest true "Credentials"
// @Success 201 {object} userEnvelope
// @Failure 400 {object} errorResponse
// @Failure 500 {object} internalErrorResponse
// @Router /user-register [post]
func (h *Handler) RegisterHandler(c *fiber.Ctx) error {
	username, password, err := credentials(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body"})
	}
	ctx := c.UserContext()

	// fast path for a friendly message, the store's unique constraint decides races
	_, err = h.users.FindByUsername(ctx, username)
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgUserExists})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return h.internalError(c, err)
	}

	hashed, err := h.hasher.Hash(password)
	if err != nil {
		return h.internalError(c, err)
	}

	user := &models.User{Username: username, Password: hashed}
	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgUserExists})
		}
		return h.internalError(c, err)
	}

	h.log.WithField("user_id", user.ID).Info("user registered")
	return c.Status(fiber.StatusCreated).JSON(userEnvelope{User: *user})
}

// LoginHandler godoc
// @Summary Log in
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body credentialsRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} internalErrorResponse
// @Router /user-login [post]
func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	username, password, err := credentials(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body"})
	}

	user, err := h.users.FindByUsername(c.UserContext(), username)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	} else if err != nil {
		return h.internalError(c, err)
	}

	if err := h.hasher.Compare(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid password"})
		}
		return h.internalError(c, err)
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return h.internalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(loginResponse{
		Message: "User logged in successfully",
		Token:   token,
	})
}
