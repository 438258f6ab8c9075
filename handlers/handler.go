package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/biosecret/go-tasks/events"
	"github.com/biosecret/go-tasks/repository"
)

const defaultKeepAlive = 15 * time.Second

// PasswordHasher hashes passwords on register and checks them on login.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs the access token returned by login.
type TokenIssuer interface {
	Issue(userID, username string) (string, error)
}

// Options are the collaborators a Handler needs.
type Options struct {
	Tasks  repository.TaskRepository
	Users  repository.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Events *events.Broker
	Logger logrus.FieldLogger

	// KeepAlive is the SSE comment interval, 15s when zero.
	KeepAlive time.Duration
}

// Handler serves every API route.
type Handler struct {
	tasks     repository.TaskRepository
	users     repository.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	events    *events.Broker
	log       logrus.FieldLogger
	keepAlive time.Duration
	now       func() time.Time
}

func New(opts Options) *Handler {
	keepAlive := opts.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	broker := opts.Events
	if broker == nil {
		broker = events.NewBroker()
	}
	return &Handler{
		tasks:     opts.Tasks,
		users:     opts.Users,
		hasher:    opts.Hasher,
		tokens:    opts.Tokens,
		events:    broker,
		log:       opts.Logger,
		keepAlive: keepAlive,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HandleHealthCheck answers the root liveness probe.
func (h *Handler) HandleHealthCheck(c *fiber.Ctx) error {
	return c.SendString("Todo ok")
}

// internalError logs err under a fresh id and answers 500 with only that id.
func (h *Handler) internalError(c *fiber.Ctx, err error) error {
	return writeInternalError(c, h.log, err)
}

func writeInternalError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	id := uuid.NewString()
	log.WithFields(logrus.Fields{
		"error_id": id,
		"method":   c.Method(),
		"path":     c.Path(),
	}).WithError(err).Error("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(internalErrorResponse{
		Error:   "Internal server error",
		ErrorID: id,
	})
}

// ErrorHandler is the app-wide fallback for errors returned by handlers and recovered panics.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return writeInternalError(c, log, err)
	}
}
