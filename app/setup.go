package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/biosecret/go-tasks/auth"
	"github.com/biosecret/go-tasks/config"
	"github.com/biosecret/go-tasks/database"
	"github.com/biosecret/go-tasks/events"
	"github.com/biosecret/go-tasks/handlers"
	"github.com/biosecret/go-tasks/repository"
	"github.com/biosecret/go-tasks/router"
	"github.com/biosecret/go-tasks/utils"
)

const shutdownTimeout = 10 * time.Second

// Stores bundles the repositories and the hook that releases their connection.
type Stores struct {
	Tasks repository.TaskRepository
	Users repository.UserRepository
	Close func()
}

// NewApp builds the fiber application with every middleware and route.
func NewApp(cfg *config.Config, stores Stores, broker *events.Broker, log *logrus.Logger) *fiber.App {
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	h := handlers.New(handlers.Options{
		Tasks:  stores.Tasks,
		Users:  stores.Users,
		Hasher: auth.NewPasswordHasher(cfg.BcryptCost),
		Tokens: tokens,
		Events: broker,
		Logger: log,
	})

	app := fiber.New(fiber.Config{
		AppName:      "task-manager",
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: !cfg.AllowsAnyOrigin(),
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
		Output: log.WriterLevel(logrus.InfoLevel),
	}))

	router.SetupRoutes(app, h, router.Options{
		RequireAuth: cfg.TasksRequireAuth,
		Tokens:      tokens,
	})
	config.AddSwaggerRoutes(app)

	return app
}

// OpenStores connects the backend chosen by DB_DRIVER.
func OpenStores(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (Stores, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, db, err := database.StartMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return Stores{}, err
		}
		return Stores{
			Tasks: repository.NewMongoTaskRepository(db),
			Users: repository.NewMongoUserRepository(db),
			Close: func() { database.CloseMongo(client, log) },
		}, nil
	case config.DriverPostgres:
		db, err := database.StartPostgreSQL(ctx, cfg.PostgresURI, log)
		if err != nil {
			return Stores{}, err
		}
		return Stores{
			Tasks: repository.NewPostgresTaskRepository(db),
			Users: repository.NewPostgresUserRepository(db),
			Close: func() { database.ClosePostgreSQL(db, log) },
		}, nil
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on exit")
		return Stores{
			Tasks: repository.NewMemoryTaskRepository(),
			Users: repository.NewMemoryUserRepository(),
			Close: func() {},
		}, nil
	}
	return Stores{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

// startMQTTBridge forwards task events to MQTT when MQTT_URL is set.
func startMQTTBridge(ctx context.Context, cfg *config.Config, broker *events.Broker, log logrus.FieldLogger) (func(), error) {
	if cfg.MQTTURL == "" {
		return func() {}, nil
	}

	hostname, _ := os.Hostname()
	client, topic, err := events.ConnectMQTT(cfg.MQTTURL, "task-manager-"+hostname, cfg.MQTTTopic)
	if err != nil {
		return nil, err
	}
	log.WithField("topic", topic).Info("publishing task events to MQTT")

	bridge := events.NewMQTTBridge(client, topic, log)
	go bridge.Run(ctx, broker.Subscribe(64))

	return func() { client.Disconnect(250) }, nil
}

// SetupAndRunApp starts the service and blocks until SIGINT/SIGTERM.
func SetupAndRunApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := utils.NewLogger(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := OpenStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	broker := events.NewBroker()
	defer broker.Close()

	disconnect, err := startMQTTBridge(ctx, cfg, broker, log)
	if err != nil {
		return err
	}
	defer disconnect()

	app := NewApp(cfg, stores, broker, log)

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on :%s", cfg.Port)
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	// open event streams only end when their subscription closes
	broker.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	return nil
}
