package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds every runtime setting. It is built once at startup.
type Config struct {
	Port        string
	CORSOrigins []string

	DBDriver      string
	MongoURI      string
	MongoDatabase string
	PostgresURI   string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	TasksRequireAuth bool

	MQTTURL   string
	MQTTTopic string

	LogLevel string
	LogJSON  bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "3000")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("db_driver", DriverMongo)
	v.SetDefault("mongodb_uri", "")
	v.SetDefault("mongodb_database", "taskmanager")
	v.SetDefault("postgresql_uri", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", time.Hour)
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("tasks_require_auth", false)
	v.SetDefault("mqtt_url", "")
	v.SetDefault("mqtt_topic", "tasks")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)

	cfg := &Config{
		Port:             v.GetString("port"),
		CORSOrigins:      splitList(v.GetString("cors_origins")),
		DBDriver:         strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
		MongoURI:         v.GetString("mongodb_uri"),
		MongoDatabase:    v.GetString("mongodb_database"),
		PostgresURI:      v.GetString("postgresql_uri"),
		JWTSecret:        v.GetString("jwt_secret"),
		JWTTTL:           v.GetDuration("jwt_ttl"),
		BcryptCost:       v.GetInt("bcrypt_cost"),
		TasksRequireAuth: v.GetBool("tasks_require_auth"),
		MQTTURL:          v.GetString("mqtt_url"),
		MQTTTopic:        v.GetString("mqtt_topic"),
		LogLevel:         v.GetString("log_level"),
		LogJSON:          v.GetBool("log_json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("you must set your 'MONGODB_URI' environmental variable")
		}
	case DriverPostgres:
		if c.PostgresURI == "" {
			return errors.New("you must set your 'POSTGRESQL_URI' environmental variable")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("you must set your 'JWT_SECRET' environmental variable")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if len(c.CORSOrigins) == 0 {
		return errors.New("CORS_ORIGINS must not be empty")
	}
	if c.AllowsAnyOrigin() && len(c.CORSOrigins) > 1 {
		return errors.New("CORS_ORIGINS: '*' cannot be combined with other origins")
	}
	return nil
}

// AllowsAnyOrigin reports whether the CORS allow-list is the wildcard.
func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
