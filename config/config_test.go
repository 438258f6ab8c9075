package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DRIVER":  "memory",
		"JWT_SECRET": "s3cret",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.AllowsAnyOrigin())
	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.Equal(t, "taskmanager", cfg.MongoDatabase)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.TasksRequireAuth)
	assert.Empty(t, cfg.MQTTURL)
	assert.Equal(t, "tasks", cfg.MQTTTopic)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT":               "8080",
		"CORS_ORIGINS":       "https://a.example.com, https://b.example.com ,",
		"DB_DRIVER":          " Postgres ",
		"POSTGRESQL_URI":     "postgres://localhost/tasks",
		"JWT_SECRET":         "s3cret",
		"JWT_TTL":            "30m",
		"BCRYPT_COST":        "12",
		"TASKS_REQUIRE_AUTH": "true",
		"MQTT_URL":           "tcp://localhost:1883",
		"LOG_JSON":           "true",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.AllowsAnyOrigin())
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.TasksRequireAuth)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTURL)
	assert.True(t, cfg.LogJSON)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			CORSOrigins: []string{"*"},
			DBDriver:    DriverMemory,
			JWTSecret:   "s3cret",
			JWTTTL:      time.Hour,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"mongo without uri", func(c *Config) { c.DBDriver = DriverMongo }, "MONGODB_URI"},
		{"postgres without uri", func(c *Config) { c.DBDriver = DriverPostgres }, "POSTGRESQL_URI"},
		{"unknown driver", func(c *Config) { c.DBDriver = "sqlite" }, "unknown DB_DRIVER"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, "JWT_TTL"},
		{"no origins", func(c *Config) { c.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"wildcard mixed with origins", func(c *Config) { c.CORSOrigins = []string{"*", "https://x.example.com"} }, "cannot be combined"},
		{"explicit origins", func(c *Config) { c.CORSOrigins = []string{"https://x.example.com"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_RejectsMixedWildcard(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DRIVER":    "memory",
		"JWT_SECRET":   "s3cret",
		"CORS_ORIGINS": "*,https://x.example.com",
	})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ORIGINS")
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , ,"))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
}
