package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql
	"github.com/sirupsen/logrus"
)

// StartPostgreSQL opens the connection, checks it and creates the tables if missing.
func StartPostgreSQL(ctx context.Context, uri string, log logrus.FieldLogger) (*sql.DB, error) {
	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot connect to PostgreSQL: %w", err)
	}
	log.Info("connected to PostgreSQL")

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	log.Debug("tables created or already exist")

	return db, nil
}

// schema leaves username and title unbounded; the only length limit is the
// description, which the API also enforces.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(24) PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id VARCHAR(24) PRIMARY KEY,
	title TEXT NOT NULL,
	description VARCHAR(100) NOT NULL DEFAULT '',
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS tasks_completed_idx ON tasks (completed);
`

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// ClosePostgreSQL closes the connection pool.
func ClosePostgreSQL(db *sql.DB, log logrus.FieldLogger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.WithError(err).Error("close PostgreSQL")
		return
	}
	log.Info("database connection closed")
}
