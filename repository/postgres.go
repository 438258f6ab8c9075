package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/biosecret/go-tasks/models"
	"github.com/biosecret/go-tasks/utils"
)

// uniqueViolation is the SQLSTATE for a UNIQUE constraint failure
const uniqueViolation = "23505"

// PostgresTaskRepository stores tasks in the "tasks" table (see database.StartPostgreSQL).
type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	id := utils.GenerateID()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (id, title, description, completed, created_at) VALUES ($1, $2, $3, $4, $5)",
		id, task.Title, task.Description, task.Completed, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.ID = id
	return nil
}

func (r *PostgresTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := "SELECT id, title, description, completed, created_at FROM tasks"
	var args []any
	if filter.Completed != nil {
		query += " WHERE completed = $1"
		args = append(args, *filter.Completed)
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, title, description, completed, created_at FROM tasks WHERE id = $1", id,
	)
	return scanTask(row)
}

func (r *PostgresTaskRepository) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, title, description, completed, created_at FROM tasks WHERE id = $1 FOR UPDATE", id,
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}

	patch.Apply(task)
	if err := task.Validate(); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE tasks SET title=$1, description=$2, completed=$3 WHERE id=$4",
		task.Title, task.Description, task.Completed, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return task, nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row interface{ Scan(dest ...any) error }) (*models.Task, error) {
	var task models.Task
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// PostgresUserRepository stores users in the "users" table, username is UNIQUE.
type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	id := utils.GenerateID()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password) VALUES ($1, $2, $3)",
		id, user.Username, user.Password,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return nil
}

func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM users WHERE username = $1", username,
	).Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}
