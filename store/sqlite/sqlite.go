// Package sqlite provides a SQLite-backed UserStore for deployments that
// keep user records in a local database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/MrEthical07/authgate"
)

// Store is a SQLite-backed implementation of [authgate.UserStore].
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema exists.
//
// Open may return an error when input validation, dependency calls, or security checks fail.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close describes the close operation and its observable behavior.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL DEFAULT '',
		picture     TEXT NOT NULL DEFAULT '',
		role        TEXT NOT NULL,
		google_id   TEXT NOT NULL DEFAULT '',
		last_login  INTEGER NOT NULL DEFAULT 0,
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init users table schema: %w", err)
	}
	return nil
}

const userColumns = "id, email, name, picture, role, google_id, last_login, created_at, updated_at"

// FindByEmail describes the findbyemail operation and its observable behavior.
func (s *Store) FindByEmail(ctx context.Context, email string) (authgate.UserRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// FindByID describes the findbyid operation and its observable behavior.
func (s *Store) FindByID(ctx context.Context, id string) (authgate.UserRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// Create describes the create operation and its observable behavior.
func (s *Store) Create(ctx context.Context, input authgate.CreateUserInput) (authgate.UserRecord, error) {
	now := time.Now()
	user := authgate.UserRecord{
		ID:        uuid.NewString(),
		Email:     input.Email,
		Name:      input.Name,
		Picture:   input.Picture,
		Role:      input.Role,
		GoogleID:  input.GoogleID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Name, user.Picture, string(user.Role),
		user.GoogleID, unixOrZero(user.LastLogin), now.Unix(), now.Unix())
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Update applies the non-nil fields of update and returns the fresh record.
//
// Update may return an error when input validation, dependency calls, or security checks fail.
func (s *Store) Update(ctx context.Context, id string, update authgate.UserUpdate) (authgate.UserRecord, error) {
	assignments := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if update.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Picture != nil {
		assignments = append(assignments, "picture = ?")
		args = append(args, *update.Picture)
	}
	if update.GoogleID != nil {
		assignments = append(assignments, "google_id = ?")
		args = append(args, *update.GoogleID)
	}
	if update.Role != nil {
		assignments = append(assignments, "role = ?")
		args = append(args, string(*update.Role))
	}
	if update.LastLogin != nil {
		assignments = append(assignments, "last_login = ?")
		args = append(args, update.LastLogin.Unix())
	}

	if len(assignments) > 0 {
		assignments = append(assignments, "updated_at = ?")
		args = append(args, time.Now().Unix())
		args = append(args, id)

		result, err := s.db.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(assignments, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return authgate.UserRecord{}, fmt.Errorf("update user: %w", err)
		}
		affected, err := result.RowsAffected()
		if err == nil && affected == 0 {
			return authgate.UserRecord{}, authgate.ErrUserNotFound
		}
	}

	return s.FindByID(ctx, id)
}

// Count describes the count operation and its observable behavior.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanUser(row *sql.Row) (authgate.UserRecord, error) {
	var user authgate.UserRecord
	var role string
	var lastLogin, createdAt, updatedAt int64

	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Picture, &role,
		&user.GoogleID, &lastLogin, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return authgate.UserRecord{}, authgate.ErrUserNotFound
		}
		return authgate.UserRecord{}, fmt.Errorf("scan user: %w", err)
	}

	user.Role = authgate.Role(role)
	if lastLogin > 0 {
		user.LastLogin = time.Unix(lastLogin, 0)
	}
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return user, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
