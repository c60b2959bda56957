package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/balconyRewrap/taskbot/internal/models"

	"github.com/mattn/go-sqlite3"
)

// CreateUser registers a new user under the platform-assigned identity.
// Returns ErrUserExists if the identity is already registered.
func (db *DB) CreateUser(ctx context.Context, id int64, name, phone string) (*models.User, error) {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, name, phone) VALUES (?, ?, ?)
	`, id, name, phone)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return db.GetUser(ctx, id)
}

// GetUser retrieves a user by identity. Returns ErrUserNotFound if absent.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := db.QueryRowContext(ctx, `
		SELECT id, name, phone, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
