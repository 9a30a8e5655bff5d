package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TonnenFred/soundmap-bot/internal/domain"
)

// UpsertUser creates the user row on first interaction or refreshes the
// display name on later ones. An empty username never clobbers a previously
// stored one, so ensure-style calls with just the id stay safe to repeat.
func (db *DB) UpsertUser(ctx context.Context, userID, username string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id must not be empty", domain.ErrValidation)
	}

	query := `
		INSERT INTO users (user_id, username, epic_sort_mode, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username = CASE WHEN excluded.username <> '' THEN excluded.username ELSE users.username END
		RETURNING user_id, username, epic_sort_mode, created_at`

	var user domain.User
	err := db.q.GetContext(ctx, &user, query,
		userID, strings.TrimSpace(username), domain.SortModeAdded, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", userID, err)
	}
	return &user, nil
}

// GetUser returns the user row for userID.
func (db *DB) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT user_id, username, epic_sort_mode, created_at FROM users WHERE user_id = ?`

	var user domain.User
	err := db.q.GetContext(ctx, &user, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %s: %w", userID, err)
	}
	return &user, nil
}

// SetSortMode stores the user's preferred Epic ordering. The user must have
// been created via UpsertUser first; there is no implicit upsert here.
func (db *DB) SetSortMode(ctx context.Context, userID string, mode domain.SortMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unrecognized sort mode %q", domain.ErrValidation, mode)
	}

	result, err := db.q.ExecContext(ctx, `UPDATE users SET epic_sort_mode = ? WHERE user_id = ?`, mode, userID)
	if err != nil {
		return fmt.Errorf("failed to set sort mode for user %s: %w", userID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	return nil
}

// ListUsers returns every registered user, oldest first.
func (db *DB) ListUsers(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT user_id, username, epic_sort_mode, created_at FROM users ORDER BY created_at ASC, user_id ASC`

	var users []*domain.User
	if err := db.q.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// userExists reports whether a user row exists, for dependency checks
// inside write transactions.
func (db *DB) userExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := db.q.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = ?)`, userID)
	return exists, err
}
