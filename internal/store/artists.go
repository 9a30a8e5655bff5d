package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/TonnenFred/soundmap-bot/internal/domain"
)

// EnsureArtist resolves a display name to the canonical artist row,
// inserting it on first reference. Lookup ignores case: "drake" resolves to
// an existing "Drake" row and keeps its original casing. The insert-or-fetch
// is a single atomic statement, so concurrent callers racing on the same
// name (in any casing) all observe the one committed row.
func (db *DB) EnsureArtist(ctx context.Context, name string) (*domain.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: artist name must not be empty", domain.ErrValidation)
	}

	query := `
		INSERT INTO artists (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET name = name
		RETURNING artist_id, name`

	var artist domain.Artist
	if err := db.q.GetContext(ctx, &artist, query, name); err != nil {
		return nil, fmt.Errorf("failed to ensure artist %q: %w", name, err)
	}
	return &artist, nil
}

// GetArtist returns the artist with the given surrogate id.
func (db *DB) GetArtist(ctx context.Context, artistID int64) (*domain.Artist, error) {
	var artist domain.Artist
	err := db.q.GetContext(ctx, &artist, `SELECT artist_id, name FROM artists WHERE artist_id = ?`, artistID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: artist %d", domain.ErrNotFound, artistID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query artist %d: %w", artistID, err)
	}
	return &artist, nil
}

// GetArtistByName looks up an artist by name, ignoring case. Unlike
// EnsureArtist it never inserts.
func (db *DB) GetArtistByName(ctx context.Context, name string) (*domain.Artist, error) {
	name = strings.TrimSpace(name)

	var artist domain.Artist
	err := db.q.GetContext(ctx, &artist, `SELECT artist_id, name FROM artists WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: artist %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query artist %q: %w", name, err)
	}
	return &artist, nil
}

// artistExists reports whether an artist row exists, for dependency checks
// inside write transactions.
func (db *DB) artistExists(ctx context.Context, artistID int64) (bool, error) {
	var exists bool
	err := db.q.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM artists WHERE artist_id = ?)`, artistID)
	return exists, err
}
