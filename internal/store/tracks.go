package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/TonnenFred/soundmap-bot/internal/constants"
	"github.com/TonnenFred/soundmap-bot/internal/domain"
)

// EnsureTrack upserts a catalog row keyed by the external track id. The
// catalog resolver is authoritative, so title, artist name and url are
// overwritten with the latest supplied values when the row already exists;
// the id itself never changes. Idempotent and safe to retry.
func (db *DB) EnsureTrack(ctx context.Context, track domain.Track) (*domain.Track, error) {
	if track.TrackID == "" {
		return nil, fmt.Errorf("%w: track id must not be empty", domain.ErrValidation)
	}
	if strings.TrimSpace(track.Title) == "" {
		return nil, fmt.Errorf("%w: track title must not be empty", domain.ErrValidation)
	}

	query := `
		INSERT INTO tracks (track_id, title, artist_name, url)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			title = excluded.title,
			artist_name = excluded.artist_name,
			url = excluded.url
		RETURNING track_id, title, artist_name, url`

	var stored domain.Track
	err := db.q.GetContext(ctx, &stored, query, track.TrackID, track.Title, track.ArtistName, track.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure track %s: %w", track.TrackID, err)
	}
	return &stored, nil
}

// GetTrack returns the catalog row for trackID.
func (db *DB) GetTrack(ctx context.Context, trackID string) (*domain.Track, error) {
	var track domain.Track
	err := db.q.GetContext(ctx, &track, `SELECT track_id, title, artist_name, url FROM tracks WHERE track_id = ?`, trackID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: track %s", domain.ErrNotFound, trackID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query track %s: %w", trackID, err)
	}
	return &track, nil
}

// SearchTracks suggests catalog tracks matching term, prefix matches first,
// then substring matches, each block ordered by artist then title. Results
// are capped at constants.SearchLimitMax regardless of limit.
func (db *DB) SearchTracks(ctx context.Context, term string, limit int) ([]*domain.Track, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 || limit > constants.SearchLimitMax {
		limit = constants.SearchLimitMax
	}

	prefixQuery := `
		SELECT track_id, title, artist_name, url
		FROM tracks
		WHERE title LIKE ? OR artist_name LIKE ?
		ORDER BY artist_name COLLATE NOCASE, title COLLATE NOCASE
		LIMIT ?`

	var tracks []*domain.Track
	prefix := term + "%"
	if err := db.q.SelectContext(ctx, &tracks, prefixQuery, prefix, prefix, limit); err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}

	if len(tracks) < limit {
		substringQuery := `
			SELECT track_id, title, artist_name, url
			FROM tracks
			WHERE (title LIKE ? OR artist_name LIKE ?)
			  AND title NOT LIKE ? AND artist_name NOT LIKE ?
			ORDER BY artist_name COLLATE NOCASE, title COLLATE NOCASE
			LIMIT ?`

		var rest []*domain.Track
		substring := "%" + term + "%"
		err := db.q.SelectContext(ctx, &rest, substringQuery, substring, substring, prefix, prefix, limit-len(tracks))
		if err != nil {
			return nil, fmt.Errorf("failed to search tracks: %w", err)
		}
		tracks = append(tracks, rest...)
	}

	return tracks, nil
}

// trackExists reports whether a catalog row exists, for dependency checks
// inside write transactions.
func (db *DB) trackExists(ctx context.Context, trackID string) (bool, error) {
	var exists bool
	err := db.q.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM tracks WHERE track_id = ?)`, trackID)
	return exists, err
}
