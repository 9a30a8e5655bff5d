package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TonnenFred/soundmap-bot/internal/constants"
	"github.com/TonnenFred/soundmap-bot/internal/domain"
)

const favoriteColumns = `
	ufa.user_id, ufa.artist_id, ufa.badge, ufa.position, a.name`

// SetFavorite marks an artist as one of the user's favourites, optionally
// with a badge. Upsert on (user, artist): re-adding updates the badge when
// one is supplied and leaves an existing badge untouched when badge is nil.
// The badge is validated against the closed set before anything is written,
// so a rejected value never reaches storage even transiently.
func (db *DB) SetFavorite(ctx context.Context, userID string, artistID int64, badge *domain.Badge) (*domain.FavoriteArtist, error) {
	if badge != nil && !badge.Valid() {
		return nil, fmt.Errorf("%w: unrecognized badge %q", domain.ErrValidation, *badge)
	}

	var fav *domain.FavoriteArtist
	err := db.RunInTx(ctx, func(tx *DB) error {
		ok, err := tx.userExists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: user %s", domain.ErrDependency, userID)
		}

		ok, err = tx.artistExists(ctx, artistID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: artist %d", domain.ErrDependency, artistID)
		}

		var exists bool
		err = tx.q.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM user_fav_artists WHERE user_id = ? AND artist_id = ?)`,
			userID, artistID)
		if err != nil {
			return err
		}

		if exists {
			if badge != nil {
				_, err = tx.q.ExecContext(ctx,
					`UPDATE user_fav_artists SET badge = ? WHERE user_id = ? AND artist_id = ?`,
					badge, userID, artistID)
				if err != nil {
					return err
				}
			}
		} else {
			if err := tx.bumpPositions(ctx, constants.FavoritesTable, userID); err != nil {
				return err
			}
			_, err = tx.q.ExecContext(ctx,
				`INSERT INTO user_fav_artists (user_id, artist_id, badge, position) VALUES (?, ?, ?, 1)`,
				userID, artistID, badge)
			if err != nil {
				return err
			}
		}

		fav, err = tx.getFavorite(ctx, userID, artistID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fav, nil
}

// RemoveFavorite unmarks a favourite artist and closes the gap in the
// manual ordering. Returns whether a row was removed; a missing favourite
// is not an error.
func (db *DB) RemoveFavorite(ctx context.Context, userID string, artistID int64) (bool, error) {
	removed := false
	err := db.RunInTx(ctx, func(tx *DB) error {
		var pos sql.NullInt64
		err := tx.q.GetContext(ctx, &pos,
			`SELECT position FROM user_fav_artists WHERE user_id = ? AND artist_id = ?`,
			userID, artistID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.q.ExecContext(ctx,
			`DELETE FROM user_fav_artists WHERE user_id = ? AND artist_id = ?`, userID, artistID)
		if err != nil {
			return err
		}
		removed = true

		if pos.Valid {
			return tx.compactPositions(ctx, constants.FavoritesTable, userID, int(pos.Int64))
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite (%s, %d): %w", userID, artistID, err)
	}
	return removed, nil
}

// ListFavorites returns a user's favourite artists joined with the artist
// name, manual positions first, nulls last, ties broken by name.
func (db *DB) ListFavorites(ctx context.Context, userID string) ([]*domain.FavoriteArtist, error) {
	query := `
		SELECT ` + favoriteColumns + `
		FROM user_fav_artists ufa
		JOIN artists a ON a.artist_id = ufa.artist_id
		WHERE ufa.user_id = ?
		ORDER BY ufa.position IS NULL, ufa.position ASC, a.name COLLATE NOCASE`

	var favs []*domain.FavoriteArtist
	if err := db.q.SelectContext(ctx, &favs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %s: %w", userID, err)
	}
	return favs, nil
}

// MoveFavorite relocates a favourite artist in the manual ordering, shifting
// the rows in between. The target position is clamped to the occupied range.
func (db *DB) MoveFavorite(ctx context.Context, userID string, artistID int64, newPosition int) error {
	return db.RunInTx(ctx, func(tx *DB) error {
		var pos sql.NullInt64
		err := tx.q.GetContext(ctx, &pos,
			`SELECT position FROM user_fav_artists WHERE user_id = ? AND artist_id = ?`,
			userID, artistID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: favorite (%s, %d)", domain.ErrNotFound, userID, artistID)
		}
		if err != nil {
			return err
		}

		oldPos := 1
		if pos.Valid {
			oldPos = int(pos.Int64)
		}

		maxPos, err := tx.maxPosition(ctx, constants.FavoritesTable, userID)
		if err != nil {
			return err
		}
		newPos := clamp(newPosition, 1, maxPos)
		if newPos == oldPos {
			return nil
		}

		if err := tx.shiftPositions(ctx, constants.FavoritesTable, userID, oldPos, newPos); err != nil {
			return err
		}
		_, err = tx.q.ExecContext(ctx,
			`UPDATE user_fav_artists SET position = ? WHERE user_id = ? AND artist_id = ?`,
			newPos, userID, artistID)
		return err
	})
}

// SortFavoritesByName renumbers the manual positions alphabetically by
// artist name.
func (db *DB) SortFavoritesByName(ctx context.Context, userID string) error {
	return db.RunInTx(ctx, func(tx *DB) error {
		var artistIDs []int64
		err := tx.q.SelectContext(ctx, &artistIDs, `
			SELECT ufa.artist_id
			FROM user_fav_artists ufa
			JOIN artists a ON a.artist_id = ufa.artist_id
			WHERE ufa.user_id = ?
			ORDER BY a.name COLLATE NOCASE`,
			userID)
		if err != nil {
			return err
		}

		for idx, artistID := range artistIDs {
			_, err := tx.q.ExecContext(ctx,
				`UPDATE user_fav_artists SET position = ? WHERE user_id = ? AND artist_id = ?`,
				idx+1, userID, artistID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *DB) getFavorite(ctx context.Context, userID string, artistID int64) (*domain.FavoriteArtist, error) {
	query := `
		SELECT ` + favoriteColumns + `
		FROM user_fav_artists ufa
		JOIN artists a ON a.artist_id = ufa.artist_id
		WHERE ufa.user_id = ? AND ufa.artist_id = ?`

	var fav domain.FavoriteArtist
	if err := db.q.GetContext(ctx, &fav, query, userID, artistID); err != nil {
		return nil, err
	}
	return &fav, nil
}
