package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TonnenFred/soundmap-bot/internal/constants"
	"github.com/TonnenFred/soundmap-bot/internal/domain"
)

const wishColumns = `
	uw.user_id, uw.track_id, uw.note, uw.position, uw.added_at,
	t.title, t.artist_name, t.url`

// AddWish puts a track on the user's wishlist, or updates the note when the
// wish already exists: re-adding most plausibly means "update my note", so
// this is an upsert, never a conflict. New wishes go to the top of the
// manual ordering.
func (db *DB) AddWish(ctx context.Context, userID, trackID string, note *string) (*domain.WishlistEpic, error) {
	var wish *domain.WishlistEpic
	err := db.RunInTx(ctx, func(tx *DB) error {
		if err := tx.checkEpicDeps(ctx, userID, trackID); err != nil {
			return err
		}

		var exists bool
		err := tx.q.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM user_wishlist_epics WHERE user_id = ? AND track_id = ?)`,
			userID, trackID)
		if err != nil {
			return err
		}

		if exists {
			_, err = tx.q.ExecContext(ctx,
				`UPDATE user_wishlist_epics SET note = ? WHERE user_id = ? AND track_id = ?`,
				note, userID, trackID)
		} else {
			if err := tx.bumpPositions(ctx, constants.WishlistTable, userID); err != nil {
				return err
			}
			_, err = tx.q.ExecContext(ctx,
				`INSERT INTO user_wishlist_epics (user_id, track_id, note, position, added_at) VALUES (?, ?, ?, 1, ?)`,
				userID, trackID, note, time.Now().UTC())
		}
		if err != nil {
			return err
		}

		wish, err = tx.getWish(ctx, userID, trackID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wish, nil
}

// RemoveWish deletes a wishlist entry and closes the gap in the manual
// ordering. Returns whether a row was removed; a missing wish is not an
// error.
func (db *DB) RemoveWish(ctx context.Context, userID, trackID string) (bool, error) {
	removed := false
	err := db.RunInTx(ctx, func(tx *DB) error {
		var pos sql.NullInt64
		err := tx.q.GetContext(ctx, &pos,
			`SELECT position FROM user_wishlist_epics WHERE user_id = ? AND track_id = ?`,
			userID, trackID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.q.ExecContext(ctx,
			`DELETE FROM user_wishlist_epics WHERE user_id = ? AND track_id = ?`, userID, trackID)
		if err != nil {
			return err
		}
		removed = true

		if pos.Valid {
			return tx.compactPositions(ctx, constants.WishlistTable, userID, int(pos.Int64))
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove wish (%s, %s): %w", userID, trackID, err)
	}
	return removed, nil
}

// ListWishes returns a user's wishlist joined with track metadata, manual
// positions first, nulls last, ties broken by add time.
func (db *DB) ListWishes(ctx context.Context, userID string) ([]*domain.WishlistEpic, error) {
	query := `
		SELECT ` + wishColumns + `
		FROM user_wishlist_epics uw
		JOIN tracks t ON t.track_id = uw.track_id
		WHERE uw.user_id = ?
		ORDER BY uw.position IS NULL, uw.position ASC, uw.added_at ASC`

	var wishes []*domain.WishlistEpic
	if err := db.q.SelectContext(ctx, &wishes, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list wishes for user %s: %w", userID, err)
	}
	return wishes, nil
}

// MoveWish relocates a wishlist entry in the manual ordering, shifting the
// rows in between. The target position is clamped to the occupied range.
func (db *DB) MoveWish(ctx context.Context, userID, trackID string, newPosition int) error {
	return db.RunInTx(ctx, func(tx *DB) error {
		var pos sql.NullInt64
		err := tx.q.GetContext(ctx, &pos,
			`SELECT position FROM user_wishlist_epics WHERE user_id = ? AND track_id = ?`,
			userID, trackID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: wish (%s, %s)", domain.ErrNotFound, userID, trackID)
		}
		if err != nil {
			return err
		}

		oldPos := 1
		if pos.Valid {
			oldPos = int(pos.Int64)
		}

		maxPos, err := tx.maxPosition(ctx, constants.WishlistTable, userID)
		if err != nil {
			return err
		}
		newPos := clamp(newPosition, 1, maxPos)
		if newPos == oldPos {
			return nil
		}

		if err := tx.shiftPositions(ctx, constants.WishlistTable, userID, oldPos, newPos); err != nil {
			return err
		}
		_, err = tx.q.ExecContext(ctx,
			`UPDATE user_wishlist_epics SET position = ? WHERE user_id = ? AND track_id = ?`,
			newPos, userID, trackID)
		return err
	})
}

// SortWishesByName renumbers the manual positions alphabetically by artist,
// then title.
func (db *DB) SortWishesByName(ctx context.Context, userID string) error {
	return db.RunInTx(ctx, func(tx *DB) error {
		var trackIDs []string
		err := tx.q.SelectContext(ctx, &trackIDs, `
			SELECT uw.track_id
			FROM user_wishlist_epics uw
			JOIN tracks t ON t.track_id = uw.track_id
			WHERE uw.user_id = ?
			ORDER BY t.artist_name COLLATE NOCASE, t.title COLLATE NOCASE`,
			userID)
		if err != nil {
			return err
		}

		for idx, trackID := range trackIDs {
			_, err := tx.q.ExecContext(ctx,
				`UPDATE user_wishlist_epics SET position = ? WHERE user_id = ? AND track_id = ?`,
				idx+1, userID, trackID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *DB) getWish(ctx context.Context, userID, trackID string) (*domain.WishlistEpic, error) {
	query := `
		SELECT ` + wishColumns + `
		FROM user_wishlist_epics uw
		JOIN tracks t ON t.track_id = uw.track_id
		WHERE uw.user_id = ? AND uw.track_id = ?`

	var wish domain.WishlistEpic
	if err := db.q.GetContext(ctx, &wish, query, userID, trackID); err != nil {
		return nil, err
	}
	return &wish, nil
}
