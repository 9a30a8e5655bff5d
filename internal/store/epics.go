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

const epicColumns = `
	ue.user_id, ue.track_id, ue.epic_number, ue.position, ue.added_at,
	t.title, t.artist_name, t.url`

// AddEpic records a user's claim on a track under a serial number. The user
// and the track must already exist (UpsertUser / EnsureTrack); the same
// (user, track, number) triple can only be claimed once. When no explicit
// position is given the new Epic goes to the top of the manual ordering.
func (db *DB) AddEpic(ctx context.Context, userID, trackID string, epicNumber int, position *int) (*domain.UserEpic, error) {
	if epicNumber <= 0 {
		return nil, fmt.Errorf("%w: epic number must be positive, got %d", domain.ErrValidation, epicNumber)
	}
	if position != nil && *position < 1 {
		return nil, fmt.Errorf("%w: position must be >= 1, got %d", domain.ErrValidation, *position)
	}

	var epic *domain.UserEpic
	err := db.RunInTx(ctx, func(tx *DB) error {
		if err := tx.checkEpicDeps(ctx, userID, trackID); err != nil {
			return err
		}

		var exists bool
		err := tx.q.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM user_epics WHERE user_id = ? AND track_id = ? AND epic_number = ?)`,
			userID, trackID, epicNumber)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: epic (%s, %s, #%d)", domain.ErrConflict, userID, trackID, epicNumber)
		}

		pos := 1
		if position != nil {
			pos = *position
		} else if err := tx.bumpPositions(ctx, constants.EpicsTable, userID); err != nil {
			return err
		}

		_, err = tx.q.ExecContext(ctx,
			`INSERT INTO user_epics (user_id, track_id, epic_number, position, added_at) VALUES (?, ?, ?, ?, ?)`,
			userID, trackID, epicNumber, pos, time.Now().UTC())
		if err != nil {
			return err
		}

		epic, err = tx.getEpic(ctx, userID, trackID, epicNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	return epic, nil
}

// RemoveEpic deletes a claimed Epic and closes the gap in the manual
// ordering. Returns whether a row was removed; a missing Epic is not an
// error.
func (db *DB) RemoveEpic(ctx context.Context, userID, trackID string, epicNumber int) (bool, error) {
	removed := false
	err := db.RunInTx(ctx, func(tx *DB) error {
		var pos sql.NullInt64
		err := tx.q.GetContext(ctx, &pos,
			`SELECT position FROM user_epics WHERE user_id = ? AND track_id = ? AND epic_number = ?`,
			userID, trackID, epicNumber)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.q.ExecContext(ctx,
			`DELETE FROM user_epics WHERE user_id = ? AND track_id = ? AND epic_number = ?`,
			userID, trackID, epicNumber)
		if err != nil {
			return err
		}
		removed = true

		if pos.Valid {
			return tx.compactPositions(ctx, constants.EpicsTable, userID, int(pos.Int64))
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove epic (%s, %s, #%d): %w", userID, trackID, epicNumber, err)
	}
	return removed, nil
}

// ListEpics returns a user's Epics joined with track metadata. mode selects
// the ordering; modes registered by the command layer but unknown to the
// store fall back to add-time ordering.
func (db *DB) ListEpics(ctx context.Context, userID string, mode domain.SortMode) ([]*domain.UserEpic, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unrecognized sort mode %q", domain.ErrValidation, mode)
	}

	var order string
	switch mode {
	case domain.SortModePosition:
		order = `ue.position IS NULL, ue.position ASC, ue.added_at ASC`
	case domain.SortModeName:
		order = `t.artist_name COLLATE NOCASE, t.title COLLATE NOCASE, ue.epic_number ASC`
	default:
		order = `ue.added_at ASC, ue.epic_number ASC`
	}

	query := `
		SELECT ` + epicColumns + `
		FROM user_epics ue
		JOIN tracks t ON t.track_id = ue.track_id
		WHERE ue.user_id = ?
		ORDER BY ` + order

	var epics []*domain.UserEpic
	if err := db.q.SelectContext(ctx, &epics, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list epics for user %s: %w", userID, err)
	}
	return epics, nil
}

// ReorderEpic sets the manual position of one Epic without touching its
// neighbours. Use MoveEpic to relocate while keeping the ordering dense.
func (db *DB) ReorderEpic(ctx context.Context, userID, trackID string, epicNumber, newPosition int) error {
	if newPosition < 1 {
		return fmt.Errorf("%w: position must be >= 1, got %d", domain.ErrValidation, newPosition)
	}

	result, err := db.q.ExecContext(ctx,
		`UPDATE user_epics SET position = ? WHERE user_id = ? AND track_id = ? AND epic_number = ?`,
		newPosition, userID, trackID, epicNumber)
	if err != nil {
		return fmt.Errorf("failed to reorder epic (%s, %s, #%d): %w", userID, trackID, epicNumber, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: epic (%s, %s, #%d)", domain.ErrNotFound, userID, trackID, epicNumber)
	}
	return nil
}

// MoveEpic relocates an Epic in the manual ordering, shifting the rows in
// between so positions stay dense. The target position is clamped to the
// occupied range.
func (db *DB) MoveEpic(ctx context.Context, userID, trackID string, epicNumber, newPosition int) error {
	err := db.RunInTx(ctx, func(tx *DB) error {
		var pos sql.NullInt64
		err := tx.q.GetContext(ctx, &pos,
			`SELECT position FROM user_epics WHERE user_id = ? AND track_id = ? AND epic_number = ?`,
			userID, trackID, epicNumber)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: epic (%s, %s, #%d)", domain.ErrNotFound, userID, trackID, epicNumber)
		}
		if err != nil {
			return err
		}

		oldPos := 1
		if pos.Valid {
			oldPos = int(pos.Int64)
		}

		maxPos, err := tx.maxPosition(ctx, constants.EpicsTable, userID)
		if err != nil {
			return err
		}
		newPos := clamp(newPosition, 1, maxPos)
		if newPos == oldPos {
			return nil
		}

		if err := tx.shiftPositions(ctx, constants.EpicsTable, userID, oldPos, newPos); err != nil {
			return err
		}
		_, err = tx.q.ExecContext(ctx,
			`UPDATE user_epics SET position = ? WHERE user_id = ? AND track_id = ? AND epic_number = ?`,
			newPos, userID, trackID, epicNumber)
		return err
	})
	if err != nil {
		return err
	}
	return nil
}

// SortEpicsByName renumbers the manual positions alphabetically by artist,
// then title, then epic number.
func (db *DB) SortEpicsByName(ctx context.Context, userID string) error {
	return db.RunInTx(ctx, func(tx *DB) error {
		type key struct {
			TrackID    string `db:"track_id"`
			EpicNumber int    `db:"epic_number"`
		}

		var keys []key
		err := tx.q.SelectContext(ctx, &keys, `
			SELECT ue.track_id, ue.epic_number
			FROM user_epics ue
			JOIN tracks t ON t.track_id = ue.track_id
			WHERE ue.user_id = ?
			ORDER BY t.artist_name COLLATE NOCASE, t.title COLLATE NOCASE, ue.epic_number ASC`,
			userID)
		if err != nil {
			return err
		}

		for idx, k := range keys {
			_, err := tx.q.ExecContext(ctx,
				`UPDATE user_epics SET position = ? WHERE user_id = ? AND track_id = ? AND epic_number = ?`,
				idx+1, userID, k.TrackID, k.EpicNumber)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *DB) getEpic(ctx context.Context, userID, trackID string, epicNumber int) (*domain.UserEpic, error) {
	query := `
		SELECT ` + epicColumns + `
		FROM user_epics ue
		JOIN tracks t ON t.track_id = ue.track_id
		WHERE ue.user_id = ? AND ue.track_id = ? AND ue.epic_number = ?`

	var epic domain.UserEpic
	if err := db.q.GetContext(ctx, &epic, query, userID, trackID, epicNumber); err != nil {
		return nil, err
	}
	return &epic, nil
}

// checkEpicDeps verifies the referenced user and track rows exist before a
// dependent insert, so callers get a dependency error with the missing key
// instead of a bare constraint failure.
func (db *DB) checkEpicDeps(ctx context.Context, userID, trackID string) error {
	ok, err := db.userExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %s", domain.ErrDependency, userID)
	}

	ok, err = db.trackExists(ctx, trackID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: track %s", domain.ErrDependency, trackID)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
