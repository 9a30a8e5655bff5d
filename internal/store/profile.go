package store

import (
	"context"
	"fmt"

	"github.com/TonnenFred/soundmap-bot/internal/domain"
)

// GetProfile assembles a user's collection overview: the user row plus
// epics, wishlist and favourites joined for display. All four reads run in
// one transaction so the overview is a consistent snapshot.
func (db *DB) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.RunInTx(ctx, func(tx *DB) error {
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		profile.User = *user

		mode := user.SortMode
		if !mode.Valid() {
			mode = domain.SortModeAdded
		}
		epics, err := tx.ListEpics(ctx, userID, mode)
		if err != nil {
			return err
		}
		wishes, err := tx.ListWishes(ctx, userID)
		if err != nil {
			return err
		}
		favs, err := tx.ListFavorites(ctx, userID)
		if err != nil {
			return err
		}

		for _, e := range epics {
			profile.Epics = append(profile.Epics, *e)
		}
		for _, w := range wishes {
			profile.Wishlist = append(profile.Wishlist, *w)
		}
		for _, f := range favs {
			profile.Favorites = append(profile.Favorites, *f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetStats returns row counts across all six tables.
func (db *DB) GetStats(ctx context.Context) (*domain.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM artists) AS artists,
			(SELECT COUNT(*) FROM tracks) AS tracks,
			(SELECT COUNT(*) FROM user_epics) AS epics,
			(SELECT COUNT(*) FROM user_wishlist_epics) AS wishes,
			(SELECT COUNT(*) FROM user_fav_artists) AS favorites`

	var stats domain.Stats
	if err := db.q.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &stats, nil
}
