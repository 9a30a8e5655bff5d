// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

// Application defaults
const (
	DefaultDBPath    = "soundmap.db"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultConfig    = "soundmap.toml"
)

// Query caps
const (
	// SearchLimitMax caps autocomplete suggestions; Discord shows at most 25.
	SearchLimitMax = 25
	// ProfileDisplayLimit is how many rows per section a profile embed shows.
	ProfileDisplayLimit = 15
)

// Database
const (
	UsersTable     = "users"
	ArtistsTable   = "artists"
	TracksTable    = "tracks"
	EpicsTable     = "user_epics"
	WishlistTable  = "user_wishlist_epics"
	FavoritesTable = "user_fav_artists"
)
