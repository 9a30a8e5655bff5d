package domain

import (
	"time"
)

// User is the root entity; every other per-user row references it.
// UserID is the opaque external identity (a Discord snowflake in practice).
type User struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	SortMode  SortMode  `json:"epic_sort_mode" db:"epic_sort_mode"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Artist is the canonical dedup target for favourites. Names are unique
// ignoring case; ArtistID is a surrogate assigned by the store.
type Artist struct {
	ArtistID int64  `json:"artist_id" db:"artist_id"`
	Name     string `json:"name" db:"name"`
}

// Track is a row of the canonical catalog, keyed by the external catalog
// identity. ArtistName is a denormalized display string, not a reference
// into the artists table.
type Track struct {
	TrackID    string `json:"track_id" db:"track_id"`
	Title      string `json:"title" db:"title"`
	ArtistName string `json:"artist_name" db:"artist_name"`
	URL        string `json:"url" db:"url"`
}

// UserEpic is a user's claim on a track under a positive serial number.
// The same track may be claimed multiple times under different numbers.
// Title, ArtistName and URL are joined in from the tracks table on reads.
type UserEpic struct {
	UserID     string    `json:"user_id" db:"user_id"`
	TrackID    string    `json:"track_id" db:"track_id"`
	EpicNumber int       `json:"epic_number" db:"epic_number"`
	Position   *int      `json:"position,omitempty" db:"position"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
	Title      string    `json:"title,omitempty" db:"title"`
	ArtistName string    `json:"artist_name,omitempty" db:"artist_name"`
	URL        string    `json:"url,omitempty" db:"url"`
}

// WishlistEpic is a track a user wants to claim, independent of serial
// number; at most one per (user, track).
type WishlistEpic struct {
	UserID     string    `json:"user_id" db:"user_id"`
	TrackID    string    `json:"track_id" db:"track_id"`
	Note       *string   `json:"note,omitempty" db:"note"`
	Position   *int      `json:"position,omitempty" db:"position"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
	Title      string    `json:"title,omitempty" db:"title"`
	ArtistName string    `json:"artist_name,omitempty" db:"artist_name"`
	URL        string    `json:"url,omitempty" db:"url"`
}

// FavoriteArtist links a user to a canonical artist, optionally with an
// achievement badge. ArtistName is joined in on reads.
type FavoriteArtist struct {
	UserID     string `json:"user_id" db:"user_id"`
	ArtistID   int64  `json:"artist_id" db:"artist_id"`
	Badge      *Badge `json:"badge,omitempty" db:"badge"`
	Position   *int   `json:"position,omitempty" db:"position"`
	ArtistName string `json:"artist_name,omitempty" db:"name"`
}

// Profile is a user's collection overview assembled for display.
type Profile struct {
	User      User             `json:"user"`
	Epics     []UserEpic       `json:"epics"`
	Wishlist  []WishlistEpic   `json:"wishlist"`
	Favorites []FavoriteArtist `json:"favorites"`
}

// Stats holds row counts across the store.
type Stats struct {
	Users     int `json:"users" db:"users"`
	Artists   int `json:"artists" db:"artists"`
	Tracks    int `json:"tracks" db:"tracks"`
	Epics     int `json:"epics" db:"epics"`
	Wishes    int `json:"wishes" db:"wishes"`
	Favorites int `json:"favorites" db:"favorites"`
}
