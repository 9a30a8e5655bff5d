package store

const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	epic_sort_mode TEXT NOT NULL DEFAULT 'added',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS artists (
	artist_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL COLLATE NOCASE UNIQUE
);

CREATE TABLE IF NOT EXISTS tracks (
	track_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	artist_name TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS user_epics (
	user_id TEXT NOT NULL,
	track_id TEXT NOT NULL,
	epic_number INTEGER NOT NULL,
	position INTEGER,
	added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, track_id, epic_number),
	FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
	FOREIGN KEY (track_id) REFERENCES tracks(track_id)
);

CREATE INDEX IF NOT EXISTS idx_user_epics_user ON user_epics(user_id, position);

CREATE TABLE IF NOT EXISTS user_wishlist_epics (
	user_id TEXT NOT NULL,
	track_id TEXT NOT NULL,
	note TEXT,
	position INTEGER,
	added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, track_id),
	FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
	FOREIGN KEY (track_id) REFERENCES tracks(track_id)
);

CREATE INDEX IF NOT EXISTS idx_wishlist_user ON user_wishlist_epics(user_id, position);

CREATE TABLE IF NOT EXISTS user_fav_artists (
	user_id TEXT NOT NULL,
	artist_id INTEGER NOT NULL,
	badge TEXT,
	position INTEGER,
	PRIMARY KEY (user_id, artist_id),
	FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
	FOREIGN KEY (artist_id) REFERENCES artists(artist_id)
);

CREATE INDEX IF NOT EXISTS idx_fav_artists_user ON user_fav_artists(user_id, position);
`
