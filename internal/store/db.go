// Package store implements the catalog & collection store: durable,
// constraint-enforcing storage for users, the canonical artist/track catalog
// and the per-user epic, wishlist and favourite-artist collections.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// queryer is the sqlx surface shared by *sqlx.DB and *sqlx.Tx, so every
// store method works identically inside and outside a transaction.
type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type DB struct {
	q    queryer
	root *sqlx.DB
}

// New wraps an existing handle. Callers own schema setup; Open is the
// normal entry point.
func New(db *sqlx.DB) *DB {
	return &DB{q: db, root: db}
}

// Open opens (or creates) the SQLite database at dsn, applies the pragmas
// the store depends on and the schema. Safe to call on an existing file.
func Open(dsn string) (*DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// SQLite serializes writers anyway; a single connection also keeps the
	// per-connection pragmas below in force and makes :memory: databases
	// behave under the connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return New(db), nil
}

func (db *DB) Close() error {
	return db.root.Close()
}

// RunInTx executes fn with a store bound to a single transaction. Commits on
// nil return, rolls back otherwise. Calls on an already transactional store
// join the enclosing transaction.
func (db *DB) RunInTx(ctx context.Context, fn func(txDB *DB) error) error {
	if db.q != queryer(db.root) {
		return fn(db)
	}

	tx, err := db.root.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txDB := &DB{q: tx, root: db.root}
	if err := fn(txDB); err != nil {
		return err
	}
	return tx.Commit()
}

// bumpPositions shifts every row of a user in table down by one so a new
// entry can take position 1. table must be one of the known collection
// tables and is therefore trusted.
func (db *DB) bumpPositions(ctx context.Context, table, userID string) error {
	query := fmt.Sprintf("UPDATE %s SET position = position + 1 WHERE user_id = ?", table)
	_, err := db.q.ExecContext(ctx, query, userID)
	return err
}

// compactPositions closes the gap left by a removed row.
func (db *DB) compactPositions(ctx context.Context, table, userID string, removedPos int) error {
	query := fmt.Sprintf("UPDATE %s SET position = position - 1 WHERE user_id = ? AND position > ?", table)
	_, err := db.q.ExecContext(ctx, query, userID, removedPos)
	return err
}

// maxPosition returns the highest occupied position for a user in table,
// or 0 when the user has no rows there.
func (db *DB) maxPosition(ctx context.Context, table, userID string) (int, error) {
	query := fmt.Sprintf("SELECT COALESCE(MAX(position), 0) FROM %s WHERE user_id = ?", table)
	var max int
	err := db.q.GetContext(ctx, &max, query, userID)
	return max, err
}

// shiftPositions makes room at newPos by moving the rows between oldPos and
// newPos one step towards oldPos.
func (db *DB) shiftPositions(ctx context.Context, table, userID string, oldPos, newPos int) error {
	var query string
	if newPos < oldPos {
		query = fmt.Sprintf("UPDATE %s SET position = position + 1 WHERE user_id = ? AND position >= ? AND position < ?", table)
	} else {
		query = fmt.Sprintf("UPDATE %s SET position = position - 1 WHERE user_id = ? AND position <= ? AND position > ?", table)
	}
	_, err := db.q.ExecContext(ctx, query, userID, newPos, oldPos)
	return err
}
