package store

import (
	"context"
	"errors"
	"testing"

	"github.com/TonnenFred/soundmap-bot/internal/domain"
)

func TestDB_UpsertUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user, err := db.UpsertUser(ctx, "u1", "nora")
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if user.Username != "nora" {
		t.Errorf("Expected username nora, got %s", user.Username)
	}
	if user.SortMode != domain.SortModeAdded {
		t.Errorf("Expected default sort mode %s, got %s", domain.SortModeAdded, user.SortMode)
	}
	if user.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	// Repeating with a new name refreshes it.
	user, err = db.UpsertUser(ctx, "u1", "nora_v2")
	if err != nil {
		t.Fatalf("UpsertUser update failed: %v", err)
	}
	if user.Username != "nora_v2" {
		t.Errorf("Expected username nora_v2, got %s", user.Username)
	}

	// An empty name on a later call keeps the stored one.
	user, err = db.UpsertUser(ctx, "u1", "")
	if err != nil {
		t.Fatalf("UpsertUser with empty name failed: %v", err)
	}
	if user.Username != "nora_v2" {
		t.Errorf("Expected stored username kept, got %q", user.Username)
	}

	if _, err := db.UpsertUser(ctx, "", "ghost"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Expected ErrValidation for empty user id, got %v", err)
	}
}

func TestDB_GetUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "u1", "nora")

	user, err := db.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.UserID != "u1" {
		t.Errorf("Expected user id u1, got %s", user.UserID)
	}

	if _, err := db.GetUser(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDB_SetSortMode(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "u1", "nora")

	if err := db.SetSortMode(ctx, "u1", domain.SortModeName); err != nil {
		t.Fatalf("SetSortMode failed: %v", err)
	}
	user, err := db.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.SortMode != domain.SortModeName {
		t.Errorf("Expected sort mode %s, got %s", domain.SortModeName, user.SortMode)
	}

	// Unknown modes are rejected before touching the row.
	if err := db.SetSortMode(ctx, "u1", domain.SortMode("shuffled")); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
	user, _ = db.GetUser(ctx, "u1")
	if user.SortMode != domain.SortModeName {
		t.Errorf("Sort mode changed by rejected call: %s", user.SortMode)
	}

	// No implicit upsert for unknown users.
	if err := db.SetSortMode(ctx, "missing", domain.SortModeAdded); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDB_ListUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "u1", "nora")
	seedUser(t, db, "u2", "miles")

	users, err := db.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
	if users[0].UserID != "u1" || users[1].UserID != "u2" {
		t.Errorf("Expected oldest-first order u1,u2, got %s,%s", users[0].UserID, users[1].UserID)
	}
}
