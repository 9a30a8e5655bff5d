package store

import (
	"context"
	"errors"
	"testing"

	"github.com/TonnenFred/soundmap-bot/internal/domain"
)

func TestDB_AddWish(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "u1", "nora")
	seedTrack(t, db, "t1", "Nights", "Frank Ocean")

	note := "after the next drop"
	wish, err := db.AddWish(ctx, "u1", "t1", &note)
	if err != nil {
		t.Fatalf("AddWish failed: %v", err)
	}
	if wish.Note == nil || *wish.Note != note {
		t.Errorf("Expected note %q, got %v", note, wish.Note)
	}
	if wish.Position == nil || *wish.Position != 1 {
		t.Errorf("Expected position 1, got %v", wish.Position)
	}
	if wish.Title != "Nights" {
		t.Errorf("Expected joined title Nights, got %s", wish.Title)
	}

	// Re-adding is an upsert on the note, never a conflict.
	newNote := "trade pending"
	wish, err = db.AddWish(ctx, "u1", "t1", &newNote)
	if err != nil {
		t.Fatalf("AddWish upsert failed: %v", err)
	}
	if wish.Note == nil || *wish.Note != newNote {
		t.Errorf("Expected updated note %q, got %v", newNote, wish.Note)
	}
	stats, _ := db.GetStats(ctx)
	if stats.Wishes != 1 {
		t.Errorf("Expected 1 wish row, got %d", stats.Wishes)
	}

	// A nil note clears it.
	wish, err = db.AddWish(ctx, "u1", "t1", nil)
	if err != nil {
		t.Fatalf("AddWish nil note failed: %v", err)
	}
	if wish.Note != nil {
		t.Errorf("Expected cleared note, got %q", *wish.Note)
	}

	if _, err := db.AddWish(ctx, "ghost", "t1", nil); !errors.Is(err, domain.ErrDependency) {
		t.Errorf("Expected ErrDependency for missing user, got %v", err)
	}
	if _, err := db.AddWish(ctx, "u1", "ghost", nil); !errors.Is(err, domain.ErrDependency) {
		t.Errorf("Expected ErrDependency for missing track, got %v", err)
	}
}

func TestDB_RemoveWish(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "u1", "nora")
	seedTrack(t, db, "t1", "Nights", "Frank Ocean")
	seedTrack(t, db, "t2", "Chanel", "Frank Ocean")
	seedTrack(t, db, "t3", "Pink + White", "Frank Ocean")
	for _, trackID := range []string{"t1", "t2", "t3"} {
		if _, err := db.AddWish(ctx, "u1", trackID, nil); err != nil {
			t.Fatalf("AddWish %s failed: %v", trackID, err)
		}
	}
	// Current order: t3, t2, t1.

	removed, err := db.RemoveWish(ctx, "u1", "t2")
	if err != nil {
		t.Fatalf("RemoveWish failed: %v", err)
	}
	if !removed {
		t.Error("Expected removal to report true")
	}

	wishes, err := db.ListWishes(ctx, "u1")
	if err != nil {
		t.Fatalf("ListWishes failed: %v", err)
	}
	if len(wishes) != 2 {
		t.Fatalf("Expected 2 wishes, got %d", len(wishes))
	}
	for i, w := range wishes {
		if w.Position == nil || *w.Position != i+1 {
			t.Errorf("Expected dense position %d, got %v", i+1, w.Position)
		}
	}

	// Absent pairs report false without error.
	removed, err = db.RemoveWish(ctx, "u1", "t2")
	if err != nil {
		t.Fatalf("RemoveWish absent failed: %v", err)
	}
	if removed {
		t.Error("Expected removal of absent wish to report false")
	}
}

func TestDB_MoveWish(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "u1", "nora")
	for _, trackID := range []string{"t1", "t2", "t3"} {
		seedTrack(t, db, trackID, "Track "+trackID, "Various")
		if _, err := db.AddWish(ctx, "u1", trackID, nil); err != nil {
			t.Fatalf("AddWish %s failed: %v", trackID, err)
		}
	}
	// Current order: t3, t2, t1.

	if err := db.MoveWish(ctx, "u1", "t3", 3); err != nil {
		t.Fatalf("MoveWish failed: %v", err)
	}
	wishes, _ := db.ListWishes(ctx, "u1")
	if wishes[0].TrackID != "t2" || wishes[1].TrackID != "t1" || wishes[2].TrackID != "t3" {
		t.Errorf("Expected order t2,t1,t3, got %s,%s,%s",
			wishes[0].TrackID, wishes[1].TrackID, wishes[2].TrackID)
	}

	if err := db.MoveWish(ctx, "u1", "ghost", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDB_SortWishesByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "u1", "nora")
	seedTrack(t, db, "t1", "Solo", "Frank Ocean")
	seedTrack(t, db, "t2", "Alright", "Kendrick Lamar")
	seedTrack(t, db, "t3", "Chanel", "Frank Ocean")
	for _, trackID := range []string{"t1", "t2", "t3"} {
		if _, err := db.AddWish(ctx, "u1", trackID, nil); err != nil {
			t.Fatalf("AddWish %s failed: %v", trackID, err)
		}
	}

	if err := db.SortWishesByName(ctx, "u1"); err != nil {
		t.Fatalf("SortWishesByName failed: %v", err)
	}

	wishes, _ := db.ListWishes(ctx, "u1")
	want := []string{"t3", "t1", "t2"}
	for i, w := range wishes {
		if w.TrackID != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i+1, want[i], w.TrackID)
		}
	}
}
