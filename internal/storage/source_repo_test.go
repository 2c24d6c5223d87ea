package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() unexpected error: %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)
	if err := Migrate(db); err != nil {
		t.Errorf("second Migrate() unexpected error: %v", err)
	}
}

func TestSourceRepo_UpsertAndGet(t *testing.T) {
	repo := NewSourceRepo(testDB(t))
	ctx := context.Background()

	src := &Source{
		ID:         "eigYEYR0N_w",
		Title:      "Lock picking 101",
		URL:        "https://youtu.be/eigYEYR0N_w",
		Transcript: "today we are going to talk about pin tumbler locks",
		Hash:       "hash-1",
	}

	updated, err := repo.Upsert(ctx, src)
	if err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}
	if !updated {
		t.Error("Upsert() of new source returned updated=false")
	}

	got, err := repo.GetByID(ctx, src.ID)
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if got.Title != src.Title || got.Transcript != src.Transcript || got.Hash != src.Hash {
		t.Errorf("GetByID() = %+v, want fields from %+v", got, src)
	}

	// Same hash: skipped.
	updated, err = repo.Upsert(ctx, src)
	if err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}
	if updated {
		t.Error("Upsert() with unchanged hash returned updated=true")
	}

	// Changed transcript: written.
	src.Transcript = "today we cover wafer locks instead"
	src.Hash = "hash-2"
	updated, err = repo.Upsert(ctx, src)
	if err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}
	if !updated {
		t.Error("Upsert() with new hash returned updated=false")
	}

	got, err = repo.GetByID(ctx, src.ID)
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if got.Hash != "hash-2" {
		t.Errorf("GetByID() hash = %q, want %q", got.Hash, "hash-2")
	}
}

func TestSourceRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSourceRepo(testDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestSourceRepo_ListAll(t *testing.T) {
	repo := NewSourceRepo(testDB(t))
	ctx := context.Background()

	for _, id := range []string{"bbb", "aaa", "ccc"} {
		_, err := repo.Upsert(ctx, &Source{ID: id, Title: id, URL: "https://youtu.be/" + id, Transcript: "text " + id, Hash: "h-" + id})
		if err != nil {
			t.Fatalf("Upsert(%s) unexpected error: %v", id, err)
		}
	}

	sources, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() unexpected error: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("ListAll() returned %d sources, want 3", len(sources))
	}
	// Ordered by ID for deterministic builds.
	for i, want := range []string{"aaa", "bbb", "ccc"} {
		if sources[i].ID != want {
			t.Errorf("ListAll()[%d].ID = %q, want %q", i, sources[i].ID, want)
		}
	}
}

func TestSourceRepo_SetChunkCount(t *testing.T) {
	repo := NewSourceRepo(testDB(t))
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &Source{ID: "a1", Title: "t", URL: "u", Transcript: "x", Hash: "h"})
	if err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}

	if err := repo.SetChunkCount(ctx, "a1", 17); err != nil {
		t.Fatalf("SetChunkCount() unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if got.ChunkCount != 17 {
		t.Errorf("ChunkCount = %d, want 17", got.ChunkCount)
	}

	if err := repo.SetChunkCount(ctx, "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetChunkCount() on missing source error = %v, want ErrNotFound", err)
	}
}
