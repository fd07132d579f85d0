package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ==================== Key/Value Tests ====================

func TestGet_MissingKeyKeepsDefault(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	got := sample{Name: "default", Count: 7}
	if err := repo.Get(ctx, "missing", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "default" || got.Count != 7 {
		t.Errorf("expected default to be preserved, got %+v", got)
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "k", sample{Name: "wheel", Count: 3}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got sample
	if err := repo.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "wheel" || got.Count != 3 {
		t.Errorf("unexpected value: %+v", got)
	}
}

func TestSet_Overwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "list", []int{1, 2}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set(ctx, "list", []int{3}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got []int
	if err := repo.Get(ctx, "list", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("expected [3], got %v", got)
	}
}

func TestGet_CorruptValueKeepsDefault(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.DB().Exec(`INSERT INTO kv (key, value) VALUES ('bad', '{not json')`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got := sample{Name: "default"}
	err := repo.Get(ctx, "bad", &got)
	if !errors.Is(err, ErrCorruptValue) {
		t.Fatalf("expected ErrCorruptValue, got %v", err)
	}
	if got.Name != "default" {
		t.Errorf("dest modified on decode failure: %+v", got)
	}
}

func TestGet_TypeMismatchKeepsDefault(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "k", map[string]string{"count": "not a number"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got := sample{Name: "default", Count: 1}
	if err := repo.Get(ctx, "k", &got); !errors.Is(err, ErrCorruptValue) {
		t.Fatalf("expected ErrCorruptValue, got %v", err)
	}
	if got.Count != 1 || got.Name != "default" {
		t.Errorf("dest modified on decode failure: %+v", got)
	}
}

func TestGet_RequiresPointer(t *testing.T) {
	repo := newTestRepo(t)
	var s sample
	if err := repo.Get(context.Background(), "k", s); err == nil {
		t.Error("expected error for non-pointer dest")
	}
	if err := repo.Get(context.Background(), "k", (*sample)(nil)); err == nil {
		t.Error("expected error for nil pointer dest")
	}
}

func TestGetRaw_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetRaw(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "k", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetRaw(ctx, "k"); err != ErrNotFound {
		t.Errorf("expected key to be gone, got %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

// ==================== Backup Tests ====================

func TestKeys_Sorted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, k := range []string{"b", "c", "a"} {
		if err := repo.Set(ctx, k, true); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("expected [a b c], got %v", keys)
	}
}

func TestKeys_Empty(t *testing.T) {
	repo := newTestRepo(t)
	keys, err := repo.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if keys == nil || len(keys) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", keys)
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	src := newTestRepo(t)
	ctx := context.Background()

	if err := src.Set(ctx, KeyCoinFlipStats, map[string]int{"headsCount": 2, "tailsCount": 5}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := src.Set(ctx, KeyWheels, []sample{{Name: "lunch"}}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	docs, err := src.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	dst := newTestRepo(t)
	if err := dst.Set(ctx, "stale", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := dst.Restore(ctx, docs); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	var wheels []sample
	if err := dst.Get(ctx, KeyWheels, &wheels); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(wheels) != 1 || wheels[0].Name != "lunch" {
		t.Errorf("unexpected wheels after restore: %+v", wheels)
	}
	if _, err := dst.GetRaw(ctx, "stale"); err != ErrNotFound {
		t.Errorf("restore should replace existing keys, got %v", err)
	}
}

func TestRestore_InvalidJSONRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "keep", "me"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	err := repo.Restore(ctx, map[string]json.RawMessage{"bad": json.RawMessage(`{`)})
	if !errors.Is(err, ErrCorruptValue) {
		t.Fatalf("expected ErrCorruptValue, got %v", err)
	}

	var got string
	if err := repo.Get(ctx, "keep", &got); err != nil || got != "me" {
		t.Errorf("expected original data after failed restore, got %q (%v)", got, err)
	}
}

// ==================== Settings Tests ====================

func TestSettings_Defaults(t *testing.T) {
	repo := newTestRepo(t)
	value, err := repo.GetSetting(context.Background(), "share_enabled")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "true" {
		t.Errorf("expected share_enabled=true, got %q", value)
	}
}

func TestSettings_SetGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SetSetting(ctx, "base_url", "http://192.168.1.5:8080"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	value, err := repo.GetSetting(ctx, "base_url")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "http://192.168.1.5:8080" {
		t.Errorf("unexpected value %q", value)
	}

	if _, err := repo.GetSetting(ctx, "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Lifecycle Tests ====================

func TestNew_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "td.db")
	ctx := context.Background()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.Set(ctx, "k", 42); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	repo.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	var got int
	if err := reopened.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "td.db"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestClose_NilDB(t *testing.T) {
	repo := &Repository{}
	if err := repo.Close(); err != nil {
		t.Errorf("Close on nil db should succeed, got %v", err)
	}
}
