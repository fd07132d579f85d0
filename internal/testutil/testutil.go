package testutil

import (
	"path/filepath"
	"testing"

	"github.com/abrezinsky/tinydecisions/internal/repository"
)

// NewTestRepository opens a fresh in-memory database with the schema applied
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()
	return openRepository(t, ":memory:")
}

// NewFileRepository opens a database file in a temp dir and returns its path
// so a test can reopen it with ReopenRepository
func NewFileRepository(t *testing.T) (*repository.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tinydecisions.db")
	return openRepository(t, path), path
}

// ReopenRepository closes repo and opens path again, as a restart would
func ReopenRepository(t *testing.T, repo *repository.Repository, path string) *repository.Repository {
	t.Helper()
	if err := repo.Close(); err != nil {
		t.Fatalf("failed to close repository: %v", err)
	}
	return openRepository(t, path)
}

func openRepository(t *testing.T, dsn string) *repository.Repository {
	t.Helper()
	repo, err := repository.New(dsn)
	if err != nil {
		t.Fatalf("failed to open test repository %s: %v", dsn, err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}
