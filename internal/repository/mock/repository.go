package mock

import (
	"context"
	"encoding/json"

	"github.com/abrezinsky/tinydecisions/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SetErrors[repository.KeyCoinFlipHistory] = errors.New("disk full")
//	svc := services.NewCoinService(log, mockRepo, ...)
type Repository struct {
	repository.FullRepository

	// ===== Key/Value Errors =====
	GetError    error
	SetError    error
	DeleteError error
	// SetErrors fails Set only for the listed keys
	SetErrors map[string]error

	// ===== Backup Errors =====
	KeysError     error
	SnapshotError error
	RestoreError  error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error

	// SetCalls counts successful and failed Set calls per key
	SetCalls map[string]int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
		SetErrors:      make(map[string]error),
		SetCalls:       make(map[string]int),
	}
}

// ===== Key/Value Methods =====

func (m *Repository) Get(ctx context.Context, key string, dest any) error {
	if m.GetError != nil {
		return m.GetError
	}
	return m.FullRepository.Get(ctx, key, dest)
}

func (m *Repository) Set(ctx context.Context, key string, value any) error {
	m.SetCalls[key]++
	if m.SetError != nil {
		return m.SetError
	}
	if err, ok := m.SetErrors[key]; ok && err != nil {
		return err
	}
	return m.FullRepository.Set(ctx, key, value)
}

func (m *Repository) Delete(ctx context.Context, key string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	return m.FullRepository.Delete(ctx, key)
}

// ===== Backup Methods =====

func (m *Repository) Keys(ctx context.Context) ([]string, error) {
	if m.KeysError != nil {
		return nil, m.KeysError
	}
	return m.FullRepository.Keys(ctx)
}

func (m *Repository) Snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	if m.SnapshotError != nil {
		return nil, m.SnapshotError
	}
	return m.FullRepository.Snapshot(ctx)
}

func (m *Repository) Restore(ctx context.Context, docs map[string]json.RawMessage) error {
	if m.RestoreError != nil {
		return m.RestoreError
	}
	return m.FullRepository.Restore(ctx, docs)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}
