package repository

import (
	"context"
	"encoding/json"
)

// Storage keys. They match the keys the browser app used so exported data stays recognisable.
const (
	KeyWheels              = "tiny-decisions-wheels"
	KeyWheelHistory        = "tiny-decisions-wheel-history"
	KeyCoinFlipStats       = "tiny-decisions-coin-flip-stats"
	KeyCoinFlipHistory     = "tiny-decisions-coin-flip-history"
	KeyCoinFlipStyle       = "tiny-decisions-coin-flip-style"
	KeyRandomNumberConfig  = "tiny-decisions-random-number-config"
	KeyRandomNumberHistory = "tiny-decisions-random-number-history"
	KeyFingerConfig        = "tiny-decisions-finger-roulette-config"
	KeyFingerHistory       = "tiny-decisions-finger-roulette-history"
)

// Store is the JSON key/value persistence used by the decision services
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// BackupRepository exposes the whole key/value table for export and import
type BackupRepository interface {
	Keys(ctx context.Context) ([]string, error)
	Snapshot(ctx context.Context) (map[string]json.RawMessage, error)
	Restore(ctx context.Context, docs map[string]json.RawMessage) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	Store
	BackupRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
