package services

import (
	"context"

	"github.com/abrezinsky/tinydecisions/internal/models"
)

// WheelServicer defines the interface for wheel operations
type WheelServicer interface {
	List(ctx context.Context) ([]models.Wheel, error)
	Get(ctx context.Context, id string) (*models.Wheel, error)
	Create(ctx context.Context, title string) (*models.Wheel, error)
	Update(ctx context.Context, id string, upd WheelUpdate) (*models.Wheel, error)
	Delete(ctx context.Context, id string) error
	AddOption(ctx context.Context, wheelID, label string) (*models.WheelOption, error)
	BatchAddOptions(ctx context.Context, wheelID, text string) ([]models.WheelOption, error)
	UpdateOption(ctx context.Context, wheelID, optionID string, upd OptionUpdate) (*models.WheelOption, error)
	DeleteOption(ctx context.Context, wheelID, optionID string) error
	UpdateSettings(ctx context.Context, wheelID string, upd SettingsUpdate) (*models.Wheel, error)
	ResetDrawn(ctx context.Context, wheelID string) (*models.Wheel, error)
	Segments(ctx context.Context, wheelID string) (*WheelLayout, error)
	Spin(ctx context.Context, wheelID string) (*SpinResult, error)
	History(ctx context.Context, wheelID string, limit int) ([]models.WheelHistoryItem, error)
	SetBroadcaster(b Broadcaster)
}

// CoinServicer defines the interface for coin flip operations
type CoinServicer interface {
	State(ctx context.Context) (*CoinState, error)
	Styles() []models.CoinStyle
	SetStyle(ctx context.Context, id string) (*models.CoinStyle, error)
	Flip(ctx context.Context) (*FlipResult, error)
	ResetStats(ctx context.Context) error
	ClearHistory(ctx context.Context) error
	SetBroadcaster(b Broadcaster)
}

// NumberServicer defines the interface for random number operations
type NumberServicer interface {
	State(ctx context.Context) (*NumberState, error)
	UpdateConfig(ctx context.Context, cfg models.RandomNumberConfig) (*models.RandomNumberConfig, error)
	Generate(ctx context.Context, override *models.RandomNumberConfig) (*models.RandomNumberHistoryItem, error)
	ClearHistory(ctx context.Context) error
	SetBroadcaster(b Broadcaster)
}

// FingerServicer defines the interface for finger roulette operations
type FingerServicer interface {
	State(ctx context.Context) (*FingerState, error)
	AddPlayer(pos models.Position, name string) (*models.FingerPlayer, error)
	RemovePlayer(id string) error
	RenamePlayer(id, name string) (*models.FingerPlayer, error)
	ClearPlayers() error
	UpdateConfig(ctx context.Context, cfg models.FingerRouletteConfig) (*models.FingerRouletteConfig, error)
	Select(ctx context.Context) (*SelectResult, error)
	ClearHistory(ctx context.Context) error
	SetBroadcaster(b Broadcaster)
}

// ShareServicer defines the interface for LAN sharing
type ShareServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	SetDefaultBaseURL(ctx context.Context, baseURL string)
	IsEnabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
	Info(ctx context.Context) (*ShareInfo, error)
	QRImage(ctx context.Context) ([]byte, error)
}

// StatusServicer reports which tools are busy
type StatusServicer interface {
	Status() Status
}

// Ensure concrete types implement interfaces
var (
	_ WheelServicer  = (*WheelService)(nil)
	_ CoinServicer   = (*CoinService)(nil)
	_ NumberServicer = (*NumberService)(nil)
	_ FingerServicer = (*FingerService)(nil)
	_ ShareServicer  = (*ShareService)(nil)
	_ StatusServicer = (*StatusService)(nil)
)
