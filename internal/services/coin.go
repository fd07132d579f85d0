package services

import (
	"context"
	"sync"
	"time"

	"github.com/abrezinsky/tinydecisions/internal/engine"
	"github.com/abrezinsky/tinydecisions/internal/errors"
	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/internal/models"
	"github.com/abrezinsky/tinydecisions/internal/presets"
	"github.com/abrezinsky/tinydecisions/internal/repository"
)

// ToolHistoryLimit is how many entries the coin, number and finger histories keep
const ToolHistoryLimit = 50

const coinBusyKey = "coin"

// CoinState is everything the coin page shows
type CoinState struct {
	Style    models.CoinStyle             `json:"style"`
	Stats    models.CoinFlipStats         `json:"stats"`
	History  []models.CoinFlipHistoryItem `json:"history"`
	Flipping bool                         `json:"flipping"`
}

// FlipResult is returned when a flip is triggered
type FlipResult struct {
	Started       bool            `json:"started"`
	State         string          `json:"state"`
	RevealAfterMS int64           `json:"revealAfterMs,omitempty"`
	Result        models.CoinSide `json:"result,omitempty"`
	Emoji         string          `json:"emoji,omitempty"`
}

// CoinService flips the coin and keeps its statistics
type CoinService struct {
	log          logger.Logger
	store        repository.Store
	presets      presets.Presets
	rt           Runtime
	flipDuration time.Duration
	broadcaster  Broadcaster

	mu   sync.Mutex
	busy *busyFlags
}

// NewCoinService creates a new CoinService
func NewCoinService(log logger.Logger, store repository.Store, p presets.Presets, rt Runtime, flipDuration time.Duration) *CoinService {
	return &CoinService{
		log:          log,
		store:        store,
		presets:      p,
		rt:           rt.withDefaults(),
		flipDuration: flipDuration,
		busy:         newBusyFlags(),
	}
}

// SetBroadcaster sets the broadcaster for sending results to clients
func (s *CoinService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *CoinService) style(ctx context.Context) (models.CoinStyle, error) {
	style := s.presets.CoinStyles[0]
	if err := s.store.Get(ctx, repository.KeyCoinFlipStyle, &style); err != nil {
		return models.CoinStyle{}, errors.Wrap(err, errors.ErrInternal, "failed to load coin style")
	}
	return style, nil
}

func (s *CoinService) stats(ctx context.Context) (models.CoinFlipStats, error) {
	var stats models.CoinFlipStats
	if err := s.store.Get(ctx, repository.KeyCoinFlipStats, &stats); err != nil {
		return stats, errors.Wrap(err, errors.ErrInternal, "failed to load coin stats")
	}
	return stats, nil
}

func (s *CoinService) history(ctx context.Context) ([]models.CoinFlipHistoryItem, error) {
	history := []models.CoinFlipHistoryItem{}
	if err := s.store.Get(ctx, repository.KeyCoinFlipHistory, &history); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load coin history")
	}
	return history, nil
}

// State returns the style, statistics and history
func (s *CoinService) State(ctx context.Context) (*CoinState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	style, err := s.style(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return &CoinState{Style: style, Stats: stats, History: history, Flipping: s.IsFlipping()}, nil
}

// Styles returns the coin styles to choose from
func (s *CoinService) Styles() []models.CoinStyle {
	return s.presets.CoinStyles
}

// SetStyle selects the coin faces by style id
func (s *CoinService) SetStyle(ctx context.Context, id string) (*models.CoinStyle, error) {
	style, ok := s.presets.CoinStyle(id)
	if !ok {
		return nil, ErrUnknownCoinStyle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, repository.KeyCoinFlipStyle, style); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to save coin style")
	}
	return &style, nil
}

// Flip tosses the coin and schedules the reveal. Flipping while a flip is
// pending does nothing.
func (s *CoinService) Flip(ctx context.Context) (*FlipResult, error) {
	if !s.busy.tryAcquire(coinBusyKey) {
		return &FlipResult{Started: false, State: StateBusy}, nil
	}

	s.mu.Lock()
	style, err := s.style(ctx)
	s.mu.Unlock()
	if err != nil {
		s.busy.release(coinBusyKey)
		return nil, err
	}

	side := models.CoinSide(engine.FlipCoin(s.rt.Source))
	emoji := style.HeadsEmoji
	if side == models.CoinTails {
		emoji = style.TailsEmoji
	}

	s.log.Info("Coin flipped", "result", side)

	result := &FlipResult{
		Started:       true,
		State:         revealState(s.flipDuration),
		RevealAfterMS: s.flipDuration.Milliseconds(),
		Result:        side,
		Emoji:         emoji,
	}
	s.rt.reveal(s.flipDuration, func() {
		s.resolveFlip(side, *result)
	})
	return result, nil
}

func (s *CoinService) resolveFlip(side models.CoinSide, result FlipResult) {
	defer s.busy.release(coinBusyKey)
	ctx := context.Background()

	s.mu.Lock()
	err := s.recordFlip(ctx, side)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("Failed to record coin flip", "error", err)
		return
	}

	if s.broadcaster != nil {
		result.State = StateResolved
		result.RevealAfterMS = 0
		s.broadcaster.BroadcastMessage(MsgCoinResult, &result)
	}
}

func (s *CoinService) recordFlip(ctx context.Context, side models.CoinSide) error {
	stats, err := s.stats(ctx)
	if err != nil {
		return err
	}
	history, err := s.history(ctx)
	if err != nil {
		return err
	}

	if side == models.CoinHeads {
		stats.HeadsCount++
	} else {
		stats.TailsCount++
	}
	history = prepend(history, models.CoinFlipHistoryItem{
		ID:        s.rt.IDs.NewID(),
		Result:    side,
		Timestamp: s.rt.nowMillis(),
	}, ToolHistoryLimit)

	if err := s.store.Set(ctx, repository.KeyCoinFlipStats, stats); err != nil {
		return err
	}
	return s.store.Set(ctx, repository.KeyCoinFlipHistory, history)
}

// IsFlipping reports whether a flip is waiting for its reveal
func (s *CoinService) IsFlipping() bool {
	return s.busy.isBusy(coinBusyKey)
}

// ResetStats zeroes the heads and tails counters
func (s *CoinService) ResetStats(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, repository.KeyCoinFlipStats, models.CoinFlipStats{}); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to reset coin stats")
	}
	return nil
}

// ClearHistory removes all recorded flips
func (s *CoinService) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, repository.KeyCoinFlipHistory, []models.CoinFlipHistoryItem{}); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to clear coin history")
	}
	return nil
}
