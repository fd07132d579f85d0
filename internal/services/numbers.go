package services

import (
	"context"
	"sync"

	"github.com/abrezinsky/tinydecisions/internal/engine"
	"github.com/abrezinsky/tinydecisions/internal/errors"
	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/internal/models"
	"github.com/abrezinsky/tinydecisions/internal/repository"
)

// DefaultNumberConfig draws one number from 1 to 100
var DefaultNumberConfig = models.RandomNumberConfig{
	Min:            1,
	Max:            100,
	Count:          1,
	AllowDuplicate: true,
	Ordered:        false,
}

// NumberState is the saved configuration and recent draws
type NumberState struct {
	Config  models.RandomNumberConfig        `json:"config"`
	History []models.RandomNumberHistoryItem `json:"history"`
}

// NumberService draws random integers
type NumberService struct {
	log         logger.Logger
	store       repository.Store
	rt          Runtime
	broadcaster Broadcaster

	mu sync.Mutex
}

// NewNumberService creates a new NumberService
func NewNumberService(log logger.Logger, store repository.Store, rt Runtime) *NumberService {
	return &NumberService{log: log, store: store, rt: rt.withDefaults()}
}

// SetBroadcaster sets the broadcaster for sending results to clients
func (s *NumberService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *NumberService) config(ctx context.Context) (models.RandomNumberConfig, error) {
	cfg := DefaultNumberConfig
	if err := s.store.Get(ctx, repository.KeyRandomNumberConfig, &cfg); err != nil {
		return cfg, errors.Wrap(err, errors.ErrInternal, "failed to load number config")
	}
	return cfg, nil
}

func (s *NumberService) history(ctx context.Context) ([]models.RandomNumberHistoryItem, error) {
	history := []models.RandomNumberHistoryItem{}
	if err := s.store.Get(ctx, repository.KeyRandomNumberHistory, &history); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load number history")
	}
	return history, nil
}

// State returns the configuration and history
func (s *NumberService) State(ctx context.Context) (*NumberState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.config(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return &NumberState{Config: cfg, History: history}, nil
}

// UpdateConfig saves the configuration as given. It is checked when drawing,
// so a half-edited range can still be stored.
func (s *NumberService) UpdateConfig(ctx context.Context, cfg models.RandomNumberConfig) (*models.RandomNumberConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, repository.KeyRandomNumberConfig, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to save number config")
	}
	return &cfg, nil
}

// Generate draws numbers with override, or the saved configuration when
// override is nil. Invalid ranges fail before anything is recorded.
func (s *NumberService) Generate(ctx context.Context, override *models.RandomNumberConfig) (*models.RandomNumberHistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.config(ctx)
	if err != nil {
		return nil, err
	}
	if override != nil {
		cfg = *override
	}

	results, err := engine.DrawNumbers(s.rt.Source, engine.NumberRequest{
		Min:            cfg.Min,
		Max:            cfg.Max,
		Count:          cfg.Count,
		AllowDuplicate: cfg.AllowDuplicate,
		Ordered:        cfg.Ordered,
	})
	if err != nil {
		return nil, drawError(err)
	}

	history, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	item := models.RandomNumberHistoryItem{
		ID:        s.rt.IDs.NewID(),
		Config:    cfg,
		Results:   results,
		Timestamp: s.rt.nowMillis(),
	}
	history = prepend(history, item, ToolHistoryLimit)
	if err := s.store.Set(ctx, repository.KeyRandomNumberHistory, history); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to save number history")
	}

	s.log.Info("Numbers drawn", "min", cfg.Min, "max", cfg.Max, "count", cfg.Count)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(MsgNumbersResult, item)
	}
	return &item, nil
}

// ClearHistory removes all recorded draws
func (s *NumberService) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, repository.KeyRandomNumberHistory, []models.RandomNumberHistoryItem{}); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to clear number history")
	}
	return nil
}
