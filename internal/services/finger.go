package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/tinydecisions/internal/engine"
	"github.com/abrezinsky/tinydecisions/internal/errors"
	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/internal/models"
	"github.com/abrezinsky/tinydecisions/internal/presets"
	"github.com/abrezinsky/tinydecisions/internal/repository"
)

const fingerBusyKey = "finger"

// DefaultFingerConfig picks a single winner
var DefaultFingerConfig = models.FingerRouletteConfig{WinnerCount: 1}

// FingerState is the current board, the last winners and recent rounds.
// Players live only in memory.
type FingerState struct {
	Config    models.FingerRouletteConfig        `json:"config"`
	Players   []models.FingerPlayer              `json:"players"`
	Winners   []models.FingerPlayer              `json:"winners"`
	History   []models.FingerRouletteHistoryItem `json:"history"`
	Selecting bool                               `json:"selecting"`
}

// SelectResult is returned when a finger roulette round is triggered
type SelectResult struct {
	Started       bool                  `json:"started"`
	State         string                `json:"state"`
	RevealAfterMS int64                 `json:"revealAfterMs,omitempty"`
	Winners       []models.FingerPlayer `json:"winners,omitempty"`
}

// FingerService runs finger roulette rounds
type FingerService struct {
	log            logger.Logger
	store          repository.Store
	presets        presets.Presets
	rt             Runtime
	selectDuration time.Duration
	broadcaster    Broadcaster

	mu      sync.Mutex
	busy    *busyFlags
	players []models.FingerPlayer
	winners []models.FingerPlayer
}

// NewFingerService creates a new FingerService
func NewFingerService(log logger.Logger, store repository.Store, p presets.Presets, rt Runtime, selectDuration time.Duration) *FingerService {
	return &FingerService{
		log:            log,
		store:          store,
		presets:        p,
		rt:             rt.withDefaults(),
		selectDuration: selectDuration,
		busy:           newBusyFlags(),
		players:        []models.FingerPlayer{},
		winners:        []models.FingerPlayer{},
	}
}

// SetBroadcaster sets the broadcaster for sending results to clients
func (s *FingerService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *FingerService) config(ctx context.Context) (models.FingerRouletteConfig, error) {
	cfg := DefaultFingerConfig
	if err := s.store.Get(ctx, repository.KeyFingerConfig, &cfg); err != nil {
		return cfg, errors.Wrap(err, errors.ErrInternal, "failed to load finger roulette config")
	}
	return cfg, nil
}

func (s *FingerService) history(ctx context.Context) ([]models.FingerRouletteHistoryItem, error) {
	history := []models.FingerRouletteHistoryItem{}
	if err := s.store.Get(ctx, repository.KeyFingerHistory, &history); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load finger roulette history")
	}
	return history, nil
}

// State returns the board and history
func (s *FingerService) State(ctx context.Context) (*FingerState, error) {
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
	return &FingerState{
		Config:    cfg,
		Players:   append([]models.FingerPlayer{}, s.players...),
		Winners:   append([]models.FingerPlayer{}, s.winners...),
		History:   history,
		Selecting: s.IsSelecting(),
	}, nil
}

// AddPlayer puts a finger on the board. Players without a name are called P1, P2, ...
func (s *FingerService) AddPlayer(pos models.Position, name string) (*models.FingerPlayer, error) {
	if s.IsSelecting() {
		return nil, ErrSelectionInProgress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("P%d", len(s.players)+1)
	}
	p := models.FingerPlayer{
		ID:       s.rt.IDs.NewID(),
		Name:     name,
		Color:    s.presets.PlayerColor(len(s.players)),
		Position: pos,
	}
	s.players = append(s.players, p)
	return &p, nil
}

// RemovePlayer takes a finger off the board
func (s *FingerService) RemovePlayer(id string) error {
	if s.IsSelecting() {
		return ErrSelectionInProgress
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.players {
		if s.players[i].ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return nil
		}
	}
	return ErrPlayerNotFound
}

// RenamePlayer changes a player's display name
func (s *FingerService) RenamePlayer(id, name string) (*models.FingerPlayer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("name is required")
	}
	if s.IsSelecting() {
		return nil, ErrSelectionInProgress
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.players {
		if s.players[i].ID == id {
			s.players[i].Name = name
			p := s.players[i]
			return &p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// ClearPlayers empties the board and forgets the last winners
func (s *FingerService) ClearPlayers() error {
	if s.IsSelecting() {
		return ErrSelectionInProgress
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = []models.FingerPlayer{}
	s.winners = []models.FingerPlayer{}
	return nil
}

// UpdateConfig saves the winner count
func (s *FingerService) UpdateConfig(ctx context.Context, cfg models.FingerRouletteConfig) (*models.FingerRouletteConfig, error) {
	if cfg.WinnerCount < 1 {
		return nil, ErrInvalidWinnerCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, repository.KeyFingerConfig, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to save finger roulette config")
	}
	return &cfg, nil
}

// Select picks the winners among the players on the board and schedules the
// reveal. Selecting while a round is pending does nothing.
func (s *FingerService) Select(ctx context.Context) (*SelectResult, error) {
	if !s.busy.tryAcquire(fingerBusyKey) {
		return &SelectResult{Started: false, State: StateBusy}, nil
	}

	s.mu.Lock()
	cfg, err := s.config(ctx)
	if err != nil {
		s.mu.Unlock()
		s.busy.release(fingerBusyKey)
		return nil, err
	}
	players := append([]models.FingerPlayer{}, s.players...)
	winners, err := engine.DrawWinners(s.rt.Source, players, cfg.WinnerCount)
	s.mu.Unlock()
	if err != nil {
		s.busy.release(fingerBusyKey)
		return nil, drawError(err)
	}

	s.log.Info("Finger roulette started", "players", len(players), "winners", len(winners))

	result := &SelectResult{
		Started:       true,
		State:         revealState(s.selectDuration),
		RevealAfterMS: s.selectDuration.Milliseconds(),
		Winners:       winners,
	}
	s.rt.reveal(s.selectDuration, func() {
		s.resolveSelect(players, winners, *result)
	})
	return result, nil
}

func (s *FingerService) resolveSelect(players, winners []models.FingerPlayer, result SelectResult) {
	defer s.busy.release(fingerBusyKey)
	ctx := context.Background()

	s.mu.Lock()
	s.winners = winners
	err := s.recordRound(ctx, players, winners)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("Failed to record finger roulette round", "error", err)
		return
	}

	if s.broadcaster != nil {
		result.State = StateResolved
		result.RevealAfterMS = 0
		s.broadcaster.BroadcastMessage(MsgFingerResult, &result)
	}
}

func (s *FingerService) recordRound(ctx context.Context, players, winners []models.FingerPlayer) error {
	history, err := s.history(ctx)
	if err != nil {
		return err
	}
	history = prepend(history, models.FingerRouletteHistoryItem{
		ID:        s.rt.IDs.NewID(),
		Players:   players,
		Winners:   winners,
		Timestamp: s.rt.nowMillis(),
	}, ToolHistoryLimit)
	return s.store.Set(ctx, repository.KeyFingerHistory, history)
}

// IsSelecting reports whether a round is waiting for its reveal
func (s *FingerService) IsSelecting() bool {
	return s.busy.isBusy(fingerBusyKey)
}

// ClearHistory removes all recorded rounds
func (s *FingerService) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, repository.KeyFingerHistory, []models.FingerRouletteHistoryItem{}); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to clear finger roulette history")
	}
	return nil
}
