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

const (
	// WheelHistoryLimit is how many spins are kept across all wheels
	WheelHistoryLimit = 100
	// DefaultHistoryLimit is how many entries a history query returns by default
	DefaultHistoryLimit = 10
	// FillSegments is the minimum segment count when repeatOptionsToFill is on
	FillSegments = 12
)

// WheelUpdate changes wheel metadata; nil fields are left alone
type WheelUpdate struct {
	Title   *string `json:"title"`
	Emoji   *string `json:"emoji"`
	ThemeID *string `json:"themeId"`
}

// OptionUpdate changes one option; nil fields are left alone
type OptionUpdate struct {
	Label  *string  `json:"label"`
	Weight *float64 `json:"weight"`
	Color  *string  `json:"color"`
}

// SettingsUpdate changes wheel settings; nil fields are left alone
type SettingsUpdate struct {
	AllowDuplicateResults *bool `json:"allowDuplicateResults"`
	HideWeights           *bool `json:"hideWeights"`
	RepeatOptionsToFill   *bool `json:"repeatOptionsToFill"`
}

// WheelLayout is the drawable geometry of a wheel
type WheelLayout struct {
	WheelID     string           `json:"wheelId"`
	HideWeights bool             `json:"hideWeights"`
	Segments    []engine.Segment `json:"segments"`
}

// SpinResult is returned when a spin is triggered
type SpinResult struct {
	Started       bool                `json:"started"`
	State         string              `json:"state"`
	WheelID       string              `json:"wheelId"`
	RevealAfterMS int64               `json:"revealAfterMs,omitempty"`
	Option        *models.WheelOption `json:"option,omitempty"`
	SegmentIndex  int                 `json:"segmentIndex"`
	Segment       *engine.Segment     `json:"segment,omitempty"`
	Rotation      *engine.Rotation    `json:"rotation,omitempty"`
}

// WheelService manages wheels and spins them
type WheelService struct {
	log          logger.Logger
	store        repository.Store
	presets      presets.Presets
	rt           Runtime
	spinDuration time.Duration
	broadcaster  Broadcaster

	mu   sync.Mutex
	busy *busyFlags
}

// NewWheelService creates a new WheelService
func NewWheelService(log logger.Logger, store repository.Store, p presets.Presets, rt Runtime, spinDuration time.Duration) *WheelService {
	return &WheelService{
		log:          log,
		store:        store,
		presets:      p,
		rt:           rt.withDefaults(),
		spinDuration: spinDuration,
		busy:         newBusyFlags(),
	}
}

// SetBroadcaster sets the broadcaster for sending results to clients
func (s *WheelService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *WheelService) loadWheels(ctx context.Context) ([]models.Wheel, error) {
	wheels := []models.Wheel{}
	if err := s.store.Get(ctx, repository.KeyWheels, &wheels); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load wheels")
	}
	return wheels, nil
}

func (s *WheelService) saveWheels(ctx context.Context, wheels []models.Wheel) error {
	if err := s.store.Set(ctx, repository.KeyWheels, wheels); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to save wheels")
	}
	return nil
}

func (s *WheelService) loadHistory(ctx context.Context) ([]models.WheelHistoryItem, error) {
	history := []models.WheelHistoryItem{}
	if err := s.store.Get(ctx, repository.KeyWheelHistory, &history); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load wheel history")
	}
	return history, nil
}

func findWheel(wheels []models.Wheel, id string) int {
	for i := range wheels {
		if wheels[i].ID == id {
			return i
		}
	}
	return -1
}

func findOption(w *models.Wheel, id string) int {
	for i := range w.Options {
		if w.Options[i].ID == id {
			return i
		}
	}
	return -1
}

// mutate loads all wheels, applies fn to the wheel with id and saves the result
func (s *WheelService) mutate(ctx context.Context, id string, fn func(w *models.Wheel) error) (*models.Wheel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wheels, err := s.loadWheels(ctx)
	if err != nil {
		return nil, err
	}
	i := findWheel(wheels, id)
	if i < 0 {
		return nil, ErrWheelNotFound
	}
	if err := fn(&wheels[i]); err != nil {
		return nil, err
	}
	wheels[i].UpdatedAt = s.rt.nowMillis()
	if err := s.saveWheels(ctx, wheels); err != nil {
		return nil, err
	}
	w := wheels[i]
	return &w, nil
}

// List returns every wheel, newest first
func (s *WheelService) List(ctx context.Context) ([]models.Wheel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadWheels(ctx)
}

// Get returns one wheel
func (s *WheelService) Get(ctx context.Context, id string) (*models.Wheel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wheels, err := s.loadWheels(ctx)
	if err != nil {
		return nil, err
	}
	i := findWheel(wheels, id)
	if i < 0 {
		return nil, ErrWheelNotFound
	}
	return &wheels[i], nil
}

// Create adds a wheel with the starter options of the default theme
func (s *WheelService) Create(ctx context.Context, title string) (*models.Wheel, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	theme := s.presets.Themes[0]
	now := s.rt.nowMillis()
	wheel := models.Wheel{
		ID:      s.rt.IDs.NewID(),
		Title:   title,
		Emoji:   s.presets.Wheel.Emoji,
		Options: []models.WheelOption{},
		Theme:   theme,
		Settings: models.WheelSettings{
			AllowDuplicateResults: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := 0; i < s.presets.Wheel.StarterOptions; i++ {
		wheel.Options = append(wheel.Options, models.WheelOption{
			ID:     s.rt.IDs.NewID(),
			Label:  fmt.Sprintf(s.presets.Wheel.OptionLabel, i+1),
			Weight: 1,
			Color:  presets.ThemeColor(theme, i),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wheels, err := s.loadWheels(ctx)
	if err != nil {
		return nil, err
	}
	wheels = append([]models.Wheel{wheel}, wheels...)
	if err := s.saveWheels(ctx, wheels); err != nil {
		return nil, err
	}

	s.log.Info("Wheel created", "wheel_id", wheel.ID, "title", wheel.Title)
	return &wheel, nil
}

// Update changes title, emoji or theme. A new theme recolors options by position.
func (s *WheelService) Update(ctx context.Context, id string, upd WheelUpdate) (*models.Wheel, error) {
	var theme *models.WheelTheme
	if upd.ThemeID != nil {
		th, ok := s.presets.Theme(*upd.ThemeID)
		if !ok {
			return nil, ErrUnknownTheme
		}
		theme = &th
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrTitleRequired
	}

	return s.mutate(ctx, id, func(w *models.Wheel) error {
		if upd.Title != nil {
			w.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Emoji != nil {
			w.Emoji = *upd.Emoji
		}
		if theme != nil {
			w.Theme = *theme
			for i := range w.Options {
				w.Options[i].Color = presets.ThemeColor(*theme, i)
			}
		}
		return nil
	})
}

// Delete removes a wheel and its spin history
func (s *WheelService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wheels, err := s.loadWheels(ctx)
	if err != nil {
		return err
	}
	i := findWheel(wheels, id)
	if i < 0 {
		return ErrWheelNotFound
	}
	history, err := s.loadHistory(ctx)
	if err != nil {
		return err
	}

	wheels = append(wheels[:i], wheels[i+1:]...)
	if err := s.saveWheels(ctx, wheels); err != nil {
		return err
	}

	kept := make([]models.WheelHistoryItem, 0, len(history))
	for _, h := range history {
		if h.WheelID != id {
			kept = append(kept, h)
		}
	}
	if err := s.store.Set(ctx, repository.KeyWheelHistory, kept); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to save wheel history")
	}

	s.log.Info("Wheel deleted", "wheel_id", id, "history_removed", len(history)-len(kept))
	return nil
}

// AddOption appends an option with weight 1 and the next theme color.
// An empty label uses the configured placeholder.
func (s *WheelService) AddOption(ctx context.Context, wheelID, label string) (*models.WheelOption, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = s.presets.Wheel.NewOptionLabel
	}

	var added models.WheelOption
	_, err := s.mutate(ctx, wheelID, func(w *models.Wheel) error {
		added = models.WheelOption{
			ID:     s.rt.IDs.NewID(),
			Label:  label,
			Weight: 1,
			Color:  presets.ThemeColor(w.Theme, len(w.Options)),
		}
		w.Options = append(w.Options, added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// BatchAddOptions adds one option per non-blank line of text
func (s *WheelService) BatchAddOptions(ctx context.Context, wheelID, text string) ([]models.WheelOption, error) {
	var labels []string
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}

	var added []models.WheelOption
	_, err := s.mutate(ctx, wheelID, func(w *models.Wheel) error {
		base := len(w.Options)
		for i, l := range labels {
			opt := models.WheelOption{
				ID:     s.rt.IDs.NewID(),
				Label:  l,
				Weight: 1,
				Color:  presets.ThemeColor(w.Theme, base+i),
			}
			w.Options = append(w.Options, opt)
			added = append(added, opt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// ClampWeight limits an option weight to [MinOptionWeight, MaxOptionWeight]
func ClampWeight(w float64) float64 {
	if w != w || w < MinOptionWeight {
		return MinOptionWeight
	}
	if w > MaxOptionWeight {
		return MaxOptionWeight
	}
	return w
}

// UpdateOption changes an option's label, weight or color
func (s *WheelService) UpdateOption(ctx context.Context, wheelID, optionID string, upd OptionUpdate) (*models.WheelOption, error) {
	if upd.Label != nil && strings.TrimSpace(*upd.Label) == "" {
		return nil, ErrLabelRequired
	}

	var updated models.WheelOption
	_, err := s.mutate(ctx, wheelID, func(w *models.Wheel) error {
		i := findOption(w, optionID)
		if i < 0 {
			return ErrOptionNotFound
		}
		opt := &w.Options[i]
		if upd.Label != nil {
			opt.Label = strings.TrimSpace(*upd.Label)
		}
		if upd.Weight != nil {
			opt.Weight = ClampWeight(*upd.Weight)
		}
		if upd.Color != nil {
			opt.Color = *upd.Color
		}
		updated = *opt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOption removes an option
func (s *WheelService) DeleteOption(ctx context.Context, wheelID, optionID string) error {
	_, err := s.mutate(ctx, wheelID, func(w *models.Wheel) error {
		i := findOption(w, optionID)
		if i < 0 {
			return ErrOptionNotFound
		}
		w.Options = append(w.Options[:i], w.Options[i+1:]...)
		w.Drawn = removeString(w.Drawn, optionID)
		return nil
	})
	return err
}

// UpdateSettings changes wheel settings. Re-allowing duplicates clears the drawn list.
func (s *WheelService) UpdateSettings(ctx context.Context, wheelID string, upd SettingsUpdate) (*models.Wheel, error) {
	return s.mutate(ctx, wheelID, func(w *models.Wheel) error {
		if upd.AllowDuplicateResults != nil {
			w.Settings.AllowDuplicateResults = *upd.AllowDuplicateResults
			if w.Settings.AllowDuplicateResults {
				w.Drawn = nil
			}
		}
		if upd.HideWeights != nil {
			w.Settings.HideWeights = *upd.HideWeights
		}
		if upd.RepeatOptionsToFill != nil {
			w.Settings.RepeatOptionsToFill = *upd.RepeatOptionsToFill
		}
		return nil
	})
}

// ResetDrawn makes every option eligible again on a no-repeat wheel
func (s *WheelService) ResetDrawn(ctx context.Context, wheelID string) (*models.Wheel, error) {
	return s.mutate(ctx, wheelID, func(w *models.Wheel) error {
		w.Drawn = nil
		return nil
	})
}

// wheelItems converts options to engine items. Options already drawn on a
// no-repeat wheel keep their arc but get weight 0.
func wheelItems(w *models.Wheel) []engine.Item {
	drawn := make(map[string]bool, len(w.Drawn))
	if !w.Settings.AllowDuplicateResults {
		for _, id := range w.Drawn {
			drawn[id] = true
		}
	}
	items := make([]engine.Item, len(w.Options))
	for i, o := range w.Options {
		weight := o.Weight
		if drawn[o.ID] {
			weight = 0
		}
		items[i] = engine.Item{ID: o.ID, Label: o.Label, Weight: weight, Color: o.Color}
	}
	if w.Settings.RepeatOptionsToFill {
		items = engine.Repeat(items, FillSegments)
	}
	return items
}

// allDrawn reports whether a no-repeat wheel has used up every option
func allDrawn(w *models.Wheel) bool {
	if w.Settings.AllowDuplicateResults || len(w.Options) == 0 {
		return false
	}
	drawn := make(map[string]bool, len(w.Drawn))
	for _, id := range w.Drawn {
		drawn[id] = true
	}
	for _, o := range w.Options {
		if !drawn[o.ID] {
			return false
		}
	}
	return true
}

// Segments returns the layout the wheel is drawn with
func (s *WheelService) Segments(ctx context.Context, wheelID string) (*WheelLayout, error) {
	w, err := s.Get(ctx, wheelID)
	if err != nil {
		return nil, err
	}
	return &WheelLayout{
		WheelID:     w.ID,
		HideWeights: w.Settings.HideWeights,
		Segments:    engine.Layout(wheelItems(w), w.Settings.HideWeights),
	}, nil
}

// Spin draws a winner and schedules its reveal. While the wheel is already
// spinning the call does nothing and reports Started false.
func (s *WheelService) Spin(ctx context.Context, wheelID string) (*SpinResult, error) {
	s.mu.Lock()

	wheels, err := s.loadWheels(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	i := findWheel(wheels, wheelID)
	if i < 0 {
		s.mu.Unlock()
		return nil, ErrWheelNotFound
	}
	if s.busy.isBusy(wheelID) {
		s.mu.Unlock()
		return &SpinResult{Started: false, State: StateBusy, WheelID: wheelID}, nil
	}

	w := wheels[i]
	if allDrawn(&w) {
		w.Drawn = nil
	}
	items := wheelItems(&w)
	segments := engine.Layout(items, w.Settings.HideWeights)
	idx, err := engine.DrawIndex(s.rt.Source, items)
	if err != nil {
		s.mu.Unlock()
		return nil, drawError(err)
	}
	rotation := engine.RotationTarget(s.rt.Source, segments[idx])
	s.busy.tryAcquire(wheelID)
	s.mu.Unlock()

	winner := w.Options[findOption(&w, items[idx].ID)]
	resetDrawn := len(w.Drawn) == 0 && !w.Settings.AllowDuplicateResults

	s.log.Info("Wheel spun", "wheel_id", wheelID, "option_id", winner.ID, "segment", idx)

	result := &SpinResult{
		Started:       true,
		State:         revealState(s.spinDuration),
		WheelID:       wheelID,
		RevealAfterMS: s.spinDuration.Milliseconds(),
		Option:        &winner,
		SegmentIndex:  idx,
		Segment:       &segments[idx],
		Rotation:      &rotation,
	}

	s.rt.reveal(s.spinDuration, func() {
		s.resolveSpin(wheelID, winner, resetDrawn, *result)
	})
	return result, nil
}

// resolveSpin records the winner once the reveal delay has passed and
// broadcasts a resolved copy of the spin
func (s *WheelService) resolveSpin(wheelID string, winner models.WheelOption, resetDrawn bool, result SpinResult) {
	defer s.busy.release(wheelID)
	ctx := context.Background()

	s.mu.Lock()
	recorded := s.recordSpin(ctx, wheelID, winner, resetDrawn)
	s.mu.Unlock()

	if recorded && s.broadcaster != nil {
		result.State = StateResolved
		result.RevealAfterMS = 0
		s.broadcaster.BroadcastMessage(MsgWheelResult, &result)
	}
}

func (s *WheelService) recordSpin(ctx context.Context, wheelID string, winner models.WheelOption, resetDrawn bool) bool {
	wheels, err := s.loadWheels(ctx)
	if err != nil {
		s.log.Error("Failed to record spin", "wheel_id", wheelID, "error", err)
		return false
	}
	i := findWheel(wheels, wheelID)
	if i < 0 {
		s.log.Warn("Wheel deleted before spin resolved", "wheel_id", wheelID)
		return false
	}

	if !wheels[i].Settings.AllowDuplicateResults {
		if resetDrawn {
			wheels[i].Drawn = nil
		}
		wheels[i].Drawn = append(wheels[i].Drawn, winner.ID)
		if err := s.saveWheels(ctx, wheels); err != nil {
			s.log.Error("Failed to save drawn options", "wheel_id", wheelID, "error", err)
		}
	}

	history, err := s.loadHistory(ctx)
	if err != nil {
		s.log.Error("Failed to record spin", "wheel_id", wheelID, "error", err)
		return false
	}
	history = prepend(history, models.WheelHistoryItem{
		ID:        s.rt.IDs.NewID(),
		WheelID:   wheelID,
		OptionID:  winner.ID,
		Result:    winner.Label,
		Timestamp: s.rt.nowMillis(),
	}, WheelHistoryLimit)
	if err := s.store.Set(ctx, repository.KeyWheelHistory, history); err != nil {
		s.log.Error("Failed to save wheel history", "wheel_id", wheelID, "error", err)
		return false
	}
	return true
}

// IsSpinning reports whether a spin of wheelID is waiting for its reveal
func (s *WheelService) IsSpinning(wheelID string) bool {
	return s.busy.isBusy(wheelID)
}

// Spinning lists the wheels currently waiting for a reveal
func (s *WheelService) Spinning() []string {
	return s.busy.keys()
}

// History returns up to limit recent spins of a wheel, newest first
func (s *WheelService) History(ctx context.Context, wheelID string, limit int) ([]models.WheelHistoryItem, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.WheelHistoryItem{}
	for _, h := range history {
		if h.WheelID == wheelID {
			out = append(out, h)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
