package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/tinydecisions/internal/engine"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

// WebSocket message types sent when a draw resolves or data changes
const (
	MsgWheelResult   = "wheel_result"
	MsgCoinResult    = "coin_result"
	MsgNumbersResult = "numbers_result"
	MsgFingerResult  = "finger_result"
	MsgDataRestored  = "data_restored"
)

// Reveal states reported by draw triggers
const (
	StatePending  = "pending"
	StateResolved = "resolved"
	StateBusy     = "busy"
)

// Scheduler runs f once after d has elapsed
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler schedules with time.AfterFunc
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// IDGenerator creates identifiers for wheels, options, players and history entries
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random (v4) UUIDs
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Runtime bundles the non-deterministic collaborators of the decision services
type Runtime struct {
	Source    engine.Source
	Scheduler Scheduler
	IDs       IDGenerator
	Now       func() time.Time
}

// DefaultRuntime uses the global random source, real timers, UUIDs and the wall clock
func DefaultRuntime() Runtime {
	return Runtime{
		Source:    engine.DefaultSource(),
		Scheduler: TimerScheduler{},
		IDs:       UUIDGenerator{},
		Now:       time.Now,
	}
}

func (rt Runtime) withDefaults() Runtime {
	def := DefaultRuntime()
	if rt.Source == nil {
		rt.Source = def.Source
	}
	if rt.Scheduler == nil {
		rt.Scheduler = def.Scheduler
	}
	if rt.IDs == nil {
		rt.IDs = def.IDs
	}
	if rt.Now == nil {
		rt.Now = def.Now
	}
	return rt
}

func (rt Runtime) nowMillis() int64 {
	return rt.Now().UnixMilli()
}

// reveal runs resolve after d, or right away when there is no delay
func (rt Runtime) reveal(d time.Duration, resolve func()) {
	if d <= 0 {
		resolve()
		return
	}
	rt.Scheduler.AfterFunc(d, resolve)
}

func revealState(d time.Duration) string {
	if d > 0 {
		return StatePending
	}
	return StateResolved
}

// busyFlags tracks which tools are between trigger and reveal
type busyFlags struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newBusyFlags() *busyFlags {
	return &busyFlags{busy: make(map[string]bool)}
}

// tryAcquire marks key busy; it returns false if key was already busy
func (b *busyFlags) tryAcquire(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.busy[key] {
		return false
	}
	b.busy[key] = true
	return true
}

func (b *busyFlags) release(key string) {
	b.mu.Lock()
	delete(b.busy, key)
	b.mu.Unlock()
}

func (b *busyFlags) isBusy(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy[key]
}

func (b *busyFlags) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.busy))
	for k := range b.busy {
		keys = append(keys, k)
	}
	return keys
}

// prepend adds item to the front of list and trims it to limit entries
func prepend[T any](list []T, item T, limit int) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	out = append(out, list...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
