package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abrezinsky/tinydecisions/internal/services"
)

// ImmediateScheduler runs scheduled functions synchronously
type ImmediateScheduler struct{}

func (ImmediateScheduler) AfterFunc(_ time.Duration, f func()) {
	f()
}

// ManualScheduler holds scheduled functions until Run is called
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, f)
	m.delays = append(m.delays, d)
}

// Pending returns how many functions are waiting
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Delays returns the durations functions were scheduled with
func (m *ManualScheduler) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration{}, m.delays...)
}

// Run executes every pending function in scheduling order
func (m *ManualScheduler) Run() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, f := range pending {
		f()
	}
}

// SequenceIDs issues id-1, id-2, ...
type SequenceIDs struct {
	n atomic.Int64
}

func (s *SequenceIDs) NewID() string {
	return fmt.Sprintf("id-%d", s.n.Add(1))
}

// SequenceSource replays Values in a loop
type SequenceSource struct {
	mu     sync.Mutex
	Values []float64
	i      int
}

func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.i%len(s.Values)]
	s.i++
	return v
}

// FixedClock always returns t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Message is one broadcast captured by Recorder
type Message struct {
	Type    string
	Payload interface{}
}

// Recorder is a Broadcaster that keeps everything it is sent
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) BroadcastMessage(msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Type: msgType, Payload: payload})
}

// Messages returns a copy of the recorded broadcasts
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message{}, r.messages...)
}

// Runtime returns a deterministic services.Runtime. A nil scheduler means
// reveals run immediately.
func Runtime(src *SequenceSource, sched services.Scheduler) services.Runtime {
	if sched == nil {
		sched = ImmediateScheduler{}
	}
	rt := services.Runtime{
		Scheduler: sched,
		IDs:       &SequenceIDs{},
		Now:       FixedClock(time.UnixMilli(1700000000000)),
	}
	if src != nil {
		rt.Source = src
	}
	return rt
}
