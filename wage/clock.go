package wage

import (
	"sync"
	"time"
)

// =============================================================================
// CLOCK - Core logic never calls time.Now() directly
// =============================================================================

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock returns the system time. Use only at entry points.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// FuncClock wraps a function as a Clock.
type FuncClock func() time.Time

func (f FuncClock) Now() time.Time { return f() }

var (
	_ Clock = RealClock{}
	_ Clock = FixedClock{}
	_ Clock = FuncClock(nil)
)

// =============================================================================
// TICK SOURCE - The repeating per-frame tick
// =============================================================================

// TickSource runs fn repeatedly until the returned cancel func is called.
// Cancel must not block: the engine calls it while holding its lock.
// Missed ticks are never queued.
type TickSource interface {
	Schedule(fn func()) (cancel func())
}

// ManualTicks is a TickSource fired explicitly. Used by tests and by one-shot
// tools that evaluate a single instant.
type ManualTicks struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func()
}

// NewManualTicks creates a ManualTicks with no scheduled loops.
func NewManualTicks() *ManualTicks {
	return &ManualTicks{fns: make(map[int]func())}
}

func (m *ManualTicks) Schedule(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.fns[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.fns, id)
	}
}

// Active returns the number of scheduled loops.
func (m *ManualTicks) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fns)
}

// Fire runs every scheduled callback once.
func (m *ManualTicks) Fire() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.fns))
	for _, fn := range m.fns {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
