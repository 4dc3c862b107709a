/*
engine.go - The wage engine

PURPOSE:
  Owns the settings, the session state machine, the milestone detector and
  the tick loop. The presentation layer only calls the operations below and
  reads DisplayData snapshots; it never touches engine fields directly.

OPERATIONS:
  Load            Read the persisted blob (or defaults) and reinitialize
  Inputs          Current settings as entered
  OnInputChange   Edit one setting; schedule fields trigger Reinitialize
  LoadSettings    Bulk replace settings (import) and reinitialize
  Reinitialize    Re-derive the session from the schedule and wall clock
  Start / Stop    Manual session control
  Reset           Back to defaults, persisted blob cleared
  Tick            One frame: advance earnings, detect milestones
  DisplayData     Snapshot for rendering

CONCURRENCY:
  All operations take the engine lock, so HTTP handlers and the tick loop
  never interleave. Observers (Subscribe, OnCelebration) are called after
  the lock is released and may call back into the engine.

PERSISTENCE:
  Every state change is saved synchronously. Failures are logged and the
  engine continues with its in-memory state.

SEE ALSO:
  - session.go:   State transitions
  - earnings.go:  Rates and earnings
  - milestone.go: Celebration detection
  - api/scheduler.go: Production TickSource
*/
package wage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// errIdle is returned internally when a tick arrives for a stopped session.
var errIdle = errors.New("engine idle")

// =============================================================================
// TYPES
// =============================================================================

// DisplayData is a read-only snapshot for the presentation layer.
type DisplayData struct {
	CurrentEarnings       decimal.Decimal
	FormattedEarnings     string // CurrentEarnings rounded to the configured decimal places
	ElapsedSeconds        float64
	ElapsedTimeFormatted  string // HH:MM:SS
	EarningsPerSecond     decimal.Decimal
	ProgressPercent       decimal.Decimal
	TotalExpectedEarnings decimal.Decimal
	DecimalPlaces         int32
	IsRunning             bool
	Status                SessionStatus
	Celebrating           bool
	AsOf                  time.Time
}

// Celebration is emitted when earnings cross a milestone.
type Celebration struct {
	ID        string
	At        time.Time
	Earnings  decimal.Decimal
	Milestone decimal.Decimal // The multiple of Threshold that was crossed
	Threshold decimal.Decimal
}

// Options configures an Engine. Zero values get sensible defaults.
type Options struct {
	Store    BlobStore
	Clock    Clock          // Default: RealClock
	Ticks    TickSource     // Nil disables the automatic tick loop
	Location *time.Location // Default: time.Local
	Logger   *log.Logger    // Default: log.Default()
}

// Engine is the stateful wage tracker.
type Engine struct {
	mu sync.Mutex

	store  BlobStore
	clock  Clock
	ticks  TickSource
	loc    *time.Location
	logger *log.Logger

	inputs      Inputs
	session     Session
	detector    Detector
	earnings    decimal.Decimal
	elapsed     time.Duration
	celebrating bool
	cancelTick  func()

	subscribers  []func(DisplayData)
	celebrations []func(Celebration)
}

// NewEngine creates an engine with default settings. Call Load to restore
// persisted state.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		store:   opts.Store,
		clock:   opts.Clock,
		ticks:   opts.Ticks,
		loc:     opts.Location,
		logger:  opts.Logger,
		inputs:  DefaultInputs(),
		session: Session{Status: StatusInactive},
	}
	if e.clock == nil {
		e.clock = RealClock{}
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// =============================================================================
// OBSERVERS
// =============================================================================

// Subscribe registers fn to receive a snapshot after every state change.
func (e *Engine) Subscribe(fn func(DisplayData)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// OnCelebration registers fn to receive milestone events.
func (e *Engine) OnCelebration(fn func(Celebration)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.celebrations = append(e.celebrations, fn)
}

// apply runs fn under the lock, then notifies observers outside it.
func (e *Engine) apply(fn func(now time.Time) (*Celebration, error)) error {
	e.mu.Lock()
	now := e.clock.Now()
	c, err := fn(now)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	view := e.displayLocked(now)
	subs := append([]func(DisplayData){}, e.subscribers...)
	hooks := append([]func(Celebration){}, e.celebrations...)
	e.mu.Unlock()

	if c != nil {
		for _, h := range hooks {
			h(*c)
		}
	}
	for _, s := range subs {
		s(view)
	}
	return nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Load restores settings from the store and reinitializes. A corrupt blob is
// discarded and defaults are used. Storage failures are logged, not returned.
func (e *Engine) Load(ctx context.Context) error {
	return e.apply(func(now time.Time) (*Celebration, error) {
		e.inputs = DefaultInputs()
		if e.store != nil {
			blob, err := e.store.Load(ctx)
			switch {
			case errors.Is(err, ErrCorruptBlob):
				e.logger.Printf("[Engine] Discarding persisted state: %v", err)
				if err := e.store.Clear(ctx); err != nil {
					e.logger.Printf("[Engine] %v", &StorageError{Op: "clear", Err: err})
				}
			case err != nil:
				e.logger.Printf("[Engine] %v", &StorageError{Op: "load", Err: err})
			case blob != nil:
				e.inputs = blob.Inputs()
			}
		}
		e.reinitializeLocked(ctx, now)
		return nil, nil
	})
}

// Inputs returns the settings as entered.
func (e *Engine) Inputs() Inputs {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputs
}

// OnInputChange edits a single setting. Salary, work days and schedule times
// re-derive the session; threshold and decimal places only apply going
// forward.
func (e *Engine) OnInputChange(ctx context.Context, field Field, value string) error {
	return e.apply(func(now time.Time) (*Celebration, error) {
		in, ok := e.inputs.With(field, value)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		e.inputs = in
		if field.AffectsSchedule() {
			e.reinitializeLocked(ctx, now)
		} else {
			e.persistLocked(ctx)
		}
		return nil, nil
	})
}

// LoadSettings replaces all settings and reinitializes. Callers validate
// imported documents first (see factory.SettingsFactory.Parse).
func (e *Engine) LoadSettings(ctx context.Context, in Inputs) error {
	return e.apply(func(now time.Time) (*Celebration, error) {
		e.inputs = in
		e.reinitializeLocked(ctx, now)
		return nil, nil
	})
}

// Reinitialize re-derives the session from the schedule. Calling it twice
// at the same instant yields the same state.
func (e *Engine) Reinitialize(ctx context.Context) error {
	return e.apply(func(now time.Time) (*Celebration, error) {
		e.reinitializeLocked(ctx, now)
		return nil, nil
	})
}

// Start begins a manual session anchored at now. It fails with a ConfigError
// when salary or work days are not positive; schedule times are not checked.
// Starting a running session does nothing.
func (e *Engine) Start(ctx context.Context) error {
	return e.apply(func(now time.Time) (*Celebration, error) {
		if err := e.inputs.Config().Validate(); err != nil {
			return nil, err
		}
		if e.session.IsRunning() {
			return nil, nil
		}
		e.session = e.session.Start(now)
		e.recomputeLocked(now)
		e.syncTickLocked()
		e.persistLocked(ctx)
		return nil, nil
	})
}

// Stop pauses a running session, banking the elapsed time.
func (e *Engine) Stop(ctx context.Context) error {
	return e.apply(func(now time.Time) (*Celebration, error) {
		if !e.session.IsRunning() {
			return nil, nil
		}
		e.session = e.session.Stop(now)
		e.recomputeLocked(now)
		e.syncTickLocked()
		e.persistLocked(ctx)
		return nil, nil
	})
}

// Reset restores default settings, clears all tracking state and the
// persisted blob, then reinitializes.
func (e *Engine) Reset(ctx context.Context) error {
	return e.apply(func(now time.Time) (*Celebration, error) {
		e.session = Session{Status: StatusInactive}
		e.syncTickLocked()
		e.detector.Reset()
		e.earnings = decimal.Zero
		e.elapsed = 0
		e.celebrating = false
		e.inputs = DefaultInputs()
		if e.store != nil {
			if err := e.store.Clear(ctx); err != nil {
				e.logger.Printf("[Engine] %v", &StorageError{Op: "clear", Err: err})
			}
		}
		e.reinitializeLocked(ctx, now)
		return nil, nil
	})
}

// Tick advances one frame. It does nothing when no session is running.
func (e *Engine) Tick() {
	err := e.apply(func(now time.Time) (*Celebration, error) {
		if !e.session.IsRunning() {
			return nil, errIdle
		}
		return e.tickLocked(context.Background(), now), nil
	})
	if err != nil && !errors.Is(err, errIdle) {
		e.logger.Printf("[Engine] Tick failed: %v", err)
	}
}

// Celebrating reports whether a celebration is waiting to be played.
func (e *Engine) Celebrating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.celebrating
}

// ClearCelebration is called by the consumer after playing the animation.
func (e *Engine) ClearCelebration() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.celebrating = false
}

// Session returns a copy of the session state.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Milestone returns a copy of the milestone state.
func (e *Engine) Milestone() MilestoneState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detector.State
}

// DisplayData returns the latest snapshot.
func (e *Engine) DisplayData() DisplayData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.displayLocked(e.clock.Now())
}

// =============================================================================
// INTERNALS (caller holds e.mu)
// =============================================================================

// currentShiftLocked is the single place the governing shift is resolved,
// used by reconciliation, ticks and display alike.
func (e *Engine) currentShiftLocked(now time.Time) (WageConfig, Shift, ShiftStatus, error) {
	cfg := e.inputs.Config()
	shift, status, err := FindShift(cfg.WorkStartTime, cfg.WorkEndTime, now, e.loc)
	return cfg, shift, status, err
}

func (e *Engine) reinitializeLocked(ctx context.Context, now time.Time) {
	_, shift, status, err := e.currentShiftLocked(now)
	if err != nil {
		e.logger.Printf("[Engine] %v, schedule treated as empty", err)
	}
	e.session = Reconcile(shift, status)
	e.detector.Reset()
	e.recomputeLocked(now)
	e.syncTickLocked()
	e.persistLocked(ctx)
}

// recomputeLocked refreshes elapsed time and earnings from the session.
func (e *Engine) recomputeLocked(now time.Time) {
	cfg, shift, _, _ := e.currentShiftLocked(now)
	e.elapsed = e.session.TotalElapsed(now)
	e.earnings = ComputeRates(cfg, shift).Earnings(e.elapsed)
}

func (e *Engine) tickLocked(ctx context.Context, now time.Time) *Celebration {
	dirty := false
	if s, expired := e.session.Expire(now); expired {
		e.logger.Printf("[Engine] Shift ended at %s, pausing", e.session.ShiftEnd.Format(time.RFC3339))
		e.session = s
		e.syncTickLocked()
		dirty = true
	}
	e.recomputeLocked(now)

	threshold := e.inputs.Config().CelebrationThreshold
	before := e.detector.State.LastCelebratedEarnings
	var c *Celebration
	if e.detector.Observe(e.earnings, threshold, now) {
		e.celebrating = true
		c = &Celebration{
			ID:        uuid.NewString(),
			At:        now,
			Earnings:  e.earnings,
			Milestone: MilestoneFor(e.earnings, threshold),
			Threshold: threshold,
		}
		e.logger.Printf("[Engine] Milestone %s reached (earnings %s)",
			c.Milestone.String(), e.earnings.StringFixed(2))
	}
	if !e.detector.State.LastCelebratedEarnings.Equal(before) {
		dirty = true
	}
	if dirty {
		e.persistLocked(ctx)
	}
	return c
}

// syncTickLocked starts or cancels the tick loop to match the session.
func (e *Engine) syncTickLocked() {
	running := e.session.IsRunning()
	switch {
	case running && e.cancelTick == nil && e.ticks != nil:
		e.cancelTick = e.ticks.Schedule(e.Tick)
	case !running && e.cancelTick != nil:
		e.cancelTick()
		e.cancelTick = nil
	}
}

func (e *Engine) persistLocked(ctx context.Context) {
	if e.store == nil {
		return
	}
	blob := NewBlob(e.inputs, e.session, e.detector.State)
	if err := e.store.Save(ctx, blob); err != nil {
		e.logger.Printf("[Engine] %v", &StorageError{Op: "save", Err: err})
	}
}

func (e *Engine) displayLocked(now time.Time) DisplayData {
	cfg, shift, _, _ := e.currentShiftLocked(now)
	rates := ComputeRates(cfg, shift)
	return DisplayData{
		CurrentEarnings:       e.earnings,
		FormattedEarnings:     e.earnings.StringFixed(cfg.DecimalPlaces),
		ElapsedSeconds:        e.elapsed.Seconds(),
		ElapsedTimeFormatted:  FormatElapsed(e.elapsed),
		EarningsPerSecond:     rates.PerSecond,
		ProgressPercent:       rates.Progress(e.earnings),
		TotalExpectedEarnings: rates.ExpectedTotal,
		DecimalPlaces:         cfg.DecimalPlaces,
		IsRunning:             e.session.IsRunning(),
		Status:                e.session.Status,
		Celebrating:           e.celebrating,
		AsOf:                  now,
	}
}
