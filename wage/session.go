/*
session.go - Session state machine

PURPOSE:
  Tracks whether accrual is active and the instant from which the current
  segment is measured. Reconciles against the schedule whenever settings
  load or change.

STATES:
  Inactive:        No tracking, no anchor (degenerate schedule or not loaded)
  ScheduledActive: Tracking, anchor = shift start, driven by the schedule
  ManualActive:    Tracking, anchor = time of the explicit Start call
  Paused:          Not tracking, Accumulated frozen

TRANSITIONS:
  Reconcile:  Active -> ScheduledActive, Past -> Paused (full shift banked),
              Upcoming -> Paused (nothing banked), degenerate -> Inactive
  Start:      any non-running -> ManualActive, Accumulated kept
  Stop:       running -> Paused, current segment folded into Accumulated
  Expire:     ScheduledActive past its shift end -> Paused, full shift banked

INVARIANTS:
  - Running implies a non-zero Anchor
  - TotalElapsed never decreases while running
  - A ScheduledActive session never counts past its shift duration

Sessions are values; every transition returns a new Session.
*/
package wage

import "time"

type SessionStatus string

const (
	StatusInactive        SessionStatus = "inactive"
	StatusScheduledActive SessionStatus = "scheduled_active"
	StatusManualActive    SessionStatus = "manual_active"
	StatusPaused          SessionStatus = "paused"
)

// Session is the mutable tracking state owned by the Engine.
type Session struct {
	Status      SessionStatus
	Anchor      time.Time     // Zero when not running
	Accumulated time.Duration // Banked from closed segments
	ShiftStart  time.Time     // Set for ScheduledActive only
	ShiftEnd    time.Time     // Set for ScheduledActive only
}

// IsRunning reports whether the tick loop should be active.
func (s Session) IsRunning() bool {
	return s.Status == StatusScheduledActive || s.Status == StatusManualActive
}

// TotalElapsed is the banked time plus the running segment.
func (s Session) TotalElapsed(now time.Time) time.Duration {
	if !s.IsRunning() || s.Anchor.IsZero() {
		return s.Accumulated
	}
	segment := now.Sub(s.Anchor)
	if segment < 0 {
		segment = 0
	}
	total := s.Accumulated + segment
	if s.Status == StatusScheduledActive {
		if limit := s.ShiftEnd.Sub(s.ShiftStart); total > limit {
			total = limit
		}
	}
	return total
}

// Reconcile derives a fresh session from the shift governing now.
func Reconcile(shift Shift, status ShiftStatus) Session {
	if shift.IsDegenerate() {
		return Session{Status: StatusInactive}
	}
	switch status {
	case ShiftActive:
		return Session{
			Status:     StatusScheduledActive,
			Anchor:     shift.Start,
			ShiftStart: shift.Start,
			ShiftEnd:   shift.End,
		}
	case ShiftPast:
		return Session{Status: StatusPaused, Accumulated: shift.Duration()}
	default:
		return Session{Status: StatusPaused}
	}
}

// Start begins a manual segment at now. A running session is returned as is.
func (s Session) Start(now time.Time) Session {
	if s.IsRunning() {
		return s
	}
	return Session{
		Status:      StatusManualActive,
		Anchor:      now,
		Accumulated: s.Accumulated,
	}
}

// Stop closes the running segment and banks it.
func (s Session) Stop(now time.Time) Session {
	if !s.IsRunning() {
		return s
	}
	return Session{Status: StatusPaused, Accumulated: s.TotalElapsed(now)}
}

// Expire pauses a schedule-driven session once its shift has ended. The
// second result is false when nothing changed.
func (s Session) Expire(now time.Time) (Session, bool) {
	if s.Status != StatusScheduledActive || now.Before(s.ShiftEnd) {
		return s, false
	}
	return Session{Status: StatusPaused, Accumulated: s.TotalElapsed(now)}, true
}
