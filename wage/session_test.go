package wage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/wage-watcher/wage"
)

func dayShift() wage.Shift {
	return wage.Shift{Start: at(10, 9, 0), End: at(10, 17, 0)}
}

// =============================================================================
// RECONCILE
// =============================================================================

func TestReconcile(t *testing.T) {
	t.Run("active", func(t *testing.T) {
		s := wage.Reconcile(dayShift(), wage.ShiftActive)

		assert.Equal(t, wage.StatusScheduledActive, s.Status)
		assert.True(t, s.IsRunning())
		assert.Equal(t, at(10, 9, 0), s.Anchor)
		assert.Zero(t, s.Accumulated)
		assert.Equal(t, 90*time.Minute, s.TotalElapsed(at(10, 10, 30)))
	})

	t.Run("past banks the full shift", func(t *testing.T) {
		s := wage.Reconcile(dayShift(), wage.ShiftPast)

		assert.Equal(t, wage.StatusPaused, s.Status)
		assert.False(t, s.IsRunning())
		assert.True(t, s.Anchor.IsZero())
		assert.Equal(t, 8*time.Hour, s.TotalElapsed(at(10, 20, 0)))
	})

	t.Run("upcoming banks nothing", func(t *testing.T) {
		s := wage.Reconcile(dayShift(), wage.ShiftUpcoming)

		assert.Equal(t, wage.StatusPaused, s.Status)
		assert.Zero(t, s.TotalElapsed(at(10, 8, 0)))
	})

	t.Run("degenerate is inactive", func(t *testing.T) {
		midnight := at(10, 0, 0)
		s := wage.Reconcile(wage.Shift{Start: midnight, End: midnight}, wage.ShiftActive)

		assert.Equal(t, wage.StatusInactive, s.Status)
		assert.False(t, s.IsRunning())
	})
}

func TestSession_ScheduledElapsedIsClamped(t *testing.T) {
	s := wage.Reconcile(dayShift(), wage.ShiftActive)

	assert.Equal(t, 8*time.Hour, s.TotalElapsed(at(10, 19, 0)))
}

func TestSession_ManualElapsedIsNotClamped(t *testing.T) {
	s := wage.Reconcile(dayShift(), wage.ShiftPast).Start(at(10, 18, 0))

	assert.Equal(t, 10*time.Hour, s.TotalElapsed(at(10, 20, 0)))
}

// =============================================================================
// START / STOP / EXPIRE
// =============================================================================

func TestSession_StopThenStartPreservesAccumulated(t *testing.T) {
	// GIVEN: A manual session started at 10:00
	s := wage.Session{Status: wage.StatusPaused}.Start(at(10, 10, 0))
	assert.Equal(t, wage.StatusManualActive, s.Status)

	// WHEN: Stopped at 10:45 and resumed at 12:00
	s = s.Stop(at(10, 10, 45))
	assert.Equal(t, wage.StatusPaused, s.Status)
	assert.Equal(t, 45*time.Minute, s.Accumulated)
	assert.Equal(t, 45*time.Minute, s.TotalElapsed(at(10, 11, 59)), "paused time does not count")

	s = s.Start(at(10, 12, 0))

	// THEN: Only running time counts
	assert.Equal(t, 45*time.Minute, s.Accumulated)
	assert.Equal(t, 75*time.Minute, s.TotalElapsed(at(10, 12, 30)))
}

func TestSession_StartWhileRunningIsNoop(t *testing.T) {
	s := wage.Reconcile(dayShift(), wage.ShiftActive)

	assert.Equal(t, s, s.Start(at(10, 12, 0)))
}

func TestSession_StopWhenNotRunningIsNoop(t *testing.T) {
	s := wage.Session{Status: wage.StatusPaused, Accumulated: time.Hour}

	assert.Equal(t, s, s.Stop(at(10, 12, 0)))
}

func TestSession_StopScheduledFoldsElapsed(t *testing.T) {
	s := wage.Reconcile(dayShift(), wage.ShiftActive).Stop(at(10, 11, 0))

	assert.Equal(t, wage.StatusPaused, s.Status)
	assert.Equal(t, 2*time.Hour, s.Accumulated)
	assert.True(t, s.Anchor.IsZero())
}

func TestSession_Expire(t *testing.T) {
	s := wage.Reconcile(dayShift(), wage.ShiftActive)

	_, expired := s.Expire(at(10, 16, 59))
	assert.False(t, expired)

	s, expired = s.Expire(at(10, 17, 5))
	assert.True(t, expired)
	assert.Equal(t, wage.StatusPaused, s.Status)
	assert.Equal(t, 8*time.Hour, s.Accumulated)

	manual := wage.Session{}.Start(at(10, 9, 0))
	_, expired = manual.Expire(at(11, 9, 0))
	assert.False(t, expired, "manual sessions never expire")
}
