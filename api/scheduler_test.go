package api

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameScheduler_TicksUntilCancelled(t *testing.T) {
	fs := NewFrameScheduler(2 * time.Millisecond)
	defer fs.Stop()

	var n atomic.Int32
	cancel := fs.Schedule(func() { n.Add(1) })
	assert.Equal(t, 1, fs.Active())

	require.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	cancel()
	assert.Equal(t, 0, fs.Active())
}

func TestFrameScheduler_CancelFromInsideTick(t *testing.T) {
	// The engine cancels its own loop from within a tick when a shift ends.
	fs := NewFrameScheduler(time.Millisecond)
	defer fs.Stop()

	var n atomic.Int32
	var cancel func()
	ready := make(chan struct{})
	cancel = fs.Schedule(func() {
		<-ready
		n.Add(1)
		cancel()
	})
	close(ready)

	require.Eventually(t, func() bool { return fs.Active() == 0 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), n.Load())
}

func TestFrameScheduler_StopWaitsAndRefusesNewLoops(t *testing.T) {
	fs := NewFrameScheduler(0)
	assert.Equal(t, DefaultFrameInterval, fs.Interval)

	fs.Schedule(func() {})
	fs.Stop()
	assert.Equal(t, 0, fs.Active())

	cancel := fs.Schedule(func() {})
	assert.Equal(t, 0, fs.Active())
	cancel()
}
