/*
scheduler.go - Frame scheduler for the tracker

PURPOSE:
  Drives the engine's per-frame tick while a session is running. The engine
  schedules a loop when tracking starts and cancels it when tracking stops.

DESIGN:
  - One goroutine per scheduled loop, driven by a time.Ticker
  - Cancel only signals the goroutine and returns at once; the engine calls
    it while holding its lock, and the loop may be blocked waiting for that
    same lock inside a tick
  - Ticks are never queued: time.Ticker drops ticks for slow receivers, and
    every tick recomputes from wall-clock timestamps anyway

USAGE:
  frames := api.NewFrameScheduler(100 * time.Millisecond)
  engine := wage.NewEngine(wage.Options{Ticks: frames, ...})
  // ... later
  frames.Stop()

SEE ALSO:
  - wage/clock.go: TickSource contract, ManualTicks test double
  - wage/engine.go: syncTickLocked
*/
package api

import (
	"log"
	"sync"
	"time"

	"github.com/warp/wage-watcher/wage"
)

// DefaultFrameInterval is the tick period of the live display.
const DefaultFrameInterval = 100 * time.Millisecond

// FrameScheduler implements wage.TickSource with a ticker goroutine per loop.
type FrameScheduler struct {
	Interval time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	nextID  int
	loops   map[int]chan struct{}
	stopped bool
}

// NewFrameScheduler creates a scheduler. A non-positive interval uses
// DefaultFrameInterval.
func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameScheduler{
		Interval: interval,
		loops:    make(map[int]chan struct{}),
	}
}

// Schedule starts calling fn every Interval until the returned func is called.
func (fs *FrameScheduler) Schedule(fn func()) func() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.stopped {
		return func() {}
	}

	id := fs.nextID
	fs.nextID++
	stop := make(chan struct{})
	fs.loops[id] = stop

	fs.wg.Add(1)
	go fs.run(fn, stop)

	return func() { fs.cancel(id) }
}

// Active returns the number of running loops.
func (fs *FrameScheduler) Active() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.loops)
}

// Stop cancels every loop and waits for the goroutines to exit. It must not
// be called while holding the engine lock.
func (fs *FrameScheduler) Stop() {
	fs.mu.Lock()
	fs.stopped = true
	for id, stop := range fs.loops {
		close(stop)
		delete(fs.loops, id)
	}
	fs.mu.Unlock()

	fs.wg.Wait()
	log.Println("[Scheduler] Stopped")
}

func (fs *FrameScheduler) cancel(id int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if stop, ok := fs.loops[id]; ok {
		close(stop)
		delete(fs.loops, id)
	}
}

func (fs *FrameScheduler) run(fn func(), stop chan struct{}) {
	defer fs.wg.Done()

	ticker := time.NewTicker(fs.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			fn()
		}
	}
}

var _ wage.TickSource = (*FrameScheduler)(nil)
