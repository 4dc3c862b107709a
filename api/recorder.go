package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/wage-watcher/store/sqlite"
	"github.com/warp/wage-watcher/wage"
)

// CelebrationRecorder keeps the latest celebration for the front end and
// appends every celebration to the store's history.
type CelebrationRecorder struct {
	Store *sqlite.Store // Optional

	mu     sync.Mutex
	latest *wage.Celebration
}

// NewCelebrationRecorder creates a recorder. store may be nil.
func NewCelebrationRecorder(store *sqlite.Store) *CelebrationRecorder {
	return &CelebrationRecorder{Store: store}
}

// Attach subscribes the recorder to the engine's milestone events.
func (cr *CelebrationRecorder) Attach(e *wage.Engine) {
	e.OnCelebration(cr.Record)
}

// Record stores c. Store failures are logged; the celebration still shows.
func (cr *CelebrationRecorder) Record(c wage.Celebration) {
	cr.mu.Lock()
	cr.latest = &c
	cr.mu.Unlock()

	if cr.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cr.Store.SaveCelebration(ctx, c); err != nil {
		log.Printf("[Recorder] Failed to save celebration %s: %v", c.ID, err)
	}
}

// Latest returns the most recent celebration, if any.
func (cr *CelebrationRecorder) Latest() (wage.Celebration, bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.latest == nil {
		return wage.Celebration{}, false
	}
	return *cr.latest, true
}
