/*
store.go - Persistence adapter contract

PURPOSE:
  The engine treats persistence as a single flat record (Blob) in a
  key-value store. It loads the record once, saves it after every state
  change and clears it on reset. Writes are fire-and-forget: a failure is
  logged and the engine keeps its in-memory state.

BLOB FORMAT:
  {
    "monthlySalary": 4400,
    "workDaysPerMonth": 22,
    "workStartTime": "09:00",
    "workEndTime": "17:00",
    "celebrationThreshold": 100,
    "decimalPlaces": 2,
    "isRunning": true,
    "accumulatedSeconds": 0,
    "sessionAnchorTime": 1767258000000,
    "lastCelebratedEarnings": 0,
    "lastCelebrationTime": 0
  }
  Timestamps are milliseconds since the Unix epoch.

IMPLEMENTATIONS:
  - wage/store/memory.go:  In-memory, for tests and one-shot tools
  - store/sqlite/sqlite.go: Production SQLite

SEE ALSO:
  - engine.go: Load, persist, Reset
*/
package wage

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
)

// StorageKey is the key the blob is stored under.
const StorageKey = "wageWatcherDataV7"

// Blob is the persisted settings and tracking state.
type Blob struct {
	MonthlySalary          float64 `json:"monthlySalary"`
	WorkDaysPerMonth       int     `json:"workDaysPerMonth"`
	WorkStartTime          string  `json:"workStartTime"`
	WorkEndTime            string  `json:"workEndTime"`
	CelebrationThreshold   float64 `json:"celebrationThreshold"`
	DecimalPlaces          *int    `json:"decimalPlaces,omitempty"`
	IsRunning              bool    `json:"isRunning"`
	AccumulatedSeconds     float64 `json:"accumulatedSeconds"`
	SessionAnchorTime      *int64  `json:"sessionAnchorTime,omitempty"`
	LastCelebratedEarnings float64 `json:"lastCelebratedEarnings"`
	LastCelebrationTime    int64   `json:"lastCelebrationTime"`
}

// BlobStore persists a single Blob.
type BlobStore interface {
	// Load returns the stored blob, or nil when nothing is stored.
	// A record that cannot be decoded yields ErrCorruptBlob.
	Load(ctx context.Context) (*Blob, error)

	// Save replaces the stored blob.
	Save(ctx context.Context, b Blob) error

	// Clear removes the stored blob.
	Clear(ctx context.Context) error
}

// NewBlob captures the current settings and state. Unparseable numbers are
// stored as their defaults.
func NewBlob(in Inputs, s Session, m MilestoneState) Blob {
	cfg := in.Config()
	def := DefaultInputs().Config()

	salary := cfg.MonthlySalary
	if !salary.IsPositive() {
		salary = def.MonthlySalary
	}
	days := cfg.WorkDaysPerMonth
	if days <= 0 {
		days = def.WorkDaysPerMonth
	}
	threshold := cfg.CelebrationThreshold
	if !threshold.IsPositive() {
		threshold = def.CelebrationThreshold
	}
	places := int(cfg.DecimalPlaces)

	b := Blob{
		MonthlySalary:          salary.InexactFloat64(),
		WorkDaysPerMonth:       days,
		WorkStartTime:          in.WorkStartTime,
		WorkEndTime:            in.WorkEndTime,
		CelebrationThreshold:   threshold.InexactFloat64(),
		DecimalPlaces:          &places,
		IsRunning:              s.IsRunning(),
		AccumulatedSeconds:     s.Accumulated.Seconds(),
		LastCelebratedEarnings: m.LastCelebratedEarnings.InexactFloat64(),
	}
	if !s.Anchor.IsZero() {
		anchor := s.Anchor.UnixMilli()
		b.SessionAnchorTime = &anchor
	}
	if !m.LastCelebrationTime.IsZero() {
		b.LastCelebrationTime = m.LastCelebrationTime.UnixMilli()
	}
	return b
}

// Inputs restores the settings. Missing or zero values fall back to defaults.
func (b Blob) Inputs() Inputs {
	in := DefaultInputs()
	if b.MonthlySalary > 0 {
		in.MonthlySalary = decimal.NewFromFloat(b.MonthlySalary).String()
	}
	if b.WorkDaysPerMonth > 0 {
		in.WorkDaysPerMonth = strconv.Itoa(b.WorkDaysPerMonth)
	}
	if b.WorkStartTime != "" {
		in.WorkStartTime = b.WorkStartTime
	}
	if b.WorkEndTime != "" {
		in.WorkEndTime = b.WorkEndTime
	}
	if b.CelebrationThreshold > 0 {
		in.CelebrationThreshold = decimal.NewFromFloat(b.CelebrationThreshold).String()
	}
	if b.DecimalPlaces != nil {
		in.DecimalPlaces = strconv.Itoa(*b.DecimalPlaces)
	}
	return in
}
