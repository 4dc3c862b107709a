package wage

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinCelebrationInterval is the minimum time between two celebrations.
const MinCelebrationInterval = 60 * time.Second

// MilestoneState remembers the last crossing that was evaluated.
type MilestoneState struct {
	LastCelebratedEarnings decimal.Decimal
	LastCelebrationTime    time.Time
}

// Detector emits at most one celebration per threshold crossing.
type Detector struct {
	State MilestoneState
}

// Reset forgets all celebration history.
func (d *Detector) Reset() {
	d.State = MilestoneState{}
}

// Observe feeds a new earnings value and reports whether a celebration fires.
//
// A crossing is evaluated once: LastCelebratedEarnings advances even when the
// throttle suppresses the signal. A threshold that is not positive makes the
// detector inert.
func (d *Detector) Observe(earnings, threshold decimal.Decimal, now time.Time) bool {
	if !threshold.IsPositive() {
		return false
	}
	prev := milestoneIndex(d.State.LastCelebratedEarnings, threshold)
	curr := milestoneIndex(earnings, threshold)
	if !curr.GreaterThan(prev) || !earnings.GreaterThan(d.State.LastCelebratedEarnings) {
		return false
	}

	fire := d.State.LastCelebrationTime.IsZero() ||
		now.Sub(d.State.LastCelebrationTime) > MinCelebrationInterval
	if fire {
		d.State.LastCelebrationTime = now
	}
	d.State.LastCelebratedEarnings = earnings
	return fire
}

// milestoneIndex is the number of whole thresholds in amount. QuoRem divides
// exactly; Div would round to DivisionPrecision first. Amounts are never
// negative, so truncation equals floor.
func milestoneIndex(amount, threshold decimal.Decimal) decimal.Decimal {
	q, _ := amount.QuoRem(threshold, 0)
	return q
}

// MilestoneFor is the largest multiple of threshold not above amount.
func MilestoneFor(amount, threshold decimal.Decimal) decimal.Decimal {
	return milestoneIndex(amount, threshold).Mul(threshold)
}
