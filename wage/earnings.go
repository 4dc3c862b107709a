package wage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EARNINGS CALCULATOR
// =============================================================================

var hundred = decimal.NewFromInt(100)

// Rates is the accrual rate derived from a config and the governing shift.
// PerSecond and ExpectedTotal are zero when the schedule is degenerate or the
// salary settings are not positive.
type Rates struct {
	DailySalary   decimal.Decimal
	PerSecond     decimal.Decimal
	ExpectedTotal decimal.Decimal
	ShiftDuration time.Duration
}

// ComputeRates derives the per-second rate for a shift.
func ComputeRates(cfg WageConfig, shift Shift) Rates {
	daily := cfg.DailySalary()
	if shift.IsDegenerate() || !daily.IsPositive() {
		return Rates{DailySalary: daily, PerSecond: decimal.Zero, ExpectedTotal: decimal.Zero}
	}
	return Rates{
		DailySalary:   daily,
		PerSecond:     daily.Div(durationSeconds(shift.Duration())),
		ExpectedTotal: daily,
		ShiftDuration: shift.Duration(),
	}
}

// Earnings is DailySalary * elapsed / ShiftDuration. It is not capped: manual
// overtime keeps accruing at the same rate.
func (r Rates) Earnings(elapsed time.Duration) decimal.Decimal {
	if r.ShiftDuration <= 0 || elapsed <= 0 {
		return decimal.Zero
	}
	return r.DailySalary.Mul(durationSeconds(elapsed)).Div(durationSeconds(r.ShiftDuration))
}

// Progress is the share of ExpectedTotal earned, in percent, capped at 100.
func (r Rates) Progress(earnings decimal.Decimal) decimal.Decimal {
	if !r.ExpectedTotal.IsPositive() {
		return decimal.Zero
	}
	p := earnings.Mul(hundred).Div(r.ExpectedTotal)
	if p.GreaterThan(hundred) {
		return hundred
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// durationSeconds converts d to seconds at millisecond precision.
func durationSeconds(d time.Duration) decimal.Decimal {
	return decimal.New(d.Milliseconds(), -3)
}

// FormatElapsed renders d as HH:MM:SS. Hours are not wrapped at 24.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
