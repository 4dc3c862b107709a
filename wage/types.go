/*
Package wage provides the wage-accrual and schedule-reconciliation engine.

PURPOSE:
  Computes a user's real-time earnings from a salary configuration and a
  daily work schedule, reconciles tracking state against the wall clock
  whenever settings load or change, and raises a celebration when cumulative
  earnings cross a configurable milestone.

KEY CONCEPTS IN THIS FILE (types.go):
  - Inputs:     The user-editable settings, string-encoded as entered
  - WageConfig: The numeric view of Inputs used by the calculator
  - Field:      Names of the editable settings (used by OnInputChange)

DESIGN PRINCIPLES:
  1. Precision: Money uses decimal.Decimal, never float64
  2. Tolerance: Inputs may be transiently empty or invalid; parsing never
     fails, invalid numbers simply disable accrual
  3. Determinism: Core logic never calls time.Now(), it asks a Clock

USAGE:
  in := wage.DefaultInputs()
  cfg := in.Config()
  daily := cfg.DailySalary() // 5000 / 22

SEE ALSO:
  - shift.go:     Time/Schedule resolver
  - session.go:   Session state machine
  - earnings.go:  Earnings calculator
  - milestone.go: Milestone detector
  - engine.go:    The orchestrating Engine
*/
package wage

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultMonthlySalary        = "5000"
	DefaultWorkDaysPerMonth     = "22"
	DefaultWorkStartTime        = "09:00"
	DefaultWorkEndTime          = "17:00"
	DefaultCelebrationThreshold = "100"
	DefaultDecimalPlaces        = "2"

	MinDecimalPlaces = 0
	MaxDecimalPlaces = 20
)

// =============================================================================
// FIELDS
// =============================================================================

// Field names an editable setting. Values match the JSON keys of Inputs.
type Field string

const (
	FieldMonthlySalary        Field = "monthlySalary"
	FieldWorkDaysPerMonth     Field = "workDaysPerMonth"
	FieldWorkStartTime        Field = "workStartTime"
	FieldWorkEndTime          Field = "workEndTime"
	FieldCelebrationThreshold Field = "celebrationThreshold"
	FieldDecimalPlaces        Field = "decimalPlaces"
)

// Fields lists every editable setting in display order.
var Fields = []Field{
	FieldMonthlySalary,
	FieldWorkDaysPerMonth,
	FieldWorkStartTime,
	FieldWorkEndTime,
	FieldCelebrationThreshold,
	FieldDecimalPlaces,
}

// AffectsSchedule reports whether editing the field must re-derive the
// session state. Threshold and decimal places only apply going forward.
func (f Field) AffectsSchedule() bool {
	switch f {
	case FieldMonthlySalary, FieldWorkDaysPerMonth, FieldWorkStartTime, FieldWorkEndTime:
		return true
	}
	return false
}

// =============================================================================
// INPUTS - Settings as entered by the user
// =============================================================================

// Inputs holds the settings exactly as the user typed them. Numeric fields are
// kept as strings so that empty or half-typed values survive round trips.
type Inputs struct {
	MonthlySalary        string `json:"monthlySalary"`
	WorkDaysPerMonth     string `json:"workDaysPerMonth"`
	WorkStartTime        string `json:"workStartTime"`
	WorkEndTime          string `json:"workEndTime"`
	CelebrationThreshold string `json:"celebrationThreshold"`
	DecimalPlaces        string `json:"decimalPlaces"`
}

// DefaultInputs returns the settings used before anything is saved.
func DefaultInputs() Inputs {
	return Inputs{
		MonthlySalary:        DefaultMonthlySalary,
		WorkDaysPerMonth:     DefaultWorkDaysPerMonth,
		WorkStartTime:        DefaultWorkStartTime,
		WorkEndTime:          DefaultWorkEndTime,
		CelebrationThreshold: DefaultCelebrationThreshold,
		DecimalPlaces:        DefaultDecimalPlaces,
	}
}

// Get returns the raw value of a field.
func (in Inputs) Get(f Field) (string, bool) {
	switch f {
	case FieldMonthlySalary:
		return in.MonthlySalary, true
	case FieldWorkDaysPerMonth:
		return in.WorkDaysPerMonth, true
	case FieldWorkStartTime:
		return in.WorkStartTime, true
	case FieldWorkEndTime:
		return in.WorkEndTime, true
	case FieldCelebrationThreshold:
		return in.CelebrationThreshold, true
	case FieldDecimalPlaces:
		return in.DecimalPlaces, true
	}
	return "", false
}

// With returns a copy of in with field f set to value.
func (in Inputs) With(f Field, value string) (Inputs, bool) {
	switch f {
	case FieldMonthlySalary:
		in.MonthlySalary = value
	case FieldWorkDaysPerMonth:
		in.WorkDaysPerMonth = value
	case FieldWorkStartTime:
		in.WorkStartTime = value
	case FieldWorkEndTime:
		in.WorkEndTime = value
	case FieldCelebrationThreshold:
		in.CelebrationThreshold = value
	case FieldDecimalPlaces:
		in.DecimalPlaces = value
	default:
		return in, false
	}
	return in, true
}

// Config parses the inputs into their numeric form. Unparseable numbers
// become zero, which the calculator treats as "no accrual".
func (in Inputs) Config() WageConfig {
	places, ok := ParseDecimalPlaces(in.DecimalPlaces)
	if !ok {
		places, _ = ParseDecimalPlaces(DefaultDecimalPlaces)
	}
	return WageConfig{
		MonthlySalary:        parseDecimal(in.MonthlySalary),
		WorkDaysPerMonth:     parseInt(in.WorkDaysPerMonth),
		WorkStartTime:        strings.TrimSpace(in.WorkStartTime),
		WorkEndTime:          strings.TrimSpace(in.WorkEndTime),
		CelebrationThreshold: parseDecimal(in.CelebrationThreshold),
		DecimalPlaces:        places,
	}
}

// ParseDecimalPlaces parses an integer in [MinDecimalPlaces, MaxDecimalPlaces].
func ParseDecimalPlaces(s string) (int32, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < MinDecimalPlaces || n > MaxDecimalPlaces {
		return 0, false
	}
	return int32(n), true
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// =============================================================================
// WAGE CONFIG - Numeric settings
// =============================================================================

// WageConfig is the numeric view of Inputs. It is immutable once read for a
// tick.
type WageConfig struct {
	MonthlySalary        decimal.Decimal
	WorkDaysPerMonth     int
	WorkStartTime        string
	WorkEndTime          string
	CelebrationThreshold decimal.Decimal
	DecimalPlaces        int32
}

// Validate checks the fields required before tracking can start. Schedule
// times are deliberately not checked here.
func (c WageConfig) Validate() error {
	if !c.MonthlySalary.IsPositive() {
		return &ConfigError{Field: FieldMonthlySalary, Reason: "monthly salary must be greater than zero"}
	}
	if c.WorkDaysPerMonth <= 0 {
		return &ConfigError{Field: FieldWorkDaysPerMonth, Reason: "work days per month must be greater than zero"}
	}
	return nil
}

// DailySalary is MonthlySalary / WorkDaysPerMonth, or zero when either is not
// positive.
func (c WageConfig) DailySalary() decimal.Decimal {
	if !c.MonthlySalary.IsPositive() || c.WorkDaysPerMonth <= 0 {
		return decimal.Zero
	}
	return c.MonthlySalary.Div(decimal.NewFromInt(int64(c.WorkDaysPerMonth)))
}

// Inputs renders the config back into its string form.
func (c WageConfig) Inputs() Inputs {
	return Inputs{
		MonthlySalary:        c.MonthlySalary.String(),
		WorkDaysPerMonth:     strconv.Itoa(c.WorkDaysPerMonth),
		WorkStartTime:        c.WorkStartTime,
		WorkEndTime:          c.WorkEndTime,
		CelebrationThreshold: c.CelebrationThreshold.String(),
		DecimalPlaces:        strconv.Itoa(int(c.DecimalPlaces)),
	}
}
