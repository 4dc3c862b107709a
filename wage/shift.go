package wage

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// SHIFT - A resolved work interval
// =============================================================================

// Shift is a scheduled work interval resolved against a calendar day.
type Shift struct {
	Start time.Time
	End   time.Time
}

// Duration is End - Start. Zero or negative means the schedule is degenerate.
func (s Shift) Duration() time.Duration { return s.End.Sub(s.Start) }

// IsDegenerate reports whether no accrual can happen in this shift.
func (s Shift) IsDegenerate() bool { return s.Duration() <= 0 }

// Contains reports whether t falls in [Start, End).
func (s Shift) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

type ShiftStatus string

const (
	ShiftActive   ShiftStatus = "active"
	ShiftPast     ShiftStatus = "past"
	ShiftUpcoming ShiftStatus = "upcoming"
)

// =============================================================================
// TIME OF DAY
// =============================================================================

// TimeOfDay is a wall-clock hour and minute.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" in 24h form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, &TimeFormatError{Value: s}
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, &TimeFormatError{Value: s}
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, &TimeFormatError{Value: s}
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// On returns the instant this time of day occurs on day's calendar date.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	return TimeOfDay{}.On(t, loc)
}

// =============================================================================
// RESOLVER
// =============================================================================

// ResolveShift combines start and end with ref's calendar day. An end at or
// before the start is moved to the next day, so a valid result always has
// End > Start.
//
// Malformed times resolve to a zero-length shift at the start of ref's day.
// The TimeFormatError is returned for logging; the shift is still usable.
func ResolveShift(start, end string, ref time.Time, loc *time.Location) (Shift, error) {
	if loc == nil {
		loc = time.Local
	}
	st, err := ParseTimeOfDay(start)
	if err != nil {
		midnight := startOfDay(ref, loc)
		return Shift{Start: midnight, End: midnight}, err
	}
	et, err := ParseTimeOfDay(end)
	if err != nil {
		midnight := startOfDay(ref, loc)
		return Shift{Start: midnight, End: midnight}, err
	}

	shift := Shift{Start: st.On(ref, loc), End: et.On(ref, loc)}
	if !shift.End.After(shift.Start) {
		// Overnight: AddDate keeps the wall clock across DST changes.
		shift.End = et.On(shift.Start.AddDate(0, 0, 1), loc)
	}
	return shift, nil
}

// FindShift picks the shift that governs now. Yesterday's shift is checked
// first so an overnight shift that began the previous day wins over today's.
//
//   - now inside yesterday's shift  -> yesterday, ShiftActive
//   - now inside today's shift      -> today, ShiftActive
//   - now at or after today's end   -> today, ShiftPast
//   - otherwise                     -> today, ShiftUpcoming
func FindShift(start, end string, now time.Time, loc *time.Location) (Shift, ShiftStatus, error) {
	if loc == nil {
		loc = time.Local
	}
	today, err := ResolveShift(start, end, now, loc)
	if err != nil {
		return today, ShiftUpcoming, err
	}
	yesterday, _ := ResolveShift(start, end, startOfDay(now, loc).AddDate(0, 0, -1), loc)

	switch {
	case yesterday.Contains(now):
		return yesterday, ShiftActive, nil
	case today.Contains(now):
		return today, ShiftActive, nil
	case !now.Before(today.End):
		return today, ShiftPast, nil
	default:
		return today, ShiftUpcoming, nil
	}
}
