package factory

import (
	"errors"
	"fmt"

	"github.com/warp/wage-watcher/wage"
)

// =============================================================================
// PRESETS - Ready-made settings documents
// =============================================================================

// ErrPresetNotFound is returned by LoadPreset for unknown IDs.
var ErrPresetNotFound = errors.New("preset not found")

// Preset is a named settings document users can load in one step.
type Preset struct {
	ID          string
	Name        string
	Description string
	JSON        string
}

// SettingsJSON builds a settings document. Presets are stored in the same
// format as exports so they go through the same validation on load.
func SettingsJSON(salary, days, start, end, threshold, places string) string {
	return fmt.Sprintf(`{
  "monthlySalary": %q,
  "workDaysPerMonth": %q,
  "workStartTime": %q,
  "workEndTime": %q,
  "celebrationThreshold": %q,
  "decimalPlaces": %q
}`, salary, days, start, end, threshold, places)
}

var presets = []Preset{
	{
		ID:          "standard-day",
		Name:        "Standard day",
		Description: "5000 per month, 22 days, 09:00 to 17:00",
		JSON: SettingsJSON(wage.DefaultMonthlySalary, wage.DefaultWorkDaysPerMonth,
			wage.DefaultWorkStartTime, wage.DefaultWorkEndTime,
			wage.DefaultCelebrationThreshold, wage.DefaultDecimalPlaces),
	},
	{
		ID:          "night-shift",
		Name:        "Night shift",
		Description: "Overnight 22:00 to 06:00, 20 shifts per month",
		JSON:        SettingsJSON("6000", "20", "22:00", "06:00", "50", "2"),
	},
	{
		ID:          "part-time",
		Name:        "Part time afternoons",
		Description: "2200 per month, 13:00 to 17:00",
		JSON:        SettingsJSON("2200", "22", "13:00", "17:00", "25", "2"),
	},
	{
		ID:          "per-second",
		Name:        "Watch every cent",
		Description: "Shows six decimal places so the counter visibly moves",
		JSON:        SettingsJSON("4400", "22", "09:00", "17:00", "10", "6"),
	},
}

// Presets returns the built-in presets.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// LoadPreset parses the preset with the given ID.
func (f *SettingsFactory) LoadPreset(id string) (wage.Inputs, error) {
	for _, p := range presets {
		if p.ID == id {
			return f.Parse([]byte(p.JSON))
		}
	}
	return wage.Inputs{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
}
