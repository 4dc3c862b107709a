/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Money values are
  rendered as decimal strings so clients never see float rounding.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Tracker:      DisplayDTO, CelebrationStatusDTO, CelebrationDTO
  Settings:     UpdateInputRequest (inputs themselves are wage.Inputs)
  Presets:      PresetDTO, LoadPresetRequest
  Errors:       ErrorResponse

SEE ALSO:
  - handlers.go: Uses these types
  - wage/engine.go: DisplayData, Celebration
*/
package api

import (
	"time"

	"github.com/warp/wage-watcher/factory"
	"github.com/warp/wage-watcher/store/sqlite"
	"github.com/warp/wage-watcher/wage"
)

// =============================================================================
// TRACKER
// =============================================================================

// DisplayDTO is the render snapshot.
type DisplayDTO struct {
	CurrentEarnings       string  `json:"current_earnings"`
	FormattedEarnings     string  `json:"formatted_earnings"`
	ElapsedSeconds        float64 `json:"elapsed_seconds"`
	ElapsedTimeFormatted  string  `json:"elapsed_time_formatted"`
	EarningsPerSecond     string  `json:"earnings_per_second"`
	ProgressPercent       string  `json:"progress_percent"`
	TotalExpectedEarnings string  `json:"total_expected_earnings"`
	DecimalPlaces         int32   `json:"decimal_places"`
	IsRunning             bool    `json:"is_running"`
	Status                string  `json:"status"`
	Celebrating           bool    `json:"celebrating"`
	AsOf                  string  `json:"as_of"`
}

// CelebrationDTO is a milestone event.
type CelebrationDTO struct {
	ID        string `json:"id"`
	At        string `json:"at"`
	Earnings  string `json:"earnings"`
	Milestone string `json:"milestone"`
	Threshold string `json:"threshold"`
}

// CelebrationStatusDTO tells the front end whether to play the animation.
type CelebrationStatusDTO struct {
	Celebrating bool            `json:"celebrating"`
	Latest      *CelebrationDTO `json:"latest,omitempty"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// UpdateInputRequest edits a single setting.
type UpdateInputRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// =============================================================================
// PRESETS
// =============================================================================

// PresetDTO describes a built-in settings preset.
type PresetDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Settings    wage.Inputs `json:"settings"`
}

// LoadPresetRequest selects a preset to apply.
type LoadPresetRequest struct {
	PresetID string `json:"preset_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toDisplayDTO(d wage.DisplayData) DisplayDTO {
	return DisplayDTO{
		CurrentEarnings:       d.CurrentEarnings.String(),
		FormattedEarnings:     d.FormattedEarnings,
		ElapsedSeconds:        d.ElapsedSeconds,
		ElapsedTimeFormatted:  d.ElapsedTimeFormatted,
		EarningsPerSecond:     d.EarningsPerSecond.String(),
		ProgressPercent:       d.ProgressPercent.StringFixed(2),
		TotalExpectedEarnings: d.TotalExpectedEarnings.StringFixed(d.DecimalPlaces),
		DecimalPlaces:         d.DecimalPlaces,
		IsRunning:             d.IsRunning,
		Status:                string(d.Status),
		Celebrating:           d.Celebrating,
		AsOf:                  d.AsOf.Format(time.RFC3339),
	}
}

func toCelebrationDTO(c wage.Celebration) CelebrationDTO {
	return CelebrationDTO{
		ID:        c.ID,
		At:        c.At.Format(time.RFC3339),
		Earnings:  c.Earnings.StringFixed(2),
		Milestone: c.Milestone.String(),
		Threshold: c.Threshold.String(),
	}
}

func recordToCelebrationDTO(r sqlite.CelebrationRecord) CelebrationDTO {
	return toCelebrationDTO(wage.Celebration{
		ID:        r.ID,
		At:        r.At,
		Earnings:  r.Earnings,
		Milestone: r.Milestone,
		Threshold: r.Threshold,
	})
}

func toPresetDTO(p factory.Preset, settings wage.Inputs) PresetDTO {
	return PresetDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Settings:    settings,
	}
}
