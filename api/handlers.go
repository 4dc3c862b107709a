/*
handlers.go - HTTP API handlers for the wage watcher

PURPOSE:
  Exposes the wage engine via REST API. Handlers only call the engine's
  public operations and render its snapshots; they hold no tracking state.

ENDPOINTS:
  Settings:
    GET    /api/inputs              Current settings as entered
    PATCH  /api/inputs              Edit one setting {field, value}
    GET    /api/settings/export     Download settings as JSON
    POST   /api/settings/import     Replace settings from a JSON document

  Tracker:
    GET    /api/display             Render snapshot
    POST   /api/tracker/start       Start manual tracking
    POST   /api/tracker/stop        Pause tracking
    POST   /api/tracker/reset       Restore defaults and clear saved state
    POST   /api/tracker/reinitialize Re-derive tracking from the schedule (page load)

  Celebrations:
    GET    /api/celebration         Is a celebration waiting to be played
    DELETE /api/celebration         Animation finished
    GET    /api/celebrations        History, newest first (?limit=N)
    DELETE /api/celebrations        Clear the history

  Presets:
    GET    /api/presets             List built-in presets
    POST   /api/presets/load        Apply a preset {preset_id}

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (wage.IsClientError)
  - 404: Unknown preset
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - recorder.go: Celebration history
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/warp/wage-watcher/factory"
	"github.com/warp/wage-watcher/store/sqlite"
	"github.com/warp/wage-watcher/wage"
)

// maxImportBytes bounds the size of an imported settings document.
const maxImportBytes = 64 << 10

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine   *wage.Engine
	Store    *sqlite.Store // Optional, backs celebration history
	Settings *factory.SettingsFactory
	Recorder *CelebrationRecorder
}

// NewHandler creates a handler and subscribes its recorder to the engine.
func NewHandler(engine *wage.Engine, store *sqlite.Store) *Handler {
	h := &Handler{
		Engine:   engine,
		Store:    store,
		Settings: factory.NewSettingsFactory(),
		Recorder: NewCelebrationRecorder(store),
	}
	h.Recorder.Attach(engine)
	return h
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetInputs returns the settings as entered.
func (h *Handler) GetInputs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Inputs())
}

// UpdateInput edits a single setting.
func (h *Handler) UpdateInput(w http.ResponseWriter, r *http.Request) {
	var req UpdateInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Engine.OnInputChange(r.Context(), wage.Field(req.Field), req.Value); err != nil {
		writeEngineError(w, "Failed to update setting", err)
		return
	}

	writeJSON(w, http.StatusOK, h.Engine.Inputs())
}

// ExportSettings downloads the settings as a pretty-printed JSON document.
func (h *Handler) ExportSettings(w http.ResponseWriter, r *http.Request) {
	data, err := h.Settings.Export(h.Engine.Inputs())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export settings", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="wage-watcher-settings.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportSettings validates a settings document and applies it.
func (h *Handler) ImportSettings(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read settings document", err)
		return
	}

	in, err := h.Settings.Parse(data)
	if err != nil {
		writeEngineError(w, "Invalid settings document", err)
		return
	}

	if err := h.Engine.LoadSettings(r.Context(), in); err != nil {
		writeEngineError(w, "Failed to apply settings", err)
		return
	}

	writeJSON(w, http.StatusOK, h.Engine.Inputs())
}

// =============================================================================
// TRACKER HANDLERS
// =============================================================================

// GetDisplay returns the current render snapshot.
func (h *Handler) GetDisplay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toDisplayDTO(h.Engine.DisplayData()))
}

// StartTracker starts manual tracking.
func (h *Handler) StartTracker(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Start(r.Context()); err != nil {
		writeEngineError(w, "Cannot start tracking", err)
		return
	}
	writeJSON(w, http.StatusOK, toDisplayDTO(h.Engine.DisplayData()))
}

// StopTracker pauses tracking.
func (h *Handler) StopTracker(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Stop(r.Context()); err != nil {
		writeEngineError(w, "Cannot stop tracking", err)
		return
	}
	writeJSON(w, http.StatusOK, toDisplayDTO(h.Engine.DisplayData()))
}

// ResetTracker restores the defaults. Celebration history is kept.
func (h *Handler) ResetTracker(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Reset(r.Context()); err != nil {
		writeEngineError(w, "Failed to reset", err)
		return
	}
	writeJSON(w, http.StatusOK, toDisplayDTO(h.Engine.DisplayData()))
}

// ReinitializeTracker re-derives the session from the schedule and the wall
// clock. The front end calls it on every page load so a new day's shift is
// picked up.
func (h *Handler) ReinitializeTracker(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Reinitialize(r.Context()); err != nil {
		writeEngineError(w, "Failed to reinitialize", err)
		return
	}
	writeJSON(w, http.StatusOK, toDisplayDTO(h.Engine.DisplayData()))
}

// =============================================================================
// CELEBRATION HANDLERS
// =============================================================================

// GetCelebration reports whether a celebration is waiting to be played.
func (h *Handler) GetCelebration(w http.ResponseWriter, r *http.Request) {
	resp := CelebrationStatusDTO{Celebrating: h.Engine.Celebrating()}
	if c, ok := h.Recorder.Latest(); ok {
		dto := toCelebrationDTO(c)
		resp.Latest = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClearCelebration is called once the animation has played.
func (h *Handler) ClearCelebration(w http.ResponseWriter, r *http.Request) {
	h.Engine.ClearCelebration()
	w.WriteHeader(http.StatusNoContent)
}

// ListCelebrations returns the celebration history, newest first.
func (h *Handler) ListCelebrations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	dtos := []CelebrationDTO{}
	if h.Store != nil {
		records, err := h.Store.ListCelebrations(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list celebrations", err)
			return
		}
		for _, rec := range records {
			dtos = append(dtos, recordToCelebrationDTO(rec))
		}
	}

	writeJSON(w, http.StatusOK, dtos)
}

// ClearCelebrationHistory deletes the stored celebration history.
func (h *Handler) ClearCelebrationHistory(w http.ResponseWriter, r *http.Request) {
	if h.Store != nil {
		if err := h.Store.ClearCelebrations(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to clear celebrations", err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns the built-in presets with their parsed settings.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := factory.Presets()
	dtos := make([]PresetDTO, 0, len(presets))
	for _, p := range presets {
		in, err := h.Settings.LoadPreset(p.ID)
		if err != nil {
			continue
		}
		dtos = append(dtos, toPresetDTO(p, in))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadPreset applies a preset.
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	var req LoadPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in, err := h.Settings.LoadPreset(req.PresetID)
	if err != nil {
		writeEngineError(w, "Failed to load preset", err)
		return
	}

	if err := h.Engine.LoadSettings(r.Context(), in); err != nil {
		writeEngineError(w, "Failed to apply preset", err)
		return
	}

	writeJSON(w, http.StatusOK, h.Engine.Inputs())
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps domain errors to HTTP status codes.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, factory.ErrPresetNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case wage.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
