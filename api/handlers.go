/*
handlers.go - HTTP API handlers for the flextime engine

PURPOSE:
  Exposes the flextime calculations and the logbook via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calculations:
    POST   /api/calc/departure          Earliest permissible departure
    POST   /api/calc/desired-departure  Validate a chosen departure

  Planner:
    POST   /api/plan/daily              Distribute a goal over days
    POST   /api/plan/total              Project a daily rate over days

  Settings:
    GET    /api/settings                Current configuration
    PUT    /api/settings                Replace configuration

  Logbook:
    GET    /api/log                     Full log, newest first
    POST   /api/log                     Book a day (?confirm=true to overwrite)
    PUT    /api/log/{id}                Edit a day
    DELETE /api/log                     Clear the log (?confirm=true)
    POST   /api/log/import              Merge an uploaded JSON/CSV file
    GET    /api/log/export?format=...   Download as json, csv or pdf

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unknown formats
  - 404: Unknown day id
  - 409: Overwrite or clear awaiting confirmation
  - 422: Policy-rule violations (core time, flex end, daily maximum)
  - 500: Storage errors

  Policy violations additionally carry a stable machine code so clients
  can localize the message.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Jojo252511/arbeitszeit/flextime"
	"github.com/Jojo252511/arbeitszeit/kv"
	"github.com/Jojo252511/arbeitszeit/logbook"
	"github.com/Jojo252511/arbeitszeit/settings"
)

// maxImportBytes bounds uploaded logbook files.
const maxImportBytes = 4 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for the API handlers.
type Handler struct {
	Settings *settings.Service
	Log      *logbook.Logbook
}

func NewHandler(svc *settings.Service, log *logbook.Logbook) *Handler {
	return &Handler{Settings: svc, Log: log}
}

// =============================================================================
// CALCULATION ENDPOINTS
// =============================================================================

// CalcDeparture computes the earliest permissible departure for an arrival.
// POST /api/calc/departure
func (h *Handler) CalcDeparture(w http.ResponseWriter, r *http.Request) {
	var req DepartureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, cur, err := h.policyFor(r, req.IsMinor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	day, err := weekdayOf(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	arrival, err := flextime.ParseClock(req.Arrival)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid arrival time", err)
		return
	}

	res := flextime.EarliestDeparture(cfg, day, arrival, req.TargetHours)
	bal := flextime.ComputeBalance(res.CalcStart, res.Departure, res.BreakMinutes, req.TargetHours, cur)

	writeJSON(w, http.StatusOK, DepartureDTO{
		CalcStart:          res.CalcStart.Clock(),
		Departure:          res.Departure.Clock(),
		HardStop:           res.HardStop,
		ViolatesCore:       res.ViolatesCore,
		ClampedToFlexStart: res.ClampedToFlexStart,
		BreakMinutes:       res.BreakMinutes,
		WorkedMinutes:      bal.WorkedMinutes,
		DailyDelta:         bal.DailyDelta,
		NewBalanceHours:    flextime.MinutesToHours(bal.NewBalanceMinutes),
		DailyDeltaDisplay:  flextime.FormatSigned(bal.DailyDelta),
	})
}

// CalcDesiredDeparture validates a departure the user picked and returns
// the bookkeeping it would produce.
// POST /api/calc/desired-departure
func (h *Handler) CalcDesiredDeparture(w http.ResponseWriter, r *http.Request) {
	var req DesiredDepartureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, cur, err := h.policyFor(r, req.IsMinor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	day, err := weekdayOf(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	arrival, err := flextime.ParseClock(req.Arrival)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid arrival time", err)
		return
	}
	desired, err := flextime.ParseClock(req.Desired)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid desired departure time", err)
		return
	}

	bal, err := flextime.ValidateDesiredDeparture(cfg, day, arrival, desired, req.TargetHours, cur)
	if err != nil {
		writePolicyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DesiredDepartureDTO{
		WorkedMinutes:     bal.WorkedMinutes,
		DailyDelta:        bal.DailyDelta,
		NewBalanceHours:   flextime.MinutesToHours(bal.NewBalanceMinutes),
		DailyDeltaDisplay: flextime.FormatSigned(bal.DailyDelta),
	})
}

// =============================================================================
// PLANNER ENDPOINTS
// =============================================================================

// PlanDaily distributes an overtime goal over a number of days.
// POST /api/plan/daily
func (h *Handler) PlanDaily(w http.ResponseWriter, r *http.Request) {
	var req DailyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := h.Settings.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	plan, err := flextime.PlanDailySurplus(req.TargetTotalHours, req.NumberOfDays,
		cfg.CurrentBalanceHours, cfg.TargetHoursDefault)
	if err != nil {
		writePolicyError(w, err)
		return
	}

	rounded := int(plan.PerDayMinutes.Round(0).IntPart())
	writeJSON(w, http.StatusOK, DailyPlanDTO{
		PerDayMinutes: plan.PerDayMinutes,
		Display:       flextime.FormatSigned(rounded),
	})
}

// PlanTotal projects a daily rate out over a number of days.
// POST /api/plan/total
func (h *Handler) PlanTotal(w http.ResponseWriter, r *http.Request) {
	var req TotalPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	total, err := flextime.ProjectTotalSurplus(req.PerDayMinutes, req.NumberOfDays)
	if err != nil {
		writePolicyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TotalPlanDTO{
		TotalMinutes: total,
		Display:      flextime.FormatSigned(total),
	})
}

// =============================================================================
// SETTINGS ENDPOINTS
// =============================================================================

// GetSettings returns the current configuration.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Settings.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// PutSettings replaces the configuration.
// PUT /api/settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Settings.Save(r.Context(), cfg); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// =============================================================================
// LOGBOOK ENDPOINTS
// =============================================================================

// GetLog returns the full log, newest day first, with the running total.
// GET /api/log
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	records, err := h.Log.Records(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	logbook.SortDescending(records)

	total := 0
	for _, rec := range records {
		total += rec.DailySaldoMinutes
	}
	writeJSON(w, http.StatusOK, LogbookDTO{
		Records:           records,
		TotalSaldoMinutes: total,
		TotalSaldoDisplay: flextime.FormatSigned(total),
	})
}

// SaveDay books a day. When a record for the day already exists, the
// request must carry ?confirm=true or it is answered with 409.
// POST /api/log?confirm=true
func (h *Handler) SaveDay(w http.ResponseWriter, r *http.Request) {
	var req SaveDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, err := dateOf(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	label := logbook.DayLabel(req.Label)
	if req.Label == "" {
		label = logbook.LabelWork
	}
	if !label.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown day type", fmt.Errorf("label %q", req.Label))
		return
	}

	var rec logbook.DayRecord
	if label.IsWorkDay() {
		cfg, cur, err := h.policyFor(r, req.IsMinor)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
			return
		}
		arrival, err := flextime.ParseClock(req.Arrival)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid arrival time", err)
			return
		}
		leaving, err := flextime.ParseClock(req.Leaving)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid leaving time", err)
			return
		}
		bal, err := flextime.ValidateDesiredDeparture(cfg, day.Weekday(), arrival, leaving, req.TargetHours, cur)
		if err != nil {
			writePolicyError(w, err)
			return
		}
		rec = logbook.NewWorkRecord(day, arrival, leaving, req.TargetHours, bal.DailyDelta)
	} else {
		rec = logbook.NewDayRecord(day, label, req.TargetHours)
	}

	overwritten, err := h.Log.Upsert(r.Context(), rec, confirmFromQuery(r))
	if errors.Is(err, logbook.ErrConfirmationRequired) {
		writeError(w, http.StatusConflict, "A record for this day exists; repeat with confirm=true to overwrite", nil)
		return
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}

	status := http.StatusCreated
	if overwritten {
		status = http.StatusOK
	}
	writeJSON(w, status, rec)
}

// EditDay rewrites arrival, leaving and label of an existing day and
// recomputes its saldo.
// PUT /api/log/{id}
func (h *Handler) EditDay(w http.ResponseWriter, r *http.Request) {
	var id int64
	if _, err := fmt.Sscanf(chi.URLParam(r, "id"), "%d", &id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day id", err)
		return
	}

	var req EditDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	label := logbook.DayLabel(req.Label)
	if req.Label == "" {
		label = logbook.LabelWork
	}
	if !label.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown day type", fmt.Errorf("label %q", req.Label))
		return
	}

	cfg, err := h.Settings.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	rec, err := h.Log.Edit(r.Context(), id, req.Arrival, req.Leaving, label, cfg.Policy())
	if errors.Is(err, logbook.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "No record for this day", nil)
		return
	}
	if errors.Is(err, flextime.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid clock time", err)
		return
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ClearLog removes every record. Requires ?confirm=true.
// DELETE /api/log?confirm=true
func (h *Handler) ClearLog(w http.ResponseWriter, r *http.Request) {
	err := h.Log.Clear(r.Context(), confirmFromQuery(r))
	if errors.Is(err, logbook.ErrConfirmationRequired) {
		writeError(w, http.StatusConflict, "Clearing deletes all records; repeat with confirm=true", nil)
		return
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ImportLog merges an uploaded JSON or CSV logbook into the stored one.
// The merge overwrites matching days, so it asks for the same ?confirm=true
// the other destructive log operations require.
// POST /api/log/import?confirm=true
func (h *Handler) ImportLog(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	cfg, err := h.Settings.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	imported, err := logbook.ParseImport(content, cfg.Policy(), cfg.TargetHoursDefault)
	if errors.Is(err, logbook.ErrUnrecognizedFormat) {
		writeError(w, http.StatusBadRequest, "Unrecognized file format", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse upload", err)
		return
	}

	err = h.Log.MergeImported(r.Context(), imported, confirmFromQuery(r))
	if errors.Is(err, logbook.ErrConfirmationRequired) {
		writeError(w, http.StatusConflict, "Importing overwrites matching days; repeat with confirm=true", nil)
		return
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}

	records, err := h.Log.Records(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResultDTO{Imported: len(imported), Total: len(records)})
}

// ExportLog serves the log as a downloadable file.
// GET /api/log/export?format=json|csv|pdf
func (h *Handler) ExportLog(w http.ResponseWriter, r *http.Request) {
	records, err := h.Log.Records(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}

	var file logbook.ExportFile
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		file, err = logbook.ToJSON(records)
	case "csv":
		file, err = logbook.ToCSV(records)
	case "pdf":
		file, err = logbook.WritePDF(records)
	default:
		writeError(w, http.StatusBadRequest, "Unknown export format", fmt.Errorf("format %q", format))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build export", err)
		return
	}

	w.Header().Set("Content-Type", file.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// =============================================================================
// HELPERS
// =============================================================================

// policyFor loads the settings and returns the policy with the request's
// minor flag applied, plus the stored balance in minutes.
func (h *Handler) policyFor(r *http.Request, isMinor bool) (flextime.PolicyConfig, int, error) {
	cfg, err := h.Settings.Load(r.Context())
	if err != nil {
		return flextime.PolicyConfig{}, 0, err
	}
	policy := cfg.Policy()
	policy.IsMinor = isMinor
	return policy, flextime.HoursToMinutes(cfg.CurrentBalanceHours), nil
}

// weekdayOf resolves an optional "YYYY-MM-DD" date to its weekday,
// defaulting to today.
func weekdayOf(date string) (time.Weekday, error) {
	t, err := dateOf(date)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// dateOf parses an optional "YYYY-MM-DD" date, defaulting to today.
func dateOf(date string) (time.Time, error) {
	if date == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", date, time.Local)
}

// confirmFromQuery turns the ?confirm= flag into the logbook's
// confirmation capability.
func confirmFromQuery(r *http.Request) logbook.Confirmer {
	return logbook.Static(r.URL.Query().Get("confirm") == "true")
}

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

// writePolicyError maps domain errors to HTTP status plus a stable code.
func writePolicyError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	code := ""
	switch {
	case errors.Is(err, flextime.ErrInvalidInput),
		errors.Is(err, flextime.ErrDepartureBeforeArrival):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
		if errors.Is(err, flextime.ErrDepartureBeforeArrival) {
			code = "DEPARTURE_BEFORE_ARRIVAL"
		}
	case errors.Is(err, flextime.ErrBeforeCoreEnd):
		code = "BEFORE_CORE_END"
	case errors.Is(err, flextime.ErrAfterFlexEnd):
		code = "AFTER_FLEX_END"
	case errors.Is(err, flextime.ErrExceedsMaxDailyWork):
		code = "EXCEEDS_MAX_DAILY_WORK"
	case errors.Is(err, flextime.ErrInsufficientBalance):
		code = "INSUFFICIENT_BALANCE"
	case errors.Is(err, flextime.ErrUnrealisticRate):
		code = "UNREALISTIC_RATE"
	default:
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
		return
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

// writeStorageError distinguishes quota and sync failures from generic
// storage errors.
func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, kv.ErrQuotaExceeded):
		writeError(w, http.StatusInsufficientStorage, "Synced storage quota exceeded", err)
	case errors.Is(err, kv.ErrSyncFailure):
		writeError(w, http.StatusBadGateway, "Synced storage unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "Storage error", err)
	}
}
