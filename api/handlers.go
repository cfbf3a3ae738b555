/*
handlers.go - HTTP API handlers for the leave management system

PURPOSE:
  Exposes the leave engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calendar:
    GET    /api/holidays?year=2025        Public holidays for a year

  Balances:
    GET    /api/users/{id}/balance?year=  One user's live balance
    GET    /api/balances?year=            All users' balances
    GET    /api/statistics?year=          Organization statistics

  Requests:
    GET    /api/users/{id}/requests       One user's requests
    POST   /api/users/{id}/requests       Submit a leave request
    GET    /api/requests/pending          All pending requests
    POST   /api/requests/{id}/approve     Approve (pending only)
    POST   /api/requests/{id}/reject      Reject with reason
    POST   /api/requests/{id}/cancel      Cancel own pending request

  Policies and settings:
    GET    /api/policies                  List policies
    POST   /api/policies                  Create/update policy
    GET    /api/users/{id}/settings       Per-user employment settings
    PUT    /api/users/{id}/settings       Update them
    GET    /api/settings                  System settings
    PUT    /api/settings                  Write system settings
    DELETE /api/settings/{key}            Remove one system setting

  Admin:
    POST   /api/admin/seed                Seed preset policies
    POST   /api/admin/adjustments         Manual balance adjustment
    POST   /api/admin/close-year          Freeze balances into snapshots
    GET    /api/admin/snapshots?year=     Frozen rows for a year

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found (includes cancelling a foreign request)
  - 409: State conflict (decision raced or already decided)
  - 500: Internal errors

SECURITY NOTE:
  Authentication is the host system's job; handlers trust the acting
  user named in the payload. Deployments must put this behind the host
  session.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
	"github.com/mmind-zeno/LieTimeOffBundle/factory"
	"github.com/mmind-zeno/LieTimeOffBundle/leave"
	"github.com/mmind-zeno/LieTimeOffBundle/settings"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Calendar  *calendar.Calendar
	Lifecycle *leave.Lifecycle
	Balances  *leave.BalanceAggregator
	Snapshots *leave.SnapshotService
	Settings  *settings.Service

	Policies     leave.PolicyStore
	UserSettings leave.UserSettingsStore
	Requests     leave.RequestStore
	BalanceStore leave.BalanceStore
	Users        leave.UserDirectory
}

// yearParam reads ?year= and defaults to the current year.
func yearParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 2200 {
		return 0, false
	}
	return year, true
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListHolidays returns the public holidays of a year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid year", nil)
		return
	}

	holidays := h.Calendar.List(year)
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// GetBalance returns the live balance for one user.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid year", nil)
		return
	}

	summary, err := h.Balances.Balance(r.Context(), user, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(summary))
}

// ListBalances returns the live balance of every user.
func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid year", nil)
		return
	}

	summaries, err := h.Balances.AllBalances(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balances", err)
		return
	}

	dtos := make([]BalanceDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toBalanceDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStatistics returns organization-wide leave statistics.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid year", nil)
		return
	}

	stats, err := h.Balances.Statistics(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatisticsDTO(stats))
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// ListUserRequests returns one user's requests, newest first. An
// optional ?limit= trims the list.
func (h *Handler) ListUserRequests(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))

	requests, err := h.Requests.FindRequests(r.Context(), leave.RequestFilter{User: &user})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit >= 0 && limit < len(requests) {
			requests = requests[:limit]
		}
	}

	dtos := make([]RequestDTO, len(requests))
	for i := range requests {
		dtos[i] = toRequestDTO(&requests[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitRequest creates a new pending leave request.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))

	var body CreateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := calendar.ParseDate(body.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := calendar.ParseDate(body.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	req, err := h.Lifecycle.Create(r.Context(), user, leave.LeaveType(body.Type), start, end, body.Comment)
	if err != nil {
		writeDomainError(w, err, "Failed to create request")
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(req))
}

// ListPendingRequests returns every pending request.
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Requests.FindRequests(r.Context(), leave.RequestFilter{
		Statuses: []leave.RequestStatus{leave.StatusPending},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list pending requests", err)
		return
	}

	dtos := make([]RequestDTO, len(requests))
	for i := range requests {
		dtos[i] = toRequestDTO(&requests[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApproveRequest approves a pending request.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id := leave.RequestID(chi.URLParam(r, "id"))

	var body DecisionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.Actor == "" {
		writeError(w, http.StatusBadRequest, "actor is required", nil)
		return
	}

	if err := h.Lifecycle.Approve(r.Context(), id, leave.UserID(body.Actor)); err != nil {
		writeDomainError(w, err, "Failed to approve request")
		return
	}
	h.writeRequest(w, r, id)
}

// RejectRequest rejects a pending request with a reason.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id := leave.RequestID(chi.URLParam(r, "id"))

	var body DecisionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.Actor == "" {
		writeError(w, http.StatusBadRequest, "actor is required", nil)
		return
	}

	if err := h.Lifecycle.Reject(r.Context(), id, leave.UserID(body.Actor), body.Reason); err != nil {
		writeDomainError(w, err, "Failed to reject request")
		return
	}
	h.writeRequest(w, r, id)
}

// CancelRequest cancels the acting user's own pending request.
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := leave.RequestID(chi.URLParam(r, "id"))

	var body DecisionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.Actor == "" {
		writeError(w, http.StatusBadRequest, "actor is required", nil)
		return
	}

	if err := h.Lifecycle.Cancel(r.Context(), id, leave.UserID(body.Actor)); err != nil {
		writeDomainError(w, err, "Failed to cancel request")
		return
	}
	h.writeRequest(w, r, id)
}

func (h *Handler) writeRequest(w http.ResponseWriter, r *http.Request, id leave.RequestID) {
	req, err := h.Requests.Request(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Failed to load request")
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(req))
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns all policies; pass ?active=true for active only.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	policies, err := h.Policies.ListPolicies(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	dtos := make([]PolicyDTO, len(policies))
	for i := range policies {
		dtos[i] = toPolicyDTO(&policies[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePolicy creates or updates a policy from its JSON form.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var pj factory.PolicyJSON
	if err := json.NewDecoder(r.Body).Decode(&pj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := factory.FromJSON(pj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy", err)
		return
	}
	if err := h.Policies.SavePolicy(r.Context(), policy); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPolicyDTO(policy))
}

// =============================================================================
// USER SETTINGS HANDLERS
// =============================================================================

// GetUserSettings returns one user's employment settings. A user with
// no row gets the full-time defaults.
func (h *Handler) GetUserSettings(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))

	us, err := h.UserSettings.SettingsFor(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load user settings", err)
		return
	}
	if us == nil {
		us = &leave.UserSettings{
			User:                  user,
			EmploymentType:        leave.EmploymentFulltime,
			WorkingTimePercentage: decimal.NewFromInt(100),
		}
	}
	writeJSON(w, http.StatusOK, toUserSettingsDTO(us))
}

// PutUserSettings replaces one user's employment settings.
func (h *Handler) PutUserSettings(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))

	var body UserSettingsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	et := leave.EmploymentType(body.EmploymentType)
	switch et {
	case leave.EmploymentFulltime, leave.EmploymentParttime, leave.EmploymentHourly:
	default:
		writeError(w, http.StatusBadRequest, "Invalid employment_type", nil)
		return
	}

	percentage := decimal.NewFromInt(100)
	if body.WorkingTimePercentage != "" {
		p, err := decimal.NewFromString(body.WorkingTimePercentage)
		if err != nil || p.IsNegative() {
			writeError(w, http.StatusBadRequest, "Invalid working_time_percentage", err)
			return
		}
		percentage = p
	}

	us := &leave.UserSettings{
		User:                  user,
		EmploymentType:        et,
		WorkingTimePercentage: percentage,
		ExternalTimeTracking:  body.ExternalTimeTracking,
	}
	if body.ContractedHoursPerWeek != nil {
		hours, err := decimal.NewFromString(*body.ContractedHoursPerWeek)
		if err != nil || hours.IsNegative() {
			writeError(w, http.StatusBadRequest, "Invalid contracted_hours_per_week", err)
			return
		}
		us.ContractedHoursPerWeek = &hours
	}
	if body.PolicyID != nil && *body.PolicyID != "" {
		id := leave.PolicyID(*body.PolicyID)
		if _, err := h.Policies.Policy(r.Context(), id); err != nil {
			writeDomainError(w, err, "Unknown policy")
			return
		}
		us.PolicyOverride = &id
	}

	if err := h.UserSettings.SaveSettings(r.Context(), us); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save user settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserSettingsDTO(us))
}

// =============================================================================
// SYSTEM SETTINGS HANDLERS
// =============================================================================

// GetSettings returns every system setting as decoded values.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.Settings.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	out := make(map[string]any, len(all))
	for key, v := range all {
		out[key] = v.Interface()
	}
	writeJSON(w, http.StatusOK, out)
}

// PutSettings writes a batch of system settings. Values keep their JSON
// type (bool, number, string, object).
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	values := make(map[string]settings.Value, len(body))
	for key, raw := range body {
		v, err := settings.FromInterface(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unsupported value for "+key, err)
			return
		}
		values[key] = v
	}

	if err := h.Settings.SetMultiple(r.Context(), values); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": len(values)})
}

// DeleteSetting removes one system setting.
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.Settings.Delete(r.Context(), key); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete setting", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// SeedPolicies writes the preset policies into an empty database.
func (h *Handler) SeedPolicies(w http.ResponseWriter, r *http.Request) {
	created, err := factory.Seed(r.Context(), h.Policies)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed policies", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

// CreateAdjustment applies a manual delta to a user's balance snapshot.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var body AdjustmentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.UserID == "" || body.Year == 0 {
		writeError(w, http.StatusBadRequest, "user_id and year are required", nil)
		return
	}
	delta, err := decimal.NewFromString(body.Delta)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid delta", err)
		return
	}

	snap, err := h.Snapshots.Adjust(r.Context(), leave.UserID(body.UserID), body.Year, delta, body.Note)
	if err != nil {
		writeDomainError(w, err, "Failed to apply adjustment")
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

// CloseYear freezes every user's live balance into snapshots.
func (h *Handler) CloseYear(w http.ResponseWriter, r *http.Request) {
	var body CloseYearBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.Year == 0 {
		writeError(w, http.StatusBadRequest, "year is required", nil)
		return
	}

	written, err := h.Snapshots.CloseYear(r.Context(), body.Year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to close year", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"snapshots": written})
}

// ListSnapshots returns the frozen balance rows of a year.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid year", nil)
		return
	}

	snaps, err := h.BalanceStore.SnapshotsForYear(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}

	dtos := make([]SnapshotDTO, len(snaps))
	for i := range snaps {
		dtos[i] = toSnapshotDTO(&snaps[i])
	}
	writeJSON(w, http.StatusOK, dtos)
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

// writeDomainError maps domain error kinds to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	switch {
	case leave.IsValidation(err):
		writeError(w, http.StatusBadRequest, message, err)
	case leave.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case leave.IsStateConflict(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
