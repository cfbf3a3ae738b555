/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  JSON shapes exchanged with the frontend. Decimal day amounts are
  rendered as strings rounded to two decimals here, at the presentation
  boundary; the domain keeps exact values.

CONVENTIONS:
  - Dates:      YYYY-MM-DD
  - Timestamps: RFC3339
  - Days:       decimal strings, two places ("12.50")

SEE ALSO:
  - handlers.go: where these are populated
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
	"github.com/mmind-zeno/LieTimeOffBundle/leave"
)

// =============================================================================
// REQUEST BODIES
// =============================================================================

// CreateRequestBody is the payload for submitting a leave request.
type CreateRequestBody struct {
	Type      string `json:"type"` // vacation | sickness
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Comment   string `json:"comment,omitempty"`
}

// DecisionBody names the acting user for approve/reject/cancel; Reason
// is only read on reject.
type DecisionBody struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason,omitempty"`
}

// AdjustmentBody is the payload for a manual balance adjustment.
type AdjustmentBody struct {
	UserID string `json:"user_id"`
	Year   int    `json:"year"`
	Delta  string `json:"delta"` // decimal string, may be negative
	Note   string `json:"note,omitempty"`
}

// CloseYearBody names the year to freeze.
type CloseYearBody struct {
	Year int `json:"year"`
}

// UserSettingsBody is the payload for per-user employment settings.
type UserSettingsBody struct {
	EmploymentType         string  `json:"employment_type"`
	ContractedHoursPerWeek *string `json:"contracted_hours_per_week,omitempty"`
	WorkingTimePercentage  string  `json:"working_time_percentage,omitempty"`
	ExternalTimeTracking   bool    `json:"external_time_tracking,omitempty"`
	PolicyID               *string `json:"policy_id,omitempty"`
}

// =============================================================================
// RESPONSE DTOS
// =============================================================================

// ErrorResponse is the uniform error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HolidayDTO is one public holiday. Label carries the dd.mm.yyyy form
// the frontend displays.
type HolidayDTO struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Paid  bool   `json:"paid"`
}

// RequestDTO is one leave request.
type RequestDTO struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Type            string  `json:"type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Days            string  `json:"days"`
	Status          string  `json:"status"`
	Comment         string  `json:"comment,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// BalanceDTO is the per-user balance summary.
type BalanceDTO struct {
	UserID            string  `json:"user_id"`
	Year              int     `json:"year"`
	AnnualEntitlement string  `json:"annual_entitlement"`
	Carryover         string  `json:"carryover"`
	Taken             string  `json:"taken"`
	Approved          string  `json:"approved"`
	Pending           string  `json:"pending"`
	Available         string  `json:"available"`
	SicknessDays      string  `json:"sickness_days"`
	PolicyID          *string `json:"policy_id,omitempty"`
	PolicyName        *string `json:"policy_name,omitempty"`
	EmploymentType    string  `json:"employment_type"`
}

// StatisticsDTO aggregates balances across all users.
type StatisticsDTO struct {
	Year                   int    `json:"year"`
	UserCount              int    `json:"user_count"`
	TotalEntitlement       string `json:"total_entitlement"`
	TotalTaken             string `json:"total_taken"`
	TotalApproved          string `json:"total_approved"`
	TotalPending           string `json:"total_pending"`
	TotalAvailable         string `json:"total_available"`
	TotalSicknessDays      string `json:"total_sickness_days"`
	TakenPercentage        string `json:"taken_percentage"`
	AvailablePercentage    string `json:"available_percentage"`
	AveragePerUser         string `json:"average_per_user"`
	AverageSicknessPerUser string `json:"average_sickness_per_user"`
}

// PolicyDTO is one leave policy.
type PolicyDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	AnnualDays   string `json:"annual_days"`
	MaxCarryover string `json:"max_carryover"`
	Default      bool   `json:"default"`
	Active       bool   `json:"active"`
}

// UserSettingsDTO is the per-user employment configuration.
type UserSettingsDTO struct {
	UserID                 string  `json:"user_id"`
	EmploymentType         string  `json:"employment_type"`
	ContractedHoursPerWeek *string `json:"contracted_hours_per_week,omitempty"`
	WorkingTimePercentage  string  `json:"working_time_percentage"`
	ExternalTimeTracking   bool    `json:"external_time_tracking"`
	PolicyID               *string `json:"policy_id,omitempty"`
}

// SnapshotDTO is one frozen balance row.
type SnapshotDTO struct {
	UserID            string `json:"user_id"`
	Year              int    `json:"year"`
	PolicyID          string `json:"policy_id,omitempty"`
	AnnualEntitlement string `json:"annual_entitlement"`
	Carryover         string `json:"carryover"`
	Taken             string `json:"taken"`
	Approved          string `json:"approved"`
	ManualAdjustment  string `json:"manual_adjustment"`
	AdjustmentNote    string `json:"adjustment_note,omitempty"`
	Available         string `json:"available"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// days renders a decimal day amount to two places.
func days(d decimal.Decimal) string {
	return d.Round(2).String()
}

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		Date:  h.Date.String(),
		Label: h.Date.Formatted(),
		Name:  h.Name,
		Type:  string(h.Type),
		Paid:  h.Paid,
	}
}

func toRequestDTO(r *leave.Request) RequestDTO {
	dto := RequestDTO{
		ID:              string(r.ID),
		UserID:          string(r.User),
		Type:            string(r.Type),
		StartDate:       r.StartDate.String(),
		EndDate:         r.EndDate.String(),
		Days:            days(r.Days),
		Status:          string(r.Status),
		Comment:         r.Comment,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.ApprovedBy != nil {
		s := string(*r.ApprovedBy)
		dto.ApprovedBy = &s
	}
	if r.ApprovedAt != nil {
		s := r.ApprovedAt.Format(time.RFC3339)
		dto.ApprovedAt = &s
	}
	return dto
}

func toBalanceDTO(b leave.BalanceSummary) BalanceDTO {
	dto := BalanceDTO{
		UserID:            string(b.User),
		Year:              b.Year,
		AnnualEntitlement: days(b.AnnualEntitlement),
		Carryover:         days(b.Carryover),
		Taken:             days(b.Taken),
		Approved:          days(b.Approved),
		Pending:           days(b.Pending),
		Available:         days(b.Available),
		SicknessDays:      days(b.SicknessDays),
		EmploymentType:    string(b.EmploymentType),
	}
	if b.Policy != nil {
		id := string(b.Policy.ID)
		name := b.Policy.Name
		dto.PolicyID = &id
		dto.PolicyName = &name
	}
	return dto
}

func toStatisticsDTO(s leave.Statistics) StatisticsDTO {
	return StatisticsDTO{
		Year:                   s.Year,
		UserCount:              s.UserCount,
		TotalEntitlement:       days(s.TotalEntitlement),
		TotalTaken:             days(s.TotalTaken),
		TotalApproved:          days(s.TotalApproved),
		TotalPending:           days(s.TotalPending),
		TotalAvailable:         days(s.TotalAvailable),
		TotalSicknessDays:      days(s.TotalSicknessDays),
		TakenPercentage:        s.TakenPercentage.String(),
		AvailablePercentage:    s.AvailablePercentage.String(),
		AveragePerUser:         s.AveragePerUser.String(),
		AverageSicknessPerUser: s.AverageSicknessPerUser.String(),
	}
}

func toPolicyDTO(p *leave.Policy) PolicyDTO {
	return PolicyDTO{
		ID:           string(p.ID),
		Name:         p.Name,
		Description:  p.Description,
		AnnualDays:   days(p.AnnualDays),
		MaxCarryover: days(p.MaxCarryover),
		Default:      p.Default,
		Active:       p.Active,
	}
}

func toUserSettingsDTO(us *leave.UserSettings) UserSettingsDTO {
	dto := UserSettingsDTO{
		UserID:                string(us.User),
		EmploymentType:        string(us.EmploymentType),
		WorkingTimePercentage: us.WorkingTimePercentage.String(),
		ExternalTimeTracking:  us.ExternalTimeTracking,
	}
	if us.ContractedHoursPerWeek != nil {
		s := us.ContractedHoursPerWeek.String()
		dto.ContractedHoursPerWeek = &s
	}
	if us.PolicyOverride != nil {
		s := string(*us.PolicyOverride)
		dto.PolicyID = &s
	}
	return dto
}

func toSnapshotDTO(s *leave.BalanceSnapshot) SnapshotDTO {
	return SnapshotDTO{
		UserID:            string(s.User),
		Year:              s.Year,
		PolicyID:          string(s.Policy),
		AnnualEntitlement: days(s.AnnualEntitlement),
		Carryover:         days(s.Carryover),
		Taken:             days(s.Taken),
		Approved:          days(s.Approved),
		ManualAdjustment:  days(s.ManualAdjustment),
		AdjustmentNote:    s.AdjustmentNote,
		Available:         days(s.Available()),
	}
}
