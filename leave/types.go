/*
Package leave contains the core domain of the time-off system: leave
policies, user settings, entitlement and carryover calculation, balance
aggregation, and the request lifecycle.

The package is storage-independent. Persistence, HTTP, and the external
time tracker are consumed through the collaborator interfaces in
stores.go; all arithmetic uses decimal.Decimal and stays in this
package. Rounding happens only at the presentation boundary, never on
intermediate values.
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type PolicyID string
type RequestID string

// =============================================================================
// LEAVE TYPES AND STATUSES
// =============================================================================

type LeaveType string

const (
	TypeVacation LeaveType = "vacation"
	TypeSickness LeaveType = "sickness"
)

func (t LeaveType) Valid() bool {
	return t == TypeVacation || t == TypeSickness
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

type EmploymentType string

const (
	EmploymentFulltime EmploymentType = "fulltime"
	EmploymentParttime EmploymentType = "parttime"
	EmploymentHourly   EmploymentType = "hourly"
)

// =============================================================================
// POLICY - Named bundle of entitlement and carryover defaults
// =============================================================================

type Policy struct {
	ID           PolicyID
	Name         string
	Description  string
	AnnualDays   decimal.Decimal
	MaxCarryover decimal.Decimal
	Default      bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// =============================================================================
// USER SETTINGS - Per-user employment configuration
// =============================================================================

type UserSettings struct {
	User                   UserID
	EmploymentType         EmploymentType
	ContractedHoursPerWeek *decimal.Decimal
	WorkingTimePercentage  decimal.Decimal // 0..100, 100 = full schedule
	ExternalTimeTracking   bool
	PolicyOverride         *PolicyID
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// =============================================================================
// LEAVE REQUEST
// =============================================================================

type Request struct {
	ID              RequestID
	User            UserID
	Type            LeaveType
	StartDate       calendar.Date // inclusive
	EndDate         calendar.Date // inclusive
	Days            decimal.Decimal
	Status          RequestStatus
	Comment         string
	RejectionReason string
	ApprovedBy      *UserID
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r *Request) IsPending() bool  { return r.Status == StatusPending }
func (r *Request) IsApproved() bool { return r.Status == StatusApproved }

// Overlaps reports whether the request's inclusive range intersects
// [start, end].
func (r *Request) Overlaps(start, end calendar.Date) bool {
	return r.StartDate.BeforeOrEqual(end) && r.EndDate.AfterOrEqual(start)
}

// =============================================================================
// BALANCE SNAPSHOT - Persisted per (user, year)
// =============================================================================

// BalanceSnapshot is the frozen balance row written at year close.
// During the live year the computed BalanceSummary is canonical; the
// snapshot of year-1 is the source for carryover.
type BalanceSnapshot struct {
	User             UserID
	Year             int
	Policy           PolicyID
	AnnualEntitlement decimal.Decimal
	Carryover         decimal.Decimal // from previous year
	Taken             decimal.Decimal
	Approved          decimal.Decimal
	ManualAdjustment  decimal.Decimal
	AdjustmentNote    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Total is the full budget for the year.
func (s *BalanceSnapshot) Total() decimal.Decimal {
	return s.AnnualEntitlement.Add(s.Carryover).Add(s.ManualAdjustment)
}

// Available is what remains of the budget.
func (s *BalanceSnapshot) Available() decimal.Decimal {
	return s.Total().Sub(s.Taken).Sub(s.Approved)
}

// =============================================================================
// COMPUTED BALANCE AND STATISTICS
// =============================================================================

// BalanceSummary is the live-computed balance for a user and year.
// All values are unrounded; presentation rounds to two decimals.
type BalanceSummary struct {
	User              UserID
	Year              int
	AnnualEntitlement decimal.Decimal
	Taken             decimal.Decimal // approved vacation, started before now
	Approved          decimal.Decimal // approved vacation, starting now or later
	Pending           decimal.Decimal // pending requests of any type
	Available         decimal.Decimal
	Carryover         decimal.Decimal
	SicknessDays      decimal.Decimal // approved sickness, informational only
	Policy            *Policy
	EmploymentType    EmploymentType
}

// Statistics aggregates balances across all users for a year.
// Percentage and average fields are rounded to one decimal.
type Statistics struct {
	Year                   int
	UserCount              int
	TotalEntitlement       decimal.Decimal
	TotalTaken             decimal.Decimal
	TotalApproved          decimal.Decimal
	TotalPending           decimal.Decimal
	TotalAvailable         decimal.Decimal
	TotalSicknessDays      decimal.Decimal
	TakenPercentage        decimal.Decimal
	AvailablePercentage    decimal.Decimal
	AveragePerUser         decimal.Decimal
	AverageSicknessPerUser decimal.Decimal
}

// =============================================================================
// USERS
// =============================================================================

// User is the minimal identity the core needs. Accounts live in the
// host system; the directory collaborator supplies them.
type User struct {
	ID   UserID
	Name string
}
