/*
stores.go - Collaborator contracts consumed by the leave core

The core reads and writes through these interfaces only. Aggregation
filters are explicit values (RequestFilter) so the arithmetic stays in
this package and stores remain dumb row shufflers.

Implementations:
  - store/sqlite: production SQLite store

STATE TRANSITIONS:
  RequestStore.TransitionStatus must be an atomic conditional update:
  compare the current status and write in one statement. Two actors
  racing to process the same request must not both succeed.
*/
package leave

import (
	"context"
	"time"

	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
)

// =============================================================================
// POLICY STORE
// =============================================================================

type PolicyStore interface {
	// Policy returns the policy by id, or ErrNotFound.
	Policy(ctx context.Context, id PolicyID) (*Policy, error)

	// DefaultPolicy returns the active policy flagged default. If several
	// are flagged, the one with the lowest id wins. Returns (nil, nil)
	// when no default exists.
	DefaultPolicy(ctx context.Context) (*Policy, error)

	ListPolicies(ctx context.Context, activeOnly bool) ([]Policy, error)
	SavePolicy(ctx context.Context, p *Policy) error
}

// =============================================================================
// USER SETTINGS STORE
// =============================================================================

type UserSettingsStore interface {
	// SettingsFor returns the user's leave settings, or (nil, nil) when
	// none are stored.
	SettingsFor(ctx context.Context, user UserID) (*UserSettings, error)

	SaveSettings(ctx context.Context, s *UserSettings) error
}

// =============================================================================
// REQUEST STORE
// =============================================================================

// RequestFilter selects leave requests. Nil fields are not applied.
// The start-date cutoffs are wall-clock timestamps compared against the
// request's start date at midnight, so a request starting today falls
// on the "before now" side for any now after midnight.
type RequestFilter struct {
	User           *UserID
	Statuses       []RequestStatus
	Type           *LeaveType
	OverlapsStart  *calendar.Date // with OverlapsEnd: range intersection
	OverlapsEnd    *calendar.Date
	StartBefore    *time.Time // strict
	StartOnOrAfter *time.Time
	ExcludeID      *RequestID
}

// Matches applies the filter to a single request. Store implementations
// may push parts of the filter into queries; this is the reference
// predicate they must agree with.
func (f RequestFilter) Matches(r *Request) bool {
	if f.User != nil && r.User != *f.User {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if r.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Type != nil && r.Type != *f.Type {
		return false
	}
	if f.OverlapsStart != nil && f.OverlapsEnd != nil && !r.Overlaps(*f.OverlapsStart, *f.OverlapsEnd) {
		return false
	}
	if f.StartBefore != nil && !r.StartDate.Time().Before(*f.StartBefore) {
		return false
	}
	if f.StartOnOrAfter != nil && r.StartDate.Time().Before(*f.StartOnOrAfter) {
		return false
	}
	if f.ExcludeID != nil && r.ID == *f.ExcludeID {
		return false
	}
	return true
}

type RequestStore interface {
	CreateRequest(ctx context.Context, r *Request) error

	// Request returns the request by id, or ErrNotFound.
	Request(ctx context.Context, id RequestID) (*Request, error)

	// FindRequests returns requests matching the filter, ordered by
	// creation time descending.
	FindRequests(ctx context.Context, f RequestFilter) ([]Request, error)

	// TransitionStatus atomically moves a request from one status to
	// another. Approver metadata is recorded for approved/rejected
	// targets, the reason for rejected. Returns ErrNotFound for an
	// unknown id and ErrStateConflict when the current status differs
	// from `from`.
	TransitionStatus(ctx context.Context, id RequestID, from, to RequestStatus, actor UserID, at time.Time, reason string) error
}

// =============================================================================
// BALANCE SNAPSHOT STORE
// =============================================================================

type BalanceStore interface {
	// Snapshot returns the stored snapshot for (user, year), or (nil, nil).
	Snapshot(ctx context.Context, user UserID, year int) (*BalanceSnapshot, error)

	// SaveSnapshot upserts on (user, year); at most one row per pair.
	SaveSnapshot(ctx context.Context, s *BalanceSnapshot) error

	SnapshotsForYear(ctx context.Context, year int) ([]BalanceSnapshot, error)
}

// =============================================================================
// EXTERNAL COLLABORATORS
// =============================================================================

// WorkedHoursSource reports externally tracked work duration, used for
// hourly entitlement proration.
type WorkedHoursSource interface {
	// WorkedSeconds returns the total tracked duration for the user with
	// a begin timestamp in [from, to].
	WorkedSeconds(ctx context.Context, user UserID, from, to time.Time) (int64, error)
}

// UserDirectory lists the users balances are computed for.
type UserDirectory interface {
	Users(ctx context.Context) ([]User, error)
}
