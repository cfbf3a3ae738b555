/*
request.go - Leave-request lifecycle

States: pending (initial) -> approved | rejected | cancelled, all
terminal. Approve and reject are approver actions; cancel belongs to
the owning user. Any transition attempted from a non-pending state
returns ErrStateConflict.

Creation validates, in order: leave type, date order, overlap against
the user's pending and approved requests (inclusive intervals), and at
least one chargeable working day. The working-day count becomes the
request's day charge.
*/
package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
)

// Lifecycle validates and creates requests and drives the state
// machine. Timestamps are assigned here, never by storage hooks.
type Lifecycle struct {
	Requests RequestStore
	Counter  *calendar.Counter

	// Workweek is the work pattern used to charge days (5 or 6).
	// Zero means five days.
	Workweek int

	// Now is the clock for created/updated/approved timestamps.
	Now func() time.Time
}

func (l *Lifecycle) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Lifecycle) workweek() int {
	if l.Workweek == calendar.WorkweekSixDays {
		return calendar.WorkweekSixDays
	}
	return calendar.WorkweekFiveDays
}

// Create validates and persists a new pending request. Validation
// failures come back as *ValidationError.
func (l *Lifecycle) Create(ctx context.Context, user UserID, leaveType LeaveType, start, end calendar.Date, comment string) (*Request, error) {
	if !leaveType.Valid() {
		return nil, newValidationError(CodeInvalidType, "unknown leave type %q", leaveType)
	}
	if start.After(end) {
		return nil, newValidationError(CodeInvalidRange, "start date %s is after end date %s", start, end)
	}

	overlapping, err := l.Requests.FindRequests(ctx, RequestFilter{
		User:          &user,
		Statuses:      []RequestStatus{StatusPending, StatusApproved},
		OverlapsStart: &start,
		OverlapsEnd:   &end,
	})
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		first := overlapping[0]
		return nil, newValidationError(CodeOverlap, "range %s..%s overlaps existing request %s..%s", start, end, first.StartDate, first.EndDate)
	}

	days := l.Counter.Count(start, end, l.workweek())
	if days <= 0 {
		return nil, newValidationError(CodeNoWorkingDays, "range %s..%s contains no chargeable working days", start, end)
	}

	now := l.now()
	request := &Request{
		ID:        RequestID(uuid.NewString()),
		User:      user,
		Type:      leaveType,
		StartDate: start,
		EndDate:   end,
		Days:      decimal.NewFromInt(int64(days)),
		Status:    StatusPending,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := l.Requests.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return request, nil
}

// Approve moves a pending request to approved, recording the approver
// and timestamp. The underlying store performs the compare-and-write;
// a concurrent winner leaves this caller with ErrStateConflict.
func (l *Lifecycle) Approve(ctx context.Context, id RequestID, approver UserID) error {
	return l.Requests.TransitionStatus(ctx, id, StatusPending, StatusApproved, approver, l.now(), "")
}

// Reject moves a pending request to rejected with an optional reason.
func (l *Lifecycle) Reject(ctx context.Context, id RequestID, approver UserID, reason string) error {
	return l.Requests.TransitionStatus(ctx, id, StatusPending, StatusRejected, approver, l.now(), reason)
}

// Cancel moves a pending request to cancelled. Only the owning user may
// cancel; anyone else sees ErrNotFound, matching what a lookup scoped
// to their own requests would produce.
func (l *Lifecycle) Cancel(ctx context.Context, id RequestID, user UserID) error {
	request, err := l.Requests.Request(ctx, id)
	if err != nil {
		return err
	}
	if request.User != user {
		return fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	return l.Requests.TransitionStatus(ctx, id, StatusPending, StatusCancelled, user, l.now(), "")
}
