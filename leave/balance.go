/*
balance.go - Balance aggregation across entitlement, carryover, and the
request ledger

The central calculation answering "how many days does this user have?"
for a calendar year:

	available = (annualEntitlement + carryover) - (taken + approved)

Component sums over the user's requests intersecting the year:

	taken     approved VACATION starting strictly before now
	approved  approved VACATION starting at or after now
	pending   pending requests of ANY type
	sickness  approved SICKNESS, reported but never subtracted

The pending sum deliberately does not filter by leave type while taken
and approved do; that asymmetry is inherited policy and covered by
tests. All computation is a pure read: identical persisted state and
clock yield identical output.
*/
package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
)

// BalanceAggregator computes live balances and organization statistics.
type BalanceAggregator struct {
	Resolver    *PolicyResolver
	Entitlement *EntitlementCalculator
	Carryover   *CarryoverResolver
	Requests    RequestStore
	Users       UserDirectory

	// Defaults apply when no policy resolves for a user.
	Defaults PolicyDefaults

	// Now is the clock used for the taken/approved split. Defaults to
	// time.Now; tests inject a fixed instant.
	Now func() time.Time
}

func (b *BalanceAggregator) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Balance computes the live balance for a user and year. Missing policy
// or settings data never fails the computation; documented fallbacks
// apply (fulltime employment, default entitlement constants).
func (b *BalanceAggregator) Balance(ctx context.Context, user UserID, year int) (BalanceSummary, error) {
	policy, settings, err := b.Resolver.Resolve(ctx, user)
	if err != nil {
		return BalanceSummary{}, err
	}

	annualDays, maxCarryover := b.Defaults.Entitlements(policy)

	employmentType := EmploymentFulltime
	if settings != nil {
		employmentType = settings.EmploymentType
	}

	entitlement, err := b.Entitlement.AnnualEntitlement(ctx, user, year, annualDays, settings)
	if err != nil {
		return BalanceSummary{}, err
	}

	carryover, err := b.Carryover.ForYear(ctx, user, year, maxCarryover)
	if err != nil {
		return BalanceSummary{}, err
	}

	now := b.now()
	yearStart := calendar.StartOfYear(year)
	yearEnd := calendar.EndOfYear(year)
	vacation := TypeVacation
	sickness := TypeSickness

	taken, err := b.sumDays(ctx, RequestFilter{
		User:          &user,
		Statuses:      []RequestStatus{StatusApproved},
		Type:          &vacation,
		OverlapsStart: &yearStart,
		OverlapsEnd:   &yearEnd,
		StartBefore:   &now,
	})
	if err != nil {
		return BalanceSummary{}, err
	}

	approved, err := b.sumDays(ctx, RequestFilter{
		User:           &user,
		Statuses:       []RequestStatus{StatusApproved},
		Type:           &vacation,
		OverlapsStart:  &yearStart,
		OverlapsEnd:    &yearEnd,
		StartOnOrAfter: &now,
	})
	if err != nil {
		return BalanceSummary{}, err
	}

	// No type filter here: pending sickness counts too.
	pending, err := b.sumDays(ctx, RequestFilter{
		User:          &user,
		Statuses:      []RequestStatus{StatusPending},
		OverlapsStart: &yearStart,
		OverlapsEnd:   &yearEnd,
	})
	if err != nil {
		return BalanceSummary{}, err
	}

	sicknessDays, err := b.sumDays(ctx, RequestFilter{
		User:          &user,
		Statuses:      []RequestStatus{StatusApproved},
		Type:          &sickness,
		OverlapsStart: &yearStart,
		OverlapsEnd:   &yearEnd,
	})
	if err != nil {
		return BalanceSummary{}, err
	}

	available := entitlement.Add(carryover).Sub(taken).Sub(approved)

	return BalanceSummary{
		User:              user,
		Year:              year,
		AnnualEntitlement: entitlement,
		Taken:             taken,
		Approved:          approved,
		Pending:           pending,
		Available:         available,
		Carryover:         carryover,
		SicknessDays:      sicknessDays,
		Policy:            policy,
		EmploymentType:    employmentType,
	}, nil
}

// AllBalances computes balances for every user in the directory.
func (b *BalanceAggregator) AllBalances(ctx context.Context, year int) ([]BalanceSummary, error) {
	users, err := b.Users.Users(ctx)
	if err != nil {
		return nil, err
	}

	balances := make([]BalanceSummary, 0, len(users))
	for _, u := range users {
		balance, err := b.Balance(ctx, u.ID, year)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	return balances, nil
}

// Statistics aggregates totals across all users. Percentages and
// averages are rounded to one decimal; a zero denominator yields zero
// rather than an error.
func (b *BalanceAggregator) Statistics(ctx context.Context, year int) (Statistics, error) {
	balances, err := b.AllBalances(ctx, year)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{Year: year, UserCount: len(balances)}
	for _, bal := range balances {
		stats.TotalEntitlement = stats.TotalEntitlement.Add(bal.AnnualEntitlement)
		stats.TotalTaken = stats.TotalTaken.Add(bal.Taken)
		stats.TotalApproved = stats.TotalApproved.Add(bal.Approved)
		stats.TotalPending = stats.TotalPending.Add(bal.Pending)
		stats.TotalAvailable = stats.TotalAvailable.Add(bal.Available)
		stats.TotalSicknessDays = stats.TotalSicknessDays.Add(bal.SicknessDays)
	}

	if stats.TotalEntitlement.IsPositive() {
		stats.TakenPercentage = stats.TotalTaken.Div(stats.TotalEntitlement).Mul(oneHundred).Round(1)
		stats.AvailablePercentage = stats.TotalAvailable.Div(stats.TotalEntitlement).Mul(oneHundred).Round(1)
	}
	if stats.UserCount > 0 {
		userCount := decimal.NewFromInt(int64(stats.UserCount))
		stats.AveragePerUser = stats.TotalEntitlement.Div(userCount).Round(1)
		stats.AverageSicknessPerUser = stats.TotalSicknessDays.Div(userCount).Round(1)
	}

	return stats, nil
}

func (b *BalanceAggregator) sumDays(ctx context.Context, f RequestFilter) (decimal.Decimal, error) {
	requests, err := b.Requests.FindRequests(ctx, f)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, r := range requests {
		sum = sum.Add(r.Days)
	}
	return sum, nil
}
