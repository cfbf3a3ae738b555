package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// Carryover caps the prior year's remaining balance at maxCarryover.
// There is deliberately no floor at zero: an over-drawn prior year
// propagates as a negative carryover and reduces the following year's
// effective entitlement.
func Carryover(priorYearAvailable, maxCarryover decimal.Decimal) decimal.Decimal {
	if priorYearAvailable.GreaterThan(maxCarryover) {
		return maxCarryover
	}
	return priorYearAvailable
}

// CarryoverResolver reads the prior-year snapshot and applies the cap.
type CarryoverResolver struct {
	Balances BalanceStore
}

// ForYear returns the days carried into `year` from `year-1`. A missing
// prior-year snapshot carries zero.
func (r *CarryoverResolver) ForYear(ctx context.Context, user UserID, year int, maxCarryover decimal.Decimal) (decimal.Decimal, error) {
	prior, err := r.Balances.Snapshot(ctx, user, year-1)
	if err != nil {
		return decimal.Zero, err
	}
	if prior == nil {
		return decimal.Zero, nil
	}
	return Carryover(prior.Available(), maxCarryover), nil
}
