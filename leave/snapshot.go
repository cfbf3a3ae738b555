package leave

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SnapshotService materializes per-(user, year) balance rows and
// applies manual adjustments. The live computation stays canonical for
// the running year; the frozen snapshot of a closed year feeds the next
// year's carryover.
type SnapshotService struct {
	Aggregator *BalanceAggregator
	Balances   BalanceStore
	Users      UserDirectory
}

// CloseYear freezes the live balance of every user into the snapshot
// store. Re-running upserts, so a close can be repeated after
// corrections without producing duplicate rows.
func (s *SnapshotService) CloseYear(ctx context.Context, year int) (int, error) {
	users, err := s.Users.Users(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, u := range users {
		balance, err := s.Aggregator.Balance(ctx, u.ID, year)
		if err != nil {
			return written, fmt.Errorf("close year %d for user %s: %w", year, u.ID, err)
		}

		snapshot := &BalanceSnapshot{
			User:              u.ID,
			Year:              year,
			AnnualEntitlement: balance.AnnualEntitlement,
			Carryover:         balance.Carryover,
			Taken:             balance.Taken,
			Approved:          balance.Approved,
		}
		if balance.Policy != nil {
			snapshot.Policy = balance.Policy.ID
		}

		// Preserve an existing manual adjustment across repeated closes.
		if existing, err := s.Balances.Snapshot(ctx, u.ID, year); err != nil {
			return written, err
		} else if existing != nil {
			snapshot.ManualAdjustment = existing.ManualAdjustment
			snapshot.AdjustmentNote = existing.AdjustmentNote
		}

		if err := s.Balances.SaveSnapshot(ctx, snapshot); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// Adjust records a manual correction on the (user, year) snapshot,
// creating the row from the live balance if it does not exist yet.
func (s *SnapshotService) Adjust(ctx context.Context, user UserID, year int, delta decimal.Decimal, note string) (*BalanceSnapshot, error) {
	snapshot, err := s.Balances.Snapshot(ctx, user, year)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		balance, err := s.Aggregator.Balance(ctx, user, year)
		if err != nil {
			return nil, err
		}
		snapshot = &BalanceSnapshot{
			User:              user,
			Year:              year,
			AnnualEntitlement: balance.AnnualEntitlement,
			Carryover:         balance.Carryover,
			Taken:             balance.Taken,
			Approved:          balance.Approved,
		}
		if balance.Policy != nil {
			snapshot.Policy = balance.Policy.ID
		}
	}

	snapshot.ManualAdjustment = snapshot.ManualAdjustment.Add(delta)
	snapshot.AdjustmentNote = note

	if err := s.Balances.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
