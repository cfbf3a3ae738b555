package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
	"github.com/mmind-zeno/LieTimeOffBundle/leave"
	"github.com/mmind-zeno/LieTimeOffBundle/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fixedNow is the clock injected into the aggregator so the
// taken/approved split is deterministic.
var fixedNow = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

func newAggregator(store *sqlite.Store) *leave.BalanceAggregator {
	return &leave.BalanceAggregator{
		Resolver:    &leave.PolicyResolver{Policies: store, Settings: store},
		Entitlement: &leave.EntitlementCalculator{Hours: store},
		Carryover:   &leave.CarryoverResolver{Balances: store},
		Requests:    store,
		Users:       store,
		Defaults:    leave.StatutoryDefaults(),
		Now:         func() time.Time { return fixedNow },
	}
}

// insertRequest bypasses lifecycle validation to set up ledger state.
func insertRequest(t *testing.T, store *sqlite.Store, user string, typ leave.LeaveType, status leave.RequestStatus, start, end string, days string) {
	t.Helper()
	startDate, err := calendar.ParseDate(start)
	require.NoError(t, err)
	endDate, err := calendar.ParseDate(end)
	require.NoError(t, err)

	now := startDate.Time()
	require.NoError(t, store.CreateRequest(context.Background(), &leave.Request{
		ID:        leave.RequestID(uuid.NewString()),
		User:      leave.UserID(user),
		Type:      typ,
		StartDate: startDate,
		EndDate:   endDate,
		Days:      d(days),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

// =============================================================================
// BALANCE TESTS
// =============================================================================

func TestBalance_ComponentsAndAvailable(t *testing.T) {
	// GIVEN: A full year of request history around the fixed clock
	//   - approved vacation in March (before now)      -> taken
	//   - approved vacation in September (after now)   -> approved
	//   - pending sickness in October                  -> pending
	//   - approved sickness in February                -> sickness only
	//   plus a 2024 snapshot carrying 5 days over
	// THEN: available = 25 + 5 - 5 - 5 = 20

	store := newTestStore(t)
	ctx := context.Background()

	savePolicy(t, store, "standard-li", "Standard", d("25"), d("5"), true)
	require.NoError(t, store.SaveSnapshot(ctx, &leave.BalanceSnapshot{
		User: "emp-1", Year: 2024, AnnualEntitlement: d("25"), Taken: d("17"),
	}))

	insertRequest(t, store, "emp-1", leave.TypeVacation, leave.StatusApproved, "2025-03-03", "2025-03-07", "5")
	insertRequest(t, store, "emp-1", leave.TypeVacation, leave.StatusApproved, "2025-09-01", "2025-09-05", "5")
	insertRequest(t, store, "emp-1", leave.TypeSickness, leave.StatusPending, "2025-10-06", "2025-10-07", "2")
	insertRequest(t, store, "emp-1", leave.TypeSickness, leave.StatusApproved, "2025-02-10", "2025-02-11", "2")

	balance, err := newAggregator(store).Balance(ctx, "emp-1", 2025)
	require.NoError(t, err)

	assert.True(t, d("25").Equal(balance.AnnualEntitlement), "entitlement %s", balance.AnnualEntitlement)
	assert.True(t, d("5").Equal(balance.Carryover), "carryover %s", balance.Carryover)
	assert.True(t, d("5").Equal(balance.Taken), "taken %s", balance.Taken)
	assert.True(t, d("5").Equal(balance.Approved), "approved %s", balance.Approved)
	assert.True(t, d("2").Equal(balance.Pending), "pending %s", balance.Pending)
	assert.True(t, d("2").Equal(balance.SicknessDays), "sickness %s", balance.SicknessDays)
	assert.True(t, d("20").Equal(balance.Available), "available %s", balance.Available)
}

func TestBalance_PendingCountsAllTypes(t *testing.T) {
	// The pending sum has no leave-type filter: pending sickness and
	// pending vacation both count. Taken/approved stay vacation-only.
	store := newTestStore(t)

	insertRequest(t, store, "emp-1", leave.TypeVacation, leave.StatusPending, "2025-08-04", "2025-08-08", "5")
	insertRequest(t, store, "emp-1", leave.TypeSickness, leave.StatusPending, "2025-08-11", "2025-08-12", "2")

	balance, err := newAggregator(store).Balance(context.Background(), "emp-1", 2025)
	require.NoError(t, err)

	assert.True(t, d("7").Equal(balance.Pending), "pending %s", balance.Pending)
	assert.True(t, balance.Taken.IsZero())
	assert.True(t, balance.Approved.IsZero())
}

func TestBalance_SicknessNeverSubtracted(t *testing.T) {
	store := newTestStore(t)

	insertRequest(t, store, "emp-1", leave.TypeSickness, leave.StatusApproved, "2025-03-10", "2025-03-21", "10")

	balance, err := newAggregator(store).Balance(context.Background(), "emp-1", 2025)
	require.NoError(t, err)

	assert.True(t, d("10").Equal(balance.SicknessDays))
	assert.True(t, d("25").Equal(balance.Available), "sickness must not reduce available, got %s", balance.Available)
}

func TestBalance_RequestStartingTodayCountsAsTaken(t *testing.T) {
	// The split compares the request's start date at midnight with the
	// wall clock. A request starting today (midnight < noon) is taken.
	store := newTestStore(t)

	insertRequest(t, store, "emp-1", leave.TypeVacation, leave.StatusApproved, "2025-07-01", "2025-07-04", "4")

	balance, err := newAggregator(store).Balance(context.Background(), "emp-1", 2025)
	require.NoError(t, err)

	assert.True(t, d("4").Equal(balance.Taken), "taken %s", balance.Taken)
	assert.True(t, balance.Approved.IsZero())
}

func TestBalance_FallbackDefaultsWithoutPolicy(t *testing.T) {
	// No policy, no settings, empty ledger: the statutory defaults
	// produce a plain 25-day balance.
	store := newTestStore(t)

	balance, err := newAggregator(store).Balance(context.Background(), "emp-1", 2025)
	require.NoError(t, err)

	assert.True(t, d("25").Equal(balance.AnnualEntitlement))
	assert.True(t, d("25").Equal(balance.Available))
	assert.Nil(t, balance.Policy)
	assert.Equal(t, leave.EmploymentFulltime, balance.EmploymentType)
}

func TestBalance_OtherYearRequestsIgnored(t *testing.T) {
	store := newTestStore(t)

	insertRequest(t, store, "emp-1", leave.TypeVacation, leave.StatusApproved, "2024-06-03", "2024-06-07", "5")

	balance, err := newAggregator(store).Balance(context.Background(), "emp-1", 2025)
	require.NoError(t, err)

	assert.True(t, balance.Taken.IsZero(), "2024 request must not touch 2025")
}

// =============================================================================
// STATISTICS TESTS
// =============================================================================

func TestStatistics_AggregatesAcrossUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, leave.User{ID: "emp-1", Name: "Anna"}))
	require.NoError(t, store.SaveUser(ctx, leave.User{ID: "emp-2", Name: "Bruno"}))

	insertRequest(t, store, "emp-1", leave.TypeVacation, leave.StatusApproved, "2025-03-03", "2025-03-07", "5")

	stats, err := newAggregator(store).Statistics(ctx, 2025)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.UserCount)
	assert.True(t, d("50").Equal(stats.TotalEntitlement), "total entitlement %s", stats.TotalEntitlement)
	assert.True(t, d("5").Equal(stats.TotalTaken))
	assert.True(t, d("45").Equal(stats.TotalAvailable))
	assert.True(t, d("10").Equal(stats.TakenPercentage), "taken%% %s", stats.TakenPercentage)
	assert.True(t, d("90").Equal(stats.AvailablePercentage), "available%% %s", stats.AvailablePercentage)
	assert.True(t, d("25").Equal(stats.AveragePerUser))
}

func TestStatistics_EmptyDirectoryYieldsZeroes(t *testing.T) {
	// Zero users must not divide by zero.
	store := newTestStore(t)

	stats, err := newAggregator(store).Statistics(context.Background(), 2025)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.UserCount)
	assert.True(t, stats.TotalEntitlement.IsZero())
	assert.True(t, stats.TakenPercentage.IsZero())
	assert.True(t, stats.AveragePerUser.IsZero())
}
