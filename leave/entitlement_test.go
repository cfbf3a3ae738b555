package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmind-zeno/LieTimeOffBundle/leave"
	"github.com/mmind-zeno/LieTimeOffBundle/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// =============================================================================
// CARRYOVER TESTS
// =============================================================================

func TestCarryover_CappedAtMax(t *testing.T) {
	assert.True(t, d("3").Equal(leave.Carryover(d("3"), d("5"))), "below cap passes through")
	assert.True(t, d("5").Equal(leave.Carryover(d("8"), d("5"))), "above cap is clamped")
	assert.True(t, d("5").Equal(leave.Carryover(d("5"), d("5"))), "exact cap passes through")
}

func TestCarryover_NegativeBalancePropagates(t *testing.T) {
	// An over-drawn prior year is NOT floored at zero; the debt carries
	// into the next year.
	assert.True(t, d("-2").Equal(leave.Carryover(d("-2"), d("5"))))
}

func TestCarryoverResolver_MissingSnapshotCarriesZero(t *testing.T) {
	store := newTestStore(t)
	resolver := &leave.CarryoverResolver{Balances: store}

	got, err := resolver.ForYear(context.Background(), "emp-1", 2025, d("5"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCarryoverResolver_ReadsPriorYearSnapshot(t *testing.T) {
	// GIVEN: A frozen 2024 balance with 8 days available
	// WHEN: Resolving the carryover into 2025 with a cap of 5
	// THEN: 5 days carry over

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, &leave.BalanceSnapshot{
		User:              "emp-1",
		Year:              2024,
		AnnualEntitlement: d("25"),
		Taken:             d("17"),
	}))

	resolver := &leave.CarryoverResolver{Balances: store}
	got, err := resolver.ForYear(ctx, "emp-1", 2025, d("5"))
	require.NoError(t, err)
	assert.True(t, d("5").Equal(got), "got %s", got)
}

// =============================================================================
// ENTITLEMENT TESTS
// =============================================================================

func TestEntitlement_FulltimeUsesBase(t *testing.T) {
	calc := &leave.EntitlementCalculator{Hours: newTestStore(t)}

	got, err := calc.AnnualEntitlement(context.Background(), "emp-1", 2025, d("25"), nil)
	require.NoError(t, err)
	assert.True(t, d("25").Equal(got))
}

func TestEntitlement_ParttimeProRated(t *testing.T) {
	calc := &leave.EntitlementCalculator{Hours: newTestStore(t)}

	settings := &leave.UserSettings{
		User:                  "emp-1",
		EmploymentType:        leave.EmploymentParttime,
		WorkingTimePercentage: d("50"),
	}
	got, err := calc.AnnualEntitlement(context.Background(), "emp-1", 2025, d("25"), settings)
	require.NoError(t, err)
	assert.True(t, d("12.5").Equal(got), "got %s", got)
}

func TestEntitlement_HourlyWithoutTrackingIsZero(t *testing.T) {
	calc := &leave.EntitlementCalculator{Hours: newTestStore(t)}

	settings := &leave.UserSettings{
		User:                  "emp-1",
		EmploymentType:        leave.EmploymentHourly,
		WorkingTimePercentage: d("100"),
	}
	got, err := calc.AnnualEntitlement(context.Background(), "emp-1", 2025, d("25"), settings)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestEntitlement_HourlyProRatedByWorkedHours(t *testing.T) {
	// GIVEN: 1040 tracked hours in 2025 (half of the 2080 baseline)
	// WHEN: Computing the entitlement against a 25-day base
	// THEN: 12.5 days

	store := newTestStore(t)
	ctx := context.Background()

	begin := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordWorkedHours(ctx, "emp-1", begin, 1040*3600))

	calc := &leave.EntitlementCalculator{Hours: store}
	settings := &leave.UserSettings{
		User:                  "emp-1",
		EmploymentType:        leave.EmploymentHourly,
		WorkingTimePercentage: d("100"),
		ExternalTimeTracking:  true,
	}
	got, err := calc.AnnualEntitlement(ctx, "emp-1", 2025, d("25"), settings)
	require.NoError(t, err)
	assert.True(t, d("12.5").Equal(got), "got %s", got)
}

func TestEntitlement_HourlyIgnoresOtherYears(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordWorkedHours(ctx,
		"emp-1", time.Date(2024, time.November, 4, 8, 0, 0, 0, time.UTC), 500*3600))

	calc := &leave.EntitlementCalculator{Hours: store}
	settings := &leave.UserSettings{
		User:                 "emp-1",
		EmploymentType:       leave.EmploymentHourly,
		ExternalTimeTracking: true,
	}
	got, err := calc.AnnualEntitlement(ctx, "emp-1", 2025, d("25"), settings)
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "2024 hours must not count for 2025")
}

// =============================================================================
// POLICY RESOLUTION TESTS
// =============================================================================

func TestPolicyResolver_OverrideWinsOverDefault(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	savePolicy(t, store, "standard-li", "Standard", d("25"), d("5"), true)
	savePolicy(t, store, "jugendliche-li", "Jugendliche", d("30"), d("5"), false)

	override := leave.PolicyID("jugendliche-li")
	require.NoError(t, store.SaveSettings(ctx, &leave.UserSettings{
		User:                  "emp-1",
		EmploymentType:        leave.EmploymentFulltime,
		WorkingTimePercentage: d("100"),
		PolicyOverride:        &override,
	}))

	resolver := &leave.PolicyResolver{Policies: store, Settings: store}
	policy, settings, err := resolver.Resolve(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, policy)
	require.NotNil(t, settings)
	assert.Equal(t, leave.PolicyID("jugendliche-li"), policy.ID)
}

func TestPolicyResolver_StaleOverrideFallsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	savePolicy(t, store, "standard-li", "Standard", d("25"), d("5"), true)

	gone := leave.PolicyID("deleted-policy")
	require.NoError(t, store.SaveSettings(ctx, &leave.UserSettings{
		User:                  "emp-1",
		EmploymentType:        leave.EmploymentFulltime,
		WorkingTimePercentage: d("100"),
		PolicyOverride:        &gone,
	}))

	resolver := &leave.PolicyResolver{Policies: store, Settings: store}
	policy, _, err := resolver.Resolve(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, policy)
	assert.Equal(t, leave.PolicyID("standard-li"), policy.ID)
}

func TestPolicyResolver_NoPolicyConfigured(t *testing.T) {
	store := newTestStore(t)

	resolver := &leave.PolicyResolver{Policies: store, Settings: store}
	policy, settings, err := resolver.Resolve(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Nil(t, policy)
	assert.Nil(t, settings)
}

func savePolicy(t *testing.T, store *sqlite.Store, id, name string, annual, carryover decimal.Decimal, isDefault bool) {
	t.Helper()
	require.NoError(t, store.SavePolicy(context.Background(), &leave.Policy{
		ID:           leave.PolicyID(id),
		Name:         name,
		AnnualDays:   annual,
		MaxCarryover: carryover,
		Default:      isDefault,
		Active:       true,
	}))
}
