package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmind-zeno/LieTimeOffBundle/api"
	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
	"github.com/mmind-zeno/LieTimeOffBundle/factory"
	"github.com/mmind-zeno/LieTimeOffBundle/leave"
	"github.com/mmind-zeno/LieTimeOffBundle/settings"
	"github.com/mmind-zeno/LieTimeOffBundle/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fixedNow keeps the taken/approved split stable across the suite.
var fixedNow = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = factory.Seed(context.Background(), store)
	require.NoError(t, err)

	cal := calendar.New()
	aggregator := &leave.BalanceAggregator{
		Resolver:    &leave.PolicyResolver{Policies: store, Settings: store},
		Entitlement: &leave.EntitlementCalculator{Hours: store},
		Carryover:   &leave.CarryoverResolver{Balances: store},
		Requests:    store,
		Users:       store,
		Defaults:    leave.StatutoryDefaults(),
		Now:         func() time.Time { return fixedNow },
	}
	handler := &api.Handler{
		Calendar: cal,
		Lifecycle: &leave.Lifecycle{
			Requests: store,
			Counter:  calendar.NewCounter(cal),
			Now:      func() time.Time { return fixedNow },
		},
		Balances: aggregator,
		Snapshots: &leave.SnapshotService{
			Aggregator: aggregator,
			Balances:   store,
			Users:      store,
		},
		Settings:     settings.NewService(store),
		Policies:     store,
		UserSettings: store,
		Requests:     store,
		BalanceStore: store,
		Users:        store,
	}

	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server, store
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// HOLIDAY ENDPOINT
// =============================================================================

func TestAPI_ListHolidays(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/holidays?year=2025")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	holidays := decode[[]map[string]any](t, resp)
	require.Len(t, holidays, 20)
	assert.Equal(t, "2025-01-01", holidays[0]["date"])
	assert.Equal(t, "Neujahr", holidays[0]["name"])
}

func TestAPI_ListHolidays_BadYear(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/holidays?year=banana")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// REQUEST LIFECYCLE OVER HTTP
// =============================================================================

func TestAPI_SubmitApproveFlow(t *testing.T) {
	// GIVEN: A submitted vacation request for a working week
	// WHEN: It is approved and the balance is read
	// THEN: The five days appear on the approved side

	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/users/emp-1/requests", api.CreateRequestBody{
		Type:      "vacation",
		StartDate: "2025-09-01",
		EndDate:   "2025-09-05",
		Comment:   "Herbstferien",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.RequestDTO](t, resp)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "5", created.Days)

	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/requests/%s/approve", server.URL, created.ID),
		api.DecisionBody{Actor: "boss"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	approved := decode[api.RequestDTO](t, resp)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "boss", *approved.ApprovedBy)

	resp, err := http.Get(server.URL + "/api/users/emp-1/balance?year=2025")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balance := decode[api.BalanceDTO](t, resp)
	assert.Equal(t, "25", balance.AnnualEntitlement)
	assert.Equal(t, "5", balance.Approved)
	assert.Equal(t, "20", balance.Available)
}

func TestAPI_SubmitValidationErrors(t *testing.T) {
	server, _ := newTestServer(t)

	cases := []api.CreateRequestBody{
		{Type: "unpaid", StartDate: "2025-09-01", EndDate: "2025-09-05"},
		{Type: "vacation", StartDate: "2025-09-05", EndDate: "2025-09-01"},
		{Type: "vacation", StartDate: "2025-09-06", EndDate: "2025-09-07"}, // weekend only
		{Type: "vacation", StartDate: "bad", EndDate: "2025-09-05"},
	}
	for _, body := range cases {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/users/emp-1/requests", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %+v", body)
		resp.Body.Close()
	}
}

func TestAPI_DoubleDecisionConflicts(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/users/emp-1/requests", api.CreateRequestBody{
		Type: "vacation", StartDate: "2025-09-01", EndDate: "2025-09-05",
	})
	created := decode[api.RequestDTO](t, resp)

	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/requests/%s/approve", server.URL, created.ID),
		api.DecisionBody{Actor: "boss"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/requests/%s/reject", server.URL, created.ID),
		api.DecisionBody{Actor: "boss", Reason: "too late"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_CancelForeignRequestHidden(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/users/emp-1/requests", api.CreateRequestBody{
		Type: "vacation", StartDate: "2025-09-01", EndDate: "2025-09-05",
	})
	created := decode[api.RequestDTO](t, resp)

	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/requests/%s/cancel", server.URL, created.ID),
		api.DecisionBody{Actor: "emp-2"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "foreign cancel must look like a missing request")
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/requests/%s/cancel", server.URL, created.ID),
		api.DecisionBody{Actor: "emp-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cancelled := decode[api.RequestDTO](t, resp)
	assert.Equal(t, "cancelled", cancelled.Status)
}

func TestAPI_PendingList(t *testing.T) {
	server, _ := newTestServer(t)

	doJSON(t, http.MethodPost, server.URL+"/api/users/emp-1/requests", api.CreateRequestBody{
		Type: "vacation", StartDate: "2025-09-01", EndDate: "2025-09-05",
	}).Body.Close()
	doJSON(t, http.MethodPost, server.URL+"/api/users/emp-2/requests", api.CreateRequestBody{
		Type: "sickness", StartDate: "2025-09-08", EndDate: "2025-09-09",
	}).Body.Close()

	resp, err := http.Get(server.URL + "/api/requests/pending")
	require.NoError(t, err)
	pending := decode[[]api.RequestDTO](t, resp)
	assert.Len(t, pending, 2)
}

// =============================================================================
// POLICIES AND SETTINGS
// =============================================================================

func TestAPI_PoliciesSeededAndCreatable(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/policies")
	require.NoError(t, err)
	policies := decode[[]api.PolicyDTO](t, resp)
	assert.Len(t, policies, 3)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/policies", factory.PolicyJSON{
		ID: "kader", Name: "Kader", AnnualDays: 27.5, MaxCarryover: 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.PolicyDTO](t, resp)
	assert.Equal(t, "27.5", created.AnnualDays)
}

func TestAPI_UserSettingsRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)

	hours := "21"
	policy := "teilzeit-50"
	resp := doJSON(t, http.MethodPut, server.URL+"/api/users/emp-1/settings", api.UserSettingsBody{
		EmploymentType:         "parttime",
		ContractedHoursPerWeek: &hours,
		WorkingTimePercentage:  "50",
		PolicyID:               &policy,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/users/emp-1/settings")
	require.NoError(t, err)
	got := decode[api.UserSettingsDTO](t, resp)
	assert.Equal(t, "parttime", got.EmploymentType)
	assert.Equal(t, "50", got.WorkingTimePercentage)
	require.NotNil(t, got.PolicyID)
	assert.Equal(t, "teilzeit-50", *got.PolicyID)

	// The override now drives the balance: 12.5 x 50% = 6.25.
	resp, err = http.Get(server.URL + "/api/users/emp-1/balance?year=2025")
	require.NoError(t, err)
	balance := decode[api.BalanceDTO](t, resp)
	assert.Equal(t, "6.25", balance.AnnualEntitlement)
	assert.Equal(t, "parttime", balance.EmploymentType)
}

func TestAPI_UserSettingsUnknownPolicyRejected(t *testing.T) {
	server, _ := newTestServer(t)

	bad := "no-such-policy"
	resp := doJSON(t, http.MethodPut, server.URL+"/api/users/emp-1/settings", api.UserSettingsBody{
		EmploymentType: "fulltime",
		PolicyID:       &bad,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_SystemSettingsRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, server.URL+"/api/settings", map[string]any{
		"default_annual_days": 25,
		"workweek_days":       6,
		"company_name":        "Muster AG",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/settings")
	require.NoError(t, err)
	got := decode[map[string]any](t, resp)
	assert.Equal(t, float64(25), got["default_annual_days"])
	assert.Equal(t, float64(6), got["workweek_days"])
	assert.Equal(t, "Muster AG", got["company_name"])
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

func TestAPI_AdjustAndCloseYear(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, leave.User{ID: "emp-1", Name: "Anna"}))

	resp := doJSON(t, http.MethodPost, server.URL+"/api/admin/adjustments", api.AdjustmentBody{
		UserID: "emp-1", Year: 2025, Delta: "2", Note: "Treueprämie",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[api.SnapshotDTO](t, resp)
	assert.Equal(t, "2", snap.ManualAdjustment)
	assert.Equal(t, "27", snap.Available)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/admin/close-year", api.CloseYearBody{Year: 2025})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	closed := decode[map[string]int](t, resp)
	assert.Equal(t, 1, closed["snapshots"])

	resp, err := http.Get(server.URL + "/api/admin/snapshots?year=2025")
	require.NoError(t, err)
	snaps := decode[[]api.SnapshotDTO](t, resp)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2", snaps[0].ManualAdjustment, "adjustment survives the close")
}

func TestAPI_StatisticsEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, leave.User{ID: "emp-1", Name: "Anna"}))
	require.NoError(t, store.SaveUser(ctx, leave.User{ID: "emp-2", Name: "Bruno"}))

	resp, err := http.Get(server.URL + "/api/statistics?year=2025")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[api.StatisticsDTO](t, resp)
	assert.Equal(t, 2, stats.UserCount)
	assert.Equal(t, "50", stats.TotalEntitlement)
	assert.Equal(t, "25", stats.AveragePerUser)
}
