/*
handlers_test.go - HTTP handler tests

Tests run against the in-memory store through the full chi router, so they
cover routing, query parsing, engine wiring and error mapping end to end.
*/
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cost-engine/finance"
	"github.com/warp/cost-engine/portfolio"
	"github.com/warp/cost-engine/portfolio/store"
)

func d(s string) finance.Date { return finance.MustParseDate(s) }

func newTestRouter(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	mem := store.NewMemory()
	h := NewHandler(mem, finance.EnglandAndWales(), slog.New(slog.NewTextHandler(testWriter{t}, nil)))
	return h, NewRouter(h)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// seedJanuaryProduct loads one product with a contractor and a civil servant
// each booking a full January 2016 (20 working days), a one-off cost, a
// monthly saving and a budget.
func seedJanuaryProduct(t *testing.T, h *Handler) {
	t.Helper()
	ctx := context.Background()
	dec := finance.MustDecimal

	require.NoError(t, h.Store.PutClient(ctx, portfolio.Client{ID: "cl1", Name: "Operations"}))
	require.NoError(t, h.Store.PutProduct(ctx, portfolio.Product{ID: "p1", Name: "Billing", ClientID: "cl1"}))

	require.NoError(t, h.Store.PutPerson(ctx, portfolio.Person{ID: "con", Name: "Contractor", IsContractor: true}))
	require.NoError(t, h.Store.PutRate(ctx, portfolio.Rate{PersonID: "con", StartDate: d("2016-01-01"), Rate: dec("160")}))
	require.NoError(t, h.Store.PutPerson(ctx, portfolio.Person{ID: "civ", Name: "Civil Servant"}))
	require.NoError(t, h.Store.PutRate(ctx, portfolio.Rate{PersonID: "civ", StartDate: d("2016-01-01"), Rate: dec("140")}))

	require.NoError(t, h.Store.PutTask(ctx, portfolio.Task{
		ID: "t1", PersonID: "con", ProductID: "p1",
		StartDate: d("2016-01-01"), EndDate: d("2016-01-31"), Days: dec("20"),
	}))
	require.NoError(t, h.Store.PutTask(ctx, portfolio.Task{
		ID: "t2", PersonID: "civ", ProductID: "p1",
		StartDate: d("2016-01-01"), EndDate: d("2016-01-31"), Days: dec("20"),
	}))

	require.NoError(t, h.Store.PutCost(ctx, portfolio.RecurringCost{
		ID: "c1", Owner: portfolio.OwnerProduct, OwnerID: "p1",
		Name: "Kit", Type: portfolio.OneOff,
		StartDate: d("2016-01-15"), Amount: dec("500"),
	}))
	require.NoError(t, h.Store.PutSaving(ctx, portfolio.RecurringCost{
		ID: "s1", Owner: portfolio.OwnerProduct, OwnerID: "p1",
		Type: portfolio.Monthly, StartDate: d("2016-01-01"), Amount: dec("300"),
	}))
	require.NoError(t, h.Store.PutBudget(ctx, portfolio.Budget{
		ProductID: "p1", StartDate: d("2016-01-01"), Amount: dec("10000"),
	}))
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// =============================================================================
// PRODUCT ENDPOINTS
// =============================================================================

func TestListProducts(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []ProductDTO
	decodeBody(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Billing", products[0].Name)
	assert.Equal(t, "cl1", products[0].ClientID)
}

func TestGetProduct_NotFound(t *testing.T) {
	_, router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/products/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Not found", body.Error)
}

func TestGetProductStats(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet,
		"/api/products/p1/stats?start=2016-01-01&end=2016-01-31")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats StatsDTO
	decodeBody(t, rec, &stats)
	// 20 working days in Jan 2016: contractor 20*160, civil servant 20*140
	assert.Equal(t, "3200.00", stats.Contractor)
	assert.Equal(t, "2800.00", stats.NonContractor)
	assert.Equal(t, "500.00", stats.Additional)
	assert.Equal(t, "300.00", stats.Savings)
	assert.Equal(t, "10000.00", stats.Budget)
	assert.Equal(t, "6500.00", stats.Total)
	assert.Equal(t, "3200.00", stats.Remaining)
}

func TestGetProductStats_ReversedWindow(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet,
		"/api/products/p1/stats?start=2016-02-01&end=2016-01-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductStats_MissingDates(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet, "/api/products/p1/stats")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductCost(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet, "/api/products/p1/cost")
	require.Equal(t, http.StatusOK, rec.Code)

	var cost CostDTO
	decodeBody(t, rec, &cost)
	assert.Equal(t, "6500.00", cost.Amount)

	// Bounded before the one-off cost lands
	rec = doRequest(t, router, http.MethodGet, "/api/products/p1/cost?to=2016-01-14")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &cost)
	assert.Equal(t, "2016-01-14", cost.End)
	// 9 working days of Jan through the 14th at 160+140 per day
	assert.Equal(t, "2700.00", cost.Amount)
}

func TestGetProductProfile(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet, "/api/products/p1/profile?frequency=MS")
	require.Equal(t, http.StatusOK, rec.Code)

	var profile ProfileDTO
	decodeBody(t, rec, &profile)
	assert.Equal(t, "Billing", profile.Name)
	require.NotNil(t, profile.ServiceArea)
	assert.Equal(t, "Operations", profile.ServiceArea.Name)
	require.Contains(t, profile.TimeFrames, "2016-01-01~2016-01-31")
	assert.Equal(t, "6500.00", profile.TimeFrames["2016-01-01~2016-01-31"].Total)
}

func TestGetProductProfile_BadFrequency(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet, "/api/products/p1/profile?frequency=weekly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// PERSON ENDPOINTS
// =============================================================================

func TestGetPersonRate(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet,
		"/api/people/con/rate?start=2016-01-01&end=2016-01-31")
	require.Equal(t, http.StatusOK, rec.Code)

	var rate RateDTO
	decodeBody(t, rec, &rate)
	assert.Equal(t, "total", rate.Kind)
	assert.Equal(t, "160.00", rate.Rate)

	rec = doRequest(t, router, http.MethodGet,
		"/api/people/con/rate?start=2016-01-01&end=2016-01-31&kind=base")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &rate)
	assert.Equal(t, "160.00", rate.Rate)
}

func TestGetPersonRate_BadKind(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	rec := doRequest(t, router, http.MethodGet,
		"/api/people/con/rate?start=2016-01-01&end=2016-01-31&kind=hourly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPersonRate_BeforeAnyRate(t *testing.T) {
	h, router := newTestRouter(t)
	seedJanuaryProduct(t, h)

	// The contractor's first rate starts 2016-01-01; asking about 2015 is a
	// data gap, not a server error.
	rec := doRequest(t, router, http.MethodGet,
		"/api/people/con/rate?start=2015-06-01&end=2015-06-30")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// =============================================================================
// DEMO LOADER
// =============================================================================

func TestLoadDemo(t *testing.T) {
	_, router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/demo/load")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts DemoLoadResponse
	decodeBody(t, rec, &counts)
	assert.Equal(t, 4, counts.People)
	assert.Equal(t, 2, counts.Products)
	assert.Equal(t, 6, counts.Tasks)

	rec = doRequest(t, router, http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []ProductDTO
	decodeBody(t, rec, &products)
	assert.Len(t, products, 2)

	rec = doRequest(t, router, http.MethodGet,
		"/api/products/licensing-portal/stats?start=2016-01-01&end=2016-03-31")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetGroupProfile_Demo(t *testing.T) {
	_, router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/demo/load")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/groups/citizen-services/profile?frequency=MS")
	require.Equal(t, http.StatusOK, rec.Code)

	var profile ProfileDTO
	decodeBody(t, rec, &profile)
	assert.Equal(t, "Citizen Services", profile.Name)
	require.NotNil(t, profile.ServiceArea)
	assert.Equal(t, "Digital Services", profile.ServiceArea.Name)
	assert.NotEmpty(t, profile.TimeFrames)
}

func TestGetGroupProfile_NotFound(t *testing.T) {
	_, router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/groups/nope/profile")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
