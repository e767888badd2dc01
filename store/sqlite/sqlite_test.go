package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cost-engine/finance"
	"github.com/warp/cost-engine/portfolio"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func d(s string) finance.Date { return finance.MustParseDate(s) }

func TestPersonRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutPerson(ctx, portfolio.Person{ID: "p1", Name: "Alex", IsContractor: true}))

	got, err := s.Person(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, portfolio.PersonID("p1"), got.ID)
	assert.Equal(t, "Alex", got.Name)
	assert.True(t, got.IsContractor)

	_, err = s.Person(ctx, "missing")
	assert.ErrorIs(t, err, portfolio.ErrPersonNotFound)
}

func TestRatesOrderedByStartDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutPerson(ctx, portfolio.Person{ID: "p1", Name: "Alex"}))
	// insert out of order; reads must come back StartDate ascending
	require.NoError(t, s.PutRate(ctx, portfolio.Rate{PersonID: "p1", StartDate: d("2016-04-01"), Rate: finance.MustDecimal("195")}))
	require.NoError(t, s.PutRate(ctx, portfolio.Rate{PersonID: "p1", StartDate: d("2015-09-01"), Rate: finance.MustDecimal("180")}))

	rates, err := s.RatesForPerson(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "2015-09-01", rates[0].StartDate.String())
	assert.Equal(t, "2016-04-01", rates[1].StartDate.String())
	assert.True(t, rates[1].Rate.Equal(finance.MustDecimal("195")))
}

func TestCostsAndSavingsKeptApart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProduct(ctx, portfolio.Product{ID: "prod", Name: "Portal"}))

	end := d("2016-03-31")
	require.NoError(t, s.PutCost(ctx, portfolio.RecurringCost{
		ID: "c1", Owner: portfolio.OwnerProduct, OwnerID: "prod",
		Name: "Licences", Type: portfolio.Monthly,
		StartDate: d("2016-01-01"), EndDate: &end, Amount: finance.MustDecimal("1500"),
	}))
	require.NoError(t, s.PutSaving(ctx, portfolio.RecurringCost{
		ID: "s1", Owner: portfolio.OwnerProduct, OwnerID: "prod",
		Type: portfolio.Monthly, StartDate: d("2016-02-01"), Amount: finance.MustDecimal("2500"),
	}))

	costs, err := s.CostsForProduct(ctx, "prod")
	require.NoError(t, err)
	require.Len(t, costs, 1)
	assert.Equal(t, "Licences", costs[0].Name)
	require.NotNil(t, costs[0].EndDate)
	assert.Equal(t, "2016-03-31", costs[0].EndDate.String())

	savings, err := s.SavingsForProduct(ctx, "prod")
	require.NoError(t, err)
	require.Len(t, savings, 1)
	assert.Nil(t, savings[0].EndDate)
	assert.True(t, savings[0].Amount.Equal(finance.MustDecimal("2500")))
}

func TestTasksWindowFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProduct(ctx, portfolio.Product{ID: "prod", Name: "Portal"}))
	require.NoError(t, s.PutPerson(ctx, portfolio.Person{ID: "p1", Name: "Alex"}))

	require.NoError(t, s.PutTask(ctx, portfolio.Task{
		ID: "jan", PersonID: "p1", ProductID: "prod",
		StartDate: d("2016-01-04"), EndDate: d("2016-01-29"), Days: finance.MustDecimal("18"),
	}))
	require.NoError(t, s.PutTask(ctx, portfolio.Task{
		ID: "mar", PersonID: "p1", ProductID: "prod",
		StartDate: d("2016-03-01"), EndDate: d("2016-03-31"), Days: finance.MustDecimal("20"),
	}))

	all, err := s.TasksForProduct(ctx, "prod", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	w := finance.MustWindow(d("2016-01-01"), d("2016-01-31"))
	jan, err := s.TasksForProduct(ctx, "prod", &w)
	require.NoError(t, err)
	require.Len(t, jan, 1)
	assert.Equal(t, "jan", jan[0].ID)

	// window touching only the task's last day still matches
	w = finance.MustWindow(d("2016-03-31"), d("2016-04-30"))
	mar, err := s.TasksForProduct(ctx, "prod", &w)
	require.NoError(t, err)
	require.Len(t, mar, 1)
	assert.Equal(t, "mar", mar[0].ID)
}

func TestGroupMembersKeepOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProduct(ctx, portfolio.Product{ID: "a", Name: "A"}))
	require.NoError(t, s.PutProduct(ctx, portfolio.Product{ID: "b", Name: "B"}))
	require.NoError(t, s.PutGroup(ctx, portfolio.ProductGroup{
		ID: "g", Name: "Group", Products: []portfolio.ProductID{"b", "a"},
	}))

	got, err := s.Group(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, []portfolio.ProductID{"b", "a"}, got.Products)

	// re-put replaces membership
	require.NoError(t, s.PutGroup(ctx, portfolio.ProductGroup{
		ID: "g", Name: "Group", Products: []portfolio.ProductID{"a"},
	}))
	got, err = s.Group(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, []portfolio.ProductID{"a"}, got.Products)

	_, err = s.Group(ctx, "missing")
	assert.ErrorIs(t, err, portfolio.ErrGroupNotFound)
}

func TestBudgetsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProduct(ctx, portfolio.Product{ID: "prod", Name: "Portal"}))
	require.NoError(t, s.PutBudget(ctx, portfolio.Budget{ProductID: "prod", StartDate: d("2016-04-01"), Amount: finance.MustDecimal("310000")}))
	require.NoError(t, s.PutBudget(ctx, portfolio.Budget{ProductID: "prod", StartDate: d("2016-01-01"), Amount: finance.MustDecimal("250000")}))

	budgets, err := s.BudgetsForProduct(ctx, "prod")
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, "2016-01-01", budgets[0].StartDate.String())
	assert.True(t, budgets[1].Amount.Equal(finance.MustDecimal("310000")))
}
