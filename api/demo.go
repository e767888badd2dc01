/*
demo.go - Demo portfolio loader for testing and demonstrations

PURPOSE:

	Seeds the store with a realistic small portfolio so the dashboard has
	something to show before the real sync job runs. The data exercises
	every calculation path: contractor and civil-servant rates, rate
	changes, additional person costs, product costs, savings and budgets.

THE PORTFOLIO:

	Service area "Digital Services" with two products, "Licensing Portal"
	and "Case Tracker", grouped under "Citizen Services". Four people book
	time across both products through 2016; budgets are set per product
	and the portal carries a recurring licence cost plus a one-off audit.

USAGE VIA API:

	POST /api/demo/load

NOTE:

	Loading is additive (INSERT OR REPLACE semantics); reloading the demo
	overwrites the same record IDs rather than duplicating them. Only use
	in development/demo environments.

SEE ALSO:
  - handlers.go: LoadDemo handler
  - portfolio/store.go: RecordWriter interface
*/
package api

import (
	"context"
	"net/http"

	"github.com/warp/cost-engine/finance"
	"github.com/warp/cost-engine/portfolio"
)

// LoadDemo seeds the store with the demo portfolio.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	counts, err := LoadDemoPortfolio(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load demo portfolio", err)
		return
	}
	h.Log.Info("demo portfolio loaded",
		"people", counts.People,
		"products", counts.Products,
		"tasks", counts.Tasks)
	writeJSON(w, http.StatusOK, counts)
}

// LoadDemoPortfolio writes the demo records through the given writer and
// reports what it seeded.
func LoadDemoPortfolio(ctx context.Context, store portfolio.RecordWriter) (DemoLoadResponse, error) {
	var counts DemoLoadResponse

	d := finance.MustParseDate
	dec := finance.MustDecimal
	endOfMarch := d("2016-03-31")

	// Service area and products
	if err := store.PutClient(ctx, portfolio.Client{
		ID:   "digital-services",
		Name: "Digital Services",
	}); err != nil {
		return counts, err
	}

	products := []portfolio.Product{
		{ID: "licensing-portal", Name: "Licensing Portal", ClientID: "digital-services"},
		{ID: "case-tracker", Name: "Case Tracker", ClientID: "digital-services"},
	}
	for _, p := range products {
		if err := store.PutProduct(ctx, p); err != nil {
			return counts, err
		}
		counts.Products++
	}

	if err := store.PutGroup(ctx, portfolio.ProductGroup{
		ID:       "citizen-services",
		Name:     "Citizen Services",
		Products: []portfolio.ProductID{"licensing-portal", "case-tracker"},
	}); err != nil {
		return counts, err
	}
	counts.Groups++

	// People: two contractors, two civil servants. Dana gets a raise in April.
	people := []struct {
		person portfolio.Person
		rates  []portfolio.Rate
	}{
		{
			person: portfolio.Person{ID: "alex", Name: "Alex Reid", IsContractor: true},
			rates: []portfolio.Rate{
				{PersonID: "alex", StartDate: d("2015-11-01"), Rate: dec("480")},
			},
		},
		{
			person: portfolio.Person{ID: "sam", Name: "Sam Okafor", IsContractor: true},
			rates: []portfolio.Rate{
				{PersonID: "sam", StartDate: d("2016-01-04"), Rate: dec("520")},
			},
		},
		{
			person: portfolio.Person{ID: "dana", Name: "Dana Whitfield", IsContractor: false},
			rates: []portfolio.Rate{
				{PersonID: "dana", StartDate: d("2015-09-01"), Rate: dec("180")},
				{PersonID: "dana", StartDate: d("2016-04-01"), Rate: dec("195")},
			},
		},
		{
			person: portfolio.Person{ID: "priya", Name: "Priya Nair", IsContractor: false},
			rates: []portfolio.Rate{
				{PersonID: "priya", StartDate: d("2015-09-01"), Rate: dec("165")},
			},
		},
	}
	for _, entry := range people {
		if err := store.PutPerson(ctx, entry.person); err != nil {
			return counts, err
		}
		counts.People++
		for _, rate := range entry.rates {
			if err := store.PutRate(ctx, rate); err != nil {
				return counts, err
			}
		}
	}

	// Additional person costs for the civil servants: annual pension
	// contribution plus monthly national insurance.
	personCosts := []portfolio.RecurringCost{
		{
			ID: "dana-aslc", Owner: portfolio.OwnerPerson, OwnerID: "dana",
			Name: "ASLC", Type: portfolio.Annually,
			StartDate: d("2015-09-01"), Amount: dec("9000"),
		},
		{
			ID: "dana-ernic", Owner: portfolio.OwnerPerson, OwnerID: "dana",
			Name: "ERNIC", Type: portfolio.Monthly,
			StartDate: d("2015-09-01"), Amount: dec("420"),
		},
		{
			ID: "priya-aslc", Owner: portfolio.OwnerPerson, OwnerID: "priya",
			Name: "ASLC", Type: portfolio.Annually,
			StartDate: d("2015-09-01"), Amount: dec("8200"),
		},
		{
			ID: "priya-ernic", Owner: portfolio.OwnerPerson, OwnerID: "priya",
			Name: "ERNIC", Type: portfolio.Monthly,
			StartDate: d("2015-09-01"), Amount: dec("385"),
		},
	}
	for _, cost := range personCosts {
		if err := store.PutCost(ctx, cost); err != nil {
			return counts, err
		}
		counts.Costs++
	}

	// Tasks through H1 2016
	tasks := []portfolio.Task{
		{ID: "demo-task-01", Name: "Discovery", PersonID: "alex", ProductID: "licensing-portal",
			StartDate: d("2016-01-04"), EndDate: d("2016-01-29"), Days: dec("18")},
		{ID: "demo-task-02", Name: "Alpha build", PersonID: "alex", ProductID: "licensing-portal",
			StartDate: d("2016-02-01"), EndDate: d("2016-03-31"), Days: dec("40")},
		{ID: "demo-task-03", Name: "Service design", PersonID: "dana", ProductID: "licensing-portal",
			StartDate: d("2016-01-04"), EndDate: d("2016-03-31"), Days: dec("30")},
		{ID: "demo-task-04", Name: "API integration", PersonID: "sam", ProductID: "case-tracker",
			StartDate: d("2016-01-11"), EndDate: d("2016-02-26"), Days: dec("28")},
		{ID: "demo-task-05", Name: "User research", PersonID: "priya", ProductID: "case-tracker",
			StartDate: d("2016-02-01"), EndDate: d("2016-04-29"), Days: dec("35")},
		{ID: "demo-task-06", Name: "Beta support", PersonID: "dana", ProductID: "case-tracker",
			StartDate: d("2016-04-04"), EndDate: d("2016-06-30"), Days: dec("25")},
	}
	for _, task := range tasks {
		if err := store.PutTask(ctx, task); err != nil {
			return counts, err
		}
		counts.Tasks++
	}

	// Product costs and savings
	productCosts := []portfolio.RecurringCost{
		{
			ID: "portal-licences", Owner: portfolio.OwnerProduct, OwnerID: "licensing-portal",
			Name: "Licences", Type: portfolio.Monthly,
			StartDate: d("2016-01-01"), Amount: dec("1500"),
		},
		{
			ID: "portal-audit", Owner: portfolio.OwnerProduct, OwnerID: "licensing-portal",
			Name: "Security audit", Type: portfolio.OneOff,
			StartDate: d("2016-03-15"), Amount: dec("6000"),
		},
		{
			ID: "tracker-hosting", Owner: portfolio.OwnerProduct, OwnerID: "case-tracker",
			Name: "Hosting", Type: portfolio.Monthly,
			StartDate: d("2016-01-01"), EndDate: &endOfMarch, Amount: dec("800"),
		},
	}
	for _, cost := range productCosts {
		if err := store.PutCost(ctx, cost); err != nil {
			return counts, err
		}
		counts.Costs++
	}

	if err := store.PutSaving(ctx, portfolio.RecurringCost{
		ID: "tracker-decommission", Owner: portfolio.OwnerProduct, OwnerID: "case-tracker",
		Name: "Legacy decommission", Type: portfolio.Monthly,
		StartDate: d("2016-02-01"), Amount: dec("2500"),
	}); err != nil {
		return counts, err
	}

	// Budgets: the portal gets a revised budget in April
	budgets := []portfolio.Budget{
		{ProductID: "licensing-portal", StartDate: d("2016-01-01"), Amount: dec("250000")},
		{ProductID: "licensing-portal", StartDate: d("2016-04-01"), Amount: dec("310000")},
		{ProductID: "case-tracker", StartDate: d("2016-01-01"), Amount: dec("180000")},
	}
	for _, budget := range budgets {
		if err := store.PutBudget(ctx, budget); err != nil {
			return counts, err
		}
	}

	return counts, nil
}
