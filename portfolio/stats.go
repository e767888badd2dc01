/*
stats.go - Window-bounded cost aggregation

PURPOSE:
  Composes rate resolution, cost apportionment and task time apportionment
  into the questions the dashboard asks: what did this product, person or
  product group cost over a window, split into contractor / non-contractor /
  additional spend against budget and savings.

AGGREGATION FLOW:
  1. Fetch the tasks/rates/costs/budgets overlapping the window (RecordStore)
  2. Delegate day counting to finance.Calendar
  3. Delegate per-record math to rates.go / costs.go / task.go
  4. Sum into a Stats breakdown

  total     = contractor + non-contractor + additional
  remaining = budget - total - savings   (positive means under budget)

ERROR SEMANTICS:
  Malformed windows propagate ErrInvalidRange uncaught. A missing pay rate is
  fatal to the computation (ErrNoApplicableRate), never silently zeroed: it
  marks a data-entry gap the caller must surface.
*/
package portfolio

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/cost-engine/finance"
)

// Engine answers window-bounded cost questions over a RecordStore. All
// methods are pure reads; callers may run independent queries in parallel.
type Engine struct {
	store RecordStore
	cal   *finance.Calendar
}

func NewEngine(store RecordStore, cal *finance.Calendar) *Engine {
	return &Engine{store: store, cal: cal}
}

// Stats is the cost breakdown of an entity over one window.
type Stats struct {
	Contractor    decimal.Decimal
	NonContractor decimal.Decimal
	Additional    decimal.Decimal
	Budget        decimal.Decimal
	Savings       decimal.Decimal
	Total         decimal.Decimal
	Remaining     decimal.Decimal
}

func zeroStats() Stats {
	return Stats{
		Contractor:    decimal.Zero,
		NonContractor: decimal.Zero,
		Additional:    decimal.Zero,
		Budget:        decimal.Zero,
		Savings:       decimal.Zero,
		Total:         decimal.Zero,
		Remaining:     decimal.Zero,
	}
}

func (s Stats) add(other Stats) Stats {
	return Stats{
		Contractor:    s.Contractor.Add(other.Contractor),
		NonContractor: s.NonContractor.Add(other.NonContractor),
		Additional:    s.Additional.Add(other.Additional),
		Budget:        s.Budget.Add(other.Budget),
		Savings:       s.Savings.Add(other.Savings),
		Total:         s.Total.Add(other.Total),
		Remaining:     s.Remaining.Add(other.Remaining),
	}
}

// Profile is the reporting shape for a product or product group: the stats
// breakdown per time frame over the entity's active span.
type Profile struct {
	Name        string
	ServiceArea *Client
	TimeFrames  map[string]Stats
}

// =============================================================================
// PERSON-LEVEL QUERIES
// =============================================================================

// PersonTotalRateBetween is a person's all-in daily rate over a window: the
// working-day-weighted base rate plus the per-working-day rate of every
// additional cost active in the window.
func (e *Engine) PersonTotalRateBetween(ctx context.Context, id PersonID, window finance.TimeWindow) (decimal.Decimal, error) {
	base, err := e.PersonBaseRateBetween(ctx, id, window)
	if err != nil {
		return decimal.Zero, err
	}
	additional, err := e.PersonAdditionalRateBetween(ctx, id, window, "")
	if err != nil {
		return decimal.Zero, err
	}
	return base.Add(additional), nil
}

// PersonBaseRateBetween resolves the person's base pay rate over a window.
func (e *Engine) PersonBaseRateBetween(ctx context.Context, id PersonID, window finance.TimeWindow) (decimal.Decimal, error) {
	rates, err := e.store.RatesForPerson(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return BaseRateBetween(e.cal, rates, window)
}

// PersonAdditionalRateBetween sums the per-working-day rates of the person's
// additional costs over a window, optionally filtered by cost name. One-off
// costs carry no rate and are skipped. When no cost overlaps the window, the
// most recent costs ending before it apply at the rate of their own period:
// payroll enters costs like ASLC month by month, and the last known value
// carries forward until replaced.
func (e *Engine) PersonAdditionalRateBetween(ctx context.Context, id PersonID, window finance.TimeWindow, name string) (decimal.Decimal, error) {
	costs, err := e.store.CostsForPerson(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	var active, priors []RecurringCost
	var latestEnd finance.Date
	for _, cost := range costs {
		if name != "" && cost.Name != name {
			continue
		}
		if cost.Type == OneOff {
			continue
		}
		_, ok, err := finance.Overlap(cost.Window(window.End), window)
		if err != nil {
			return decimal.Zero, err
		}
		if ok {
			active = append(active, cost)
		} else if cost.EndDate != nil && cost.EndDate.Before(window.Start) {
			if cost.EndDate.After(latestEnd) {
				latestEnd = *cost.EndDate
			}
			priors = append(priors, cost)
		}
	}

	total := decimal.Zero
	if len(active) > 0 {
		for _, cost := range active {
			rate, err := cost.RateBetween(e.cal, window)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(rate)
		}
		return total, nil
	}

	for _, cost := range priors {
		if !cost.EndDate.Equal(latestEnd) {
			continue
		}
		rate, err := cost.RateBetween(e.cal, cost.Window(latestEnd))
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(rate)
	}
	return total, nil
}

// =============================================================================
// PRODUCT-LEVEL QUERIES
// =============================================================================

// PeopleCosts sums, over every task of the product overlapping the window,
// the apportioned effort times the person's all-in rate over the task's
// overlap with the window.
func (e *Engine) PeopleCosts(ctx context.Context, id ProductID, window finance.TimeWindow) (decimal.Decimal, error) {
	contractor, nonContractor, err := e.peopleCostsSplit(ctx, id, window)
	if err != nil {
		return decimal.Zero, err
	}
	return contractor.Add(nonContractor), nil
}

func (e *Engine) peopleCostsSplit(ctx context.Context, id ProductID, window finance.TimeWindow) (contractor, nonContractor decimal.Decimal, err error) {
	contractor, nonContractor = decimal.Zero, decimal.Zero

	tasks, err := e.store.TasksForProduct(ctx, id, &window)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	for _, task := range tasks {
		overlap, ok, err := finance.Overlap(task.Window(), window)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if !ok {
			continue
		}

		spent, err := task.TimeSpent(e.cal, &window)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if spent.IsZero() {
			continue
		}

		rate, err := e.PersonTotalRateBetween(ctx, task.PersonID, overlap)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		person, err := e.store.Person(ctx, task.PersonID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		cost := spent.Mul(rate)
		if person.IsContractor {
			contractor = contractor.Add(cost)
		} else {
			nonContractor = nonContractor.Add(cost)
		}
	}
	return contractor, nonContractor, nil
}

// PeopleAdditionalCosts apportions the additional costs of the people working
// on a product: per task, the effort in the window times the per-working-day
// additional rate, optionally filtered by cost name (e.g. "ASLC").
func (e *Engine) PeopleAdditionalCosts(ctx context.Context, id ProductID, window finance.TimeWindow, name string) (decimal.Decimal, error) {
	tasks, err := e.store.TasksForProduct(ctx, id, &window)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, task := range tasks {
		overlap, ok, err := finance.Overlap(task.Window(), window)
		if err != nil {
			return decimal.Zero, err
		}
		if !ok {
			continue
		}

		spent, err := task.TimeSpent(e.cal, &window)
		if err != nil {
			return decimal.Zero, err
		}
		if spent.IsZero() {
			continue
		}

		rate, err := e.PersonAdditionalRateBetween(ctx, task.PersonID, overlap, name)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(spent.Mul(rate))
	}
	return total, nil
}

// AdditionalCosts sums the product's own recurring costs attributable to the
// window, optionally filtered by cost name.
func (e *Engine) AdditionalCosts(ctx context.Context, id ProductID, window finance.TimeWindow, name string) (decimal.Decimal, error) {
	costs, err := e.store.CostsForProduct(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return e.sumCostsBetween(costs, window, name)
}

// Savings sums the product's savings attributable to the window.
func (e *Engine) Savings(ctx context.Context, id ProductID, window finance.TimeWindow) (decimal.Decimal, error) {
	savings, err := e.store.SavingsForProduct(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return e.sumCostsBetween(savings, window, "")
}

func (e *Engine) sumCostsBetween(costs []RecurringCost, window finance.TimeWindow, name string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, cost := range costs {
		if name != "" && cost.Name != name {
			continue
		}
		amount, err := cost.CostBetween(e.cal, window)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, nil
}

// BudgetAt resolves the product's budget on a date: the latest budget with
// StartDate <= at, zero when none exists (no budget set is not an error).
func (e *Engine) BudgetAt(ctx context.Context, id ProductID, at finance.Date) (decimal.Decimal, error) {
	budgets, err := e.store.BudgetsForProduct(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	i := sort.Search(len(budgets), func(i int) bool {
		return budgets[i].StartDate.After(at)
	})
	if i == 0 {
		return decimal.Zero, nil
	}
	return budgets[i-1].Amount, nil
}

// StatsBetween returns the full cost breakdown of a product over a window.
func (e *Engine) StatsBetween(ctx context.Context, id ProductID, window finance.TimeWindow) (Stats, error) {
	if window.Start.After(window.End) {
		return Stats{}, &finance.InvalidRangeError{Start: window.Start, End: window.End}
	}

	contractor, nonContractor, err := e.peopleCostsSplit(ctx, id, window)
	if err != nil {
		return Stats{}, err
	}
	additional, err := e.AdditionalCosts(ctx, id, window, "")
	if err != nil {
		return Stats{}, err
	}
	savings, err := e.Savings(ctx, id, window)
	if err != nil {
		return Stats{}, err
	}
	budget, err := e.BudgetAt(ctx, id, window.End)
	if err != nil {
		return Stats{}, err
	}

	total := contractor.Add(nonContractor).Add(additional)
	return Stats{
		Contractor:    contractor,
		NonContractor: nonContractor,
		Additional:    additional,
		Budget:        budget,
		Savings:       savings,
		Total:         total,
		Remaining:     budget.Sub(total).Sub(savings),
	}, nil
}

// =============================================================================
// LIFETIME QUERIES
// =============================================================================

// ActiveWindow returns the product's span of known activity: earliest to
// latest date across its tasks, costs, savings and budgets. ok=false when
// the product has no recorded activity at all.
func (e *Engine) ActiveWindow(ctx context.Context, id ProductID) (finance.TimeWindow, bool, error) {
	var first, last finance.Date
	seen := false

	observe := func(start, end finance.Date) {
		if !seen {
			first, last, seen = start, end, true
			return
		}
		first = finance.MinDate(first, start)
		last = finance.MaxDate(last, end)
	}

	tasks, err := e.store.TasksForProduct(ctx, id, nil)
	if err != nil {
		return finance.TimeWindow{}, false, err
	}
	for _, t := range tasks {
		observe(t.StartDate, t.EndDate)
	}

	costs, err := e.store.CostsForProduct(ctx, id)
	if err != nil {
		return finance.TimeWindow{}, false, err
	}
	savings, err := e.store.SavingsForProduct(ctx, id)
	if err != nil {
		return finance.TimeWindow{}, false, err
	}
	for _, c := range append(costs, savings...) {
		end := c.StartDate
		if c.EndDate != nil {
			end = *c.EndDate
		}
		observe(c.StartDate, end)
	}

	budgets, err := e.store.BudgetsForProduct(ctx, id)
	if err != nil {
		return finance.TimeWindow{}, false, err
	}
	for _, b := range budgets {
		observe(b.StartDate, b.StartDate)
	}

	if !seen {
		return finance.TimeWindow{}, false, nil
	}
	return finance.TimeWindow{Start: first, End: last}, true, nil
}

// CostTo is the product's total cost from its earliest known activity through
// endDate. Zero when the product has no activity on or before endDate.
func (e *Engine) CostTo(ctx context.Context, id ProductID, endDate finance.Date) (decimal.Decimal, error) {
	span, ok, err := e.ActiveWindow(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok || endDate.Before(span.Start) {
		return decimal.Zero, nil
	}

	stats, err := e.StatsBetween(ctx, id, finance.TimeWindow{Start: span.Start, End: endDate})
	if err != nil {
		return decimal.Zero, err
	}
	return stats.Total, nil
}

// TotalCost is the product's cost through its latest known activity.
func (e *Engine) TotalCost(ctx context.Context, id ProductID) (decimal.Decimal, error) {
	span, ok, err := e.ActiveWindow(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}
	return e.CostTo(ctx, id, span.End)
}

// =============================================================================
// PROFILES
// =============================================================================

// ProductProfile reports a product's stats breakdown per frequency slice of
// its active window, keyed "start~end".
func (e *Engine) ProductProfile(ctx context.Context, id ProductID, freq finance.Frequency) (Profile, error) {
	product, err := e.store.Product(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{Name: product.Name, TimeFrames: map[string]Stats{}}
	if product.ClientID != "" {
		client, err := e.store.Client(ctx, product.ClientID)
		if err == nil {
			profile.ServiceArea = &client
		} else if !IsNotFound(err) {
			return Profile{}, err
		}
	}

	span, ok, err := e.ActiveWindow(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if !ok {
		return profile, nil
	}

	slices, err := finance.SliceByFrequency(span.Start, span.End, freq)
	if err != nil {
		return Profile{}, err
	}
	for _, slice := range slices {
		stats, err := e.StatsBetween(ctx, id, slice)
		if err != nil {
			return Profile{}, err
		}
		profile.TimeFrames[slice.String()] = stats
	}
	return profile, nil
}

// GroupProfile reports a product group's combined stats per frequency slice
// of the union of its products' active windows. The service area is the
// client shared by every product in the group, absent when they disagree.
func (e *Engine) GroupProfile(ctx context.Context, id GroupID, freq finance.Frequency) (Profile, error) {
	group, err := e.store.Group(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{Name: group.Name, TimeFrames: map[string]Stats{}}

	var span finance.TimeWindow
	spanSeen := false

	var clientID ClientID
	clientShared := true
	for i, productID := range group.Products {
		product, err := e.store.Product(ctx, productID)
		if err != nil {
			return Profile{}, err
		}
		if i == 0 {
			clientID = product.ClientID
		} else if product.ClientID != clientID {
			clientShared = false
		}

		productSpan, ok, err := e.ActiveWindow(ctx, productID)
		if err != nil {
			return Profile{}, err
		}
		if !ok {
			continue
		}
		if !spanSeen {
			span, spanSeen = productSpan, true
		} else {
			span.Start = finance.MinDate(span.Start, productSpan.Start)
			span.End = finance.MaxDate(span.End, productSpan.End)
		}
	}

	if clientShared && clientID != "" && len(group.Products) > 0 {
		client, err := e.store.Client(ctx, clientID)
		if err == nil {
			profile.ServiceArea = &client
		} else if !IsNotFound(err) {
			return Profile{}, err
		}
	}

	if !spanSeen {
		return profile, nil
	}

	slices, err := finance.SliceByFrequency(span.Start, span.End, freq)
	if err != nil {
		return Profile{}, err
	}
	for _, slice := range slices {
		combined := zeroStats()
		for _, productID := range group.Products {
			stats, err := e.StatsBetween(ctx, productID, slice)
			if err != nil {
				return Profile{}, err
			}
			combined = combined.add(stats)
		}
		profile.TimeFrames[slice.String()] = combined
	}
	return profile, nil
}
