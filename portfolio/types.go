/*
Package portfolio computes time-apportioned financial figures for a
project-tracking dashboard.

PURPOSE:
  This package contains the records and pure calculation rules that convert
  calendar-time overlaps between tasks, pay rates, recurring costs and
  reporting windows into decimal monetary figures.

KEY CONCEPTS IN THIS FILE (types.go):
  - Person/Rate:     a person's pay history; the latest rate starting on or
                     before a date governs that date
  - RecurringCost:   a one-off, monthly or annual charge owned by a person or
                     a product (additional employment costs, licences, savings)
  - Task:            fractional effort-days spread evenly over working days
  - Product & co:    aggregate containers that own tasks/costs/budgets

DESIGN PRINCIPLES:
  1. Immutability: records are facts; computations never mutate them
  2. Precision:    decimal.Decimal throughout, rounding only at display
  3. Purity:       every calculation is a function over already-fetched
                   records plus a finance.Calendar

SEE ALSO:
  - rates.go: base-rate resolution
  - costs.go: recurring-cost apportionment
  - task.go:  effort and money apportionment
  - stats.go: window-bounded aggregation over a RecordStore
*/
package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/cost-engine/finance"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PersonID string
type ProductID string
type GroupID string
type ClientID string

// =============================================================================
// PEOPLE AND RATES
// =============================================================================

// Person is someone who books time against products.
type Person struct {
	ID           PersonID
	Name         string
	IsContractor bool
}

// Rate is one entry in a person's pay history: money per working day from
// StartDate until superseded by a later Rate. Rates carry no end date; the
// next rate for the same person implicitly closes this one.
type Rate struct {
	PersonID  PersonID
	StartDate finance.Date
	Rate      decimal.Decimal
}

// =============================================================================
// RECURRING COSTS
// =============================================================================

// CostType classifies how a recurring cost amortizes.
type CostType string

const (
	OneOff   CostType = "one_off"
	Monthly  CostType = "monthly"
	Annually CostType = "annually"
)

// CostOwner identifies who a recurring cost belongs to.
type CostOwner string

const (
	OwnerPerson  CostOwner = "person"
	OwnerProduct CostOwner = "product"
)

// RecurringCost is a cost, additional person cost or saving:
// a charge active from StartDate until EndDate (nil = open-ended),
// amortized according to its Type.
type RecurringCost struct {
	ID        string
	Owner     CostOwner
	OwnerID   string // PersonID or ProductID depending on Owner
	Name      string // e.g. "ASLC", "ERNIC", "Licences"
	Type      CostType
	StartDate finance.Date
	EndDate   *finance.Date
	Amount    decimal.Decimal
}

// Window returns the cost's own active window, capping an open end date at
// the given horizon.
func (c RecurringCost) Window(horizon finance.Date) finance.TimeWindow {
	end := horizon
	if c.EndDate != nil {
		end = *c.EndDate
	}
	if end.Before(c.StartDate) {
		end = c.StartDate
	}
	return finance.TimeWindow{Start: c.StartDate, End: end}
}

// =============================================================================
// TASKS
// =============================================================================

// Task is a block of effort booked by one person on one product: Days
// effort-days spread evenly across the working days of [StartDate, EndDate].
// Days may exceed or fall short of the working-day count; the effort per
// working day is Days / workingDayCount and may be fractional.
type Task struct {
	ID        string
	Name      string
	PersonID  PersonID
	ProductID ProductID
	StartDate finance.Date
	EndDate   finance.Date
	Days      decimal.Decimal
}

// Window returns the task's own inclusive span.
func (t Task) Window() finance.TimeWindow {
	return finance.TimeWindow{Start: t.StartDate, End: t.EndDate}
}

func (t Task) String() string {
	base := fmt.Sprintf("person %s on product %s from %s to %s for %s days",
		t.PersonID, t.ProductID, t.StartDate, t.EndDate, t.Days)
	if t.Name != "" {
		return t.Name + " - " + base
	}
	return base
}

// =============================================================================
// BUDGETS
// =============================================================================

// Budget is a point-in-time budget setting for a product. Like rates, the
// latest budget starting on or before a date governs that date.
type Budget struct {
	ProductID ProductID
	StartDate finance.Date
	Amount    decimal.Decimal
}

// =============================================================================
// AGGREGATE CONTAINERS
// =============================================================================

// Client is the service area a product is delivered for.
type Client struct {
	ID   ClientID
	Name string
}

// Product owns tasks, costs, savings and budgets. It has no apportionment
// logic of its own; all math delegates to the core components.
type Product struct {
	ID       ProductID
	Name     string
	ClientID ClientID
}

// ProductGroup is a named set of products reported on together.
type ProductGroup struct {
	ID       GroupID
	Name     string
	Products []ProductID
}
