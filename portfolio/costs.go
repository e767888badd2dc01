/*
costs.go - Recurring-cost apportionment

PURPOSE:
  Computes what a one-off, monthly or annual cost contributes to an arbitrary
  query window, and the per-working-day rate it adds while active.

APPORTIONMENT RULES:
  ONE_OFF   attributed entirely to its start date; in or out of the window,
            never prorated. No daily rate exists (ErrUndefinedOperation).
  MONTHLY   cost_between prorates the amount by calendar days per overlapping
            calendar month (a 31-day January spreads 3000 at 3000/31 per day).
  ANNUALLY  as MONTHLY per calendar year, using 365/366 days.

  rate_between (monthly/annual) divides the amount by the WORKING-day count
  of the cost's own period: the month/year-long period anchored at the cost's
  start date that contains the query overlap, clipped by the cost's end date.
  This is the rate the cost adds on top of a person's base pay per working
  day, so it weights by workdays, not calendar days.
*/
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/warp/cost-engine/finance"
)

// CostBetween returns the absolute cost attributable to the overlap of the
// cost's active window and the query window. Zero when disjoint.
func (c RecurringCost) CostBetween(cal *finance.Calendar, window finance.TimeWindow) (decimal.Decimal, error) {
	overlap, ok, err := finance.Overlap(c.Window(window.End), window)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}

	switch c.Type {
	case OneOff:
		if overlap.Contains(c.StartDate) {
			return c.Amount, nil
		}
		return decimal.Zero, nil

	case Monthly:
		return c.proratedByCalendar(overlap, finance.Monthly)

	case Annually:
		return c.proratedByCalendar(overlap, finance.Annually)
	}
	return decimal.Zero, finance.ErrUndefinedOperation
}

// proratedByCalendar sums amount x (overlap days / period days) per calendar
// month or year slice of the overlap.
func (c RecurringCost) proratedByCalendar(overlap finance.TimeWindow, freq finance.Frequency) (decimal.Decimal, error) {
	slices, err := finance.SliceByFrequency(overlap.Start, overlap.End, freq)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, slice := range slices {
		var periodDays int
		if freq == finance.Annually {
			periodDays = finance.DaysInYear(slice.Start)
		} else {
			periodDays = finance.DaysInMonth(slice.Start)
		}
		share := c.Amount.
			Mul(decimal.NewFromInt(int64(slice.CalendarDays()))).
			Div(decimal.NewFromInt(int64(periodDays)))
		total = total.Add(share)
	}
	return total, nil
}

// RateBetween returns the per-working-day rate the cost adds during the query
// window: the amount divided by the working days of the cost period containing
// the overlap. Zero when the cost is inactive in the window. Requesting a rate
// for a one-off cost is a programming error and fails with
// ErrUndefinedOperation.
func (c RecurringCost) RateBetween(cal *finance.Calendar, window finance.TimeWindow) (decimal.Decimal, error) {
	if c.Type == OneOff {
		return decimal.Zero, finance.ErrUndefinedOperation
	}

	overlap, ok, err := finance.Overlap(c.Window(window.End), window)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}

	period, err := c.periodContaining(overlap.Start)
	if err != nil {
		return decimal.Zero, err
	}

	workdays := cal.WindowWorkingDayCount(period)
	if workdays == 0 {
		return decimal.Zero, nil
	}
	return c.Amount.Div(decimal.NewFromInt(int64(workdays))), nil
}

// periodContaining finds the month/year-long cost period, anchored at the
// cost's start date, that contains the given day. The period is clipped by
// the cost's end date when one is set.
func (c RecurringCost) periodContaining(day finance.Date) (finance.TimeWindow, error) {
	freq := finance.Monthly
	if c.Type == Annually {
		freq = finance.Annually
	}

	anchors, err := finance.PeriodicDates(c.StartDate, day, freq, 0)
	if err != nil {
		return finance.TimeWindow{}, err
	}
	start := anchors[len(anchors)-1]

	var next finance.Date
	if freq == finance.Annually {
		next = finance.ClampDayOfMonth(start.Year()+1, c.StartDate.Month(), c.StartDate.Day())
	} else {
		month, year := start.Month()+1, start.Year()
		if month > 12 {
			month, year = 1, year+1
		}
		next = finance.ClampDayOfMonth(year, month, c.StartDate.Day())
	}

	end := next.AddDays(-1)
	if c.EndDate != nil && c.EndDate.Before(end) {
		end = *c.EndDate
	}
	return finance.TimeWindow{Start: start, End: end}, nil
}
