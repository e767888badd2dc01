package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/cost-engine/finance"
)

// =============================================================================
// RATE RESOLUTION - "latest rate wins"
// =============================================================================

// SortRates orders a rate history by start date ascending, the ordering the
// resolution below assumes. Stores call this on insert.
func SortRates(rates []Rate) {
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].StartDate.Before(rates[j].StartDate)
	})
}

// SortBudgets orders a budget history by start date ascending.
func SortBudgets(budgets []Budget) {
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].StartDate.Before(budgets[j].StartDate)
	})
}

// BaseRateAt resolves the base pay rate applicable on a date: the latest Rate
// with StartDate <= at. The rates slice must be sorted by StartDate ascending.
// Fails with ErrNoApplicableRate when no rate starts on or before the date.
func BaseRateAt(rates []Rate, at finance.Date) (decimal.Decimal, error) {
	// first rate starting strictly after `at`; the applicable rate is the one
	// before it
	i := sort.Search(len(rates), func(i int) bool {
		return rates[i].StartDate.After(at)
	})
	if i == 0 {
		personID := ""
		if len(rates) > 0 {
			personID = string(rates[0].PersonID)
		}
		return decimal.Zero, &finance.NoApplicableRateError{PersonID: personID, At: at}
	}
	return rates[i-1].Rate, nil
}

// BaseRateBetween returns the working-day-weighted average base rate over a
// window. A single governing rate is returned unchanged; when the rate
// changes inside the window each sub-rate is weighted by the working days it
// covers. A window with zero working days yields zero.
func BaseRateBetween(cal *finance.Calendar, rates []Rate, window finance.TimeWindow) (decimal.Decimal, error) {
	if window.Start.After(window.End) {
		return decimal.Zero, &finance.InvalidRangeError{Start: window.Start, End: window.End}
	}

	total := cal.WindowWorkingDayCount(window)
	if total == 0 {
		return decimal.Zero, nil
	}

	weighted := decimal.Zero
	for _, day := range cal.WorkingDays(window.Start, window.End) {
		rate, err := BaseRateAt(rates, day)
		if err != nil {
			return decimal.Zero, err
		}
		weighted = weighted.Add(rate)
	}
	return weighted.Div(decimal.NewFromInt(int64(total))), nil
}
