package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/warp/cost-engine/finance"
)

// =============================================================================
// TASK TIME APPORTIONMENT
// =============================================================================

// TimeSpent returns the effort-days a task contributes to a window: the
// task's total effort scaled by the ratio of working days in the overlap to
// working days in the whole task span. A nil window means the whole task and
// returns Days exactly. A task spanning zero working days contributes
// nothing, whatever the window.
func (t Task) TimeSpent(cal *finance.Calendar, window *finance.TimeWindow) (decimal.Decimal, error) {
	if window == nil {
		return t.Days, nil
	}

	overlap, ok, err := finance.Overlap(t.Window(), *window)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}

	taskWorkdays := cal.WindowWorkingDayCount(t.Window())
	if taskWorkdays == 0 {
		return decimal.Zero, nil
	}

	windowWorkdays := cal.WindowWorkingDayCount(overlap)
	return t.Days.
		Mul(decimal.NewFromInt(int64(windowWorkdays))).
		Div(decimal.NewFromInt(int64(taskWorkdays))), nil
}

// MoneySpent converts a task's effort into money day by day: for each working
// day the task covers inside the window, the per-working-day effort times the
// person's base rate on that exact day. Rate changes mid-task therefore bind
// to the days they cover, which an average rate would smear.
func (t Task) MoneySpent(cal *finance.Calendar, rates []Rate, window *finance.TimeWindow) (decimal.Decimal, error) {
	effective := t.Window()
	if window != nil {
		overlap, ok, err := finance.Overlap(t.Window(), *window)
		if err != nil {
			return decimal.Zero, err
		}
		if !ok {
			return decimal.Zero, nil
		}
		effective = overlap
	}

	taskWorkdays := cal.WindowWorkingDayCount(t.Window())
	if taskWorkdays == 0 {
		return decimal.Zero, nil
	}
	effortPerDay := t.Days.Div(decimal.NewFromInt(int64(taskWorkdays)))

	total := decimal.Zero
	for _, day := range cal.WorkingDays(effective.Start, effective.End) {
		rate, err := BaseRateAt(rates, day)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(effortPerDay.Mul(rate))
	}
	return total, nil
}
