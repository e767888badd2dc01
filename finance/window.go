package finance

import "time"

// =============================================================================
// TIME WINDOW - Inclusive date range, the unit of every apportionment query
// =============================================================================

// TimeWindow is an inclusive [Start, End] range of calendar days.
// Build via NewTimeWindow so the start<=end invariant always holds.
type TimeWindow struct {
	Start Date
	End   Date
}

// NewTimeWindow validates and builds a window. Start after End is always a
// caller bug and fails with ErrInvalidRange.
func NewTimeWindow(start, end Date) (TimeWindow, error) {
	if start.After(end) {
		return TimeWindow{}, &InvalidRangeError{Start: start, End: end}
	}
	return TimeWindow{Start: start, End: end}, nil
}

// MustWindow is NewTimeWindow for fixtures and literals; panics on bad input.
func MustWindow(start, end Date) TimeWindow {
	w, err := NewTimeWindow(start, end)
	if err != nil {
		panic(err)
	}
	return w
}

// SingleDay returns the window covering exactly one day.
func SingleDay(d Date) TimeWindow { return TimeWindow{Start: d, End: d} }

func (w TimeWindow) Contains(d Date) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

// CalendarDays returns the inclusive day count of the window.
func (w TimeWindow) CalendarDays() int {
	return DaysBetween(w.Start, w.End) + 1
}

// Days returns every day in the window in ascending order.
func (w TimeWindow) Days() []Date {
	days := make([]Date, 0, w.CalendarDays())
	for d := w.Start; d.BeforeOrEqual(w.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (w TimeWindow) String() string {
	return w.Start.String() + "~" + w.End.String()
}

// Overlap returns the intersection of two inclusive windows, or ok=false when
// they are disjoint. Both windows are re-validated: a malformed operand is an
// ErrInvalidRange even if the other window would make the result empty.
func Overlap(a, b TimeWindow) (TimeWindow, bool, error) {
	if a.Start.After(a.End) {
		return TimeWindow{}, false, &InvalidRangeError{Start: a.Start, End: a.End}
	}
	if b.Start.After(b.End) {
		return TimeWindow{}, false, &InvalidRangeError{Start: b.Start, End: b.End}
	}
	start := MaxDate(a.Start, b.Start)
	end := MinDate(a.End, b.End)
	if start.After(end) {
		return TimeWindow{}, false, nil
	}
	return TimeWindow{Start: start, End: end}, true, nil
}

// =============================================================================
// FREQUENCY - Calendar-aligned slicing and anchor dates
// =============================================================================

// Frequency selects the calendar period used for slicing and for recurring
// cost periods.
type Frequency string

const (
	Monthly  Frequency = "MS" // month-start aligned
	Annually Frequency = "YS" // year-start aligned
)

// SliceByFrequency partitions [start, end] into consecutive windows aligned to
// calendar month or year boundaries. First and last slices may be partial;
// interior slices are whole periods.
func SliceByFrequency(start, end Date, freq Frequency) ([]TimeWindow, error) {
	if start.After(end) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}
	var slices []TimeWindow
	cursor := start
	for cursor.BeforeOrEqual(end) {
		var periodEnd Date
		switch freq {
		case Annually:
			periodEnd = EndOfYear(cursor.Year())
		default:
			periodEnd = EndOfMonth(cursor.Year(), cursor.Month())
		}
		slices = append(slices, TimeWindow{Start: cursor, End: MinDate(periodEnd, end)})
		cursor = periodEnd.AddDays(1)
	}
	return slices, nil
}

// PeriodicDates produces successive anchor dates from start to end inclusive:
// one per month or year, on the anchor day-of-month, pulled back to the last
// day of any shorter month ("the 31st" clamps to Feb 28). For Annually the
// anchor is start's own month/day. anchorDay <= 0 means start.Day().
func PeriodicDates(start, end Date, freq Frequency, anchorDay int) ([]Date, error) {
	if start.After(end) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}
	if anchorDay <= 0 {
		anchorDay = start.Day()
	}

	var dates []Date
	switch freq {
	case Annually:
		for year := start.Year(); ; year++ {
			d := ClampDayOfMonth(year, start.Month(), start.Day())
			if d.After(end) {
				break
			}
			if d.AfterOrEqual(start) {
				dates = append(dates, d)
			}
		}
	default:
		year, month := start.Year(), start.Month()
		for {
			d := ClampDayOfMonth(year, month, anchorDay)
			if d.After(end) {
				break
			}
			if d.AfterOrEqual(start) {
				dates = append(dates, d)
			}
			month++
			if month > time.December {
				month = time.January
				year++
			}
		}
	}
	return dates, nil
}
