/*
calendar.go - Working-day determination

PURPOSE:
  Decides which calendar days count as working days: weekdays that are not
  bank holidays for the calendar's jurisdiction. Every apportionment rule in
  the engine counts days through this type, so weekends and holidays drop out
  of effort and rate calculations uniformly.

HOLIDAY DATA:
  Bank holidays are a static, versioned reference table keyed by date. The
  England & Wales table for 2014-2018 ships in-code (it is what the reference
  financial fixtures were produced against). Other jurisdictions are plain
  data: build a Calendar from any holiday slice.
*/
package finance

// Holiday is a single bank holiday in a jurisdiction's reference table.
type Holiday struct {
	Date Date
	Name string
}

// Calendar answers working-day questions for one jurisdiction.
// The zero value (no holidays) treats every weekday as a working day.
type Calendar struct {
	holidays map[Date]string
}

// NewCalendar builds a calendar from a holiday table.
func NewCalendar(holidays []Holiday) *Calendar {
	m := make(map[Date]string, len(holidays))
	for _, h := range holidays {
		m[h.Date] = h.Name
	}
	return &Calendar{holidays: m}
}

// IsHoliday reports whether d is a bank holiday, with its name.
func (c *Calendar) IsHoliday(d Date) (bool, string) {
	if c == nil || c.holidays == nil {
		return false, ""
	}
	name, ok := c.holidays[d]
	return ok, name
}

// IsWorkingDay is true iff d is neither a weekend day nor a bank holiday.
func (c *Calendar) IsWorkingDay(d Date) bool {
	if d.IsWeekend() {
		return false
	}
	holiday, _ := c.IsHoliday(d)
	return !holiday
}

// WorkingDayCount counts working days in [start, end] inclusive.
// Zero when start is after end or no working days fall in range.
func (c *Calendar) WorkingDayCount(start, end Date) int {
	count := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// WorkingDays returns the working days in [start, end] in ascending order.
func (c *Calendar) WorkingDays(start, end Date) []Date {
	var days []Date
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// WindowWorkingDayCount counts working days within a window.
func (c *Calendar) WindowWorkingDayCount(w TimeWindow) int {
	return c.WorkingDayCount(w.Start, w.End)
}

// =============================================================================
// ENGLAND & WALES REFERENCE TABLE (2014-2018)
// =============================================================================

// EnglandAndWales returns the calendar with the England & Wales bank-holiday
// table. Substitute days are listed in place of holidays falling on weekends
// (e.g. 2015-12-28 for Boxing Day).
func EnglandAndWales() *Calendar {
	return NewCalendar(englandAndWalesHolidays)
}

var englandAndWalesHolidays = []Holiday{
	{MustParseDate("2014-01-01"), "New Year's Day"},
	{MustParseDate("2014-04-18"), "Good Friday"},
	{MustParseDate("2014-04-21"), "Easter Monday"},
	{MustParseDate("2014-05-05"), "Early May bank holiday"},
	{MustParseDate("2014-05-26"), "Spring bank holiday"},
	{MustParseDate("2014-08-25"), "Summer bank holiday"},
	{MustParseDate("2014-12-25"), "Christmas Day"},
	{MustParseDate("2014-12-26"), "Boxing Day"},

	{MustParseDate("2015-01-01"), "New Year's Day"},
	{MustParseDate("2015-04-03"), "Good Friday"},
	{MustParseDate("2015-04-06"), "Easter Monday"},
	{MustParseDate("2015-05-04"), "Early May bank holiday"},
	{MustParseDate("2015-05-25"), "Spring bank holiday"},
	{MustParseDate("2015-08-31"), "Summer bank holiday"},
	{MustParseDate("2015-12-25"), "Christmas Day"},
	{MustParseDate("2015-12-28"), "Boxing Day (substitute day)"},

	{MustParseDate("2016-01-01"), "New Year's Day"},
	{MustParseDate("2016-03-25"), "Good Friday"},
	{MustParseDate("2016-03-28"), "Easter Monday"},
	{MustParseDate("2016-05-02"), "Early May bank holiday"},
	{MustParseDate("2016-05-30"), "Spring bank holiday"},
	{MustParseDate("2016-08-29"), "Summer bank holiday"},
	{MustParseDate("2016-12-26"), "Boxing Day"},
	{MustParseDate("2016-12-27"), "Christmas Day (substitute day)"},

	{MustParseDate("2017-01-02"), "New Year's Day (substitute day)"},
	{MustParseDate("2017-04-14"), "Good Friday"},
	{MustParseDate("2017-04-17"), "Easter Monday"},
	{MustParseDate("2017-05-01"), "Early May bank holiday"},
	{MustParseDate("2017-05-29"), "Spring bank holiday"},
	{MustParseDate("2017-08-28"), "Summer bank holiday"},
	{MustParseDate("2017-12-25"), "Christmas Day"},
	{MustParseDate("2017-12-26"), "Boxing Day"},

	{MustParseDate("2018-01-01"), "New Year's Day"},
	{MustParseDate("2018-03-30"), "Good Friday"},
	{MustParseDate("2018-04-02"), "Easter Monday"},
	{MustParseDate("2018-05-07"), "Early May bank holiday"},
	{MustParseDate("2018-05-28"), "Spring bank holiday"},
	{MustParseDate("2018-08-27"), "Summer bank holiday"},
	{MustParseDate("2018-12-25"), "Christmas Day"},
	{MustParseDate("2018-12-26"), "Boxing Day"},
}
