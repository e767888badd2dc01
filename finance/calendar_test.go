package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/cost-engine/finance"
)

func d(s string) finance.Date { return finance.MustParseDate(s) }

// =============================================================================
// WORKING DAY TESTS
// =============================================================================

func TestWorkingDayCount(t *testing.T) {
	cal := finance.EnglandAndWales()

	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{"same working day", "2016-04-28", "2016-04-28", 1},
		{"same weekend day", "2016-04-30", "2016-04-30", 0},
		{"just work days", "2016-04-27", "2016-04-29", 3},
		{"one weekend day", "2016-04-27", "2016-04-30", 3},
		{"two weekend days", "2016-04-27", "2016-05-01", 3},
		{"weekend plus bank holiday", "2016-04-27", "2016-05-02", 3},
		{"january 2016", "2016-01-01", "2016-01-31", 20},
		{"february 2016", "2016-02-01", "2016-02-28", 20},
		{"full year 2015", "2015-01-01", "2015-12-31", 253},
		{"start after end", "2016-05-02", "2016-04-27", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.WorkingDayCount(d(tt.start), d(tt.end)))
		})
	}
}

func TestWorkingDays_SkipsWeekendsAndHolidays(t *testing.T) {
	cal := finance.EnglandAndWales()

	// 2016-04-30/05-01 are a weekend, 2016-05-02 is the early May bank holiday
	days := cal.WorkingDays(d("2016-04-27"), d("2016-05-02"))

	expected := []finance.Date{d("2016-04-27"), d("2016-04-28"), d("2016-04-29")}
	assert.Equal(t, expected, days)
}

func TestWorkingDays_EmptyWhenNone(t *testing.T) {
	cal := finance.EnglandAndWales()
	assert.Empty(t, cal.WorkingDays(d("2016-04-30"), d("2016-05-01")))
}

func TestBankHolidays(t *testing.T) {
	cal := finance.EnglandAndWales()

	holidays := []string{
		"2015-12-28", // boxing day (substitute day)
		"2016-05-02", // may day
		"2016-05-30", // spring bank holiday
		"2016-08-29", // summer bank holiday (England)
		"2016-12-27", // christmas day (substitute day)
	}
	for _, day := range holidays {
		ok, _ := cal.IsHoliday(d(day))
		assert.True(t, ok, "%s is a bank holiday", day)
	}

	ordinaryDays := []string{
		"2016-04-01", // april fools day
		"2016-08-01", // summer bank holiday (Scotland only)
	}
	for _, day := range ordinaryDays {
		ok, _ := cal.IsHoliday(d(day))
		assert.False(t, ok, "%s is not a bank holiday in England and Wales", day)
	}
}

func TestZeroCalendar_WeekdaysOnly(t *testing.T) {
	var cal finance.Calendar

	assert.True(t, cal.IsWorkingDay(d("2016-01-01"))) // Friday, no holiday table
	assert.False(t, cal.IsWorkingDay(d("2016-01-02")))
}

func TestSingleDayCount(t *testing.T) {
	cal := finance.EnglandAndWales()

	// working_day_count(d, d) is 1 iff d is a working day
	assert.Equal(t, 1, cal.WorkingDayCount(d("2016-04-28"), d("2016-04-28")))
	assert.Equal(t, 0, cal.WorkingDayCount(d("2016-05-02"), d("2016-05-02")))
}
