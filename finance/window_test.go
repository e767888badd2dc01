package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cost-engine/finance"
)

// =============================================================================
// WINDOW CONSTRUCTION
// =============================================================================

func TestNewTimeWindow_RejectsReversedRange(t *testing.T) {
	_, err := finance.NewTimeWindow(d("2016-01-31"), d("2016-01-01"))
	assert.ErrorIs(t, err, finance.ErrInvalidRange)

	w, err := finance.NewTimeWindow(d("2016-01-01"), d("2016-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 31, w.CalendarDays())
}

// =============================================================================
// OVERLAP
// =============================================================================

func TestOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     finance.TimeWindow
		expected *finance.TimeWindow
	}{
		{
			"disjoint, a after b",
			finance.MustWindow(d("2016-01-01"), d("2016-01-31")),
			finance.MustWindow(d("2015-12-01"), d("2015-12-31")),
			nil,
		},
		{
			"disjoint, a before b",
			finance.MustWindow(d("2015-12-01"), d("2015-12-31")),
			finance.MustWindow(d("2016-01-01"), d("2016-01-31")),
			nil,
		},
		{
			"one window inside the other",
			finance.MustWindow(d("2015-12-01"), d("2016-01-31")),
			finance.MustWindow(d("2015-12-31"), d("2016-01-01")),
			&finance.TimeWindow{Start: d("2015-12-31"), End: d("2016-01-01")},
		},
		{
			"partial intersection",
			finance.MustWindow(d("2015-12-01"), d("2016-01-01")),
			finance.MustWindow(d("2015-12-31"), d("2016-01-31")),
			&finance.TimeWindow{Start: d("2015-12-31"), End: d("2016-01-01")},
		},
		{
			"adjacent single day",
			finance.MustWindow(d("2016-01-01"), d("2016-01-15")),
			finance.MustWindow(d("2016-01-15"), d("2016-01-31")),
			&finance.TimeWindow{Start: d("2016-01-15"), End: d("2016-01-15")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := finance.Overlap(tt.a, tt.b)
			require.NoError(t, err)
			if tt.expected == nil {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, *tt.expected, got)
			}
		})
	}
}

func TestOverlap_MalformedWindowFails(t *testing.T) {
	bad := finance.TimeWindow{Start: d("2016-01-31"), End: d("2016-01-01")}
	good := finance.MustWindow(d("2015-12-01"), d("2015-12-31"))

	_, _, err := finance.Overlap(bad, good)
	assert.ErrorIs(t, err, finance.ErrInvalidRange)

	_, _, err = finance.Overlap(good, bad)
	assert.ErrorIs(t, err, finance.ErrInvalidRange)
}

// =============================================================================
// SLICING
// =============================================================================

func TestSliceByFrequency_Monthly(t *testing.T) {
	slices, err := finance.SliceByFrequency(d("2015-01-02"), d("2015-12-31"), finance.Monthly)
	require.NoError(t, err)
	require.Len(t, slices, 12)

	assert.Equal(t, finance.TimeWindow{Start: d("2015-01-02"), End: d("2015-01-31")}, slices[0])
	assert.Equal(t, finance.TimeWindow{Start: d("2015-02-01"), End: d("2015-02-28")}, slices[1])
	assert.Equal(t, finance.TimeWindow{Start: d("2015-12-01"), End: d("2015-12-31")}, slices[11])
}

func TestSliceByFrequency_PartialFinalSlice(t *testing.T) {
	slices, err := finance.SliceByFrequency(d("2016-01-15"), d("2016-03-10"), finance.Monthly)
	require.NoError(t, err)
	require.Len(t, slices, 3)
	assert.Equal(t, finance.TimeWindow{Start: d("2016-03-01"), End: d("2016-03-10")}, slices[2])
}

func TestSliceByFrequency_Annually(t *testing.T) {
	slices, err := finance.SliceByFrequency(d("2015-06-01"), d("2017-03-31"), finance.Annually)
	require.NoError(t, err)
	require.Len(t, slices, 3)
	assert.Equal(t, finance.TimeWindow{Start: d("2015-06-01"), End: d("2015-12-31")}, slices[0])
	assert.Equal(t, finance.TimeWindow{Start: d("2016-01-01"), End: d("2016-12-31")}, slices[1])
	assert.Equal(t, finance.TimeWindow{Start: d("2017-01-01"), End: d("2017-03-31")}, slices[2])
}

// =============================================================================
// PERIODIC ANCHOR DATES
// =============================================================================

func TestPeriodicDates(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		freq      finance.Frequency
		anchorDay int
		expected  []string
	}{
		{
			"monthly on the 2nd", "2015-01-02", "2015-03-03", finance.Monthly, 2,
			[]string{"2015-01-02", "2015-02-02", "2015-03-02"},
		},
		{
			"monthly on the 31st clamps to short months", "2015-01-31", "2015-03-31", finance.Monthly, 31,
			[]string{"2015-01-31", "2015-02-28", "2015-03-31"},
		},
		{
			"monthly on the 29th clamps in february", "2015-01-29", "2015-03-31", finance.Monthly, 29,
			[]string{"2015-01-29", "2015-02-28", "2015-03-29"},
		},
		{
			"annually", "2015-01-02", "2017-03-03", finance.Annually, 0,
			[]string{"2015-01-02", "2016-01-02", "2017-01-02"},
		},
		{
			"annually late january", "2015-01-30", "2017-03-03", finance.Annually, 0,
			[]string{"2015-01-30", "2016-01-30", "2017-01-30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := finance.PeriodicDates(d(tt.start), d(tt.end), tt.freq, tt.anchorDay)
			require.NoError(t, err)

			expected := make([]finance.Date, len(tt.expected))
			for i, s := range tt.expected {
				expected[i] = d(s)
			}
			assert.Equal(t, expected, dates)
		})
	}
}

func TestDaysInHelpers(t *testing.T) {
	assert.Equal(t, 31, finance.DaysInMonth(d("2015-01-15")))
	assert.Equal(t, 28, finance.DaysInMonth(d("2015-02-01")))
	assert.Equal(t, 29, finance.DaysInMonth(d("2016-02-01")))
	assert.Equal(t, 365, finance.DaysInYear(d("2015-06-01")))
	assert.Equal(t, 366, finance.DaysInYear(d("2016-06-01")))
}
