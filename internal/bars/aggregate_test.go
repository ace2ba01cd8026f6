package bars

import (
	"math"
	"testing"
	"time"

	"ChartDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// tradingDays builds one bar per weekday starting at start.
func tradingDays(start time.Time, n int) []model.Bar {
	out := make([]model.Bar, 0, n)
	t := start
	for len(out) < n {
		if t.Weekday() != time.Saturday && t.Weekday() != time.Sunday {
			i := float64(len(out))
			out = append(out, model.Bar{
				Time:   t,
				Open:   100 + i,
				High:   102 + i,
				Low:    99 + i,
				Close:  101 + i,
				Volume: 1000 + 10*i,
			})
		}
		t = t.AddDate(0, 0, 1)
	}
	return out
}

func TestAggregate_EmptyInput(t *testing.T) {
	_, err := Aggregate(nil, model.Weekly)
	require.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestAggregate_Weekly(t *testing.T) {
	// Mon 2024-01-01 .. Fri 2024-01-12: two full ISO weeks
	daily := tradingDays(day(2024, 1, 1), 10)
	weekly, err := Aggregate(daily, model.Weekly)
	require.NoError(t, err)
	require.Len(t, weekly, 2)

	w1 := weekly[0]
	assert.Equal(t, day(2024, 1, 1), w1.Time)
	assert.Equal(t, 100.0, w1.Open)
	assert.Equal(t, 106.0, w1.High)
	assert.Equal(t, 99.0, w1.Low)
	assert.Equal(t, 105.0, w1.Close)
	assert.Equal(t, 1000.0+1010+1020+1030+1040, w1.Volume)

	w2 := weekly[1]
	assert.Equal(t, day(2024, 1, 8), w2.Time)
	assert.Equal(t, 105.0, w2.Open)
	assert.Equal(t, 110.0, w2.Close)
}

func TestAggregate_WeeklyVolumeRoundTrip(t *testing.T) {
	daily := tradingDays(day(2023, 3, 15), 260)
	weekly, err := Aggregate(daily, model.Weekly)
	require.NoError(t, err)

	var dailySum, weeklySum float64
	for _, b := range daily {
		dailySum += b.Volume
	}
	for _, b := range weekly {
		weeklySum += b.Volume
	}
	assert.InDelta(t, dailySum, weeklySum, 1e-6)
}

func TestAggregate_CalendarPartitions(t *testing.T) {
	daily := tradingDays(day(2022, 11, 1), 300)

	tests := []struct {
		freq  model.Frequency
		first time.Time
	}{
		{model.Monthly, day(2022, 11, 1)},
		{model.Quarterly, day(2022, 11, 1)},
		{model.Yearly, day(2022, 11, 1)},
	}
	for _, tt := range tests {
		out, err := Aggregate(daily, tt.freq)
		require.NoError(t, err)
		require.NotEmpty(t, out)
		assert.Equal(t, tt.first, out[0].Time, tt.freq)
		for i := 1; i < len(out); i++ {
			assert.True(t, out[i].Time.After(out[i-1].Time), "%s bars must ascend", tt.freq)
			assert.NotEqual(t, periodKey(out[i].Time, tt.freq), periodKey(out[i-1].Time, tt.freq))
		}
	}

	yearly, _ := Aggregate(daily, model.Yearly)
	// the first yearly bar only holds Nov and Dec 2022
	assert.Equal(t, day(2023, 1, 2), yearly[1].Time)
}

func TestAggregate_QuarterBoundaries(t *testing.T) {
	daily := []model.Bar{
		{Time: day(2024, 3, 28), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1},
		{Time: day(2024, 4, 1), Open: 20, High: 21, Low: 19, Close: 20.5, Volume: 2},
		{Time: day(2024, 6, 28), Open: 30, High: 31, Low: 29, Close: 30.5, Volume: 3},
		{Time: day(2024, 7, 1), Open: 40, High: 41, Low: 39, Close: 40.5, Volume: 4},
	}
	out, err := Aggregate(daily, model.Quarterly)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 20.0, out[1].Open)
	assert.Equal(t, 30.5, out[1].Close)
	assert.Equal(t, 31.0, out[1].High)
	assert.Equal(t, 5.0, out[1].Volume)
}

func TestAggregate_SkipsMissingFields(t *testing.T) {
	nan := math.NaN()
	daily := []model.Bar{
		{Time: day(2024, 1, 1), Open: nan, High: nan, Low: nan, Close: nan, Volume: nan},
		{Time: day(2024, 1, 2), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Time: day(2024, 1, 3), Open: 11, High: 13, Low: 10, Close: nan, Volume: nan},
	}
	out, err := Aggregate(daily, model.Weekly)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, day(2024, 1, 1), out[0].Time)
	assert.Equal(t, 10.0, out[0].Open)
	assert.Equal(t, 13.0, out[0].High)
	assert.Equal(t, 9.0, out[0].Low)
	assert.Equal(t, 11.0, out[0].Close)
	assert.Equal(t, 100.0, out[0].Volume)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	daily := tradingDays(day(2024, 1, 1), 15)
	before := make([]model.Bar, len(daily))
	copy(before, daily)

	_, err := Aggregate(daily, model.Monthly)
	require.NoError(t, err)
	assert.Equal(t, before, daily)
}

func TestAggregate_DailyIsCopy(t *testing.T) {
	daily := tradingDays(day(2024, 1, 1), 5)
	out, err := Aggregate(daily, model.Daily)
	require.NoError(t, err)
	out[0].Close = -1
	assert.Equal(t, 101.0, daily[0].Close)
}
