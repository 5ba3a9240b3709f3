package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PhonePortal/internal/domain/models"
	"PhonePortal/internal/domain/repository"
)

func TestCalendarLabel(t *testing.T) {
	tests := []struct {
		name string
		cal  Calendar
		in   time.Time
		want time.Time
	}{
		{"daily", NewCalendar(repository.FreqDaily), day(2024, 1, 3), day(2024, 1, 3)},
		{"weekly wednesday", NewCalendar(repository.FreqWeekly), day(2024, 1, 3), day(2024, 1, 7)},
		{"weekly sunday", NewCalendar(repository.FreqWeekly), day(2024, 1, 7), day(2024, 1, 7)},
		{"weekly monday", NewCalendar(repository.FreqWeekly), day(2024, 1, 8), day(2024, 1, 14)},
		{"weekly saturday anchor", Calendar{Freq: repository.FreqWeekly, WeekAnchor: time.Saturday}, day(2024, 1, 7), day(2024, 1, 13)},
		{"monthly", NewCalendar(repository.FreqMonthly), day(2024, 2, 29), day(2024, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cal.Label(tt.in))
		})
	}
}

func TestCalendarNextMonthEnd(t *testing.T) {
	cal := NewCalendar(repository.FreqMonthly)
	assert.Equal(t, day(2024, 2, 1), cal.Next(day(2024, 1, 1)))
	assert.Equal(t, day(2025, 1, 1), cal.Next(day(2024, 12, 1)))
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Sunday")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)
	d, err = ParseWeekday("sat")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, d)
	_, err = ParseWeekday("funday")
	assert.Error(t, err)
}

func TestResampleDailyFillsGap(t *testing.T) {
	obs := []models.Observation{
		{Date: day(2024, 1, 1), Sales: 5},
		{Date: day(2024, 1, 3), Sales: 7},
	}
	got := Resample(obs, NewCalendar(repository.FreqDaily))
	require.Len(t, got, 3)
	assert.Equal(t, day(2024, 1, 2), got[1].Date)
	assert.Equal(t, 0.0, got[1].Value)
	assert.Equal(t, []float64{5, 0, 7}, Values(got))
}

func TestResampleWeeklySums(t *testing.T) {
	obs := []models.Observation{
		{Date: day(2024, 1, 1), Sales: 1}, // Mon
		{Date: day(2024, 1, 7), Sales: 2}, // Sun, same week
		{Date: day(2024, 1, 8), Sales: 4}, // next week
		{Date: day(2024, 1, 29), Sales: 8},
	}
	got := Resample(obs, NewCalendar(repository.FreqWeekly))
	require.Len(t, got, 5)
	assert.Equal(t, day(2024, 1, 7), got[0].Date)
	assert.Equal(t, []float64{3, 4, 0, 0, 8}, Values(got))
	assert.Equal(t, day(2024, 2, 4), got[4].Date)
}

func TestResampleMonthly(t *testing.T) {
	obs := []models.Observation{
		{Date: day(2024, 1, 15), Sales: 10},
		{Date: day(2024, 1, 20), Sales: 5},
		{Date: day(2024, 4, 2), Sales: 1},
	}
	got := Resample(obs, NewCalendar(repository.FreqMonthly))
	require.Len(t, got, 4)
	assert.Equal(t, []float64{15, 0, 0, 1}, Values(got))
	assert.Equal(t, day(2024, 3, 1), got[2].Date)
}

func TestResampleEmpty(t *testing.T) {
	assert.Empty(t, Resample(nil, NewCalendar(repository.FreqDaily)))
}

func TestResampleGapFreeAndIdempotent(t *testing.T) {
	for _, f := range []repository.Frequency{repository.FreqDaily, repository.FreqWeekly, repository.FreqMonthly} {
		cal := NewCalendar(f)
		obs := []models.Observation{
			{Date: day(2023, 11, 5), Sales: 3},
			{Date: day(2023, 12, 24), Sales: 1},
			{Date: day(2024, 2, 10), Sales: 9},
		}
		grid := Resample(obs, cal)
		for i := 1; i < len(grid); i++ {
			assert.Equal(t, cal.Next(grid[i-1].Date), grid[i].Date, "freq %s index %d", f, i)
		}

		again := make([]models.Observation, len(grid))
		for i, p := range grid {
			again[i] = models.Observation{Date: p.Date, Sales: p.Value}
		}
		assert.Equal(t, grid, Resample(again, cal), "freq %s", f)
	}
}
