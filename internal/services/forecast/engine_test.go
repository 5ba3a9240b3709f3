package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PhonePortal/internal/domain/models"
	"PhonePortal/internal/domain/repository"
)

func fixedEngine(now time.Time) *Engine {
	e := NewEngine(time.Sunday)
	e.Now = func() time.Time { return now }
	return e
}

func TestEngineMonthlyGolden(t *testing.T) {
	series := BuildSeries([]RawRecord{
		{Date: "2024-01-10", Sales: "100"},
		{Date: "2024-02-10", Sales: "120"},
		{Date: "2024-03-10", Sales: "140"},
	})
	out := fixedEngine(day(2030, 1, 1)).Forecast(series, repository.FreqMonthly, 2)

	require.Len(t, out.History, 3)
	assert.Equal(t, day(2024, 1, 1), out.History[0].Date)
	assert.InDelta(t, 120, out.History[2].Smoothed, 1e-9)

	require.Len(t, out.Forecast, 2)
	assert.Equal(t, day(2024, 4, 1), out.Forecast[0].Date)
	assert.InDelta(t, 160, out.Forecast[0].Mean, 1e-9)
	assert.InDelta(t, 180, out.Forecast[1].Upper, 1e-9)

	s := out.Summary
	assert.Equal(t, 3, s.ObservationCount)
	assert.Equal(t, "M", s.Frequency)
	assert.Equal(t, 2, s.ForecastCount)
	assert.InDelta(t, 20, s.TrendSlope, 1e-9)
	assert.InDelta(t, 100, s.TrendIntercept, 1e-9)
	require.NotNil(t, s.FirstDate)
	assert.Equal(t, day(2024, 3, 1), *s.LastDate)
}

func TestEngineEmptySeries(t *testing.T) {
	out := fixedEngine(day(2024, 5, 15)).Forecast(models.SalesSeries{Dropped: 2}, repository.FreqWeekly, 0)
	assert.Empty(t, out.History)
	require.Len(t, out.Forecast, 8)
	assert.Equal(t, day(2024, 5, 19), out.Forecast[0].Date)
	for _, p := range out.Forecast {
		assert.Zero(t, p.Mean)
		assert.Zero(t, p.Lower)
		assert.Zero(t, p.Upper)
	}
	assert.Nil(t, out.Summary.FirstDate)
	assert.Nil(t, out.Summary.LastDate)
	assert.Equal(t, 2, out.Summary.DroppedRows)
}

func TestEngineSingleObservation(t *testing.T) {
	series := BuildSeries([]RawRecord{{Date: "2024-01-05", Sales: "9"}})
	out := fixedEngine(day(2030, 1, 1)).Forecast(series, repository.FreqDaily, 0)
	require.Len(t, out.Forecast, 30)
	assert.Equal(t, day(2024, 1, 6), out.Forecast[0].Date)
	for _, p := range out.Forecast {
		assert.Equal(t, 9.0, p.Mean)
		assert.Equal(t, 9.0, p.Lower)
		assert.Equal(t, 9.0, p.Upper)
	}
	assert.Zero(t, out.Summary.ResidualSigma)
}

func TestEngineInvalidFrequencyFallsBack(t *testing.T) {
	out := fixedEngine(day(2024, 1, 1)).Forecast(models.SalesSeries{}, repository.Frequency("Q"), 0)
	assert.Equal(t, "M", out.Summary.Frequency)
	assert.Len(t, out.Forecast, 6)
}
