package forecast

import (
	"time"

	"PhonePortal/internal/domain/models"
	"PhonePortal/internal/domain/repository"
)

// Engine assembles history, forecast and summary for a series.
type Engine struct {
	WeekAnchor time.Weekday
	Now        func() time.Time
}

// NewEngine returns an Engine anchored on weekAnchor using the wall clock.
func NewEngine(weekAnchor time.Weekday) *Engine {
	return &Engine{WeekAnchor: weekAnchor, Now: time.Now}
}

// Forecast resamples series at freq, smooths the history and projects
// periods future points. periods <= 0 selects the frequency default.
func (e *Engine) Forecast(series models.SalesSeries, freq repository.Frequency, periods int) models.SalesForecast {
	if !repository.IsValidFrequency(freq) {
		freq = repository.DefaultFrequency()
	}
	if periods <= 0 {
		periods = freq.DefaultHorizon()
	}
	cal := Calendar{Freq: freq, WeekAnchor: e.WeekAnchor}

	grid := Resample(series.Observations, cal)
	values := Values(grid)
	trend := FitTrend(values)
	smoothed := Smooth(values, freq.SmoothingWindow())

	var start time.Time
	if len(grid) > 0 {
		start = cal.Next(grid[len(grid)-1].Date)
	} else {
		now := time.Now
		if e.Now != nil {
			now = e.Now
		}
		start = cal.Label(now().UTC())
	}

	out := models.SalesForecast{
		History:  make([]models.HistoryPoint, len(grid)),
		Forecast: Project(trend, start, cal, periods),
		Summary: models.ForecastSummary{
			ObservationCount: len(grid),
			Frequency:        string(freq),
			ForecastCount:    periods,
			TrendSlope:       trend.Slope,
			TrendIntercept:   trend.Intercept,
			R2:               trend.R2,
			ResidualSigma:    trend.Sigma,
			DroppedRows:      series.Dropped,
		},
	}
	for i, p := range grid {
		out.History[i] = models.HistoryPoint{Date: p.Date, Observed: p.Value, Smoothed: smoothed[i]}
	}
	if len(grid) > 0 {
		first, last := grid[0].Date, grid[len(grid)-1].Date
		out.Summary.FirstDate = &first
		out.Summary.LastDate = &last
	}
	return out
}
