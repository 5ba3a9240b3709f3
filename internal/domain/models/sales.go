package models

import "time"

// Observation is one parsed sales row at day resolution.
type Observation struct {
	Date  time.Time
	Sales float64
}

// SalesSeries is the output of the series builder: observations sorted
// ascending by date, plus how many input rows were dropped as unparsable.
type SalesSeries struct {
	Observations []Observation
	Dropped      int
}

// Len returns the number of observations.
func (s SalesSeries) Len() int { return len(s.Observations) }

// Period is one cell of a resampled calendar grid. Date is the period label:
// the day itself (daily), the closing anchor day (weekly) or the first of
// the month (monthly).
type Period struct {
	Date  time.Time
	Value float64
}

// TrendModel is a linear fit y = Slope*t + Intercept over t = 0..n-1.
type TrendModel struct {
	Slope     float64
	Intercept float64
	Sigma     float64 // sample std of residuals (ddof=1), 0 when n < 2
	R2        float64
	Fitted    []float64
	N         int
}

// ForecastPoint is one projected period. All values are clamped at zero.
type ForecastPoint struct {
	Date  time.Time
	Mean  float64
	Lower float64
	Upper float64
}

// HistoryPoint pairs an observed period with its trailing moving average.
type HistoryPoint struct {
	Date     time.Time
	Observed float64
	Smoothed float64
}

// ForecastSummary describes the fit behind a forecast.
type ForecastSummary struct {
	ObservationCount int
	FirstDate        *time.Time
	LastDate         *time.Time
	Frequency        string
	ForecastCount    int
	TrendSlope       float64
	TrendIntercept   float64
	R2               float64
	ResidualSigma    float64
	DroppedRows      int
}

// SalesForecast is the assembled history + forecast + summary.
type SalesForecast struct {
	History  []HistoryPoint
	Forecast []ForecastPoint
	Summary  ForecastSummary
}

// SaleRecord is a single ingested sale observation for the warehouse.
type SaleRecord struct {
	Date    time.Time
	Product string
	Sales   float64
}

// SaleEvent is the wire form of a SaleRecord on the sales topic.
type SaleEvent struct {
	Date    string  `json:"date"`
	Product string  `json:"product"`
	Sales   float64 `json:"sales"`
}

// Event converts r to its wire form.
func (r SaleRecord) Event() SaleEvent {
	return SaleEvent{Date: r.Date.Format("2006-01-02"), Product: r.Product, Sales: r.Sales}
}
