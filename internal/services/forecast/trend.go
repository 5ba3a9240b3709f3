package forecast

import (
	"math"

	"PhonePortal/internal/domain/models"
)

// FitTrend fits y = a*t + b by ordinary least squares over t = 0..n-1.
//
// n == 0 gives a zero model, n == 1 a flat line through the single value.
// Sigma is the sample standard deviation of residuals (n-1 denominator) and
// R2 is 1 - SSE/SST, or 0 when the values have no variance.
func FitTrend(y []float64) models.TrendModel {
	n := len(y)
	m := models.TrendModel{N: n, Fitted: make([]float64, n)}
	switch n {
	case 0:
		return m
	case 1:
		m.Intercept = y[0]
		m.Fitted[0] = y[0]
		return m
	}

	tMean := float64(n-1) / 2
	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	var sxy, sxx float64
	for i, v := range y {
		dt := float64(i) - tMean
		sxy += dt * (v - yMean)
		sxx += dt * dt
	}
	m.Slope = sxy / sxx
	m.Intercept = yMean - m.Slope*tMean

	resid := make([]float64, n)
	var sse, sst, rMean float64
	for i, v := range y {
		m.Fitted[i] = m.Slope*float64(i) + m.Intercept
		resid[i] = v - m.Fitted[i]
		rMean += resid[i]
		sse += resid[i] * resid[i]
		sst += (v - yMean) * (v - yMean)
	}
	rMean /= float64(n)

	var ss float64
	for _, r := range resid {
		ss += (r - rMean) * (r - rMean)
	}
	m.Sigma = math.Sqrt(ss / float64(n-1))
	if sst > 0 {
		m.R2 = 1 - sse/sst
	}
	return m
}
