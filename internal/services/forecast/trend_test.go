package forecast

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PhonePortal/internal/domain/repository"
)

func TestFitTrendDegenerate(t *testing.T) {
	m := FitTrend(nil)
	assert.Zero(t, m.Slope)
	assert.Zero(t, m.Intercept)
	assert.Zero(t, m.Sigma)
	assert.Zero(t, m.R2)

	m = FitTrend([]float64{42})
	assert.Zero(t, m.Slope)
	assert.Equal(t, 42.0, m.Intercept)
	assert.Zero(t, m.Sigma)
	assert.Zero(t, m.R2)
}

func TestFitTrendExactLine(t *testing.T) {
	m := FitTrend([]float64{100, 120, 140})
	assert.InDelta(t, 20, m.Slope, 1e-9)
	assert.InDelta(t, 100, m.Intercept, 1e-9)
	assert.InDelta(t, 0, m.Sigma, 1e-9)
	assert.InDelta(t, 1, m.R2, 1e-9)
}

func TestFitTrendConstantHasZeroR2(t *testing.T) {
	m := FitTrend([]float64{5, 5, 5, 5})
	assert.InDelta(t, 0, m.Slope, 1e-12)
	assert.InDelta(t, 5, m.Intercept, 1e-12)
	assert.Zero(t, m.R2)
}

func TestFitTrendKnownResiduals(t *testing.T) {
	// y = 1, 3, 2, 4: slope 0.8, intercept 1.3, residuals -0.3, 0.9, -0.9, 0.3
	m := FitTrend([]float64{1, 3, 2, 4})
	assert.InDelta(t, 0.8, m.Slope, 1e-9)
	assert.InDelta(t, 1.3, m.Intercept, 1e-9)
	assert.InDelta(t, math.Sqrt(1.8/3), m.Sigma, 1e-9)
	assert.InDelta(t, 1-1.8/5, m.R2, 1e-9)
}

func sse(y []float64, a, b float64) float64 {
	var s float64
	for i, v := range y {
		r := v - (a*float64(i) + b)
		s += r * r
	}
	return s
}

func TestFitTrendMinimizesSquaredError(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 2 + rng.Intn(40)
		y := make([]float64, n)
		for i := range y {
			y[i] = 3*float64(i) + 50 + rng.NormFloat64()*10
		}
		m := FitTrend(y)
		best := sse(y, m.Slope, m.Intercept)
		for _, da := range []float64{-0.01, 0, 0.01} {
			for _, db := range []float64{-0.01, 0, 0.01} {
				if da == 0 && db == 0 {
					continue
				}
				assert.GreaterOrEqual(t, sse(y, m.Slope+da, m.Intercept+db), best-1e-9)
			}
		}
	}
}

func TestProjectGolden(t *testing.T) {
	cal := NewCalendar(repository.FreqMonthly)
	m := FitTrend([]float64{100, 120, 140})
	got := Project(m, day(2024, 4, 1), cal, 2)
	require.Len(t, got, 2)
	assert.Equal(t, day(2024, 4, 1), got[0].Date)
	assert.Equal(t, day(2024, 5, 1), got[1].Date)
	for i, want := range []float64{160, 180} {
		assert.InDelta(t, want, got[i].Mean, 1e-9)
		assert.InDelta(t, want, got[i].Lower, 1e-9)
		assert.InDelta(t, want, got[i].Upper, 1e-9)
	}
}

func TestProjectClampsAtZero(t *testing.T) {
	m := FitTrend([]float64{50, 30, 20, 5, 1})
	got := Project(m, day(2024, 1, 1), NewCalendar(repository.FreqDaily), 10)
	require.Len(t, got, 10)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Lower, 0.0)
		assert.LessOrEqual(t, p.Lower, p.Mean)
		assert.LessOrEqual(t, p.Mean, p.Upper)
	}
	assert.Zero(t, got[9].Mean)
	assert.Zero(t, got[9].Lower)
}

func TestSmooth(t *testing.T) {
	got := Smooth([]float64{3, 6, 9, 12}, 3)
	assert.Equal(t, []float64{3, 4.5, 6, 9}, got)
	assert.Empty(t, Smooth(nil, 3))
	assert.Equal(t, []float64{1, 2}, Smooth([]float64{1, 2}, 0))
}
