package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PhonePortal/internal/domain/models"
	"PhonePortal/internal/services/forecast"
	"PhonePortal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const monthlyCSV = "Date,Sales\n2024-01-15,100\n2024-02-10,120\n2024-03-05,140\n"

func writeSample(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sample_sales.csv")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func newTestForecaster(t *testing.T, metrics *fakeMetrics, opts ...ForecasterOption) *SalesForecaster {
	t.Helper()
	engine := forecast.NewEngine(time.Sunday)
	engine.Now = fixedClock(time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC))
	return NewSalesForecaster(engine, metrics, writeSample(t, monthlyCSV), opts...)
}

func TestForecastSampleMonthlyGolden(t *testing.T) {
	m := newFakeMetrics()
	f := newTestForecaster(t, m)

	out, err := f.Forecast(context.Background(), ForecastInput{Source: SourceSample, Freq: "m", Periods: 2})
	require.NoError(t, err)

	require.Len(t, out.History, 3)
	require.Len(t, out.Forecast, 2)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), out.Forecast[0].Date)
	assert.InDelta(t, 160, out.Forecast[0].Mean, 1e-9)
	assert.InDelta(t, 180, out.Forecast[1].Mean, 1e-9)
	assert.InDelta(t, 20, out.Summary.TrendSlope, 1e-9)
	assert.Equal(t, "M", out.Summary.Frequency)
	assert.Equal(t, 1, m.forecasts["M/sample"])
}

func TestForecastDefaultsHorizonByFrequency(t *testing.T) {
	f := newTestForecaster(t, newFakeMetrics())
	out, err := f.Forecast(context.Background(), ForecastInput{Freq: "W"})
	require.NoError(t, err)
	assert.Len(t, out.Forecast, 8)
	assert.Equal(t, 8, out.Summary.ForecastCount)
}

func TestForecastUploadSchemaError(t *testing.T) {
	m := newFakeMetrics()
	f := newTestForecaster(t, m)

	_, err := f.Forecast(context.Background(), ForecastInput{
		Source: SourceUpload,
		Upload: []byte("day,amount\n2024-01-01,1\n"),
	})
	require.Error(t, err)
	assert.True(t, forecast.IsSchemaError(err))
	assert.Equal(t, 1, m.errors["forecast_schema"])
}

func TestForecastUploadCountsDroppedRows(t *testing.T) {
	m := newFakeMetrics()
	f := newTestForecaster(t, m)

	out, err := f.Forecast(context.Background(), ForecastInput{
		Source: SourceUpload,
		Upload: []byte("date,sales\n2024-01-01,5\nnot-a-date,3\n2024-01-02,abc\n"),
		Freq:   "D",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Summary.DroppedRows)
	assert.Equal(t, 2, m.dropped)
}

func TestForecastUsesCache(t *testing.T) {
	m := newFakeMetrics()
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mc.Close()
	f := newTestForecaster(t, m, WithForecastCache(mc, time.Minute))

	in := ForecastInput{Source: SourceUpload, Upload: []byte(monthlyCSV), Periods: 3}
	first, err := f.Forecast(context.Background(), in)
	require.NoError(t, err)
	second, err := f.Forecast(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, m.misses)
	assert.Equal(t, 1, m.hits)
	require.Len(t, second.Forecast, 3)
	assert.InDelta(t, first.Forecast[2].Mean, second.Forecast[2].Mean, 1e-9)
	require.NotNil(t, second.Summary.LastDate)
	assert.True(t, first.Summary.LastDate.Equal(*second.Summary.LastDate))
}

func TestForecastWarehouseNotConfigured(t *testing.T) {
	f := newTestForecaster(t, newFakeMetrics())
	_, err := f.Forecast(context.Background(), ForecastInput{Source: SourceWarehouse})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "warehouse source not configured", verr.Message)
	assert.False(t, f.WarehouseEnabled())
}

func TestForecastWarehouse(t *testing.T) {
	store := &fakeSalesStorage{daily: []models.Observation{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Sales: 10},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Sales: 30},
	}}
	m := newFakeMetrics()
	f := newTestForecaster(t, m, WithWarehouse(store))

	out, err := f.Forecast(context.Background(), ForecastInput{Source: SourceWarehouse, Product: "x1", Freq: "D", Periods: 1})
	require.NoError(t, err)
	assert.Equal(t, "x1", store.product)
	require.Len(t, out.History, 3)
	assert.Equal(t, 0.0, out.History[1].Observed)
	assert.Equal(t, 1, m.forecasts["D/warehouse"])
}

func TestForecastWarehouseError(t *testing.T) {
	store := &fakeSalesStorage{err: errors.New("timeout")}
	m := newFakeMetrics()
	f := newTestForecaster(t, m, WithWarehouse(store))

	_, err := f.Forecast(context.Background(), ForecastInput{Source: SourceWarehouse})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load warehouse sales")
	assert.Equal(t, 1, m.errors["forecast"])
}

func TestForecastRejectsOversizedHorizon(t *testing.T) {
	f := newTestForecaster(t, newFakeMetrics(), WithMaxPeriods(10))
	_, err := f.Forecast(context.Background(), ForecastInput{Periods: 11})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "n_periods", verr.Field)
}

func TestForecastMissingSampleFile(t *testing.T) {
	engine := forecast.NewEngine(time.Sunday)
	f := NewSalesForecaster(engine, newFakeMetrics(), filepath.Join(t.TempDir(), "missing.csv"))
	_, err := f.Forecast(context.Background(), ForecastInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
