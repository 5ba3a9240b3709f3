package usecase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
	domsvc "PhonePortal/internal/domain/service"
	"PhonePortal/internal/services/forecast"
	"PhonePortal/pkg/cache"
	"PhonePortal/pkg/logger"
)

// Forecast input sources.
const (
	SourceSample    = "sample"
	SourceUpload    = "upload"
	SourceWarehouse = "warehouse"
)

const (
	forecastCachePrefix = "forecast"
	// WarehouseCachePrefix prefixes cached warehouse forecasts. Ingestion
	// drops every key under it.
	WarehouseCachePrefix = forecastCachePrefix + ":" + SourceWarehouse
)

// ForecastInput is a single forecast request after transport decoding.
type ForecastInput struct {
	Source  string
	Upload  []byte
	Product string
	Freq    string
	Periods int // 0 selects the frequency default
}

// SalesForecaster loads a sales series from the requested source and runs
// the forecast engine over it, caching results by content.
type SalesForecaster struct {
	engine     domsvc.SalesForecaster
	storage    domrepo.SalesStorage
	cache      cache.Service
	cacheTTL   time.Duration
	metrics    domrepo.Metrics
	log        *logger.Logger
	samplePath string
	maxPeriods int
}

// ForecasterOption configures SalesForecaster.
type ForecasterOption func(*SalesForecaster)

// WithWarehouse enables the warehouse source.
func WithWarehouse(storage domrepo.SalesStorage) ForecasterOption {
	return func(f *SalesForecaster) { f.storage = storage }
}

// WithForecastCache caches results in c for ttl.
func WithForecastCache(c cache.Service, ttl time.Duration) ForecasterOption {
	return func(f *SalesForecaster) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

func WithForecastLogger(l *logger.Logger) ForecasterOption {
	return func(f *SalesForecaster) {
		if l != nil {
			f.log = l
		}
	}
}

// WithMaxPeriods caps the requested horizon.
func WithMaxPeriods(n int) ForecasterOption {
	return func(f *SalesForecaster) { f.maxPeriods = n }
}

func NewSalesForecaster(engine domsvc.SalesForecaster, metrics domrepo.Metrics, samplePath string, opts ...ForecasterOption) *SalesForecaster {
	f := &SalesForecaster{
		engine:     engine,
		metrics:    metrics,
		log:        logger.Nop(),
		samplePath: samplePath,
		maxPeriods: 1000,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SamplePath is the bundled sample CSV.
func (f *SalesForecaster) SamplePath() string { return f.samplePath }

// WarehouseEnabled reports whether the warehouse source is configured.
func (f *SalesForecaster) WarehouseEnabled() bool { return f.storage != nil }

// Forecast runs the pipeline for in. Upload schema problems come back as a
// *forecast.SchemaError, bad parameters as *models.ValidationError.
func (f *SalesForecaster) Forecast(ctx context.Context, in ForecastInput) (models.SalesForecast, error) {
	start := time.Now()
	freq := domrepo.NormalizeFrequency(in.Freq)
	if in.Periods < 0 || in.Periods > f.maxPeriods {
		return models.SalesForecast{}, models.Invalid("n_periods",
			fmt.Sprintf("n_periods must be between 1 and %d", f.maxPeriods))
	}
	periods := in.Periods
	if periods == 0 {
		periods = freq.DefaultHorizon()
	}
	source := in.Source
	if source == "" {
		source = SourceSample
	}

	var (
		key  string
		load func() (models.SalesSeries, error)
	)
	switch source {
	case SourceUpload, SourceSample:
		data := in.Upload
		if source == SourceSample {
			b, err := os.ReadFile(f.samplePath)
			if err != nil {
				f.metrics.RecordError("forecast_sample")
				return models.SalesForecast{}, fmt.Errorf("load sample: %w", err)
			}
			data = b
		}
		key = cache.GenerateKeyWithParams(forecastCachePrefix, source, cache.HashBytes(data), freq, periods)
		load = func() (models.SalesSeries, error) {
			return forecast.ReadCSV(bytes.NewReader(data))
		}
	case SourceWarehouse:
		if f.storage == nil {
			return models.SalesForecast{}, models.Invalid("source", "warehouse source not configured")
		}
		key = cache.GenerateKeyWithParams(WarehouseCachePrefix, in.Product, freq, periods)
		load = func() (models.SalesSeries, error) {
			obs, err := f.storage.DailySales(ctx, in.Product)
			if err != nil {
				return models.SalesSeries{}, fmt.Errorf("load warehouse sales: %w", err)
			}
			return forecast.FromObservations(obs), nil
		}
	default:
		return models.SalesForecast{}, models.Invalid("source",
			fmt.Sprintf("unknown source %q", source))
	}

	compute := func() (models.SalesForecast, error) {
		series, err := load()
		if err != nil {
			return models.SalesForecast{}, err
		}
		if series.Dropped > 0 {
			f.metrics.RecordDroppedRows(series.Dropped)
			f.log.Debug("dropped unparsable sales rows",
				logger.String("source", source),
				logger.Int("dropped", series.Dropped),
				logger.Int("kept", series.Len()),
			)
		}
		res := f.engine.Forecast(series, freq, periods)
		f.log.Debug("forecast computed",
			logger.String("source", source),
			logger.String("freq", string(freq)),
			logger.Float64("slope", res.Summary.TrendSlope),
			logger.Float64("r2", res.Summary.R2),
		)
		return res, nil
	}

	var (
		out models.SalesForecast
		err error
	)
	if f.cache != nil {
		var hit bool
		out, hit, err = cache.GetOrCompute(ctx, f.cache, key, f.cacheTTL, compute)
		if err == nil {
			f.metrics.RecordCacheResult(hit)
		}
	} else {
		out, err = compute()
	}
	if err != nil {
		if forecast.IsSchemaError(err) {
			f.metrics.RecordError("forecast_schema")
		} else {
			f.metrics.RecordError("forecast")
		}
		return models.SalesForecast{}, err
	}

	f.metrics.RecordForecast(string(freq), source)
	f.metrics.RecordLatency("forecast", time.Since(start).Seconds())
	return out, nil
}
