package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"PhonePortal/internal/domain/models"
	drepo "PhonePortal/internal/domain/repository"
	"PhonePortal/pkg/cache"
	"PhonePortal/pkg/logger"
	"PhonePortal/pkg/util"
)

// Sales ingest backends.
const (
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// SalesIngestor validates incoming sales and routes them to the configured
// backend.
type SalesIngestor struct {
	pub        drepo.SalesPublisher
	store      drepo.SalesStorage
	cache      cache.Service
	metrics    drepo.Metrics
	log        *logger.Logger
	backend    string
	batchLimit int
}

// NewSalesIngestor creates a new SalesIngestor. pub or store may be nil
// when their backend is not in use; c may be nil when caching is off.
func NewSalesIngestor(
	pub drepo.SalesPublisher,
	store drepo.SalesStorage,
	c cache.Service,
	metrics drepo.Metrics,
	log *logger.Logger,
	backend string,
	batchLimit int,
) *SalesIngestor {
	if log == nil {
		log = logger.Nop()
	}
	return &SalesIngestor{
		pub:        pub,
		store:      store,
		cache:      c,
		metrics:    metrics,
		log:        log,
		backend:    backend,
		batchLimit: batchLimit,
	}
}

// Available reports whether the configured backend has its client.
func (p *SalesIngestor) Available() bool {
	switch p.backend {
	case BackendKafka:
		return p.pub != nil
	case BackendClickHouse:
		return p.store != nil
	}
	return false
}

// ParseRecords converts request rows into sale records, rejecting the batch
// on the first bad row.
func (p *SalesIngestor) ParseRecords(in []models.SaleRecordInput) ([]models.SaleRecord, error) {
	if len(in) == 0 {
		return nil, models.Invalid("records", "records is required")
	}
	if p.batchLimit > 0 && len(in) > p.batchLimit {
		return nil, models.Invalid("records", fmt.Sprintf("at most %d records per request", p.batchLimit))
	}
	out := make([]models.SaleRecord, 0, len(in))
	for i, r := range in {
		d, ok := util.ParseDate(r.Date)
		if !ok {
			return nil, models.Invalid(fmt.Sprintf("records[%d].date", i), fmt.Sprintf("unparsable date %q", r.Date))
		}
		if math.IsNaN(r.Sales) || math.IsInf(r.Sales, 0) || r.Sales < 0 {
			return nil, models.Invalid(fmt.Sprintf("records[%d].sales", i), "sales must be a finite number >= 0")
		}
		out = append(out, models.SaleRecord{Date: d, Product: strings.TrimSpace(r.Product), Sales: r.Sales})
	}
	return out, nil
}

// Ingest routes records to the configured backend and returns how many
// were accepted.
func (p *SalesIngestor) Ingest(ctx context.Context, records []models.SaleRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if !p.Available() {
		return 0, models.Invalid("backend", fmt.Sprintf("sales backend %q not configured", p.backend))
	}

	start := time.Now()
	var err error
	switch p.backend {
	case BackendKafka:
		err = p.pub.PublishSales(ctx, records)
	case BackendClickHouse:
		err = p.store.StoreBatch(ctx, records)
		if err == nil {
			p.invalidateWarehouse(ctx)
		}
	}
	if err != nil {
		p.metrics.RecordError("ingest")
		return 0, fmt.Errorf("ingest sales: %w", err)
	}

	p.metrics.RecordSalesIngested(p.backend, len(records))
	p.metrics.RecordLatency("ingest", time.Since(start).Seconds())
	p.log.Debug("sales ingested", logger.String("backend", p.backend), logger.Int("records", len(records)))
	return len(records), nil
}

// invalidateWarehouse drops cached warehouse forecasts after new data lands.
func (p *SalesIngestor) invalidateWarehouse(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.DeleteByPattern(ctx, cache.BuildPattern(WarehouseCachePrefix)); err != nil {
		p.log.Warn("invalidate warehouse forecasts", logger.Error(err))
	}
}
