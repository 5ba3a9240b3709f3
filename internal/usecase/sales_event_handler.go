package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
	"PhonePortal/pkg/cache"
	pkgkafka "PhonePortal/pkg/kafka"
	"PhonePortal/pkg/util"
)

// SalesEventHandler consumes the sales topic and writes to the warehouse.
type SalesEventHandler struct {
	topic   string
	storage domrepo.SalesStorage
	cache   cache.Service
	metrics domrepo.Metrics
}

func NewSalesEventHandler(topic string, storage domrepo.SalesStorage, c cache.Service, metrics domrepo.Metrics) *SalesEventHandler {
	return &SalesEventHandler{topic: topic, storage: storage, cache: c, metrics: metrics}
}

func (h *SalesEventHandler) Topic() string { return h.topic }

// incoming message schema: models.SaleEvent
func (h *SalesEventHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.SaleEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode sale event: %w", err)
	}
	d, ok := util.ParseDate(ev.Date)
	if !ok {
		h.metrics.RecordError("consumer_date")
		return fmt.Errorf("sale event date %q unparsable", ev.Date)
	}

	start := time.Now()
	err := h.storage.StoreBatch(ctx, []models.SaleRecord{{Date: d, Product: ev.Product, Sales: ev.Sales}})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordSalesIngested(BackendClickHouse, 1)

	if h.cache != nil {
		_ = h.cache.DeleteByPattern(ctx, cache.BuildPattern(WarehouseCachePrefix))
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*SalesEventHandler)(nil)
