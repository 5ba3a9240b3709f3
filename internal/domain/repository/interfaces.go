package repository

import (
	"context"

	"PhonePortal/internal/domain/models"
)

// RecordReader lists a read-only collection such as the phone catalog.
type RecordReader[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
}

// RecordStore is a whole-collection record store keyed by string id.
type RecordStore[T any] interface {
	RecordReader[T]
	Append(ctx context.Context, rec T) error
	// UpdateByKey applies fn to the record whose key equals key and persists
	// the result. Returns models.ErrNotFound when no record matches.
	UpdateByKey(ctx context.Context, key string, fn func(*T) error) (T, error)
}

type SalesPublisher interface {
	PublishSales(ctx context.Context, records []models.SaleRecord) error
	Close() error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, ev models.PortalEvent) error
	Close() error
}

type SalesStorage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBatch(ctx context.Context, records []models.SaleRecord) error
	// DailySales returns per-day totals ascending by date. An empty product
	// aggregates all products.
	DailySales(ctx context.Context, product string) ([]models.Observation, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordForecast(freq, source string)
	RecordDroppedRows(n int)
	RecordCacheResult(hit bool)
	RecordStoreWrite(store string)
	RecordSalesIngested(backend string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
