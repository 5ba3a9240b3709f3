package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"PhonePortal/internal/domain/models"
)

type fakeMetrics struct {
	mu        sync.Mutex
	forecasts map[string]int
	dropped   int
	hits      int
	misses    int
	writes    map[string]int
	ingested  map[string]int
	errors    map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		forecasts: map[string]int{},
		writes:    map[string]int{},
		ingested:  map[string]int{},
		errors:    map[string]int{},
	}
}

func (m *fakeMetrics) RecordForecast(freq, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecasts[freq+"/"+source]++
}

func (m *fakeMetrics) RecordDroppedRows(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped += n
}

func (m *fakeMetrics) RecordCacheResult(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *fakeMetrics) RecordStoreWrite(store string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes[store]++
}

func (m *fakeMetrics) RecordSalesIngested(backend string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested[backend] += n
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

// memStore is an in-memory RecordStore.
type memStore[T any] struct {
	mu     sync.Mutex
	items  []T
	key    func(T) string
	failOn error
}

func newMemStore[T any](key func(T) string, items ...T) *memStore[T] {
	return &memStore[T]{items: append([]T(nil), items...), key: key}
}

func (s *memStore[T]) GetAll(context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != nil {
		return nil, s.failOn
	}
	return append([]T(nil), s.items...), nil
}

func (s *memStore[T]) Append(_ context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != nil {
		return s.failOn
	}
	s.items = append(s.items, rec)
	return nil
}

func (s *memStore[T]) UpdateByKey(_ context.Context, key string, fn func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	for i := range s.items {
		if s.key(s.items[i]) == key {
			if err := fn(&s.items[i]); err != nil {
				return zero, err
			}
			return s.items[i], nil
		}
	}
	return zero, fmt.Errorf("%q: %w", key, models.ErrNotFound)
}

type fakeSalesStorage struct {
	mu      sync.Mutex
	stored  []models.SaleRecord
	daily   []models.Observation
	product string
	err     error
	queries int
}

func (s *fakeSalesStorage) Init(context.Context) error { return nil }

func (s *fakeSalesStorage) StoreBatch(_ context.Context, records []models.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, records...)
	return nil
}

func (s *fakeSalesStorage) DailySales(_ context.Context, product string) ([]models.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	s.product = product
	if s.err != nil {
		return nil, s.err
	}
	return s.daily, nil
}

func (s *fakeSalesStorage) Health(context.Context) error { return nil }

func (s *fakeSalesStorage) Close() error { return nil }

type fakeSalesPublisher struct {
	published []models.SaleRecord
	err       error
}

func (p *fakeSalesPublisher) PublishSales(_ context.Context, records []models.SaleRecord) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, records...)
	return nil
}

func (p *fakeSalesPublisher) Close() error { return nil }

type fakeEvents struct {
	mu     sync.Mutex
	events []models.PortalEvent
	err    error
}

func (p *fakeEvents) PublishEvent(_ context.Context, ev models.PortalEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakeEvents) Close() error { return nil }

func (p *fakeEvents) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var errStoreDown = errors.New("store down")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
