package usecase

import (
	"context"
	"testing"
	"time"

	"PhonePortal/internal/domain/models"
	"PhonePortal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	ing := NewSalesIngestor(nil, nil, nil, newFakeMetrics(), nil, BackendClickHouse, 2)

	recs, err := ing.ParseRecords([]models.SaleRecordInput{
		{Date: "2024-03-05T10:00:00", Product: " x1 ", Sales: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.SaleRecord{
		{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Product: "x1", Sales: 4},
	}, recs)

	cases := []struct {
		name  string
		in    []models.SaleRecordInput
		field string
	}{
		{"empty", nil, "records"},
		{"too many", make([]models.SaleRecordInput, 3), "records"},
		{"bad date", []models.SaleRecordInput{{Date: "yesterday", Sales: 1}}, "records[0].date"},
		{"negative", []models.SaleRecordInput{{Date: "2024-01-01"}, {Date: "2024-01-02", Sales: -1}}, "records[1].sales"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ing.ParseRecords(tc.in)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestIngestKafka(t *testing.T) {
	pub := &fakeSalesPublisher{}
	m := newFakeMetrics()
	ing := NewSalesIngestor(pub, nil, nil, m, nil, BackendKafka, 0)

	recs := []models.SaleRecord{{Date: time.Now(), Product: "x1", Sales: 1}, {Date: time.Now(), Product: "x2", Sales: 2}}
	n, err := ing.Ingest(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, pub.published, 2)
	assert.Equal(t, 2, m.ingested[BackendKafka])
}

func TestIngestClickHouseInvalidatesWarehouseForecasts(t *testing.T) {
	ctx := context.Background()
	store := &fakeSalesStorage{}
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mc.Close()
	require.NoError(t, mc.Set(ctx, WarehouseCachePrefix+":x1:M:6", 1, time.Minute))
	require.NoError(t, mc.Set(ctx, "forecast:sample:abc:M:6", 1, time.Minute))

	ing := NewSalesIngestor(nil, store, mc, newFakeMetrics(), nil, BackendClickHouse, 0)
	_, err := ing.Ingest(ctx, []models.SaleRecord{{Date: time.Now(), Sales: 3}})
	require.NoError(t, err)

	assert.Len(t, store.stored, 1)
	assert.Equal(t, 1, mc.Len())
	var v int
	assert.NoError(t, mc.Get(ctx, "forecast:sample:abc:M:6", &v))
}

func TestIngestBackendUnavailable(t *testing.T) {
	ing := NewSalesIngestor(nil, nil, nil, newFakeMetrics(), nil, BackendKafka, 0)
	assert.False(t, ing.Available())

	_, err := ing.Ingest(context.Background(), []models.SaleRecord{{Date: time.Now()}})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "backend", verr.Field)
}

func TestIngestStoreFailure(t *testing.T) {
	m := newFakeMetrics()
	ing := NewSalesIngestor(nil, &fakeSalesStorage{err: errStoreDown}, nil, m, nil, BackendClickHouse, 0)
	_, err := ing.Ingest(context.Background(), []models.SaleRecord{{Date: time.Now()}})
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1, m.errors["ingest"])
}

func TestSalesEventHandler(t *testing.T) {
	store := &fakeSalesStorage{}
	m := newFakeMetrics()
	h := NewSalesEventHandler("portal.sales", store, nil, m)
	assert.Equal(t, "portal.sales", h.Topic())

	require.NoError(t, h.Handle(context.Background(), []byte(`{"date":"2024-02-01","product":"x1","sales":7}`)))
	require.Len(t, store.stored, 1)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), store.stored[0].Date)
	assert.Equal(t, 1, m.ingested[BackendClickHouse])

	assert.Error(t, h.Handle(context.Background(), []byte(`{`)))
	assert.Error(t, h.Handle(context.Background(), []byte(`{"date":"soon","sales":1}`)))
	assert.Equal(t, 1, m.errors["consumer_unmarshal"])
	assert.Equal(t, 1, m.errors["consumer_date"])
}
