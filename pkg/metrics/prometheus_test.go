package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())

	r.RecordForecast("M", "sample")
	r.RecordForecast("M", "sample")
	r.RecordDroppedRows(3)
	r.RecordDroppedRows(0)
	r.RecordCacheResult(true)
	r.RecordSalesIngested("kafka", 5)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.forecasts.WithLabelValues("M", "sample")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.droppedRows))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheResults.WithLabelValues("hit")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.salesIngested.WithLabelValues("kafka")))
}
