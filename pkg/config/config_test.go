package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "sunday", c.Forecast.WeekAnchor)
	assert.Equal(t, 5*time.Minute, c.Forecast.CacheTTL)
	assert.Equal(t, "clickhouse", c.Sales.Backend)
	assert.Equal(t, "portal.sales", c.Kafka.SalesTopic)
	assert.Equal(t, "listings.json", c.Storage.Listings)
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: prod
server:
  port: 9090
forecast:
  week_anchor: saturday
sales:
  backend: kafka
kafka:
  enabled: true
  brokers: [k1:9092]
`))
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "saturday", c.Forecast.WeekAnchor)
	assert.Equal(t, "kafka", c.Sales.Backend)
	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad backend", "sales:\n  backend: s3\n"},
		{"kafka without brokers", "kafka:\n  enabled: true\n"},
		{"consumer without clickhouse", "kafka:\n  enabled: true\n  brokers: [a]\n  consumer:\n    enabled: true\n"},
		{"bad port", "server:\n  port: 70000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	env := map[string]string{
		"HTTP_PORT":       "7000",
		"KAFKA_BROKERS":   "a:9092,b:9092",
		"CLICKHOUSE_HOST": "ch",
		"SALES_BACKEND":   "kafka",
	}
	require.NoError(t, c.applyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
	assert.True(t, c.ClickHouse.Enabled)
	assert.Equal(t, "kafka", c.Sales.Backend)
	assert.NoError(t, c.Validate())

	assert.Error(t, c.applyEnv(func(k string) string {
		if k == "HTTP_PORT" {
			return "x"
		}
		return ""
	}))
}

func TestShippedConfigLoads(t *testing.T) {
	c, err := Load("../../config/config.yaml")
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, "data", c.Storage.DataDir)
	assert.Equal(t, "portal.sales.dlq", c.Kafka.Consumer.DLQTopic)
	assert.False(t, c.Kafka.Enabled)
}
