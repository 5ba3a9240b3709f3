package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
	pkgch "PhonePortal/pkg/clickhouse"
	pkgkafka "PhonePortal/pkg/kafka"
	applogger "PhonePortal/pkg/logger"
)

// ClickHouseSalesStore implements SalesStorage for ClickHouse.
type ClickHouseSalesStore struct {
	client *pkgch.Client
	table  string
	l      *applogger.Logger
}

// NewClickHouseSalesStore creates the sales warehouse store over table
// (database-qualified, e.g. "portal.sales").
func NewClickHouseSalesStore(client *pkgch.Client, table string) *ClickHouseSalesStore {
	return &ClickHouseSalesStore{client: client, table: table, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *ClickHouseSalesStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

var _ domrepo.SalesStorage = (*ClickHouseSalesStore)(nil)

func (s *ClickHouseSalesStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            ts          DateTime,
            product     LowCardinality(String),
            sales       Float64,
            ingested_at DateTime DEFAULT now()
        ) ENGINE = MergeTree ORDER BY (product, ts)`, s.table),
	})
}

func (s *ClickHouseSalesStore) StoreBatch(ctx context.Context, records []models.SaleRecord) error {
	if len(records) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (ts, product, sales) VALUES (?, ?, ?)", s.table)
	err := s.client.Batch(ctx, q, func(stmt *sql.Stmt) error {
		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.Date.UTC(), r.Product, r.Sales); err != nil {
				return fmt.Errorf("append sale %s: %w", r.Date.Format("2006-01-02"), err)
			}
		}
		return nil
	})
	if err != nil {
		s.l.Error("clickhouse store_batch error",
			applogger.String("table", s.table),
			applogger.Int("rows", len(records)),
			applogger.Error(err),
		)
		return fmt.Errorf("store sales: %w", err)
	}
	return nil
}

func (s *ClickHouseSalesStore) DailySales(ctx context.Context, product string) ([]models.Observation, error) {
	const qtpl = `
        SELECT toDate(ts) AS d, sum(sales) AS total
        FROM %s
        %s
        GROUP BY d
        ORDER BY d ASC
    `
	where, args := "", []interface{}{}
	if product != "" {
		where = "WHERE product = ?"
		args = append(args, product)
	}
	rows, err := s.client.DB().QueryContext(ctx, fmt.Sprintf(qtpl, s.table, where), args...)
	if err != nil {
		s.l.Error("clickhouse daily_sales query error",
			applogger.String("table", s.table),
			applogger.String("product", product),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	defer rows.Close()

	out := make([]models.Observation, 0, 256)
	for rows.Next() {
		var (
			d     time.Time
			total float64
		)
		if err := rows.Scan(&d, &total); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		y, m, day := d.Date()
		out = append(out, models.Observation{Date: time.Date(y, m, day, 0, 0, 0, 0, time.UTC), Sales: total})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *ClickHouseSalesStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseSalesStore) Close() error {
	return nil // client is owned by the app
}

// KafkaSalesPublisher implements SalesPublisher for Kafka. Records are keyed
// by product so one product's sales stay ordered on a partition.
type KafkaSalesPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSalesPublisher creates the sales topic publisher.
func NewKafkaSalesPublisher(producer *pkgkafka.Producer, topic string) *KafkaSalesPublisher {
	return &KafkaSalesPublisher{producer: producer, topic: topic}
}

var _ domrepo.SalesPublisher = (*KafkaSalesPublisher)(nil)

func (p *KafkaSalesPublisher) PublishSales(ctx context.Context, records []models.SaleRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(records))
	for i, r := range records {
		msgs[i] = pkgkafka.Message{Key: []byte(r.Product), Value: r.Event()}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSalesPublisher) Close() error {
	return nil // producer is shared and owned by the app
}

// KafkaEventPublisher implements EventPublisher for Kafka.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

var _ domrepo.EventPublisher = (*KafkaEventPublisher)(nil)

func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, ev models.PortalEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Key), ev)
}

func (p *KafkaEventPublisher) Close() error {
	return nil
}

// NopEventPublisher drops events. It stands in when Kafka is disabled.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishEvent(context.Context, models.PortalEvent) error { return nil }

func (NopEventPublisher) Close() error { return nil }
