package di

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"PhonePortal/internal/domain/models"
	"PhonePortal/internal/domain/repository"
	"PhonePortal/internal/handler/api"
	internalrepo "PhonePortal/internal/repository"
	"PhonePortal/internal/service/ratelimit"
	"PhonePortal/internal/services/forecast"
	"PhonePortal/internal/usecase"
	"PhonePortal/pkg/cache"
	pkgch "PhonePortal/pkg/clickhouse"
	"PhonePortal/pkg/config"
	xhttp "PhonePortal/pkg/http"
	"PhonePortal/pkg/http/middleware"
	pkgkafka "PhonePortal/pkg/kafka"
	"PhonePortal/pkg/logger"
	"PhonePortal/pkg/metrics"
	"PhonePortal/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	salesTable     = "sales_daily_raw"
	limiterIdleTTL = 10 * time.Minute
)

// ProvideLogger builds the structured logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry scraped at /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.NewWithRegisterer(reg)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// warehouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSalesStorage creates the warehouse store and its schema. It returns
// a nil storage when ClickHouse is disabled.
func ProvideSalesStorage(client *pkgch.Client, cfg *config.Config, log *logger.Logger) (repository.SalesStorage, error) {
	if client == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	store := internalrepo.NewClickHouseSalesStore(client, cfg.ClickHouse.Database+"."+salesTable)
	store.SetLogger(log)
	if err := store.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse sales table: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithProducerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSalesPublisher publishes ingested sales to the sales topic.
func ProvideSalesPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SalesPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSalesPublisher(producer, cfg.Kafka.SalesTopic)
}

// ProvideEventPublisher publishes portal events, dropping them when Kafka
// is disabled.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NopEventPublisher{}
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic)
}

// ProvideKafkaConsumer creates the sales consumer, or nil unless both Kafka
// and the consumer are enabled.
func ProvideKafkaConsumer(cfg *config.Config, reg *prometheus.Registry, log *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerRegisterer(reg),
		pkgkafka.WithConsumerLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.TraceHook())
	return consumer, nil
}

// ProvideCache builds the forecast cache: in-process LRU, fronting Redis
// when it is enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize)), nil
	}
	remote, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPool(cfg.Cache.Redis.PoolSize, 2, 30*time.Second),
		cache.WithRedisPrefix("portal"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(remote,
		cache.WithLayeredMemorySize(cfg.Cache.MemorySize),
		cache.WithLayeredL1TTL(30*time.Second),
	), nil
}

// ProvideEngine creates the forecast engine with the configured week anchor.
func ProvideEngine(cfg *config.Config) (*forecast.Engine, error) {
	anchor, err := forecast.ParseWeekday(cfg.Forecast.WeekAnchor)
	if err != nil {
		return nil, fmt.Errorf("forecast.week_anchor: %w", err)
	}
	return forecast.NewEngine(anchor), nil
}

func dataPath(cfg *config.Config, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.Storage.DataDir, name)
}

func ProvideSalesForecaster(
	engine *forecast.Engine,
	storage repository.SalesStorage,
	c cache.Service,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.SalesForecaster {
	opts := []usecase.ForecasterOption{
		usecase.WithForecastCache(c, cfg.Forecast.CacheTTL),
		usecase.WithForecastLogger(log),
		usecase.WithMaxPeriods(cfg.Forecast.MaxPeriods),
	}
	if storage != nil {
		opts = append(opts, usecase.WithWarehouse(storage))
	}
	return usecase.NewSalesForecaster(engine, m, dataPath(cfg, cfg.Forecast.SampleCSV), opts...)
}

func ProvideSalesIngestor(
	pub repository.SalesPublisher,
	storage repository.SalesStorage,
	c cache.Service,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.SalesIngestor {
	return usecase.NewSalesIngestor(pub, storage, c, m, log, cfg.Sales.Backend, cfg.Sales.BatchLimit)
}

// ProvideSalesEventHandler stores consumed sales in the warehouse. It is
// nil when there is no warehouse to store into.
func ProvideSalesEventHandler(storage repository.SalesStorage, c cache.Service, m repository.Metrics, cfg *config.Config) *usecase.SalesEventHandler {
	if storage == nil {
		return nil
	}
	return usecase.NewSalesEventHandler(cfg.Kafka.SalesTopic, storage, c, m)
}

func ProvideCatalog(cfg *config.Config) *usecase.CatalogUseCase {
	return usecase.NewCatalogUseCase(
		internalrepo.NewJSONStore(dataPath(cfg, cfg.Storage.Phones), func(p models.Phone) string { return p.ID }),
		internalrepo.NewJSONStore(dataPath(cfg, cfg.Storage.Shops), func(s models.Shop) string { return s.ID }),
	)
}

func ProvideMarketplace(cfg *config.Config, events repository.EventPublisher, m repository.Metrics, log *logger.Logger) *usecase.MarketplaceUseCase {
	store := internalrepo.NewJSONStore(dataPath(cfg, cfg.Storage.Listings), func(l models.Listing) string { return l.ID })
	return usecase.NewMarketplaceUseCase(store, events, m, log)
}

func ProvideReviews(cfg *config.Config, events repository.EventPublisher, m repository.Metrics, log *logger.Logger) *usecase.ReviewsUseCase {
	store := internalrepo.NewJSONStore(dataPath(cfg, cfg.Storage.Reviews), func(r models.Review) string { return r.ID })
	return usecase.NewReviewsUseCase(store, events, m, log)
}

func ProvideUpcoming(cfg *config.Config, events repository.EventPublisher, m repository.Metrics, log *logger.Logger) *usecase.UpcomingUseCase {
	return usecase.NewUpcomingUseCase(
		internalrepo.NewJSONStore(dataPath(cfg, cfg.Storage.Upcoming), func(p models.UpcomingPhone) string { return p.ID }),
		internalrepo.NewJSONStore(dataPath(cfg, cfg.Storage.Notifications), func(n models.Notification) string { return n.ID }),
		events, m, log,
	)
}

// ProvideLimiter creates the write-endpoint limiter, or nil when rate
// limiting is off.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Rate, cfg.RateLimit.Burst)
}

func ProvidePortalHandler(
	log *logger.Logger,
	forecaster *usecase.SalesForecaster,
	ingestor *usecase.SalesIngestor,
	catalog *usecase.CatalogUseCase,
	marketplace *usecase.MarketplaceUseCase,
	reviews *usecase.ReviewsUseCase,
	upcoming *usecase.UpcomingUseCase,
	limiter *ratelimit.Limiter,
) *api.PortalHandler {
	var allow middleware.Allower
	if limiter != nil {
		allow = limiter
	}
	return api.NewPortalHandler(log, forecaster, ingestor, catalog, marketplace, reviews, upcoming, allow)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(h *api.PortalHandler, reg *prometheus.Registry, log *logger.Logger, cfg *config.Config) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithBodyLimit(cfg.Server.BodyLimit),
		xhttp.WithCORS(true, cfg.Server.AllowedOrigins...),
		xhttp.WithMetrics(metricsPath, reg, reg),
		xhttp.WithLogger(log),
	)
}

// ProvideApp assembles the application and hands it every resource to
// close on shutdown.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	salesHandler *usecase.SalesEventHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	c cache.Service,
	limiter *ratelimit.Limiter,
) *server.App {
	opts := []server.Option{
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.WithCloser("cache", c),
	}
	if chClient != nil {
		opts = append(opts, server.WithCloser("clickhouse", chClient))
	}
	if producer != nil {
		opts = append(opts, server.WithCloser("kafka producer", producer))
	}
	if consumer != nil && salesHandler != nil {
		opts = append(opts, server.WithConsumer(consumer, salesHandler))
	} else if consumer != nil {
		log.Warn("kafka consumer enabled without a warehouse; sales consumer not started")
	}
	if limiter != nil {
		opts = append(opts, server.WithTask("ratelimit prune", server.Every(time.Minute, func() {
			limiter.Prune(limiterIdleTTL)
		})))
	}
	log.Info("portal configured",
		logger.String("sales_backend", cfg.Sales.Backend),
		logger.Bool("warehouse", chClient != nil),
		logger.Bool("redis", cfg.Cache.Redis.Enabled),
		logger.Strings("kafka_brokers", cfg.Kafka.Brokers),
		logger.Bool("rate_limit", limiter != nil),
	)
	return server.New(log, httpServer, opts...)
}
