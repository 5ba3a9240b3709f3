package main

import (
	"fmt"
	"os"

	"PhonePortal/internal/di"
	"PhonePortal/internal/domain/models"
	"PhonePortal/internal/services/forecast"
	"PhonePortal/pkg/config"
	"PhonePortal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func importSalesCmd(configPath *string) *cobra.Command {
	var (
		file    string
		product string
		backend string
	)
	cmd := &cobra.Command{
		Use:   "import-sales",
		Short: "Load a sales CSV (date,sales) into the configured sales backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithEnv(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if backend != "" {
				cfg.Sales.Backend = backend
			}
			return runImport(cmd, cfg, file, product)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV with date and sales columns")
	cmd.Flags().StringVarP(&product, "product", "p", "", "product tag for every row")
	cmd.Flags().StringVar(&backend, "backend", "", "override sales.backend (kafka or clickhouse)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(cmd *cobra.Command, cfg *config.Config, file, product string) error {
	log, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	m := di.ProvideMetrics(reg)

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()
	series, err := forecast.ReadCSV(f)
	if err != nil {
		return err
	}

	client, err := di.ProvideClickHouseClient(cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}
	storage, err := di.ProvideSalesStorage(client, cfg, log)
	if err != nil {
		return err
	}
	producer, err := di.ProvideKafkaProducer(cfg, reg)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
	}
	c, err := di.ProvideCache(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ingestor := di.ProvideSalesIngestor(di.ProvideSalesPublisher(producer, cfg), storage, c, m, log, cfg)
	if !ingestor.Available() {
		return fmt.Errorf("sales backend %q is not enabled", cfg.Sales.Backend)
	}

	records := make([]models.SaleRecord, len(series.Observations))
	for i, o := range series.Observations {
		records[i] = models.SaleRecord{Date: o.Date, Product: product, Sales: o.Sales}
	}

	batch := cfg.Sales.BatchLimit
	if batch <= 0 {
		batch = len(records)
	}
	total := 0
	for start := 0; start < len(records); start += batch {
		end := min(start+batch, len(records))
		n, err := ingestor.Ingest(cmd.Context(), records[start:end])
		if err != nil {
			return fmt.Errorf("ingest rows %d-%d: %w", start, end, err)
		}
		total += n
	}

	log.Info("sales imported",
		logger.String("file", file),
		logger.String("backend", cfg.Sales.Backend),
		logger.Int("records", total),
		logger.Int("dropped", series.Dropped),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records (%d dropped) via %s\n", total, series.Dropped, cfg.Sales.Backend)
	return nil
}
