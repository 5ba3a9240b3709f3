package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"PhonePortal/internal/di"
	"PhonePortal/internal/domain/models"
	"PhonePortal/internal/handler/api"
	"PhonePortal/internal/usecase"
	"PhonePortal/pkg/config"
	"PhonePortal/pkg/util"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type forecastOptions struct {
	file    string
	freq    string
	periods int
	format  string
}

func forecastCmd(configPath *string) *cobra.Command {
	opts := &forecastOptions{}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast a sales CSV (date,sales) without running the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithEnv(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runForecast(cmd, cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV to forecast (default: bundled sample)")
	cmd.Flags().StringVar(&opts.freq, "freq", "M", "frequency: D, W or M")
	cmd.Flags().IntVarP(&opts.periods, "periods", "n", 0, "periods to forecast (default depends on freq)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table or json")
	return cmd
}

func runForecast(cmd *cobra.Command, cfg *config.Config, opts *forecastOptions) error {
	engine, err := di.ProvideEngine(cfg)
	if err != nil {
		return err
	}
	m := di.ProvideMetrics(prometheus.NewRegistry())
	log, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	f := di.ProvideSalesForecaster(engine, nil, nil, m, log, cfg)

	in := usecase.ForecastInput{Source: usecase.SourceSample, Freq: opts.freq, Periods: opts.periods}
	if opts.file != "" {
		b, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("read %s: %w", opts.file, err)
		}
		in.Source, in.Upload = usecase.SourceUpload, b
	}

	res, err := f.Forecast(cmd.Context(), in)
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewForecastResponse(in.Source, res))
	case "table":
		return printForecast(cmd.OutOrStdout(), res)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}

func printForecast(w io.Writer, res models.SalesForecast) error {
	s := res.Summary
	fmt.Fprintf(w, "observations=%d freq=%s dropped=%d slope=%.4f intercept=%.4f r2=%.4f sigma=%.4f\n\n",
		s.ObservationCount, s.Frequency, s.DroppedRows, s.TrendSlope, s.TrendIntercept, s.R2, s.ResidualSigma)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "date\tyhat\tlower\tupper\t")
	for _, p := range res.Forecast {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t\n", util.FormatDate(p.Date), p.Mean, p.Lower, p.Upper)
	}
	return tw.Flush()
}
