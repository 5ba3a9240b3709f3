package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	models "PhonePortal/internal/domain/models"
	"PhonePortal/internal/usecase"
	xhttp "PhonePortal/pkg/http"
	"PhonePortal/pkg/util"

	"github.com/labstack/echo/v4"
)

type historyRow struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
	SMA   float64 `json:"sma"`
}

type forecastRow struct {
	Date  string  `json:"date"`
	YHat  float64 `json:"yhat"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type forecastSummary struct {
	NObs           int     `json:"n_obs"`
	FirstDate      *string `json:"first_date"`
	LastDate       *string `json:"last_date"`
	Freq           string  `json:"freq"`
	NForecast      int     `json:"n_forecast"`
	TrendSlope     float64 `json:"trend_slope_per_period"`
	TrendIntercept float64 `json:"trend_intercept"`
	R2             float64 `json:"r2_trend_fit"`
	Sigma          float64 `json:"sigma_residual"`
	DroppedRows    int     `json:"dropped_rows"`
}

// ForecastResponse is the wire form of a forecast.
type ForecastResponse struct {
	Source   string          `json:"source"`
	History  []historyRow    `json:"history"`
	Forecast []forecastRow   `json:"forecast"`
	Summary  forecastSummary `json:"summary"`
}

func NewForecastResponse(source string, f models.SalesForecast) ForecastResponse {
	out := ForecastResponse{
		Source:   source,
		History:  make([]historyRow, len(f.History)),
		Forecast: make([]forecastRow, len(f.Forecast)),
	}
	for i, p := range f.History {
		out.History[i] = historyRow{Date: util.FormatDate(p.Date), Sales: p.Observed, SMA: p.Smoothed}
	}
	for i, p := range f.Forecast {
		out.Forecast[i] = forecastRow{Date: util.FormatDate(p.Date), YHat: p.Mean, Lower: p.Lower, Upper: p.Upper}
	}
	s := f.Summary
	out.Summary = forecastSummary{
		NObs:           s.ObservationCount,
		FirstDate:      formatOptionalDate(s.FirstDate),
		LastDate:       formatOptionalDate(s.LastDate),
		Freq:           s.Frequency,
		NForecast:      s.ForecastCount,
		TrendSlope:     s.TrendSlope,
		TrendIntercept: s.TrendIntercept,
		R2:             s.R2,
		Sigma:          s.ResidualSigma,
		DroppedRows:    s.DroppedRows,
	}
	return out
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := util.FormatDate(*t)
	return &s
}

// Predict runs a forecast. JSON bodies pick the source explicitly; multipart
// bodies upload a CSV in "file" and fall back to the sample when it is
// missing.
func (h *PortalHandler) Predict(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in := usecase.ForecastInput{
		Source:  req.Source,
		Product: req.Product,
		Freq:    req.Freq,
		Periods: req.NPeriods,
	}
	if req.Sample {
		in.Source = usecase.SourceSample
	}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		upload, err := readUpload(c)
		if err != nil {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestFieldError("file", err.Error()))
		}
		if upload != nil {
			in.Source = usecase.SourceUpload
			in.Upload = upload
		}
	}
	if in.Source == usecase.SourceUpload && in.Upload == nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestFieldError("file", "file is required for source upload"))
	}

	res, err := h.forecaster.Forecast(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, "forecast", err)
	}
	source := in.Source
	if source == "" {
		source = usecase.SourceSample
	}
	return xhttp.SuccessResponse(c, NewForecastResponse(source, res))
}

// readUpload returns the "file" part, or nil when none was sent.
func readUpload(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if fh.Filename == "" {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return b, nil
}

// SampleCSV serves the bundled sample as a download.
func (h *PortalHandler) SampleCSV(c echo.Context) error {
	return c.Attachment(h.forecaster.SamplePath(), "sample_sales.csv")
}

type ingestResponse struct {
	Accepted int `json:"accepted"`
}

// IngestSales accepts raw sales observations for the warehouse pipeline.
func (h *PortalHandler) IngestSales(c echo.Context) error {
	req := &models.IngestSalesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.ingestor.Available() {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("sales backend not configured"))
	}
	records, err := h.ingestor.ParseRecords(req.Records)
	if err != nil {
		return h.fail(c, "ingest", err)
	}
	n, err := h.ingestor.Ingest(c.Request().Context(), records)
	if err != nil {
		return h.fail(c, "ingest", err)
	}
	return xhttp.DataResponse(c, http.StatusAccepted, ingestResponse{Accepted: n})
}
