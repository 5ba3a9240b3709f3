package forecast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"PhonePortal/internal/domain/models"
	"PhonePortal/pkg/util"
)

// SchemaError reports input that lacks the required date and sales columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 {
		return "CSV must have columns: date,sales"
	}
	return fmt.Sprintf("CSV must have columns: date,sales (missing %s)", strings.Join(e.Missing, ","))
}

// IsSchemaError reports whether err is or wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// RawRecord is one unparsed (date, sales) pair.
type RawRecord struct {
	Date  string
	Sales string
}

// ReadCSV reads a table with a header row naming "date" and "sales" columns
// (case-insensitive, any position, extra columns ignored) and builds a series.
func ReadCSV(r io.Reader) (models.SalesSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.SalesSeries{}, &SchemaError{Missing: []string{"date", "sales"}}
	}
	if err != nil {
		return models.SalesSeries{}, fmt.Errorf("read csv header: %w", err)
	}

	dateCol, salesCol := -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case h == "date" && dateCol < 0:
			dateCol = i
		case h == "sales" && salesCol < 0:
			salesCol = i
		}
	}
	var missing []string
	if dateCol < 0 {
		missing = append(missing, "date")
	}
	if salesCol < 0 {
		missing = append(missing, "sales")
	}
	if len(missing) > 0 {
		return models.SalesSeries{}, &SchemaError{Missing: missing}
	}

	var records []RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.SalesSeries{}, fmt.Errorf("read csv: %w", err)
		}
		rec := RawRecord{}
		if dateCol < len(row) {
			rec.Date = row[dateCol]
		}
		if salesCol < len(row) {
			rec.Sales = row[salesCol]
		}
		records = append(records, rec)
	}
	return BuildSeries(records), nil
}

// BuildSeries parses records into observations sorted ascending by date.
// Records whose date or sales value does not parse are dropped and counted.
func BuildSeries(records []RawRecord) models.SalesSeries {
	out := models.SalesSeries{Observations: make([]models.Observation, 0, len(records))}
	for _, rec := range records {
		d, ok := util.ParseDate(rec.Date)
		if !ok {
			out.Dropped++
			continue
		}
		v, ok := parseSales(rec.Sales)
		if !ok {
			out.Dropped++
			continue
		}
		out.Observations = append(out.Observations, models.Observation{Date: d, Sales: v})
	}
	sort.SliceStable(out.Observations, func(i, j int) bool {
		return out.Observations[i].Date.Before(out.Observations[j].Date)
	})
	return out
}

// FromObservations wraps already-typed observations (warehouse rows) as a series.
func FromObservations(obs []models.Observation) models.SalesSeries {
	out := models.SalesSeries{Observations: make([]models.Observation, 0, len(obs))}
	for _, o := range obs {
		if math.IsNaN(o.Sales) || math.IsInf(o.Sales, 0) {
			out.Dropped++
			continue
		}
		out.Observations = append(out.Observations, models.Observation{Date: util.TruncateDay(o.Date), Sales: o.Sales})
	}
	sort.SliceStable(out.Observations, func(i, j int) bool {
		return out.Observations[i].Date.Before(out.Observations[j].Date)
	})
	return out
}

func parseSales(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
