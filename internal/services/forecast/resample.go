package forecast

import (
	"time"

	"PhonePortal/internal/domain/models"
)

// Resample sums observations into calendar periods and zero-fills every
// period between the first and last occupied one.
func Resample(obs []models.Observation, cal Calendar) []models.Period {
	if len(obs) == 0 {
		return nil
	}
	sums := make(map[time.Time]float64, len(obs))
	first := cal.Label(obs[0].Date)
	last := first
	for _, o := range obs {
		label := cal.Label(o.Date)
		sums[label] += o.Sales
		if label.Before(first) {
			first = label
		}
		if label.After(last) {
			last = label
		}
	}

	var out []models.Period
	for label := first; !label.After(last); label = cal.Next(label) {
		out = append(out, models.Period{Date: label, Value: sums[label]})
	}
	return out
}

// Values extracts the period values in grid order.
func Values(periods []models.Period) []float64 {
	out := make([]float64, len(periods))
	for i, p := range periods {
		out[i] = p.Value
	}
	return out
}
