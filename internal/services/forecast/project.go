package forecast

import (
	"math"
	"time"

	"PhonePortal/internal/domain/models"
)

// ZScore scales sigma into the ~95% normal interval.
const ZScore = 1.96

// Project extends the trend over periods future indices t = N..N+periods-1,
// labeling them from start onward. Mean and both bounds are clamped at zero
// independently.
func Project(m models.TrendModel, start time.Time, cal Calendar, periods int) []models.ForecastPoint {
	if periods <= 0 {
		return nil
	}
	out := make([]models.ForecastPoint, 0, periods)
	label := start
	for i := 0; i < periods; i++ {
		t := float64(m.N + i)
		mean := m.Slope*t + m.Intercept
		out = append(out, models.ForecastPoint{
			Date:  label,
			Mean:  math.Max(0, mean),
			Lower: math.Max(0, mean-ZScore*m.Sigma),
			Upper: math.Max(0, mean+ZScore*m.Sigma),
		})
		label = cal.Next(label)
	}
	return out
}
