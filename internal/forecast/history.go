// Package forecast implements revenue forecasting: three simple models
// (linear trend, seasonal decomposition, growth extrapolation) blended into
// a weighted ensemble with confidence intervals and derived insights.
package forecast

import (
	"math"
	"math/rand"
	"time"
)

// DataPoint is one historical period of sales performance.
type DataPoint struct {
	Period         string  `json:"period"`
	Revenue        float64 `json:"revenue"`
	DealsClosed    int     `json:"deals_closed"`
	ConversionRate float64 `json:"conversion_rate"`
}

// SampleHistory synthesizes twelve months of plausible sales data for
// installations without enough recorded history. Growth trend plus a
// half-year sine seasonality plus gaussian noise, floored at zero.
func SampleHistory(now time.Time, rng *rand.Rand) []DataPoint {
	data := make([]DataPoint, 0, 12)
	baseValue := 50000.0

	for i := 0; i < 12; i++ {
		monthValue := baseValue + float64(i)*2000
		monthValue += math.Sin(float64(i)*math.Pi/6) * 10000
		monthValue += rng.NormFloat64() * 5000

		revenue := math.Max(0, monthValue)
		data = append(data, DataPoint{
			Period:         now.AddDate(0, 0, -30*(12-i)).Format("2006-01"),
			Revenue:        revenue,
			DealsClosed:    int(monthValue / 10000),
			ConversionRate: 0.15 + (rng.Float64()*0.1 - 0.05),
		})
	}
	return data
}
