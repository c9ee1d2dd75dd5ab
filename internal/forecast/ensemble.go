package forecast

import "math"

// ensembleWeights blend the individual models. Missing models renormalize
// over the weights that are present.
var ensembleWeights = map[string]float64{
	"linear":      0.25,
	"seasonal":    0.35,
	"ai_enhanced": 0.40,
}

// Interval is a single horizon's forecast with its confidence bounds.
type Interval struct {
	Forecast float64 `json:"forecast"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// ConfidenceInterval carries per-horizon intervals at a confidence level.
type ConfidenceInterval struct {
	Intervals       map[string]Interval `json:"intervals"`
	ConfidenceLevel float64             `json:"confidence_level"`
}

// ensembleForecast weight-averages each horizon across the models that
// produced it.
func ensembleForecast(models map[string]ModelForecast) map[string]float64 {
	ensemble := make(map[string]float64)

	periods := make(map[string]struct{})
	for _, model := range models {
		for period := range model.Forecasts {
			periods[period] = struct{}{}
		}
	}

	for period := range periods {
		var weightedSum, totalWeight float64
		for name, weight := range ensembleWeights {
			model, ok := models[name]
			if !ok {
				continue
			}
			value, ok := model.Forecasts[period]
			if !ok {
				continue
			}
			weightedSum += value * weight
			totalWeight += weight
		}
		if totalWeight > 0 {
			ensemble[period] = weightedSum / totalWeight
		}
	}
	return ensemble
}

// confidenceInterval assumes a standard error of 10% of each forecast
// value. Lower bounds are floored at zero.
func confidenceInterval(forecast map[string]float64, confidence float64) ConfidenceInterval {
	z := normalQuantile((1 + confidence) / 2)

	intervals := make(map[string]Interval, len(forecast))
	for period, value := range forecast {
		stdError := value * 0.1
		intervals[period] = Interval{
			Forecast: value,
			Lower:    math.Max(0, value-z*stdError),
			Upper:    value + z*stdError,
		}
	}
	return ConfidenceInterval{Intervals: intervals, ConfidenceLevel: confidence}
}

// normalQuantile is the standard normal inverse CDF.
func normalQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
