package forecast

import "math"

// ModelForecast is one model's output. Optional fields are populated per
// model and omitted otherwise.
type ModelForecast struct {
	Model           string             `json:"model"`
	Forecasts       map[string]float64 `json:"forecasts"`
	Trend           string             `json:"trend,omitempty"`
	RSquared        *float64           `json:"r_squared,omitempty"`
	SeasonalFactors []float64          `json:"seasonal_factors,omitempty"`
	TrendComponent  *float64           `json:"trend_component,omitempty"`
	Factors         map[string]float64 `json:"factors,omitempty"`
}

// horizon is one named forecast distance, in periods ahead.
type horizon struct {
	Name  string
	Ahead int
}

// horizonsFor returns the ordered horizon table for a timeframe.
// Unrecognized timeframes use the yearly table.
func horizonsFor(timeframe string) []horizon {
	switch timeframe {
	case "daily":
		return []horizon{{"tomorrow", 1}, {"next_week", 7}, {"next_month", 30}}
	case "weekly":
		return []horizon{{"next_week", 1}, {"next_month", 4}, {"quarter", 12}}
	case "monthly":
		return []horizon{{"next_period", 1}, {"quarter", 3}, {"year", 12}}
	default:
		return []horizon{{"next_year", 1}, {"three_years", 3}, {"five_years", 5}}
	}
}

// linearForecast fits ordinary least squares over the revenue series and
// extrapolates each horizon.
func linearForecast(history []DataPoint, horizons []horizon) ModelForecast {
	revenues := revenueSeries(history)
	slope, intercept, rSquared := linearRegression(revenues)

	forecasts := make(map[string]float64, len(horizons))
	for _, h := range horizons {
		x := float64(len(revenues) + h.Ahead)
		forecasts[h.Name] = math.Max(0, slope*x+intercept)
	}

	trend := "decreasing"
	if slope > 0 {
		trend = "increasing"
	}
	return ModelForecast{
		Model:     "linear",
		Forecasts: forecasts,
		Trend:     trend,
		RSquared:  &rSquared,
	}
}

// seasonalForecast decomposes the series into quarterly factors and a
// first-vs-last-quarter trend component.
func seasonalForecast(history []DataPoint, horizons []horizon) ModelForecast {
	revenues := revenueSeries(history)

	const seasonLength = 4
	factors := seasonalFactors(revenues, seasonLength)

	trend := mean(tail(revenues, 3)) - mean(head(revenues, 3))
	base := mean(tail(revenues, 3))

	forecasts := make(map[string]float64, len(horizons))
	for _, h := range horizons {
		value := base + trend*float64(h.Ahead)/12
		value *= factors[(len(revenues)+h.Ahead)%seasonLength]
		forecasts[h.Name] = math.Max(0, value)
	}

	return ModelForecast{
		Model:           "seasonal",
		Forecasts:       forecasts,
		SeasonalFactors: factors,
		TrendComponent:  &trend,
	}
}

// growthForecast projects deal counts and per-deal revenue forward using
// observed growth rates and a conversion-rate adjustment around the 15%
// baseline.
func growthForecast(history []DataPoint, horizons []horizon) ModelForecast {
	revenues := revenueSeries(history)
	deals := make([]float64, len(history))
	conversions := make([]float64, len(history))
	for i, d := range history {
		deals[i] = float64(d.DealsClosed)
		conversions[i] = d.ConversionRate
	}

	revenueGrowth := meanGrowthRate(revenues, 0.05)
	dealGrowth := meanGrowthRate(deals, 0.03)

	var perDeal []float64
	for i := range revenues {
		if deals[i] > 0 {
			perDeal = append(perDeal, revenues[i]/deals[i])
		}
	}
	avgRevenuePerDeal := mean(perDeal)
	avgConversion := mean(conversions)

	baseDeals := 5.0
	if len(deals) > 0 {
		baseDeals = deals[len(deals)-1]
	}

	forecasts := make(map[string]float64, len(horizons))
	for _, h := range horizons {
		ahead := float64(h.Ahead)
		projectedDeals := baseDeals * math.Pow(1+dealGrowth, ahead/12)
		improvement := 1 + 0.02*ahead/12
		value := projectedDeals * avgRevenuePerDeal * improvement
		value *= 1 + (avgConversion-0.15)*2
		forecasts[h.Name] = math.Max(0, value)
	}

	return ModelForecast{
		Model:     "ai_enhanced",
		Forecasts: forecasts,
		Factors: map[string]float64{
			"revenue_growth_rate": revenueGrowth,
			"deal_growth_rate":    dealGrowth,
			"avg_deal_value":      avgRevenuePerDeal,
			"conversion_rate":     avgConversion,
		},
	}
}

// seasonalFactors averages each season position and normalizes the factors
// to mean 1. Series shorter than one season yield unit factors.
func seasonalFactors(data []float64, seasonLength int) []float64 {
	factors := make([]float64, seasonLength)
	if len(data) < seasonLength {
		for i := range factors {
			factors[i] = 1
		}
		return factors
	}

	sums := make([]float64, seasonLength)
	counts := make([]float64, seasonLength)
	for i, value := range data {
		sums[i%seasonLength] += value
		counts[i%seasonLength]++
	}

	overall := mean(data)
	for i := range factors {
		avg := sums[i] / (counts[i] + 1e-10)
		factors[i] = avg / (overall + 1e-10)
	}

	factorMean := mean(factors)
	for i := range factors {
		factors[i] /= factorMean
	}
	return factors
}

// linearRegression returns OLS slope, intercept, and R-squared for y
// against x = 0..n-1.
func linearRegression(y []float64) (slope, intercept, rSquared float64) {
	n := float64(len(y))
	if n == 0 {
		return 0, 0, 0
	}
	if n == 1 {
		return 0, y[0], 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, v := range y {
		fit := slope*float64(i) + intercept
		ssTot += (v - meanY) * (v - meanY)
		ssRes += (v - fit) * (v - fit)
	}
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}
	return slope, intercept, rSquared
}

// meanGrowthRate averages period-over-period relative changes. Series with
// fewer than two points use the fallback rate.
func meanGrowthRate(series []float64, fallback float64) float64 {
	if len(series) < 2 {
		return fallback
	}
	var total float64
	var count int
	for i := 1; i < len(series); i++ {
		if series[i-1] == 0 {
			continue
		}
		total += (series[i] - series[i-1]) / series[i-1]
		count++
	}
	if count == 0 {
		return fallback
	}
	return total / float64(count)
}

func revenueSeries(history []DataPoint) []float64 {
	revenues := make([]float64, len(history))
	for i, d := range history {
		revenues[i] = d.Revenue
	}
	return revenues
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var total float64
	for _, v := range values {
		total += (v - m) * (v - m)
	}
	return math.Sqrt(total / float64(len(values)))
}

func head(values []float64, n int) []float64 {
	if len(values) < n {
		return values
	}
	return values[:n]
}

func tail(values []float64, n int) []float64 {
	if len(values) < n {
		return values
	}
	return values[len(values)-n:]
}
