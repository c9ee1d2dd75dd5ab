package forecast

// Seasonality describes detected periodic structure in the history.
type Seasonality struct {
	Detected    bool   `json:"detected"`
	Pattern     string `json:"pattern,omitempty"`
	PeakPeriods []int  `json:"peak_periods,omitempty"`
	LowPeriods  []int  `json:"low_periods,omitempty"`
}

// Insights summarizes a forecast for non-technical consumers.
type Insights struct {
	Trend           string      `json:"trend"`
	Seasonality     Seasonality `json:"seasonality"`
	RiskFactors     []string    `json:"risk_factors"`
	Opportunities   []string    `json:"opportunities"`
	Recommendations []string    `json:"recommendations"`
}

func buildInsights(forecast map[string]float64, horizons []horizon, history []DataPoint) Insights {
	return Insights{
		Trend:           determineTrend(forecast, horizons),
		Seasonality:     detectSeasonality(history),
		RiskFactors:     identifyRisks(forecast, history),
		Opportunities:   identifyOpportunities(forecast, history),
		Recommendations: buildRecommendations(forecast, horizons, history),
	}
}

// determineTrend compares the nearest horizon against the farthest.
func determineTrend(forecast map[string]float64, horizons []horizon) string {
	values := make([]float64, 0, len(horizons))
	for _, h := range horizons {
		if v, ok := forecast[h.Name]; ok {
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return "stable"
	}

	first, last := values[0], values[len(values)-1]
	switch {
	case last > first*1.1:
		return "strong_growth"
	case last > first:
		return "moderate_growth"
	case last < first*0.9:
		return "declining"
	default:
		return "stable"
	}
}

// detectSeasonality flags periods more than 10% above or below the mean.
// Fewer than four data points is not enough signal.
func detectSeasonality(history []DataPoint) Seasonality {
	if len(history) < 4 {
		return Seasonality{Detected: false}
	}

	revenues := revenueSeries(history)
	meanRevenue := mean(revenues)

	pattern := Seasonality{Detected: true, Pattern: "quarterly"}
	for i, revenue := range revenues {
		month := i%12 + 1
		switch {
		case revenue > meanRevenue*1.1:
			pattern.PeakPeriods = append(pattern.PeakPeriods, month)
		case revenue < meanRevenue*0.9:
			pattern.LowPeriods = append(pattern.LowPeriods, month)
		}
	}
	return pattern
}

func identifyRisks(forecast map[string]float64, history []DataPoint) []string {
	var risks []string

	revenues := revenueSeries(history)
	if len(revenues) > 0 && mean(revenues) > 0 {
		cv := stddev(revenues) / mean(revenues)
		if cv > 0.3 {
			risks = append(risks, "High revenue variability detected")
		}
	}

	conversions := make([]float64, len(history))
	for i, d := range history {
		conversions[i] = d.ConversionRate
	}
	if len(conversions) > 3 {
		if mean(tail(conversions, 3)) < mean(conversions)*0.9 {
			risks = append(risks, "Declining conversion rates")
		}
	}

	nextPeriod, hasNext := forecast["next_period"]
	quarter, hasQuarter := forecast["quarter"]
	if hasNext && hasQuarter && quarter < nextPeriod*3 {
		risks = append(risks, "Potential over-optimistic short-term forecast")
	}

	if len(risks) == 0 {
		risks = append(risks, "No significant risks identified")
	}
	return risks
}

func identifyOpportunities(forecast map[string]float64, history []DataPoint) []string {
	var opportunities []string

	year, hasYear := forecast["year"]
	nextPeriod, hasNext := forecast["next_period"]
	if hasYear && hasNext && nextPeriod > 0 {
		annualGrowth := (year - nextPeriod*12) / (nextPeriod * 12)
		if annualGrowth > 0.2 {
			opportunities = append(opportunities, "Strong growth trajectory projected")
		}
	}

	conversions := make([]float64, len(history))
	maxConversion := 0.0
	for i, d := range history {
		conversions[i] = d.ConversionRate
		if d.ConversionRate > maxConversion {
			maxConversion = d.ConversionRate
		}
	}
	if len(conversions) > 0 && maxConversion > mean(conversions)*1.2 {
		opportunities = append(opportunities, "Conversion rate optimization potential")
	}

	if len(history) > 3 {
		recent := history[len(history)-3:]
		nondecreasing := true
		for i := 0; i < len(recent)-1; i++ {
			if recent[i].DealsClosed > recent[i+1].DealsClosed {
				nondecreasing = false
				break
			}
		}
		if nondecreasing {
			opportunities = append(opportunities, "Increasing deal velocity trend")
		}
	}

	if len(opportunities) == 0 {
		opportunities = append(opportunities, "Focus on consistent execution")
	}
	return opportunities
}

const maxRecommendations = 4

func buildRecommendations(forecast map[string]float64, horizons []horizon, history []DataPoint) []string {
	var recommendations []string

	switch determineTrend(forecast, horizons) {
	case "strong_growth":
		recommendations = append(recommendations,
			"Scale sales team to capture growth opportunity",
			"Invest in automation to maintain quality at scale")
	case "declining":
		recommendations = append(recommendations,
			"Review and optimize sales process",
			"Focus on customer retention and upselling")
	default:
		recommendations = append(recommendations,
			"Maintain current strategy with incremental improvements",
			"Focus on conversion rate optimization")
	}

	conversions := make([]float64, len(history))
	for i, d := range history {
		conversions[i] = d.ConversionRate
	}
	if len(conversions) > 0 && mean(conversions) < 0.15 {
		recommendations = append(recommendations, "Implement lead qualification improvements")
	}

	var perDeal []float64
	for _, d := range history {
		if d.DealsClosed > 0 {
			perDeal = append(perDeal, d.Revenue/float64(d.DealsClosed))
		}
	}
	if len(perDeal) > 0 && mean(perDeal) < 10000 {
		recommendations = append(recommendations, "Focus on enterprise accounts for larger deal sizes")
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}
