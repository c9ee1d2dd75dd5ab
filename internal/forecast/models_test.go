package forecast

import (
	"math"
	"testing"
)

func steadyHistory(n int, revenue float64) []DataPoint {
	history := make([]DataPoint, n)
	for i := range history {
		history[i] = DataPoint{
			Period:         "2025-01",
			Revenue:        revenue,
			DealsClosed:    int(revenue / 10000),
			ConversionRate: 0.15,
		}
	}
	return history
}

func TestHorizonsForTables(t *testing.T) {
	cases := []struct {
		timeframe string
		names     []string
		aheads    []int
	}{
		{"daily", []string{"tomorrow", "next_week", "next_month"}, []int{1, 7, 30}},
		{"weekly", []string{"next_week", "next_month", "quarter"}, []int{1, 4, 12}},
		{"monthly", []string{"next_period", "quarter", "year"}, []int{1, 3, 12}},
		{"yearly", []string{"next_year", "three_years", "five_years"}, []int{1, 3, 5}},
		{"fortnightly", []string{"next_year", "three_years", "five_years"}, []int{1, 3, 5}},
	}
	for _, tc := range cases {
		got := horizonsFor(tc.timeframe)
		if len(got) != len(tc.names) {
			t.Fatalf("%s: %d horizons, want %d", tc.timeframe, len(got), len(tc.names))
		}
		for i := range got {
			if got[i].Name != tc.names[i] || got[i].Ahead != tc.aheads[i] {
				t.Errorf("%s[%d] = %v, want {%s %d}", tc.timeframe, i, got[i], tc.names[i], tc.aheads[i])
			}
		}
	}
}

func TestLinearRegressionPerfectFit(t *testing.T) {
	// y = 3x + 7 exactly.
	y := []float64{7, 10, 13, 16, 19}
	slope, intercept, rSquared := linearRegression(y)
	if math.Abs(slope-3) > 1e-9 || math.Abs(intercept-7) > 1e-9 {
		t.Errorf("fit = (%v, %v), want (3, 7)", slope, intercept)
	}
	if math.Abs(rSquared-1) > 1e-9 {
		t.Errorf("r_squared = %v, want 1", rSquared)
	}
}

func TestLinearForecastExtrapolatesBeyondSeries(t *testing.T) {
	history := make([]DataPoint, 6)
	for i := range history {
		history[i] = DataPoint{Revenue: 1000 * float64(i+1), DealsClosed: 1, ConversionRate: 0.15}
	}
	model := linearForecast(history, horizonsFor("monthly"))

	// Slope 1000, intercept 1000, forecast at x = 6 + ahead.
	if got := model.Forecasts["next_period"]; math.Abs(got-8000) > 1e-6 {
		t.Errorf("next_period = %v, want 8000", got)
	}
	if got := model.Forecasts["year"]; math.Abs(got-19000) > 1e-6 {
		t.Errorf("year = %v, want 19000", got)
	}
	if model.Trend != "increasing" {
		t.Errorf("trend = %q, want increasing", model.Trend)
	}
}

func TestLinearForecastFloorsAtZero(t *testing.T) {
	history := make([]DataPoint, 6)
	for i := range history {
		history[i] = DataPoint{Revenue: 5000 - 1000*float64(i), DealsClosed: 1, ConversionRate: 0.15}
	}
	model := linearForecast(history, horizonsFor("monthly"))
	for name, value := range model.Forecasts {
		if value < 0 {
			t.Errorf("%s = %v, want >= 0", name, value)
		}
	}
	if model.Trend != "decreasing" {
		t.Errorf("trend = %q, want decreasing", model.Trend)
	}
}

func TestSeasonalFactorsMeanOne(t *testing.T) {
	data := []float64{10000, 20000, 15000, 25000, 11000, 21000, 14000, 26000}
	factors := seasonalFactors(data, 4)
	if len(factors) != 4 {
		t.Fatalf("got %d factors, want 4", len(factors))
	}
	if m := mean(factors); math.Abs(m-1) > 1e-9 {
		t.Errorf("factor mean = %v, want 1", m)
	}
}

func TestSeasonalFactorsShortSeriesUnit(t *testing.T) {
	factors := seasonalFactors([]float64{100, 200}, 4)
	for i, f := range factors {
		if f != 1 {
			t.Errorf("factor[%d] = %v, want 1", i, f)
		}
	}
}

func TestSeasonalForecastFlatSeries(t *testing.T) {
	// Flat history has no trend and unit factors, so every horizon equals
	// the base level.
	model := seasonalForecast(steadyHistory(8, 40000), horizonsFor("monthly"))
	for name, value := range model.Forecasts {
		if math.Abs(value-40000) > 1e-6 {
			t.Errorf("%s = %v, want 40000", name, value)
		}
	}
	if *model.TrendComponent != 0 {
		t.Errorf("trend component = %v, want 0", *model.TrendComponent)
	}
}

func TestGrowthForecastFlatSeries(t *testing.T) {
	// Flat deals and 15% conversion: no growth, no conversion adjustment,
	// only the small per-deal improvement factor remains.
	history := steadyHistory(6, 40000)
	model := growthForecast(history, horizonsFor("monthly"))

	base := 40000.0
	for _, h := range horizonsFor("monthly") {
		improvement := 1 + 0.02*float64(h.Ahead)/12
		want := base * improvement
		if got := model.Forecasts[h.Name]; math.Abs(got-want) > 1e-6 {
			t.Errorf("%s = %v, want %v", h.Name, got, want)
		}
	}
	if model.Factors["deal_growth_rate"] != 0 {
		t.Errorf("deal growth = %v, want 0", model.Factors["deal_growth_rate"])
	}
}

func TestMeanGrowthRateFallback(t *testing.T) {
	if got := meanGrowthRate([]float64{100}, 0.05); got != 0.05 {
		t.Errorf("single point = %v, want fallback 0.05", got)
	}
	if got := meanGrowthRate([]float64{0, 0, 0}, 0.03); got != 0.03 {
		t.Errorf("all-zero series = %v, want fallback 0.03", got)
	}
}
