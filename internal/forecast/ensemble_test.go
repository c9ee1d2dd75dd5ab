package forecast

import (
	"math"
	"testing"
)

func TestEnsembleIdenticalModelsIdentity(t *testing.T) {
	// When every model predicts the same value the ensemble must return it.
	forecasts := map[string]float64{"next_period": 42000, "quarter": 126000}
	models := map[string]ModelForecast{
		"linear":      {Model: "linear", Forecasts: forecasts},
		"seasonal":    {Model: "seasonal", Forecasts: forecasts},
		"ai_enhanced": {Model: "ai_enhanced", Forecasts: forecasts},
	}
	ensemble := ensembleForecast(models)
	for period, want := range forecasts {
		if got := ensemble[period]; math.Abs(got-want) > 1e-9 {
			t.Errorf("%s = %v, want %v", period, got, want)
		}
	}
}

func TestEnsembleWeightedAverage(t *testing.T) {
	models := map[string]ModelForecast{
		"linear":      {Forecasts: map[string]float64{"next_period": 100}},
		"seasonal":    {Forecasts: map[string]float64{"next_period": 200}},
		"ai_enhanced": {Forecasts: map[string]float64{"next_period": 300}},
	}
	want := 100*0.25 + 200*0.35 + 300*0.40
	if got := ensembleForecast(models)["next_period"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("ensemble = %v, want %v", got, want)
	}
}

func TestEnsembleRenormalizesMissingModel(t *testing.T) {
	// Without the seasonal model the remaining weights renormalize.
	models := map[string]ModelForecast{
		"linear":      {Forecasts: map[string]float64{"next_period": 100}},
		"ai_enhanced": {Forecasts: map[string]float64{"next_period": 300}},
	}
	want := (100*0.25 + 300*0.40) / 0.65
	if got := ensembleForecast(models)["next_period"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("ensemble = %v, want %v", got, want)
	}
}

func TestConfidenceIntervalBounds(t *testing.T) {
	ci := confidenceInterval(map[string]float64{"next_period": 10000}, 0.95)
	if ci.ConfidenceLevel != 0.95 {
		t.Fatalf("confidence level = %v, want 0.95", ci.ConfidenceLevel)
	}

	interval := ci.Intervals["next_period"]
	z := normalQuantile(0.975)
	wantHalf := z * 1000
	if math.Abs(interval.Upper-(10000+wantHalf)) > 1e-6 {
		t.Errorf("upper = %v, want %v", interval.Upper, 10000+wantHalf)
	}
	if math.Abs(interval.Lower-(10000-wantHalf)) > 1e-6 {
		t.Errorf("lower = %v, want %v", interval.Lower, 10000-wantHalf)
	}
	if interval.Forecast != 10000 {
		t.Errorf("forecast = %v, want 10000", interval.Forecast)
	}
}

func TestConfidenceIntervalLowerFloor(t *testing.T) {
	ci := confidenceInterval(map[string]float64{"next_period": 1}, 0.95)
	if lower := ci.Intervals["next_period"].Lower; lower < 0 {
		t.Errorf("lower = %v, want >= 0", lower)
	}
}

func TestNormalQuantile(t *testing.T) {
	// z(0.975) is the familiar 1.96.
	if got := normalQuantile(0.975); math.Abs(got-1.959964) > 1e-4 {
		t.Errorf("normalQuantile(0.975) = %v, want 1.96", got)
	}
	if got := normalQuantile(0.5); math.Abs(got) > 1e-12 {
		t.Errorf("normalQuantile(0.5) = %v, want 0", got)
	}
}
