package forecast

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"crm_backend/platform/logger"
)

// HistorySource loads recorded monthly sales history.
type HistorySource interface {
	MonthlyHistory(ctx context.Context, months int) ([]DataPoint, error)
}

// Result is a full forecast run: the ensemble, its confidence bounds, the
// per-model outputs, and derived insights.
type Result struct {
	Timeframe          string                   `json:"timeframe"`
	Forecast           map[string]float64       `json:"forecast"`
	ConfidenceInterval ConfidenceInterval       `json:"confidence_interval"`
	Insights           Insights                 `json:"insights"`
	IndividualModels   map[string]ModelForecast `json:"individual_models"`
	GeneratedAt        time.Time                `json:"generated_at"`
}

// Quick is the dashboard projection of a monthly forecast.
type Quick struct {
	NextMonth  float64 `json:"next_month"`
	Quarter    float64 `json:"quarter"`
	Year       float64 `json:"year"`
	Trend      string  `json:"trend"`
	Confidence float64 `json:"confidence"`
}

// minHistoryPoints is the smallest series the models accept before the
// service falls back to synthesized history.
const minHistoryPoints = 4

const defaultConfidence = 0.95

// Service orchestrates the forecast models over stored or synthesized
// history. Safe for concurrent use.
type Service struct {
	history HistorySource
	log     *logger.Logger
	now     func() time.Time
	seed    func() int64
}

// NewService builds the forecast service. history may be nil, in which
// case every run uses synthesized sample data.
func NewService(history HistorySource, log *logger.Logger) *Service {
	return &Service{
		history: history,
		log:     log,
		now:     time.Now,
		seed:    func() int64 { return time.Now().UnixNano() },
	}
}

// Generate runs all models for the timeframe and blends them. history may
// be nil; the service then loads stored history and synthesizes sample
// data when too little is recorded.
func (s *Service) Generate(ctx context.Context, timeframe string, history []DataPoint) (Result, error) {
	if len(history) == 0 {
		var err error
		history, err = s.loadHistory(ctx)
		if err != nil {
			return Result{}, err
		}
	}

	horizons := horizonsFor(timeframe)
	models := map[string]ModelForecast{
		"linear":      linearForecast(history, horizons),
		"seasonal":    seasonalForecast(history, horizons),
		"ai_enhanced": growthForecast(history, horizons),
	}

	ensemble := ensembleForecast(models)

	return Result{
		Timeframe:          timeframe,
		Forecast:           ensemble,
		ConfidenceInterval: confidenceInterval(ensemble, defaultConfidence),
		Insights:           buildInsights(ensemble, horizons, history),
		IndividualModels:   models,
		GeneratedAt:        s.now(),
	}, nil
}

// QuickForecast projects the monthly forecast down to the dashboard shape.
func (s *Service) QuickForecast(ctx context.Context) (Quick, error) {
	result, err := s.Generate(ctx, "monthly", nil)
	if err != nil {
		return Quick{}, err
	}
	return Quick{
		NextMonth:  result.Forecast["next_period"],
		Quarter:    result.Forecast["quarter"],
		Year:       result.Forecast["year"],
		Trend:      result.Insights.Trend,
		Confidence: result.ConfidenceInterval.ConfidenceLevel,
	}, nil
}

func (s *Service) loadHistory(ctx context.Context) ([]DataPoint, error) {
	if s.history != nil {
		history, err := s.history.MonthlyHistory(ctx, 12)
		if err != nil {
			return nil, fmt.Errorf("load sales history: %w", err)
		}
		if len(history) >= minHistoryPoints {
			return history, nil
		}
		if s.log != nil {
			s.log.Info("insufficient sales history, using sample data", "points", len(history))
		}
	}
	rng := rand.New(rand.NewSource(s.seed()))
	return SampleHistory(s.now(), rng), nil
}
