package scoring

import (
	"context"
	"math"
	"strings"
	"time"

	"crm_backend/platform/logger"
)

// factorWeights combine the six sub-scores into the composite score.
// They sum to 1.0.
var factorWeights = map[string]float64{
	"budget":         0.25,
	"industry":       0.15,
	"company_size":   0.15,
	"engagement":     0.20,
	"timeline":       0.10,
	"decision_maker": 0.15,
}

// industryScores ranks industries by historical conversion propensity.
var industryScores = map[string]float64{
	"technology":    85,
	"finance":       80,
	"healthcare":    75,
	"manufacturing": 70,
	"retail":        65,
	"education":     60,
	"non-profit":    50,
	"other":         55,
}

const unknownIndustryScore = 55

// engagementWeights assign points per interaction type. Unknown types
// score defaultEngagementWeight.
var engagementWeights = map[string]float64{
	"email_open":    5,
	"email_click":   10,
	"website_visit": 8,
	"demo_request":  25,
	"phone_call":    20,
	"meeting":       30,
	"proposal_view": 15,
	"chatbot":       7,
}

const defaultEngagementWeight = 3

// statusScores proxy the buying timeline from the pipeline status.
var statusScores = map[string]float64{
	"hot":        95,
	"qualified":  80,
	"interested": 65,
	"lead":       50,
	"cold":       20,
	"customer":   100,
}

const defaultStatusScore = 50

// seniorityTiers are checked highest first; the first tier with a keyword
// hit wins regardless of later matches.
var seniorityTiers = []struct {
	Score    float64
	Keywords []string
}{
	{95, []string{"ceo", "cto", "cfo", "president", "owner"}},
	{80, []string{"vp", "vice president", "director"}},
	{65, []string{"manager", "head of"}},
}

const defaultSeniorityScore = 40

// negativeSignals in interaction notes apply a 0.7 multiplier to the
// composite score.
var negativeSignals = []string{"not interested", "too expensive", "no budget", "maybe later"}

// HighValueThreshold marks the composite score above which a lead triggers
// automated follow-up.
const HighValueThreshold = 70

// Scorer computes composite lead scores. It is safe for concurrent use.
type Scorer struct {
	classifier CompanyClassifier
	log        *logger.Logger
	now        func() time.Time
}

// NewScorer builds a Scorer. classifier may be nil, in which case company
// size falls back to the name heuristic.
func NewScorer(classifier CompanyClassifier, log *logger.Logger) *Scorer {
	return &Scorer{classifier: classifier, log: log, now: time.Now}
}

// Calculate produces the composite score for a lead and its interactions.
// It never fails: malformed input degrades to neutral sub-scores and the
// result is always within [0, 100], rounded to two decimals.
func (s *Scorer) Calculate(ctx context.Context, lead Lead, interactions []Interaction) float64 {
	scores := map[string]float64{
		"budget":         budgetScore(lead.Budget),
		"industry":       industryScore(lead.Industry),
		"company_size":   s.companySizeScore(ctx, lead.Company, lead.Website),
		"engagement":     s.engagementScore(interactions),
		"timeline":       timelineScore(lead.Status),
		"decision_maker": decisionMakerScore(lead),
	}

	total := 0.0
	for factor, weight := range factorWeights {
		total += scores[factor] * weight
	}

	total = s.applyModifiers(total, lead, interactions)

	return math.Round(clamp(total, 0, 100)*100) / 100
}

func budgetScore(budget float64) float64 {
	if math.IsNaN(budget) || math.IsInf(budget, 0) {
		budget = 0
	}
	switch {
	case budget >= 100000:
		return 100
	case budget >= 50000:
		return 85
	case budget >= 25000:
		return 70
	case budget >= 10000:
		return 55
	case budget >= 5000:
		return 40
	case budget > 0:
		return 25
	default:
		return 10
	}
}

func industryScore(industry string) float64 {
	if score, ok := industryScores[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return score
	}
	return unknownIndustryScore
}

func (s *Scorer) companySizeScore(ctx context.Context, company, website string) float64 {
	company = strings.TrimSpace(company)
	if company == "" {
		return 30
	}
	if s.classifier != nil {
		if score, err := s.classifier.Classify(ctx, company, website); err == nil {
			return score
		} else if s.log != nil {
			s.log.AIFallback("company size classification", err)
		}
	}
	return heuristicCompanySize(company)
}

func (s *Scorer) engagementScore(interactions []Interaction) float64 {
	if len(interactions) == 0 {
		return 20
	}

	now := s.now()
	total := 0.0
	recent := 0
	for _, interaction := range interactions {
		points, ok := engagementWeights[interaction.Type]
		if !ok {
			points = defaultEngagementWeight
		}
		age := now.Sub(interaction.CreatedAt)
		switch {
		case age <= 7*24*time.Hour:
			points *= 1.5
			recent++
		case age <= 30*24*time.Hour:
			points *= 1.2
		}
		total += points
	}

	if total > 100 {
		total = 100
	}
	if recent >= 3 {
		total += 15
	}
	if total > 100 {
		total = 100
	}
	return total
}

func timelineScore(status string) float64 {
	if score, ok := statusScores[strings.ToLower(strings.TrimSpace(status))]; ok {
		return score
	}
	return defaultStatusScore
}

func decisionMakerScore(lead Lead) float64 {
	haystack := strings.ToLower(lead.Name + " " + lead.Notes)
	for _, tier := range seniorityTiers {
		for _, keyword := range tier.Keywords {
			if strings.Contains(haystack, keyword) {
				return tier.Score
			}
		}
	}
	return defaultSeniorityScore
}

func (s *Scorer) applyModifiers(score float64, lead Lead, interactions []Interaction) float64 {
	if hasNegativeSignal(interactions) {
		score *= 0.7
	}

	if strings.TrimSpace(lead.Website) != "" {
		score += 5
	}
	if strings.TrimSpace(lead.Email) != "" && strings.TrimSpace(lead.Phone) != "" {
		score += 5
	}

	if len(interactions) > 0 {
		latest := interactions[0].CreatedAt
		for _, interaction := range interactions[1:] {
			if interaction.CreatedAt.After(latest) {
				latest = interaction.CreatedAt
			}
		}
		if s.now().Sub(latest) <= 3*24*time.Hour {
			score += 10
		}
	}

	return score
}

func hasNegativeSignal(interactions []Interaction) bool {
	for _, interaction := range interactions {
		notes := strings.ToLower(interaction.Notes)
		for _, signal := range negativeSignals {
			if strings.Contains(notes, signal) {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
