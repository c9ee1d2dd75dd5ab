package scoring

import (
	"context"
	"fmt"
	"math"
)

// Insights is the explainable breakdown returned alongside a score.
type Insights struct {
	Score                 float64  `json:"score"`
	Grade                 string   `json:"grade"`
	Priority              string   `json:"priority"`
	ConversionProbability float64  `json:"conversionProbability"`
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	Recommendations       []string `json:"recommendations"`
}

// Insights scores the lead and derives grade, priority, conversion
// probability, and templated guidance.
func (s *Scorer) Insights(ctx context.Context, lead Lead, interactions []Interaction) Insights {
	score := s.Calculate(ctx, lead, interactions)

	insights := Insights{
		Score:                 score,
		Grade:                 Grade(score),
		Priority:              Priority(score),
		ConversionProbability: ConversionProbability(score),
		Strengths:             []string{},
		Weaknesses:            []string{},
		Recommendations:       []string{},
	}

	if lead.Budget > 10000 {
		insights.Strengths = append(insights.Strengths, "High budget availability")
	} else {
		insights.Weaknesses = append(insights.Weaknesses, "Limited budget")
		insights.Recommendations = append(insights.Recommendations, "Focus on ROI demonstration")
	}

	switch lead.Industry {
	case "technology", "finance", "healthcare":
		insights.Strengths = append(insights.Strengths,
			fmt.Sprintf("High-converting industry: %s", lead.Industry))
	}

	switch {
	case score > 70:
		insights.Recommendations = append(insights.Recommendations,
			"Schedule immediate follow-up", "Assign to senior sales rep")
	case score > 40:
		insights.Recommendations = append(insights.Recommendations,
			"Nurture with targeted content", "Schedule follow-up in 1 week")
	default:
		insights.Recommendations = append(insights.Recommendations,
			"Add to long-term nurture campaign", "Re-evaluate in 30 days")
	}

	return insights
}

// Grade maps a composite score to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 55:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// Priority maps a composite score to a sales priority bucket.
func Priority(score float64) string {
	switch {
	case score >= 70:
		return "High"
	case score >= 40:
		return "Medium"
	default:
		return "Low"
	}
}

// ConversionProbability maps a score onto a sigmoid centered at 50 with
// scale 10, expressed as a percentage rounded to one decimal.
func ConversionProbability(score float64) float64 {
	x := (score - 50) / 10
	probability := 1 / (1 + math.Exp(-x))
	return math.Round(probability*1000) / 10
}
