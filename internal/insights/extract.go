package insights

import "strings"

// The model output is free text. These extractors pull structured
// fields out of it line by line and fall back to safe defaults when
// the output has no usable lines.

func extractPotential(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), "potential") {
			return strings.TrimSpace(line)
		}
	}
	return "Moderate potential identified"
}

func extractActions(text string) []string {
	actions := matchLines(text, 3, "recommend", "should", "action", "next")
	if len(actions) == 0 {
		return []string{"Schedule follow-up", "Send product information", "Assess needs"}
	}
	return actions
}

func extractEngagementTips(text string) []string {
	tips := matchLines(text, 3, "engagement", "strategy", "approach", "communicate")
	if len(tips) == 0 {
		return []string{"Personalize communication", "Focus on value proposition", "Be responsive"}
	}
	return tips
}

func extractRecommendations(text string) []string {
	recommendations := matchLines(text, 5, "recommend", "focus", "consider", "should")
	if len(recommendations) == 0 {
		return []string{"Focus on high-value leads", "Improve follow-up processes", "Expand market reach"}
	}
	return recommendations
}

func extractStrategies(text string) []string {
	strategies := matchLines(text, 3, "strategy", "retain", "engage", "offer")
	if len(strategies) == 0 {
		return []string{"Increase engagement", "Offer personalized solutions", "Schedule regular check-ins"}
	}
	return strategies
}

func extractSentiment(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "positive"):
		return "positive"
	case strings.Contains(lower, "negative"):
		return "negative"
	default:
		return "neutral"
	}
}

func extractRiskLevel(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "high") && strings.Contains(lower, "risk"):
		return "high"
	case strings.Contains(lower, "medium") || strings.Contains(lower, "moderate"):
		return "medium"
	default:
		return "low"
	}
}

func matchLines(text string, limit int, keywords ...string) []string {
	var matched []string
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				matched = append(matched, strings.TrimSpace(line))
				break
			}
		}
		if len(matched) == limit {
			break
		}
	}
	return matched
}

// fallbackResponse stands in for the model when it is unavailable.
func fallbackResponse(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "insight"):
		return "Based on the available data, this customer shows moderate potential. Consider scheduling a follow-up call to discuss their specific needs and budget constraints."
	case strings.Contains(lower, "email"):
		return "Subject: Following up on our conversation\n\nDear Customer,\n\nI hope this email finds you well. I wanted to follow up on our recent discussion and see if you have any questions about our solutions. Please let me know if you'd like to schedule a call to discuss further.\n\nBest regards"
	default:
		return "Analysis in progress. Please ensure AI API key is configured for detailed insights."
	}
}
