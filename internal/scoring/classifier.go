package scoring

import (
	"context"
	"fmt"
	"strings"

	"crm_backend/platform/ai"
)

// CompanyClassifier maps a company name, with its website when known,
// to a size sub-score.
type CompanyClassifier interface {
	Classify(ctx context.Context, company, website string) (float64, error)
}

// AIClassifier asks the language model to bucket a company by size.
// Answers outside the known buckets fall back to the name heuristic.
type AIClassifier struct {
	client *ai.Client
}

// NewAIClassifier returns nil when no AI client is configured, which the
// scorer treats as heuristic-only mode.
func NewAIClassifier(client *ai.Client) *AIClassifier {
	if client == nil {
		return nil
	}
	return &AIClassifier{client: client}
}

func (c *AIClassifier) Classify(ctx context.Context, company, website string) (float64, error) {
	prompt := fmt.Sprintf(
		"Classify the company %q as one of: large, medium, small, startup. Answer with a single word.",
		company,
	)
	if website = strings.TrimSpace(website); website != "" {
		prompt += fmt.Sprintf("\nWebsite: %s", website)
	}
	answer, err := c.client.Classify(ctx, "You are a business analyst.", prompt)
	if err != nil {
		return 0, fmt.Errorf("classify company size: %w", err)
	}

	answer = strings.ToLower(answer)
	switch {
	case strings.Contains(answer, "large"):
		return 90, nil
	case strings.Contains(answer, "medium"):
		return 70, nil
	case strings.Contains(answer, "small"):
		return 50, nil
	case strings.Contains(answer, "startup"):
		return 40, nil
	}
	return heuristicCompanySize(company), nil
}

// heuristicCompanySize infers size from legal-form and scale markers in the
// company name.
func heuristicCompanySize(company string) float64 {
	name := strings.ToLower(company)
	switch {
	case containsAny(name, "enterprise", "global", "international", "corporation"):
		return 90
	case containsAny(name, "inc", "llc", "ltd", "company"):
		return 70
	case containsAny(name, "startup", "ventures"):
		return 50
	default:
		return 40
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
