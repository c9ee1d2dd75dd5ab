package insights

import (
	"strings"
	"testing"
)

func TestExtractPotential(t *testing.T) {
	text := "Overview of the account.\nThis customer has strong potential for expansion.\nBudget is confirmed."
	got := extractPotential(text)
	if got != "This customer has strong potential for expansion." {
		t.Errorf("extractPotential() = %q", got)
	}

	if got := extractPotential("nothing useful here"); got != "Moderate potential identified" {
		t.Errorf("extractPotential() fallback = %q", got)
	}
}

func TestExtractActions(t *testing.T) {
	text := strings.Join([]string{
		"1. We recommend a discovery call.",
		"2. You should send the pricing sheet.",
		"3. Next, book a demo.",
		"4. Another recommended step that must be dropped.",
	}, "\n")

	actions := extractActions(text)
	if len(actions) != 3 {
		t.Fatalf("got %d actions, want 3", len(actions))
	}
	if actions[0] != "1. We recommend a discovery call." {
		t.Errorf("actions[0] = %q", actions[0])
	}
}

func TestExtractActionsFallback(t *testing.T) {
	actions := extractActions("no matching content")
	want := []string{"Schedule follow-up", "Send product information", "Assess needs"}
	if len(actions) != len(want) {
		t.Fatalf("got %d actions, want %d", len(actions), len(want))
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("actions[%d] = %q, want %q", i, actions[i], want[i])
		}
	}
}

func TestExtractRecommendationsLimit(t *testing.T) {
	var lines []string
	for i := 0; i < 8; i++ {
		lines = append(lines, "Consider investing in lead nurturing.")
	}
	recommendations := extractRecommendations(strings.Join(lines, "\n"))
	if len(recommendations) != 5 {
		t.Errorf("got %d recommendations, want 5", len(recommendations))
	}
}

func TestExtractStrategiesFallback(t *testing.T) {
	strategies := extractStrategies("plain text")
	if len(strategies) != 3 || strategies[0] != "Increase engagement" {
		t.Errorf("strategies = %v", strategies)
	}
}

func TestExtractSentiment(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"The tone is clearly Positive and upbeat.", "positive"},
		{"Sentiment: negative, the customer is frustrated.", "negative"},
		{"Mixed feelings without a clear lean.", "neutral"},
	}
	for _, tt := range tests {
		if got := extractSentiment(tt.text); got != tt.want {
			t.Errorf("extractSentiment(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractRiskLevel(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"There is a high risk of churn here.", "high"},
		{"Risk appears moderate at this stage.", "medium"},
		{"Engagement is healthy.", "low"},
		{"High energy account, no concerns.", "low"},
	}
	for _, tt := range tests {
		if got := extractRiskLevel(tt.text); got != tt.want {
			t.Errorf("extractRiskLevel(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFallbackResponse(t *testing.T) {
	if got := fallbackResponse("provide actionable insights for this lead"); !strings.Contains(got, "moderate potential") {
		t.Errorf("insight fallback = %q", got)
	}
	if got := fallbackResponse("Create a professional email template"); !strings.HasPrefix(got, "Subject:") {
		t.Errorf("email fallback = %q", got)
	}
	if got := fallbackResponse("assess churn"); !strings.Contains(got, "Analysis in progress") {
		t.Errorf("default fallback = %q", got)
	}
}
