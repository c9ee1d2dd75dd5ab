package scoring

import (
	"context"
	"testing"
)

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{90, "A"},
		{85, "A"},
		{84.99, "B"},
		{70, "B"},
		{60, "C"},
		{55, "C"},
		{50, "C"},
		{45, "D"},
		{39.99, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		if got := Grade(tc.score); got != tc.want {
			t.Errorf("Grade(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestPriorityBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "High"},
		{70, "High"},
		{69.99, "Medium"},
		{40, "Medium"},
		{39.99, "Low"},
	}
	for _, tc := range cases {
		if got := Priority(tc.score); got != tc.want {
			t.Errorf("Priority(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestConversionProbabilityMidpoint(t *testing.T) {
	if got := ConversionProbability(50); got != 50.0 {
		t.Errorf("ConversionProbability(50) = %v, want 50.0", got)
	}
}

func TestConversionProbabilityMonotonic(t *testing.T) {
	prev := -1.0
	for score := 0.0; score <= 100; score += 5 {
		got := ConversionProbability(score)
		if got < prev {
			t.Fatalf("probability not monotonic at %v: %v < %v", score, got, prev)
		}
		if got < 0 || got > 100 {
			t.Fatalf("probability %v outside [0, 100]", got)
		}
		prev = got
	}
}

func TestInsightsBudgetAndIndustryBranches(t *testing.T) {
	s := newTestScorer(nil)

	rich := s.Insights(context.Background(), Lead{
		Name: "CEO Example", Company: "Contoso Global", Industry: "technology",
		Status: "hot", Budget: 50000,
	}, nil)
	if !containsString(rich.Strengths, "High budget availability") {
		t.Errorf("missing budget strength: %v", rich.Strengths)
	}
	if !containsString(rich.Strengths, "High-converting industry: technology") {
		t.Errorf("missing industry strength: %v", rich.Strengths)
	}
	if rich.Score <= 70 {
		t.Fatalf("expected high score, got %v", rich.Score)
	}
	if !containsString(rich.Recommendations, "Schedule immediate follow-up") {
		t.Errorf("missing high-score recommendation: %v", rich.Recommendations)
	}

	poor := s.Insights(context.Background(), Lead{
		Name: "Sam", Industry: "retail", Status: "cold", Budget: 500,
		Notes: "not interested right now",
	}, nil)
	if !containsString(poor.Weaknesses, "Limited budget") {
		t.Errorf("missing budget weakness: %v", poor.Weaknesses)
	}
	if !containsString(poor.Recommendations, "Focus on ROI demonstration") {
		t.Errorf("missing ROI recommendation: %v", poor.Recommendations)
	}
	if poor.Score > 40 {
		t.Fatalf("expected low score, got %v", poor.Score)
	}
	if !containsString(poor.Recommendations, "Add to long-term nurture campaign") {
		t.Errorf("missing low-score recommendation: %v", poor.Recommendations)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
