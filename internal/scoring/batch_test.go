package scoring

import (
	"context"
	"errors"
	"testing"
)

func TestBatchScoreSortedDescending(t *testing.T) {
	s := newTestScorer(nil)
	leads := []Lead{
		{Name: "Sam", Status: "cold", Budget: 0},
		{Name: "CEO Example", Company: "Contoso Global", Industry: "technology", Status: "hot", Budget: 120000},
		{Name: "Alex", Company: "Acme Inc", Industry: "finance", Status: "qualified", Budget: 30000},
	}

	results, err := s.BatchScore(context.Background(), leads, nil)
	if err != nil {
		t.Fatalf("BatchScore: %v", err)
	}
	if len(results) != len(leads) {
		t.Fatalf("got %d results, want %d", len(results), len(leads))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not sorted descending: %v > %v at %d",
				results[i].Score, results[i-1].Score, i)
		}
	}
	if results[0].Lead.Name != "CEO Example" {
		t.Errorf("top lead = %q, want CEO Example", results[0].Lead.Name)
	}
	if results[0].Grade != Grade(results[0].Score) || results[0].Priority != Priority(results[0].Score) {
		t.Errorf("derived fields inconsistent with score %v", results[0].Score)
	}
}

func TestBatchScoreStableForTies(t *testing.T) {
	s := newTestScorer(nil)
	// Identical leads except the name, which carries no scoring signal here.
	leads := []Lead{
		{Name: "Aster", Status: "lead", Budget: 5000},
		{Name: "Birch", Status: "lead", Budget: 5000},
		{Name: "Cedar", Status: "lead", Budget: 5000},
	}

	results, err := s.BatchScore(context.Background(), leads, nil)
	if err != nil {
		t.Fatalf("BatchScore: %v", err)
	}
	order := []string{results[0].Lead.Name, results[1].Lead.Name, results[2].Lead.Name}
	want := []string{"Aster", "Birch", "Cedar"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("tie order %v, want %v", order, want)
		}
	}
}

func TestBatchScoreFetchErrorAborts(t *testing.T) {
	s := newTestScorer(nil)
	fetchErr := errors.New("history unavailable")
	_, err := s.BatchScore(context.Background(), []Lead{{Name: "Sam"}},
		func(ctx context.Context, lead Lead) ([]Interaction, error) {
			return nil, fetchErr
		})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want %v", err, fetchErr)
	}
}
