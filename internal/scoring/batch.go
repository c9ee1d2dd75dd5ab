package scoring

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ScoredLead pairs a lead with its computed score metadata.
type ScoredLead struct {
	Lead     Lead    `json:"lead"`
	Score    float64 `json:"score"`
	Grade    string  `json:"grade"`
	Priority string  `json:"priority"`
}

const batchConcurrency = 8

// BatchScore scores every lead concurrently and returns the results sorted
// by score descending. The sort is stable, so equal scores keep input order.
// Interactions are looked up per lead through fetch; a nil fetch scores
// every lead without engagement history.
func (s *Scorer) BatchScore(ctx context.Context, leads []Lead, fetch func(ctx context.Context, lead Lead) ([]Interaction, error)) ([]ScoredLead, error) {
	results := make([]ScoredLead, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, lead := range leads {
		g.Go(func() error {
			var interactions []Interaction
			if fetch != nil {
				var err error
				interactions, err = fetch(gctx, lead)
				if err != nil {
					return err
				}
			}
			score := s.Calculate(gctx, lead, interactions)
			results[i] = ScoredLead{
				Lead:     lead,
				Score:    score,
				Grade:    Grade(score),
				Priority: Priority(score),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}
