// Package service implements customer business logic. Every mutation of a
// customer or its interaction history recomputes the lead score before the
// call returns.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/customers/repository"
	"crm_backend/internal/events"
	"crm_backend/internal/scoring"
	"crm_backend/platform/logger"
)

// Service coordinates customer persistence, scoring, and domain events.
type Service struct {
	repo   repository.Repository
	scorer *scoring.Scorer
	bus    events.Bus
	log    *logger.Logger
}

// New creates the customers service.
func New(repo repository.Repository, scorer *scoring.Scorer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, scorer: scorer, bus: bus, log: log}
}

// Create inserts a customer, scores it, and publishes creation events.
func (s *Service) Create(ctx context.Context, params repository.CreateParams) (repository.Customer, error) {
	if params.Status == "" {
		params.Status = "lead"
	}

	customer, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.Customer{}, err
	}

	customer, err = s.rescore(ctx, customer, nil)
	if err != nil {
		return repository.Customer{}, err
	}

	s.publish(ctx, events.CustomerCreated{
		BaseEvent:  events.NewBaseEvent(),
		CustomerID: customer.ID,
		Name:       customer.Name,
		Company:    customer.Company,
		Email:      customer.Email,
		LeadScore:  customer.LeadScore,
	})
	return customer, nil
}

// Get retrieves a single customer.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves customers matching the filters.
func (s *Service) List(ctx context.Context, filters repository.ListFilters) ([]repository.Customer, error) {
	return s.repo.List(ctx, filters)
}

// Update applies changes and rescores against the new attribute values.
func (s *Service) Update(ctx context.Context, params repository.UpdateParams) (repository.Customer, error) {
	customer, err := s.repo.Update(ctx, params)
	if err != nil {
		return repository.Customer{}, err
	}

	interactions, err := s.repo.ListInteractions(ctx, customer.ID)
	if err != nil {
		return repository.Customer{}, err
	}

	customer, err = s.rescore(ctx, customer, interactions)
	if err != nil {
		return repository.Customer{}, err
	}

	s.publish(ctx, events.CustomerUpdated{
		BaseEvent:  events.NewBaseEvent(),
		CustomerID: customer.ID,
		LeadScore:  customer.LeadScore,
	})
	return customer, nil
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// RecordInteraction logs an engagement and rescores the customer, since
// engagement recency and volume feed the score.
func (s *Service) RecordInteraction(ctx context.Context, customerID uuid.UUID, interactionType, notes string) (repository.Interaction, error) {
	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return repository.Interaction{}, err
	}

	interaction, err := s.repo.AddInteraction(ctx, customerID, interactionType, notes)
	if err != nil {
		return repository.Interaction{}, err
	}

	interactions, err := s.repo.ListInteractions(ctx, customerID)
	if err != nil {
		return repository.Interaction{}, err
	}
	if _, err := s.rescore(ctx, customer, interactions); err != nil {
		return repository.Interaction{}, err
	}

	s.publish(ctx, events.InteractionLogged{
		BaseEvent:       events.NewBaseEvent(),
		CustomerID:      customerID,
		InteractionType: interactionType,
	})
	return interaction, nil
}

// RecordChatInteraction satisfies the chatbot's interaction recorder.
func (s *Service) RecordChatInteraction(ctx context.Context, customerID uuid.UUID, message string) error {
	_, err := s.RecordInteraction(ctx, customerID, "chatbot", message)
	return err
}

// ListInteractions retrieves a customer's interaction history.
func (s *Service) ListInteractions(ctx context.Context, customerID uuid.UUID) ([]repository.Interaction, error) {
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListInteractions(ctx, customerID)
}

// Insights scores a customer and returns the explainable breakdown.
func (s *Service) Insights(ctx context.Context, customerID uuid.UUID) (scoring.Insights, error) {
	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return scoring.Insights{}, err
	}
	interactions, err := s.repo.ListInteractions(ctx, customerID)
	if err != nil {
		return scoring.Insights{}, err
	}
	return s.scorer.Insights(ctx, toLead(customer), toScoringInteractions(interactions)), nil
}

// BatchScore scores all customers matching the filters, best first.
func (s *Service) BatchScore(ctx context.Context, filters repository.ListFilters) ([]scoring.ScoredLead, error) {
	customers, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	leads := make([]scoring.Lead, len(customers))
	for i, customer := range customers {
		leads[i] = toLead(customer)
	}

	return s.scorer.BatchScore(ctx, leads, func(ctx context.Context, lead scoring.Lead) ([]scoring.Interaction, error) {
		id, err := uuid.Parse(lead.ID)
		if err != nil {
			return nil, nil
		}
		interactions, err := s.repo.ListInteractions(ctx, id)
		if err != nil {
			return nil, err
		}
		return toScoringInteractions(interactions), nil
	})
}

// CreateOpportunity records a deal for a customer.
func (s *Service) CreateOpportunity(ctx context.Context, params repository.CreateOpportunityParams) (repository.Opportunity, error) {
	if _, err := s.repo.GetByID(ctx, params.CustomerID); err != nil {
		return repository.Opportunity{}, err
	}
	if params.Stage == "" {
		params.Stage = "open"
	}
	return s.repo.CreateOpportunity(ctx, params)
}

// ListOpportunities retrieves a customer's deals.
func (s *Service) ListOpportunities(ctx context.Context, customerID uuid.UUID) ([]repository.Opportunity, error) {
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListOpportunities(ctx, customerID)
}

// UpdateOpportunityStage moves a deal; won and lost stages stamp the
// close time.
func (s *Service) UpdateOpportunityStage(ctx context.Context, id uuid.UUID, stage string, closedAt *time.Time) (repository.Opportunity, error) {
	return s.repo.UpdateOpportunityStage(ctx, id, stage, closedAt)
}

// rescore recomputes and persists the lead score, then publishes score
// events. The stored score is never stale relative to the data just
// written.
func (s *Service) rescore(ctx context.Context, customer repository.Customer, interactions []repository.Interaction) (repository.Customer, error) {
	oldScore := customer.LeadScore
	newScore := s.scorer.Calculate(ctx, toLead(customer), toScoringInteractions(interactions))

	if err := s.repo.UpdateLeadScore(ctx, customer.ID, newScore); err != nil {
		return repository.Customer{}, fmt.Errorf("persist lead score: %w", err)
	}
	customer.LeadScore = newScore

	s.publish(ctx, events.LeadScoreUpdated{
		BaseEvent:  events.NewBaseEvent(),
		CustomerID: customer.ID,
		OldScore:   oldScore,
		NewScore:   newScore,
	})
	if newScore > scoring.HighValueThreshold {
		s.publish(ctx, events.HighValueLeadDetected{
			BaseEvent:  events.NewBaseEvent(),
			CustomerID: customer.ID,
			Name:       customer.Name,
			Score:      newScore,
		})
	}
	return customer, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

func toLead(customer repository.Customer) scoring.Lead {
	return scoring.Lead{
		ID:       customer.ID.String(),
		Name:     customer.Name,
		Company:  customer.Company,
		Industry: customer.Industry,
		Status:   customer.Status,
		Budget:   customer.Budget,
		Website:  customer.Website,
		Email:    customer.Email,
		Phone:    customer.Phone,
		Notes:    customer.Notes,
	}
}

func toScoringInteractions(interactions []repository.Interaction) []scoring.Interaction {
	converted := make([]scoring.Interaction, len(interactions))
	for i, interaction := range interactions {
		converted[i] = scoring.Interaction{
			Type:      interaction.Type,
			Notes:     interaction.Notes,
			CreatedAt: interaction.CreatedAt,
		}
	}
	return converted
}
