// Package analytics assembles dashboards, notification feeds, and sales
// reports from customer and interaction data.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/forecast"
	"crm_backend/platform/logger"
)

const (
	topLeadLimit      = 5
	recentItemLimit   = 5
	notificationLimit = 10
	highValueScore    = 70
	highValueLimit    = 3
)

// Forecaster produces the condensed revenue projection shown on the
// dashboard.
type Forecaster interface {
	QuickForecast(ctx context.Context) (forecast.Quick, error)
}

// Dashboard is the aggregate payload behind the main dashboard view.
type Dashboard struct {
	Stats              DashboardStats       `json:"stats"`
	TopLeads           []LeadSummary        `json:"top_leads"`
	RecentInteractions []InteractionSummary `json:"recent_interactions"`
	Forecast           *forecast.Quick      `json:"forecast,omitempty"`
}

// Notification is one entry in the activity feed.
type Notification struct {
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	CustomerID uuid.UUID `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Service aggregates analytics data.
type Service struct {
	store      Store
	forecaster Forecaster
	log        *logger.Logger
}

// NewService creates an analytics service. The forecaster may be nil,
// in which case the dashboard omits the projection.
func NewService(store Store, forecaster Forecaster, log *logger.Logger) *Service {
	return &Service{store: store, forecaster: forecaster, log: log}
}

// Dashboard builds the dashboard payload. A forecast failure degrades
// to a dashboard without a projection instead of an error.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	stats, err := s.store.DashboardStats(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	topLeads, err := s.store.TopLeads(ctx, topLeadLimit, 0)
	if err != nil {
		return Dashboard{}, err
	}

	interactions, err := s.store.RecentInteractions(ctx, recentItemLimit)
	if err != nil {
		return Dashboard{}, err
	}

	dashboard := Dashboard{
		Stats:              stats,
		TopLeads:           topLeads,
		RecentInteractions: interactions,
	}

	if s.forecaster != nil {
		quick, err := s.forecaster.QuickForecast(ctx)
		if err != nil {
			s.log.AIFallback("dashboard forecast", err)
		} else {
			dashboard.Forecast = &quick
		}
	}
	return dashboard, nil
}

// Notifications builds the activity feed: new customers, high-value
// leads, and recent interactions, newest categories first, capped.
func (s *Service) Notifications(ctx context.Context) ([]Notification, error) {
	var feed []Notification

	customers, err := s.store.RecentCustomers(ctx, recentItemLimit)
	if err != nil {
		return nil, err
	}
	for _, customer := range customers {
		feed = append(feed, Notification{
			Type:       "new_customer",
			Message:    fmt.Sprintf("New customer: %s", customer.Name),
			CustomerID: customer.ID,
			Timestamp:  customer.CreatedAt,
		})
	}

	leads, err := s.store.TopLeads(ctx, highValueLimit, highValueScore)
	if err != nil {
		return nil, err
	}
	for _, lead := range leads {
		feed = append(feed, Notification{
			Type:       "high_value_lead",
			Message:    fmt.Sprintf("High-value lead: %s (score %.1f)", lead.Name, lead.LeadScore),
			CustomerID: lead.ID,
			Timestamp:  lead.CreatedAt,
		})
	}

	interactions, err := s.store.RecentInteractions(ctx, recentItemLimit)
	if err != nil {
		return nil, err
	}
	for _, interaction := range interactions {
		feed = append(feed, Notification{
			Type:       "interaction",
			Message:    fmt.Sprintf("New %s with %s", interaction.Type, interaction.CustomerName),
			CustomerID: interaction.CustomerID,
			Timestamp:  interaction.CreatedAt,
		})
	}

	if len(feed) > notificationLimit {
		feed = feed[:notificationLimit]
	}
	return feed, nil
}

// SalesReport retrieves the revenue and pipeline breakdown.
func (s *Service) SalesReport(ctx context.Context) (SalesReport, error) {
	return s.store.SalesReport(ctx)
}
