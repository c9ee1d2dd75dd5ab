package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/forecast"
	"crm_backend/platform/logger"
)

type fakeStore struct {
	stats        DashboardStats
	topLeads     []LeadSummary
	recent       []LeadSummary
	interactions []InteractionSummary
	report       SalesReport
	err          error
}

func (f *fakeStore) DashboardStats(context.Context) (DashboardStats, error) {
	return f.stats, f.err
}

func (f *fakeStore) TopLeads(_ context.Context, limit int, minScore float64) ([]LeadSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	var leads []LeadSummary
	for _, lead := range f.topLeads {
		if lead.LeadScore >= minScore && len(leads) < limit {
			leads = append(leads, lead)
		}
	}
	return leads, nil
}

func (f *fakeStore) RecentCustomers(_ context.Context, limit int) ([]LeadSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeStore) RecentInteractions(_ context.Context, limit int) ([]InteractionSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.interactions) > limit {
		return f.interactions[:limit], nil
	}
	return f.interactions, nil
}

func (f *fakeStore) SalesReport(context.Context) (SalesReport, error) {
	return f.report, f.err
}

type stubForecaster struct {
	quick forecast.Quick
	err   error
}

func (s *stubForecaster) QuickForecast(context.Context) (forecast.Quick, error) {
	return s.quick, s.err
}

func lead(name string, score float64) LeadSummary {
	return LeadSummary{
		ID:        uuid.New(),
		Name:      name,
		Status:    "lead",
		LeadScore: score,
		CreatedAt: time.Now(),
	}
}

func TestDashboardIncludesForecast(t *testing.T) {
	store := &fakeStore{
		stats:    DashboardStats{TotalCustomers: 12, ActiveLeads: 8, ConversionRate: 25.0, MonthlyRevenue: 84000},
		topLeads: []LeadSummary{lead("Ada King", 91), lead("Ben Ode", 74)},
		interactions: []InteractionSummary{
			{ID: uuid.New(), CustomerID: uuid.New(), CustomerName: "Ada King", Type: "demo_request", CreatedAt: time.Now()},
		},
	}
	forecaster := &stubForecaster{quick: forecast.Quick{NextMonth: 52000, Quarter: 160000, Year: 640000, Trend: "moderate_growth", Confidence: 0.95}}

	svc := NewService(store, forecaster, logger.New("test"))
	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dashboard.Stats.TotalCustomers != 12 {
		t.Errorf("TotalCustomers = %d", dashboard.Stats.TotalCustomers)
	}
	if len(dashboard.TopLeads) != 2 || dashboard.TopLeads[0].Name != "Ada King" {
		t.Errorf("TopLeads = %+v", dashboard.TopLeads)
	}
	if dashboard.Forecast == nil || dashboard.Forecast.Trend != "moderate_growth" {
		t.Errorf("Forecast = %+v", dashboard.Forecast)
	}
}

func TestDashboardSurvivesForecastFailure(t *testing.T) {
	store := &fakeStore{stats: DashboardStats{TotalCustomers: 3}}
	forecaster := &stubForecaster{err: errors.New("history unavailable")}

	svc := NewService(store, forecaster, logger.New("test"))
	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dashboard.Forecast != nil {
		t.Errorf("Forecast = %+v, want nil", dashboard.Forecast)
	}
}

func TestDashboardWithoutForecaster(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, logger.New("test"))
	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dashboard.Forecast != nil {
		t.Errorf("Forecast = %+v, want nil", dashboard.Forecast)
	}
}

func TestNotificationsFeed(t *testing.T) {
	store := &fakeStore{
		recent:   []LeadSummary{lead("New One", 20), lead("New Two", 30)},
		topLeads: []LeadSummary{lead("Hot Lead", 88), lead("Warm Lead", 65)},
		interactions: []InteractionSummary{
			{ID: uuid.New(), CustomerID: uuid.New(), CustomerName: "New One", Type: "meeting", CreatedAt: time.Now()},
		},
	}

	svc := NewService(store, nil, logger.New("test"))
	feed, err := svc.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications() error = %v", err)
	}

	// Two new customers, one lead above 70, one interaction.
	if len(feed) != 4 {
		t.Fatalf("got %d notifications, want 4", len(feed))
	}
	if feed[0].Type != "new_customer" || !strings.Contains(feed[0].Message, "New One") {
		t.Errorf("first notification = %+v", feed[0])
	}
	var highValue int
	for _, item := range feed {
		if item.Type == "high_value_lead" {
			highValue++
			if !strings.Contains(item.Message, "Hot Lead") {
				t.Errorf("high value notification = %+v", item)
			}
		}
	}
	if highValue != 1 {
		t.Errorf("high value notifications = %d, want 1", highValue)
	}
}

func TestNotificationsCapped(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 8; i++ {
		store.recent = append(store.recent, lead("Customer", 10))
		store.topLeads = append(store.topLeads, lead("Lead", 95))
		store.interactions = append(store.interactions, InteractionSummary{
			ID: uuid.New(), CustomerID: uuid.New(), CustomerName: "Customer", Type: "email_open", CreatedAt: time.Now(),
		})
	}

	svc := NewService(store, nil, logger.New("test"))
	feed, err := svc.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications() error = %v", err)
	}
	if len(feed) != 10 {
		t.Errorf("got %d notifications, want cap of 10", len(feed))
	}
}

func TestSalesReportPassthrough(t *testing.T) {
	want := SalesReport{
		TotalRevenue:      120000,
		PipelineValue:     45000,
		CustomersByStatus: map[string]int{"lead": 4, "customer": 2},
		RevenueByIndustry: map[string]float64{"technology": 90000, "finance": 30000},
	}
	svc := NewService(&fakeStore{report: want}, nil, logger.New("test"))

	report, err := svc.SalesReport(context.Background())
	if err != nil {
		t.Fatalf("SalesReport() error = %v", err)
	}
	if report.TotalRevenue != want.TotalRevenue || report.CustomersByStatus["lead"] != 4 {
		t.Errorf("SalesReport() = %+v", report)
	}
}
