package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/workflow/repository"
)

// Reminder is a pending task that is overdue or due soon.
type Reminder struct {
	TaskID     uuid.UUID  `json:"task_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Title      string     `json:"title"`
	Priority   string     `json:"priority"`
	Type       string     `json:"type"`
	DueDate    string     `json:"due_date"`
	IsOverdue  bool       `json:"is_overdue"`
	DueInDays  int        `json:"due_in_days"`
}

// Report is a periodic performance summary with derived guidance.
type Report struct {
	Period          string        `json:"period"`
	GeneratedAt     string        `json:"generated_at"`
	Metrics         ReportMetrics `json:"metrics"`
	Insights        []string      `json:"insights"`
	Recommendations []string      `json:"recommendations"`
}

// ReportMetrics is the metrics block of a performance report.
type ReportMetrics struct {
	NewCustomers      int                       `json:"new_customers"`
	TotalInteractions int                       `json:"total_interactions"`
	ConversionRate    float64                   `json:"conversion_rate"`
	Revenue           float64                   `json:"revenue"`
	ActiveLeads       int                       `json:"active_leads"`
	TopPerformers     []repository.TopPerformer `json:"top_performers"`
}

// reportWindow maps a report period name to its lookback duration.
// Unrecognized periods fall back to a quarter.
func reportWindow(period string) time.Duration {
	switch period {
	case "daily":
		return 24 * time.Hour
	case "weekly":
		return 7 * 24 * time.Hour
	case "monthly":
		return 30 * 24 * time.Hour
	default:
		return 90 * 24 * time.Hour
	}
}

// Reminders returns pending tasks that are overdue or due within the
// next week, soonest first.
func (s *Service) Reminders(ctx context.Context) ([]Reminder, error) {
	tasks, err := s.repo.PendingTasks(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reminders := make([]Reminder, 0, len(tasks))
	for _, task := range tasks {
		due := task.DueDate.UTC()
		dueInDays := int(due.Sub(now).Hours() / 24)
		overdue := due.Before(now)
		if !overdue && dueInDays > reminderWindowDays {
			continue
		}
		reminders = append(reminders, Reminder{
			TaskID:     task.ID,
			CustomerID: task.CustomerID,
			Title:      task.Title,
			Priority:   task.Priority,
			Type:       task.Type,
			DueDate:    due.Format(time.RFC3339),
			IsOverdue:  overdue,
			DueInDays:  dueInDays,
		})
	}
	return reminders, nil
}

// GenerateReport builds a performance report for the given period.
func (s *Service) GenerateReport(ctx context.Context, period string) (Report, error) {
	now := s.now().UTC()
	metrics, err := s.repo.ReportMetrics(ctx, now.Add(-reportWindow(period)))
	if err != nil {
		return Report{}, err
	}

	reportMetrics := ReportMetrics{
		NewCustomers:      metrics.NewCustomers,
		TotalInteractions: metrics.TotalInteractions,
		ConversionRate:    metrics.ConversionRate,
		Revenue:           metrics.Revenue,
		ActiveLeads:       metrics.ActiveLeads,
		TopPerformers:     metrics.TopPerformers,
	}

	return Report{
		Period:          period,
		GeneratedAt:     now.Format(time.RFC3339),
		Metrics:         reportMetrics,
		Insights:        reportInsights(reportMetrics),
		Recommendations: reportRecommendations(reportMetrics),
	}, nil
}

func reportInsights(metrics ReportMetrics) []string {
	var insights []string
	if metrics.ConversionRate > 20 {
		insights = append(insights, "Excellent conversion rate above 20%")
	}
	if metrics.ConversionRate < 10 {
		insights = append(insights, "Conversion rate below target - focus on lead quality")
	}
	if metrics.ActiveLeads > 50 {
		insights = append(insights, "High number of active leads - ensure adequate follow-up")
	}
	if metrics.Revenue > 100000 {
		insights = append(insights, "Strong revenue performance this period")
	}
	if len(insights) == 0 {
		insights = append(insights, "Performance metrics within normal range")
	}
	return insights
}

func reportRecommendations(metrics ReportMetrics) []string {
	var recommendations []string
	if metrics.ConversionRate < 15 {
		recommendations = append(recommendations, "Implement lead scoring to improve qualification")
	}
	if metrics.ActiveLeads > 100 {
		recommendations = append(recommendations, "Consider increasing sales team capacity")
	}
	if metrics.NewCustomers < 10 {
		recommendations = append(recommendations, "Increase marketing efforts to generate more leads")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Maintain current strategies")
	}
	return recommendations
}
