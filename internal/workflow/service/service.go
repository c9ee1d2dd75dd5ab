// Package service implements workflow automation: follow-up scheduling,
// templated workflow runs, reminders, and periodic performance reports.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/events"
	"crm_backend/internal/workflow/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
)

// Workflow types accepted by RunWorkflow.
const (
	WorkflowNewLead  = "new_lead"
	WorkflowFollowUp = "follow_up"
	WorkflowNurture  = "nurture"
	WorkflowWinBack  = "win_back"
)

// Email subjects used by the automation templates.
const (
	subjectWelcome          = "Welcome! Thanks for your interest"
	subjectReEngagement     = "We miss you! Let's reconnect"
	subjectWinBack          = "We want you back! Special offer inside"
	subjectTeamNotification = "New lead assigned"
)

const (
	taskTypeFollowUp = "follow-up"
	taskTypeOutreach = "outreach"

	followUpTitleFormat = "Follow up with customer (Priority: %s)"
	followUpDescription = "Scheduled follow-up based on lead score"

	// Customers with no interactions are treated as maximally stale.
	staleDaysNoInteractions = 999

	reminderWindowDays = 7
)

// followUpDays maps task priority to the scheduling lead time in days.
var followUpDays = map[string]int{
	"high":   1,
	"medium": 3,
	"low":    7,
}

const defaultFollowUpDays = 3

// EmailParams describes an email to queue for delivery after a delay.
type EmailParams struct {
	CustomerID   uuid.UUID
	CustomerName string
	To           string
	Subject      string
	Template     string
	Delay        time.Duration
}

// EmailScheduler queues campaign emails for delayed delivery.
type EmailScheduler interface {
	ScheduleEmail(ctx context.Context, params EmailParams) error
}

// Service coordinates tasks, workflow runs, and reports.
type Service struct {
	repo     repository.Repository
	mail     EmailScheduler
	bus      events.Bus
	campaign []NurtureEmail
	log      *logger.Logger
	now      func() time.Time
}

// New creates a workflow service.
func New(repo repository.Repository, mail EmailScheduler, bus events.Bus, campaign []NurtureEmail, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		mail:     mail,
		bus:      bus,
		campaign: campaign,
		log:      log,
		now:      time.Now,
	}
}

// ScheduleFollowUp creates a pending follow-up task for a customer. The
// due date is derived from the priority unless daysAhead overrides it.
func (s *Service) ScheduleFollowUp(ctx context.Context, customerID uuid.UUID, priority string, daysAhead *int) (repository.Task, error) {
	days, ok := followUpDays[priority]
	if !ok {
		days = defaultFollowUpDays
	}
	if daysAhead != nil && *daysAhead > 0 {
		days = *daysAhead
	}

	task, err := s.repo.AddTask(ctx, repository.CreateTaskParams{
		CustomerID:  &customerID,
		Title:       fmt.Sprintf(followUpTitleFormat, priority),
		Description: followUpDescription,
		DueDate:     s.now().UTC().AddDate(0, 0, days),
		Priority:    priority,
		Type:        taskTypeFollowUp,
	})
	if err != nil {
		return repository.Task{}, err
	}

	s.log.Info("follow-up scheduled",
		"customerId", customerID, "priority", priority, "dueDate", task.DueDate)
	return task, nil
}

// CompleteTask marks a task as completed.
func (s *Service) CompleteTask(ctx context.Context, id uuid.UUID) (repository.Task, error) {
	return s.repo.UpdateTaskStatus(ctx, id, "completed")
}

// RunWorkflow executes the named automation template against a customer
// and records the completed steps.
func (s *Service) RunWorkflow(ctx context.Context, workflowType string, customerID uuid.UUID) (repository.Workflow, error) {
	snapshot, err := s.repo.CustomerSnapshot(ctx, customerID)
	if err != nil {
		return repository.Workflow{}, err
	}

	var run func(context.Context, repository.CustomerSnapshot) ([]string, error)
	switch workflowType {
	case WorkflowNewLead:
		run = s.runNewLead
	case WorkflowFollowUp:
		run = s.runFollowUp
	case WorkflowNurture:
		run = s.runNurture
	case WorkflowWinBack:
		run = s.runWinBack
	default:
		return repository.Workflow{}, apperr.Validation(fmt.Sprintf("unknown workflow type: %s", workflowType))
	}

	workflow, err := s.repo.CreateWorkflow(ctx, workflowType, customerID)
	if err != nil {
		return repository.Workflow{}, err
	}

	steps, err := run(ctx, snapshot)
	if err != nil {
		return repository.Workflow{}, err
	}

	workflow, err = s.repo.FinishWorkflow(ctx, workflow.ID, steps)
	if err != nil {
		return repository.Workflow{}, err
	}

	s.bus.Publish(ctx, events.WorkflowCompleted{
		BaseEvent:    events.NewBaseEvent(),
		WorkflowID:   workflow.ID,
		WorkflowType: workflowType,
		CustomerID:   customerID,
		Steps:        steps,
	})
	return workflow, nil
}

// ListWorkflows retrieves a customer's workflow runs.
func (s *Service) ListWorkflows(ctx context.Context, customerID uuid.UUID) ([]repository.Workflow, error) {
	return s.repo.ListWorkflows(ctx, customerID)
}

func (s *Service) runNewLead(ctx context.Context, customer repository.CustomerSnapshot) ([]string, error) {
	var steps []string

	s.queueEmail(ctx, customer, subjectWelcome, "welcome", 0)
	steps = append(steps, "welcome_email")

	if _, err := s.ScheduleFollowUp(ctx, customer.ID, "high", nil); err != nil {
		return nil, err
	}
	steps = append(steps, "initial_follow_up")

	s.scheduleNurtureSeries(ctx, customer)
	steps = append(steps, "nurture_campaign")

	s.log.Info("team notified of new lead",
		"customerId", customer.ID, "name", customer.Name, "subject", subjectTeamNotification)
	steps = append(steps, "team_notification")

	return steps, nil
}

func (s *Service) runFollowUp(ctx context.Context, customer repository.CustomerSnapshot) ([]string, error) {
	var steps []string

	daysSince := staleDaysNoInteractions
	if customer.LastInteraction != nil {
		daysSince = int(s.now().UTC().Sub(customer.LastInteraction.UTC()).Hours() / 24)
	}

	if daysSince > 7 {
		s.queueEmail(ctx, customer, subjectReEngagement, "re_engagement", 0)
		steps = append(steps, "re_engagement_email")
	}

	priority := "low"
	switch {
	case daysSince > 14:
		priority = "high"
	case daysSince > 7:
		priority = "medium"
	}
	if _, err := s.ScheduleFollowUp(ctx, customer.ID, priority, nil); err != nil {
		return nil, err
	}
	steps = append(steps, "next_follow_up_scheduled")

	return steps, nil
}

func (s *Service) runNurture(ctx context.Context, customer repository.CustomerSnapshot) ([]string, error) {
	s.scheduleNurtureSeries(ctx, customer)
	return []string{"nurture_series_scheduled"}, nil
}

func (s *Service) runWinBack(ctx context.Context, customer repository.CustomerSnapshot) ([]string, error) {
	var steps []string

	s.queueEmail(ctx, customer, subjectWinBack, "win_back", 0)
	steps = append(steps, "win_back_email")

	s.log.Info("special offer created",
		"customerId", customer.ID, "discountPercent", 20, "validDays", 30)
	steps = append(steps, "special_offer_created")

	if _, err := s.repo.AddTask(ctx, repository.CreateTaskParams{
		CustomerID:  &customer.ID,
		Title:       "Personal outreach to lapsed customer",
		Description: "Win-back workflow requested direct contact",
		DueDate:     s.now().UTC().AddDate(0, 0, 1),
		Priority:    "high",
		Type:        taskTypeOutreach,
	}); err != nil {
		return nil, err
	}
	steps = append(steps, "personal_outreach_alert")

	return steps, nil
}

func (s *Service) scheduleNurtureSeries(ctx context.Context, customer repository.CustomerSnapshot) {
	for _, email := range s.campaign {
		s.queueEmail(ctx, customer, email.Subject, email.Template,
			time.Duration(email.Day)*24*time.Hour)
	}
}

// queueEmail hands an email to the scheduler. Delivery failures do not
// abort a workflow run; they are logged and the run continues.
func (s *Service) queueEmail(ctx context.Context, customer repository.CustomerSnapshot, subject, template string, delay time.Duration) {
	if s.mail == nil || customer.Email == "" {
		return
	}
	err := s.mail.ScheduleEmail(ctx, EmailParams{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		To:           customer.Email,
		Subject:      subject,
		Template:     template,
		Delay:        delay,
	})
	if err != nil {
		s.log.Error("schedule email failed",
			"customerId", customer.ID, "subject", subject, "error", err)
	}
}
