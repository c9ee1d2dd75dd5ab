package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/events"
	"crm_backend/internal/workflow/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
)

type fakeRepo struct {
	mu        sync.Mutex
	tasks     map[uuid.UUID]repository.Task
	workflows map[uuid.UUID]repository.Workflow
	snapshots map[uuid.UUID]repository.CustomerSnapshot
	metrics   repository.ReportMetrics
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tasks:     make(map[uuid.UUID]repository.Task),
		workflows: make(map[uuid.UUID]repository.Workflow),
		snapshots: make(map[uuid.UUID]repository.CustomerSnapshot),
	}
}

func (f *fakeRepo) AddTask(_ context.Context, params repository.CreateTaskParams) (repository.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := repository.Task{
		ID:          uuid.New(),
		CustomerID:  params.CustomerID,
		Title:       params.Title,
		Description: params.Description,
		DueDate:     params.DueDate,
		Priority:    params.Priority,
		Type:        params.Type,
		Status:      "pending",
		CreatedAt:   time.Now(),
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeRepo) PendingTasks(_ context.Context) ([]repository.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []repository.Task
	for _, task := range f.tasks {
		if task.Status == "pending" {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (f *fakeRepo) ClaimDueTasks(_ context.Context, limit int) ([]repository.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []repository.Task
	for _, task := range f.tasks {
		if task.Status == "pending" && !task.DueDate.After(testNow) && len(tasks) < limit {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (f *fakeRepo) UpdateTaskStatus(_ context.Context, id uuid.UUID, status string) (repository.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return repository.Task{}, apperr.NotFound("task not found")
	}
	task.Status = status
	f.tasks[id] = task
	return task, nil
}

func (f *fakeRepo) CreateWorkflow(_ context.Context, workflowType string, customerID uuid.UUID) (repository.Workflow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	workflow := repository.Workflow{
		ID:         uuid.New(),
		Type:       workflowType,
		CustomerID: customerID,
		Status:     "running",
		CreatedAt:  time.Now(),
	}
	f.workflows[workflow.ID] = workflow
	return workflow, nil
}

func (f *fakeRepo) FinishWorkflow(_ context.Context, id uuid.UUID, steps []string) (repository.Workflow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	workflow, ok := f.workflows[id]
	if !ok {
		return repository.Workflow{}, apperr.NotFound("workflow not found")
	}
	workflow.Status = "completed"
	workflow.StepsCompleted = steps
	f.workflows[id] = workflow
	return workflow, nil
}

func (f *fakeRepo) ListWorkflows(_ context.Context, customerID uuid.UUID) ([]repository.Workflow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var workflows []repository.Workflow
	for _, workflow := range f.workflows {
		if workflow.CustomerID == customerID {
			workflows = append(workflows, workflow)
		}
	}
	return workflows, nil
}

func (f *fakeRepo) CustomerSnapshot(_ context.Context, id uuid.UUID) (repository.CustomerSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.snapshots[id]
	if !ok {
		return repository.CustomerSnapshot{}, apperr.NotFound("customer not found")
	}
	return snap, nil
}

func (f *fakeRepo) ReportMetrics(_ context.Context, _ time.Time) (repository.ReportMetrics, error) {
	return f.metrics, nil
}

func (f *fakeRepo) tasksOfType(taskType string) []repository.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []repository.Task
	for _, task := range f.tasks {
		if task.Type == taskType {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

type recordingScheduler struct {
	mu     sync.Mutex
	emails []EmailParams
	err    error
}

func (r *recordingScheduler) ScheduleEmail(_ context.Context, params EmailParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.emails = append(r.emails, params)
	return nil
}

func (r *recordingScheduler) sent() []EmailParams {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailParams(nil), r.emails...)
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingBus) Publish(_ context.Context, event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	r.Publish(ctx, event)
	return nil
}

func (r *recordingBus) Subscribe(string, events.Handler) {}

func (r *recordingBus) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, event := range r.events {
		names[i] = event.EventName()
	}
	return names
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeRepo, *recordingScheduler, *recordingBus) {
	t.Helper()
	campaign, err := LoadNurtureCampaign("")
	if err != nil {
		t.Fatalf("LoadNurtureCampaign() error = %v", err)
	}
	repo := newFakeRepo()
	mail := &recordingScheduler{}
	bus := &recordingBus{}
	svc := New(repo, mail, bus, campaign, logger.New("test"))
	svc.now = func() time.Time { return testNow }
	return svc, repo, mail, bus
}

func seedCustomer(repo *fakeRepo, lastInteraction *time.Time) uuid.UUID {
	id := uuid.New()
	count := 0
	if lastInteraction != nil {
		count = 3
	}
	repo.snapshots[id] = repository.CustomerSnapshot{
		ID:               id,
		Name:             "Dana Reeve",
		Email:            "dana@example.test",
		Status:           "lead",
		LeadScore:        62,
		InteractionCount: count,
		LastInteraction:  lastInteraction,
	}
	return id
}

func daysAgo(days int) *time.Time {
	at := testNow.AddDate(0, 0, -days)
	return &at
}

func TestScheduleFollowUpPriorityDays(t *testing.T) {
	tests := []struct {
		priority string
		wantDays int
	}{
		{"high", 1},
		{"medium", 3},
		{"low", 7},
		{"urgent", 3},
	}
	for _, tt := range tests {
		t.Run(tt.priority, func(t *testing.T) {
			svc, _, _, _ := newTestService(t)
			task, err := svc.ScheduleFollowUp(context.Background(), uuid.New(), tt.priority, nil)
			if err != nil {
				t.Fatalf("ScheduleFollowUp() error = %v", err)
			}
			want := testNow.AddDate(0, 0, tt.wantDays)
			if !task.DueDate.Equal(want) {
				t.Errorf("DueDate = %v, want %v", task.DueDate, want)
			}
			if task.Title != "Follow up with customer (Priority: "+tt.priority+")" {
				t.Errorf("Title = %q", task.Title)
			}
			if task.Status != "pending" || task.Type != "follow-up" {
				t.Errorf("Status = %q, Type = %q", task.Status, task.Type)
			}
		})
	}
}

func TestScheduleFollowUpDaysAheadOverride(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	days := 10
	task, err := svc.ScheduleFollowUp(context.Background(), uuid.New(), "high", &days)
	if err != nil {
		t.Fatalf("ScheduleFollowUp() error = %v", err)
	}
	if want := testNow.AddDate(0, 0, 10); !task.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", task.DueDate, want)
	}
}

func TestRunWorkflowUnknownType(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	id := seedCustomer(repo, nil)

	_, err := svc.RunWorkflow(context.Background(), "cold_call", id)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("RunWorkflow() error = %v, want validation error", err)
	}
}

func TestRunWorkflowUnknownCustomer(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.RunWorkflow(context.Background(), WorkflowNewLead, uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("RunWorkflow() error = %v, want not found", err)
	}
}

func TestRunNewLeadWorkflow(t *testing.T) {
	svc, repo, mail, bus := newTestService(t)
	id := seedCustomer(repo, nil)

	workflow, err := svc.RunWorkflow(context.Background(), WorkflowNewLead, id)
	if err != nil {
		t.Fatalf("RunWorkflow() error = %v", err)
	}

	wantSteps := []string{"welcome_email", "initial_follow_up", "nurture_campaign", "team_notification"}
	assertSteps(t, workflow.StepsCompleted, wantSteps)
	if workflow.Status != "completed" {
		t.Errorf("Status = %q, want completed", workflow.Status)
	}

	// Welcome email plus the five-step drip series.
	emails := mail.sent()
	if len(emails) != 6 {
		t.Fatalf("scheduled %d emails, want 6", len(emails))
	}
	if emails[0].Subject != "Welcome! Thanks for your interest" || emails[0].Delay != 0 {
		t.Errorf("first email = %+v", emails[0])
	}

	tasks := repo.tasksOfType("follow-up")
	if len(tasks) != 1 || tasks[0].Priority != "high" {
		t.Fatalf("follow-up tasks = %+v, want one high-priority task", tasks)
	}

	if !containsString(bus.names(), "workflow.completed") {
		t.Errorf("events = %v, want workflow.completed", bus.names())
	}
}

func TestRunFollowUpWorkflow(t *testing.T) {
	tests := []struct {
		name         string
		last         *time.Time
		wantPriority string
		wantEmail    bool
	}{
		{"recent contact", daysAgo(3), "low", false},
		{"stale contact", daysAgo(10), "medium", true},
		{"very stale contact", daysAgo(20), "high", true},
		{"never contacted", nil, "high", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, mail, _ := newTestService(t)
			id := seedCustomer(repo, tt.last)

			workflow, err := svc.RunWorkflow(context.Background(), WorkflowFollowUp, id)
			if err != nil {
				t.Fatalf("RunWorkflow() error = %v", err)
			}

			if got := containsString(workflow.StepsCompleted, "re_engagement_email"); got != tt.wantEmail {
				t.Errorf("re_engagement_email recorded = %v, want %v", got, tt.wantEmail)
			}
			if !containsString(workflow.StepsCompleted, "next_follow_up_scheduled") {
				t.Errorf("steps = %v, want next_follow_up_scheduled", workflow.StepsCompleted)
			}

			tasks := repo.tasksOfType("follow-up")
			if len(tasks) != 1 || tasks[0].Priority != tt.wantPriority {
				t.Errorf("follow-up tasks = %+v, want priority %q", tasks, tt.wantPriority)
			}

			gotEmail := false
			for _, email := range mail.sent() {
				if email.Subject == "We miss you! Let's reconnect" {
					gotEmail = true
				}
			}
			if gotEmail != tt.wantEmail {
				t.Errorf("re-engagement email sent = %v, want %v", gotEmail, tt.wantEmail)
			}
		})
	}
}

func TestRunNurtureWorkflow(t *testing.T) {
	svc, repo, mail, _ := newTestService(t)
	id := seedCustomer(repo, daysAgo(1))

	workflow, err := svc.RunWorkflow(context.Background(), WorkflowNurture, id)
	if err != nil {
		t.Fatalf("RunWorkflow() error = %v", err)
	}
	assertSteps(t, workflow.StepsCompleted, []string{"nurture_series_scheduled"})

	emails := mail.sent()
	if len(emails) != 5 {
		t.Fatalf("scheduled %d emails, want 5", len(emails))
	}
	wantDays := []int{0, 3, 7, 14, 21}
	wantSubjects := []string{
		"Getting Started Guide",
		"Top 5 CRM Best Practices",
		"Customer Success Story",
		"Exclusive Offer Inside",
		"Schedule Your Demo",
	}
	for i, email := range emails {
		if email.Delay != time.Duration(wantDays[i])*24*time.Hour {
			t.Errorf("email %d delay = %v, want %d days", i, email.Delay, wantDays[i])
		}
		if email.Subject != wantSubjects[i] {
			t.Errorf("email %d subject = %q, want %q", i, email.Subject, wantSubjects[i])
		}
	}
}

func TestRunWinBackWorkflow(t *testing.T) {
	svc, repo, mail, _ := newTestService(t)
	id := seedCustomer(repo, daysAgo(60))

	workflow, err := svc.RunWorkflow(context.Background(), WorkflowWinBack, id)
	if err != nil {
		t.Fatalf("RunWorkflow() error = %v", err)
	}
	assertSteps(t, workflow.StepsCompleted, []string{"win_back_email", "special_offer_created", "personal_outreach_alert"})

	emails := mail.sent()
	if len(emails) != 1 || emails[0].Subject != "We want you back! Special offer inside" {
		t.Fatalf("emails = %+v", emails)
	}

	tasks := repo.tasksOfType("outreach")
	if len(tasks) != 1 || tasks[0].Priority != "high" {
		t.Fatalf("outreach tasks = %+v, want one high-priority task", tasks)
	}
}

func TestWorkflowContinuesWhenEmailFails(t *testing.T) {
	svc, repo, mail, _ := newTestService(t)
	mail.err = errors.New("queue unavailable")
	id := seedCustomer(repo, nil)

	workflow, err := svc.RunWorkflow(context.Background(), WorkflowNewLead, id)
	if err != nil {
		t.Fatalf("RunWorkflow() error = %v", err)
	}
	if !containsString(workflow.StepsCompleted, "welcome_email") {
		t.Errorf("steps = %v, want welcome_email recorded despite failure", workflow.StepsCompleted)
	}
}

func TestRemindersWindow(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	customerID := uuid.New()

	addTask := func(due time.Time, title string) {
		_, err := repo.AddTask(context.Background(), repository.CreateTaskParams{
			CustomerID: &customerID,
			Title:      title,
			DueDate:    due,
			Priority:   "medium",
			Type:       "follow-up",
		})
		if err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
	}

	addTask(testNow.AddDate(0, 0, -2), "overdue")
	addTask(testNow.AddDate(0, 0, 3), "due soon")
	addTask(testNow.AddDate(0, 0, 12), "far out")

	reminders, err := svc.Reminders(context.Background())
	if err != nil {
		t.Fatalf("Reminders() error = %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("got %d reminders, want 2", len(reminders))
	}

	for _, reminder := range reminders {
		switch reminder.Title {
		case "overdue":
			if !reminder.IsOverdue {
				t.Errorf("overdue task not flagged: %+v", reminder)
			}
		case "due soon":
			if reminder.IsOverdue || reminder.DueInDays != 3 {
				t.Errorf("due soon reminder = %+v", reminder)
			}
		default:
			t.Errorf("unexpected reminder %q", reminder.Title)
		}
	}
}

func TestGenerateReportInsights(t *testing.T) {
	tests := []struct {
		name    string
		metrics repository.ReportMetrics
		wantIns string
		wantRec string
	}{
		{
			name:    "strong performance",
			metrics: repository.ReportMetrics{NewCustomers: 20, ConversionRate: 25, Revenue: 150000, ActiveLeads: 30},
			wantIns: "Excellent conversion rate above 20%",
			wantRec: "Maintain current strategies",
		},
		{
			name:    "weak conversion",
			metrics: repository.ReportMetrics{NewCustomers: 20, ConversionRate: 5, ActiveLeads: 30},
			wantIns: "Conversion rate below target - focus on lead quality",
			wantRec: "Implement lead scoring to improve qualification",
		},
		{
			name:    "lead backlog",
			metrics: repository.ReportMetrics{NewCustomers: 20, ConversionRate: 15, ActiveLeads: 120},
			wantIns: "High number of active leads - ensure adequate follow-up",
			wantRec: "Consider increasing sales team capacity",
		},
		{
			name:    "slow pipeline",
			metrics: repository.ReportMetrics{NewCustomers: 4, ConversionRate: 16, ActiveLeads: 20},
			wantIns: "Performance metrics within normal range",
			wantRec: "Increase marketing efforts to generate more leads",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestService(t)
			repo.metrics = tt.metrics

			report, err := svc.GenerateReport(context.Background(), "weekly")
			if err != nil {
				t.Fatalf("GenerateReport() error = %v", err)
			}
			if report.Period != "weekly" {
				t.Errorf("Period = %q", report.Period)
			}
			if !containsString(report.Insights, tt.wantIns) {
				t.Errorf("Insights = %v, want %q", report.Insights, tt.wantIns)
			}
			if !containsString(report.Recommendations, tt.wantRec) {
				t.Errorf("Recommendations = %v, want %q", report.Recommendations, tt.wantRec)
			}
		})
	}
}

func TestReportWindow(t *testing.T) {
	tests := []struct {
		period string
		want   time.Duration
	}{
		{"daily", 24 * time.Hour},
		{"weekly", 7 * 24 * time.Hour},
		{"monthly", 30 * 24 * time.Hour},
		{"quarterly", 90 * 24 * time.Hour},
		{"", 90 * 24 * time.Hour},
	}
	for _, tt := range tests {
		if got := reportWindow(tt.period); got != tt.want {
			t.Errorf("reportWindow(%q) = %v, want %v", tt.period, got, tt.want)
		}
	}
}

func TestLoadNurtureCampaignDefault(t *testing.T) {
	campaign, err := LoadNurtureCampaign("")
	if err != nil {
		t.Fatalf("LoadNurtureCampaign() error = %v", err)
	}
	if len(campaign) != 5 {
		t.Fatalf("got %d emails, want 5", len(campaign))
	}
	if campaign[0].Day != 0 || campaign[4].Day != 21 {
		t.Errorf("campaign cadence = %+v", campaign)
	}
}

func TestLoadNurtureCampaignMissingFile(t *testing.T) {
	if _, err := LoadNurtureCampaign("/nonexistent/campaign.yaml"); err == nil {
		t.Fatal("LoadNurtureCampaign() expected error for missing file")
	}
}

func assertSteps(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("steps = %v, want %v", got, want)
		}
	}
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
