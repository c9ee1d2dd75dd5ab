package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task is a scheduled to-do, usually a follow-up against a customer.
type Task struct {
	ID          uuid.UUID  `db:"id"`
	CustomerID  *uuid.UUID `db:"customer_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	DueDate     time.Time  `db:"due_date"`
	Priority    string     `db:"priority"`
	Type        string     `db:"task_type"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
}

// Workflow is one executed automation run with its completed steps.
type Workflow struct {
	ID             uuid.UUID `db:"id"`
	Type           string    `db:"workflow_type"`
	CustomerID     uuid.UUID `db:"customer_id"`
	Status         string    `db:"status"`
	StepsCompleted []string  `db:"steps_completed"`
	CreatedAt      time.Time `db:"created_at"`
}

// CreateTaskParams contains parameters for scheduling a task.
type CreateTaskParams struct {
	CustomerID  *uuid.UUID
	Title       string
	Description string
	DueDate     time.Time
	Priority    string
	Type        string
}

// CustomerSnapshot is the slice of customer state the automation
// templates branch on.
type CustomerSnapshot struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Status           string
	LeadScore        float64
	InteractionCount int
	LastInteraction  *time.Time
}

// TopPerformer is a high-scoring lead listed in performance reports.
type TopPerformer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	LeadScore float64   `json:"lead_score"`
}

// ReportMetrics aggregates the raw numbers for a performance report.
type ReportMetrics struct {
	NewCustomers      int
	TotalInteractions int
	ConversionRate    float64
	Revenue           float64
	ActiveLeads       int
	TopPerformers     []TopPerformer
}

// TaskStore provides persistence for tasks.
type TaskStore interface {
	AddTask(ctx context.Context, params CreateTaskParams) (Task, error)
	PendingTasks(ctx context.Context) ([]Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status string) (Task, error)
	// ClaimDueTasks atomically marks due, unnotified pending tasks as
	// notified and returns them, so each due task is dispatched once.
	ClaimDueTasks(ctx context.Context, limit int) ([]Task, error)
}

// WorkflowStore provides persistence for workflow runs.
type WorkflowStore interface {
	CreateWorkflow(ctx context.Context, workflowType string, customerID uuid.UUID) (Workflow, error)
	FinishWorkflow(ctx context.Context, id uuid.UUID, steps []string) (Workflow, error)
	ListWorkflows(ctx context.Context, customerID uuid.UUID) ([]Workflow, error)
}

// CustomerReader exposes the customer state the templates and reports
// read.
type CustomerReader interface {
	CustomerSnapshot(ctx context.Context, id uuid.UUID) (CustomerSnapshot, error)
	ReportMetrics(ctx context.Context, since time.Time) (ReportMetrics, error)
}

// Repository combines all workflow persistence operations.
type Repository interface {
	TaskStore
	WorkflowStore
	CustomerReader
}
