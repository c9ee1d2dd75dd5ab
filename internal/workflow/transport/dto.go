package transport

import (
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/workflow/repository"
)

// RunWorkflowRequest starts an automation template for a customer.
type RunWorkflowRequest struct {
	WorkflowType string    `json:"workflowType" validate:"required,oneof=new_lead follow_up nurture win_back"`
	CustomerID   uuid.UUID `json:"customerId" validate:"required"`
}

// ScheduleFollowUpRequest creates a follow-up task.
type ScheduleFollowUpRequest struct {
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
	Priority   string    `json:"priority" validate:"omitempty,oneof=high medium low"`
	DaysAhead  *int      `json:"daysAhead,omitempty" validate:"omitempty,min=1,max=365"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	CustomerID  *uuid.UUID `json:"customerId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"dueDate"`
	Priority    string     `json:"priority"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	CreatedAt   string     `json:"createdAt"`
}

// WorkflowResponse represents a workflow run in API responses.
type WorkflowResponse struct {
	ID             uuid.UUID `json:"id"`
	WorkflowType   string    `json:"workflowType"`
	CustomerID     uuid.UUID `json:"customerId"`
	Status         string    `json:"status"`
	StepsCompleted []string  `json:"stepsCompleted"`
	CreatedAt      string    `json:"createdAt"`
}

// ToTaskResponse maps a repository task to its API shape.
func ToTaskResponse(t repository.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		CustomerID:  t.CustomerID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.UTC().Format(time.RFC3339),
		Priority:    t.Priority,
		Type:        t.Type,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToWorkflowResponse maps a repository workflow run to its API shape.
func ToWorkflowResponse(w repository.Workflow) WorkflowResponse {
	steps := w.StepsCompleted
	if steps == nil {
		steps = []string{}
	}
	return WorkflowResponse{
		ID:             w.ID,
		WorkflowType:   w.Type,
		CustomerID:     w.CustomerID,
		Status:         w.Status,
		StepsCompleted: steps,
		CreatedAt:      w.CreatedAt.UTC().Format(time.RFC3339),
	}
}
