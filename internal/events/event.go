// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Customer Domain Events
// =============================================================================

// CustomerCreated is published when a new customer record is created.
type CustomerCreated struct {
	BaseEvent
	CustomerID uuid.UUID `json:"customerId"`
	Name       string    `json:"name"`
	Company    string    `json:"company"`
	Email      string    `json:"email"`
	LeadScore  float64   `json:"leadScore"`
}

func (e CustomerCreated) EventName() string { return "customers.created" }

// CustomerUpdated is published when a customer record is updated.
type CustomerUpdated struct {
	BaseEvent
	CustomerID uuid.UUID `json:"customerId"`
	LeadScore  float64   `json:"leadScore"`
}

func (e CustomerUpdated) EventName() string { return "customers.updated" }

// InteractionLogged is published when an interaction is recorded for a customer.
type InteractionLogged struct {
	BaseEvent
	CustomerID      uuid.UUID `json:"customerId"`
	InteractionType string    `json:"interactionType"`
}

func (e InteractionLogged) EventName() string { return "customers.interaction.logged" }

// LeadScoreUpdated is published whenever a customer's lead score is recomputed.
type LeadScoreUpdated struct {
	BaseEvent
	CustomerID uuid.UUID `json:"customerId"`
	OldScore   float64   `json:"oldScore"`
	NewScore   float64   `json:"newScore"`
}

func (e LeadScoreUpdated) EventName() string { return "scoring.lead_score.updated" }

// HighValueLeadDetected is published when a recomputed lead score crosses
// the high-priority threshold.
type HighValueLeadDetected struct {
	BaseEvent
	CustomerID uuid.UUID `json:"customerId"`
	Name       string    `json:"name"`
	Score      float64   `json:"score"`
}

func (e HighValueLeadDetected) EventName() string { return "scoring.high_value_lead.detected" }

// =============================================================================
// Workflow Domain Events
// =============================================================================

// FollowUpDue is published when a scheduled follow-up task reaches its due date.
type FollowUpDue struct {
	BaseEvent
	TaskID     uuid.UUID `json:"taskId"`
	CustomerID uuid.UUID `json:"customerId"`
	Priority   string    `json:"priority"`
}

func (e FollowUpDue) EventName() string { return "workflow.follow_up.due" }

// WorkflowCompleted is published when a workflow finishes executing its steps.
type WorkflowCompleted struct {
	BaseEvent
	WorkflowID   uuid.UUID `json:"workflowId"`
	WorkflowType string    `json:"workflowType"`
	CustomerID   uuid.UUID `json:"customerId"`
	Steps        []string  `json:"steps"`
}

func (e WorkflowCompleted) EventName() string { return "workflow.completed" }
