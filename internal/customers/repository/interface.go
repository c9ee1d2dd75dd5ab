package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Customer is the canonical lead/customer record. LeadScore is derived
// and only written through UpdateLeadScore.
type Customer struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Company   string    `db:"company"`
	Industry  string    `db:"industry"`
	Status    string    `db:"status"`
	Budget    float64   `db:"budget"`
	Website   string    `db:"website"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Notes     string    `db:"notes"`
	LeadScore float64   `db:"lead_score"`
	CreatedAt string    `db:"created_at"`
	UpdatedAt string    `db:"updated_at"`
}

// Interaction is one recorded engagement with a customer.
type Interaction struct {
	ID         uuid.UUID `db:"id"`
	CustomerID uuid.UUID `db:"customer_id"`
	Type       string    `db:"interaction_type"`
	Notes      string    `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
}

// Opportunity is a revenue deal attached to a customer.
type Opportunity struct {
	ID         uuid.UUID  `db:"id"`
	CustomerID uuid.UUID  `db:"customer_id"`
	Title      string     `db:"title"`
	Value      float64    `db:"value"`
	Stage      string     `db:"stage"`
	ClosedAt   *time.Time `db:"closed_at"`
	CreatedAt  string     `db:"created_at"`
}

// CreateParams contains parameters for creating a customer.
type CreateParams struct {
	Name     string
	Company  string
	Industry string
	Status   string
	Budget   float64
	Website  string
	Email    string
	Phone    string
	Notes    string
}

// UpdateParams contains parameters for updating a customer. Nil fields
// are left unchanged.
type UpdateParams struct {
	ID       uuid.UUID
	Name     *string
	Company  *string
	Industry *string
	Status   *string
	Budget   *float64
	Website  *string
	Email    *string
	Phone    *string
	Notes    *string
}

// ListFilters narrows customer listings.
type ListFilters struct {
	Status   string
	Industry string
	Search   string
	Limit    int
	Offset   int
}

// CreateOpportunityParams contains parameters for creating an opportunity.
type CreateOpportunityParams struct {
	CustomerID uuid.UUID
	Title      string
	Value      float64
	Stage      string
}

// CustomerReader provides read operations for customers.
type CustomerReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Customer, error)
	List(ctx context.Context, filters ListFilters) ([]Customer, error)
	ListInteractions(ctx context.Context, customerID uuid.UUID) ([]Interaction, error)
	RecentInteractions(ctx context.Context, limit int) ([]Interaction, error)
}

// CustomerWriter provides write operations for customers.
type CustomerWriter interface {
	Create(ctx context.Context, params CreateParams) (Customer, error)
	Update(ctx context.Context, params UpdateParams) (Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLeadScore(ctx context.Context, id uuid.UUID, score float64) error
	AddInteraction(ctx context.Context, customerID uuid.UUID, interactionType, notes string) (Interaction, error)
}

// OpportunityStore provides operations for opportunities.
type OpportunityStore interface {
	CreateOpportunity(ctx context.Context, params CreateOpportunityParams) (Opportunity, error)
	ListOpportunities(ctx context.Context, customerID uuid.UUID) ([]Opportunity, error)
	UpdateOpportunityStage(ctx context.Context, id uuid.UUID, stage string, closedAt *time.Time) (Opportunity, error)
}

// Repository combines all customer persistence operations.
type Repository interface {
	CustomerReader
	CustomerWriter
	OpportunityStore
}
