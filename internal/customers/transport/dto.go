package transport

import (
	"time"

	"github.com/google/uuid"

	"crm_backend/internal/customers/repository"
	"crm_backend/internal/scoring"
)

// CreateCustomerRequest contains data for creating a new customer.
// Budget accepts numbers or strings; unparsable values become 0.
type CreateCustomerRequest struct {
	Name     string      `json:"name" validate:"required,min=1,max=200"`
	Company  string      `json:"company" validate:"omitempty,max=200"`
	Industry string      `json:"industry" validate:"omitempty,max=100"`
	Status   string      `json:"status" validate:"omitempty,oneof=lead qualified interested hot cold customer"`
	Budget   interface{} `json:"budget"`
	Website  string      `json:"website" validate:"omitempty,url,max=500"`
	Email    string      `json:"email" validate:"omitempty,email,max=320"`
	Phone    string      `json:"phone" validate:"omitempty,max=32"`
	Notes    string      `json:"notes" validate:"omitempty,max=5000"`
}

// UpdateCustomerRequest contains data for updating an existing customer.
type UpdateCustomerRequest struct {
	Name     *string     `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Company  *string     `json:"company,omitempty" validate:"omitempty,max=200"`
	Industry *string     `json:"industry,omitempty" validate:"omitempty,max=100"`
	Status   *string     `json:"status,omitempty" validate:"omitempty,oneof=lead qualified interested hot cold customer"`
	Budget   interface{} `json:"budget,omitempty"`
	Website  *string     `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Email    *string     `json:"email,omitempty" validate:"omitempty,email,max=320"`
	Phone    *string     `json:"phone,omitempty" validate:"omitempty,max=32"`
	Notes    *string     `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// AddInteractionRequest records a new interaction.
type AddInteractionRequest struct {
	Type  string `json:"type" validate:"required,max=50"`
	Notes string `json:"notes" validate:"omitempty,max=5000"`
}

// CreateOpportunityRequest records a new deal.
type CreateOpportunityRequest struct {
	Title string  `json:"title" validate:"required,min=1,max=200"`
	Value float64 `json:"value" validate:"min=0"`
	Stage string  `json:"stage" validate:"omitempty,oneof=open qualified won lost"`
}

// UpdateOpportunityStageRequest moves a deal through the pipeline.
type UpdateOpportunityStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=open qualified won lost"`
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	Status    string    `json:"status"`
	Budget    float64   `json:"budget"`
	Website   string    `json:"website,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	LeadScore float64   `json:"leadScore"`
	Grade     string    `json:"grade"`
	Priority  string    `json:"priority"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// CustomerListResponse wraps a list of customers.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Total int                `json:"total"`
}

// InteractionResponse represents an interaction in API responses.
type InteractionResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Type       string    `json:"type"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  string    `json:"createdAt"`
}

// OpportunityResponse represents a deal in API responses.
type OpportunityResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Title      string    `json:"title"`
	Value      float64   `json:"value"`
	Stage      string    `json:"stage"`
	ClosedAt   *string   `json:"closedAt,omitempty"`
	CreatedAt  string    `json:"createdAt"`
}

// ToCustomerResponse maps a repository customer to its API shape,
// deriving grade and priority from the stored score.
func ToCustomerResponse(c repository.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Company:   c.Company,
		Industry:  c.Industry,
		Status:    c.Status,
		Budget:    c.Budget,
		Website:   c.Website,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		LeadScore: c.LeadScore,
		Grade:     scoring.Grade(c.LeadScore),
		Priority:  scoring.Priority(c.LeadScore),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCustomerListResponse maps a customer slice to the list shape.
func ToCustomerListResponse(customers []repository.Customer) CustomerListResponse {
	items := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		items[i] = ToCustomerResponse(c)
	}
	return CustomerListResponse{Items: items, Total: len(items)}
}

// ToInteractionResponse maps a repository interaction to its API shape.
func ToInteractionResponse(i repository.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:         i.ID,
		CustomerID: i.CustomerID,
		Type:       i.Type,
		Notes:      i.Notes,
		CreatedAt:  i.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToOpportunityResponse maps a repository opportunity to its API shape.
func ToOpportunityResponse(o repository.Opportunity) OpportunityResponse {
	resp := OpportunityResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Title:      o.Title,
		Value:      o.Value,
		Stage:      o.Stage,
		CreatedAt:  o.CreatedAt,
	}
	if o.ClosedAt != nil {
		closed := o.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}
