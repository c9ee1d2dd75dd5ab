package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_backend/platform/apperr"
)

const (
	customerNotFoundMessage    = "customer not found"
	opportunityNotFoundMessage = "opportunity not found"
)

const customerColumns = `id, name, company, industry, status, budget, website, email, phone, notes, lead_score, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&c.ID, &c.Name, &c.Company, &c.Industry, &c.Status, &c.Budget,
		&c.Website, &c.Email, &c.Phone, &c.Notes, &c.LeadScore,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return Customer{}, err
	}
	c.CreatedAt = createdAt.Format(time.RFC3339)
	c.UpdatedAt = updatedAt.Format(time.RFC3339)
	return c, nil
}

// Create inserts a customer with a zero lead score; the service computes
// the real score immediately after.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Customer, error) {
	query := `
		INSERT INTO customers (name, company, industry, status, budget, website, email, phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + customerColumns

	customer, err := scanCustomer(r.pool.QueryRow(ctx, query,
		params.Name, params.Company, params.Industry, params.Status,
		params.Budget, params.Website, params.Email, params.Phone, params.Notes,
	))
	if err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

// GetByID retrieves a customer by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, apperr.NotFound(customerNotFoundMessage)
		}
		return Customer{}, fmt.Errorf("get customer by id: %w", err)
	}
	return customer, nil
}

// List retrieves customers matching the filters, newest first.
func (r *Repo) List(ctx context.Context, filters ListFilters) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	var conditions []string
	var args []interface{}

	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Industry != "" {
		args = append(args, filters.Industry)
		conditions = append(conditions, fmt.Sprintf("lower(industry) = lower($%d)", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR company ILIKE $%d OR email ILIKE $%d)", len(args), len(args), len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return customers, nil
}

// Update applies the non-nil fields and returns the updated record.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Customer, error) {
	var sets []string
	var args []interface{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Company != nil {
		addSet("company", *params.Company)
	}
	if params.Industry != nil {
		addSet("industry", *params.Industry)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.Budget != nil {
		addSet("budget", *params.Budget)
	}
	if params.Website != nil {
		addSet("website", *params.Website)
	}
	if params.Email != nil {
		addSet("email", *params.Email)
	}
	if params.Phone != nil {
		addSet("phone", *params.Phone)
	}
	if params.Notes != nil {
		addSet("notes", *params.Notes)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, params.ID)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, params.ID)
	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), customerColumns)

	customer, err := scanCustomer(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, apperr.NotFound(customerNotFoundMessage)
		}
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// Delete removes a customer and, via cascade, its interactions and
// opportunities.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMessage)
	}
	return nil
}

// UpdateLeadScore persists a recomputed lead score.
func (r *Repo) UpdateLeadScore(ctx context.Context, id uuid.UUID, score float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET lead_score = $1, updated_at = now() WHERE id = $2`, score, id)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMessage)
	}
	return nil
}

// AddInteraction records an interaction for a customer.
func (r *Repo) AddInteraction(ctx context.Context, customerID uuid.UUID, interactionType, notes string) (Interaction, error) {
	query := `
		INSERT INTO interactions (customer_id, interaction_type, notes)
		VALUES ($1, $2, $3)
		RETURNING id, customer_id, interaction_type, notes, created_at`

	var interaction Interaction
	err := r.pool.QueryRow(ctx, query, customerID, interactionType, notes).Scan(
		&interaction.ID, &interaction.CustomerID, &interaction.Type,
		&interaction.Notes, &interaction.CreatedAt,
	)
	if err != nil {
		return Interaction{}, fmt.Errorf("add interaction: %w", err)
	}
	return interaction, nil
}

// ListInteractions retrieves a customer's interactions, newest first.
func (r *Repo) ListInteractions(ctx context.Context, customerID uuid.UUID) ([]Interaction, error) {
	query := `
		SELECT id, customer_id, interaction_type, notes, created_at
		FROM interactions
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	return collectInteractions(rows)
}

// RecentInteractions retrieves the newest interactions across all
// customers.
func (r *Repo) RecentInteractions(ctx context.Context, limit int) ([]Interaction, error) {
	query := `
		SELECT id, customer_id, interaction_type, notes, created_at
		FROM interactions
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent interactions: %w", err)
	}
	defer rows.Close()

	return collectInteractions(rows)
}

func collectInteractions(rows pgx.Rows) ([]Interaction, error) {
	var interactions []Interaction
	for rows.Next() {
		var interaction Interaction
		if err := rows.Scan(
			&interaction.ID, &interaction.CustomerID, &interaction.Type,
			&interaction.Notes, &interaction.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		interactions = append(interactions, interaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interaction rows: %w", err)
	}
	return interactions, nil
}

// CreateOpportunity records a new deal for a customer.
func (r *Repo) CreateOpportunity(ctx context.Context, params CreateOpportunityParams) (Opportunity, error) {
	query := `
		INSERT INTO opportunities (customer_id, title, value, stage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, customer_id, title, value, stage, closed_at, created_at`

	opportunity, err := scanOpportunity(r.pool.QueryRow(ctx, query,
		params.CustomerID, params.Title, params.Value, params.Stage))
	if err != nil {
		return Opportunity{}, fmt.Errorf("create opportunity: %w", err)
	}
	return opportunity, nil
}

// ListOpportunities retrieves a customer's opportunities, newest first.
func (r *Repo) ListOpportunities(ctx context.Context, customerID uuid.UUID) ([]Opportunity, error) {
	query := `
		SELECT id, customer_id, title, value, stage, closed_at, created_at
		FROM opportunities
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []Opportunity
	for rows.Next() {
		opportunity, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity row: %w", err)
		}
		opportunities = append(opportunities, opportunity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opportunity rows: %w", err)
	}
	return opportunities, nil
}

// UpdateOpportunityStage moves a deal through the pipeline; closing
// stages set closed_at.
func (r *Repo) UpdateOpportunityStage(ctx context.Context, id uuid.UUID, stage string, closedAt *time.Time) (Opportunity, error) {
	query := `
		UPDATE opportunities
		SET stage = $1, closed_at = $2
		WHERE id = $3
		RETURNING id, customer_id, title, value, stage, closed_at, created_at`

	opportunity, err := scanOpportunity(r.pool.QueryRow(ctx, query, stage, closedAt, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Opportunity{}, apperr.NotFound(opportunityNotFoundMessage)
		}
		return Opportunity{}, fmt.Errorf("update opportunity stage: %w", err)
	}
	return opportunity, nil
}

func scanOpportunity(row pgx.Row) (Opportunity, error) {
	var o Opportunity
	var createdAt time.Time
	if err := row.Scan(&o.ID, &o.CustomerID, &o.Title, &o.Value, &o.Stage, &o.ClosedAt, &createdAt); err != nil {
		return Opportunity{}, err
	}
	o.CreatedAt = createdAt.Format(time.RFC3339)
	return o, nil
}
