package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_backend/platform/apperr"
)

const (
	taskNotFoundMessage     = "task not found"
	workflowNotFoundMessage = "workflow not found"
)

const taskColumns = `id, customer_id, title, description, due_date, priority, task_type, status, created_at`

const workflowColumns = `id, workflow_type, customer_id, status, steps_completed, created_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workflow repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.CustomerID, &t.Title, &t.Description, &t.DueDate,
		&t.Priority, &t.Type, &t.Status, &t.CreatedAt,
	)
	return t, err
}

func scanWorkflow(row pgx.Row) (Workflow, error) {
	var w Workflow
	err := row.Scan(
		&w.ID, &w.Type, &w.CustomerID, &w.Status, &w.StepsCompleted, &w.CreatedAt,
	)
	return w, err
}

// AddTask inserts a task in pending status.
func (r *Repo) AddTask(ctx context.Context, params CreateTaskParams) (Task, error) {
	query := `
		INSERT INTO tasks (customer_id, title, description, due_date, priority, task_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query,
		params.CustomerID, params.Title, params.Description,
		params.DueDate, params.Priority, params.Type,
	))
	if err != nil {
		return Task{}, fmt.Errorf("add task: %w", err)
	}
	return task, nil
}

// PendingTasks retrieves all pending tasks ordered by due date.
func (r *Repo) PendingTasks(ctx context.Context) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE status = 'pending' ORDER BY due_date ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus sets the status of a task.
func (r *Repo) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status string) (Task, error) {
	query := `UPDATE tasks SET status = $2 WHERE id = $1 RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFound(taskNotFoundMessage)
		}
		return Task{}, fmt.Errorf("update task status: %w", err)
	}
	return task, nil
}

// ClaimDueTasks marks due pending tasks as notified and returns them.
// The FOR UPDATE SKIP LOCKED clause keeps concurrent dispatchers from
// claiming the same task twice.
func (r *Repo) ClaimDueTasks(ctx context.Context, limit int) ([]Task, error) {
	query := `
		UPDATE tasks SET notified_at = now()
		WHERE id IN (
			SELECT id FROM tasks
			WHERE status = 'pending' AND notified_at IS NULL AND due_date <= now()
			ORDER BY due_date ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + taskColumns

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("claim due tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CreateWorkflow inserts a workflow run in running status.
func (r *Repo) CreateWorkflow(ctx context.Context, workflowType string, customerID uuid.UUID) (Workflow, error) {
	query := `
		INSERT INTO workflows (workflow_type, customer_id, status, steps_completed)
		VALUES ($1, $2, 'running', '{}')
		RETURNING ` + workflowColumns

	workflow, err := scanWorkflow(r.pool.QueryRow(ctx, query, workflowType, customerID))
	if err != nil {
		return Workflow{}, fmt.Errorf("create workflow: %w", err)
	}
	return workflow, nil
}

// FinishWorkflow records the completed steps and marks the run completed.
func (r *Repo) FinishWorkflow(ctx context.Context, id uuid.UUID, steps []string) (Workflow, error) {
	query := `
		UPDATE workflows SET status = 'completed', steps_completed = $2
		WHERE id = $1
		RETURNING ` + workflowColumns

	workflow, err := scanWorkflow(r.pool.QueryRow(ctx, query, id, steps))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Workflow{}, apperr.NotFound(workflowNotFoundMessage)
		}
		return Workflow{}, fmt.Errorf("finish workflow: %w", err)
	}
	return workflow, nil
}

// ListWorkflows retrieves workflow runs for a customer, newest first.
func (r *Repo) ListWorkflows(ctx context.Context, customerID uuid.UUID) ([]Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []Workflow
	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		workflows = append(workflows, workflow)
	}
	return workflows, rows.Err()
}

// CustomerSnapshot retrieves the customer state the automation templates
// branch on, including interaction recency.
func (r *Repo) CustomerSnapshot(ctx context.Context, id uuid.UUID) (CustomerSnapshot, error) {
	query := `
		SELECT c.id, c.name, c.email, c.status, c.lead_score,
		       COUNT(i.id), MAX(i.created_at)
		FROM customers c
		LEFT JOIN interactions i ON i.customer_id = c.id
		WHERE c.id = $1
		GROUP BY c.id`

	var snap CustomerSnapshot
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Name, &snap.Email, &snap.Status, &snap.LeadScore,
		&snap.InteractionCount, &snap.LastInteraction,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomerSnapshot{}, apperr.NotFound("customer not found")
		}
		return CustomerSnapshot{}, fmt.Errorf("customer snapshot: %w", err)
	}
	return snap, nil
}

// ReportMetrics aggregates report numbers for the period starting at
// since. Conversion rate and revenue are computed over customers created
// in the period; active leads and top performers reflect current state.
func (r *Repo) ReportMetrics(ctx context.Context, since time.Time) (ReportMetrics, error) {
	var metrics ReportMetrics

	periodQuery := `
		SELECT COUNT(*),
		       COALESCE(SUM(budget) FILTER (WHERE status = 'customer'), 0),
		       CASE WHEN COUNT(*) > 0
		            THEN COUNT(*) FILTER (WHERE status = 'customer')::float / COUNT(*) * 100
		            ELSE 0 END
		FROM customers
		WHERE created_at >= $1`
	err := r.pool.QueryRow(ctx, periodQuery, since).Scan(
		&metrics.NewCustomers, &metrics.Revenue, &metrics.ConversionRate,
	)
	if err != nil {
		return ReportMetrics{}, fmt.Errorf("report period metrics: %w", err)
	}

	interactionsQuery := `SELECT COUNT(*) FROM interactions WHERE created_at >= $1`
	if err := r.pool.QueryRow(ctx, interactionsQuery, since).Scan(&metrics.TotalInteractions); err != nil {
		return ReportMetrics{}, fmt.Errorf("report interaction count: %w", err)
	}

	activeQuery := `SELECT COUNT(*) FROM customers WHERE status IN ('lead', 'qualified', 'interested', 'hot')`
	if err := r.pool.QueryRow(ctx, activeQuery).Scan(&metrics.ActiveLeads); err != nil {
		return ReportMetrics{}, fmt.Errorf("report active leads: %w", err)
	}

	topQuery := `
		SELECT id, name, company, lead_score
		FROM customers
		ORDER BY lead_score DESC
		LIMIT 5`
	rows, err := r.pool.Query(ctx, topQuery)
	if err != nil {
		return ReportMetrics{}, fmt.Errorf("report top performers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var top TopPerformer
		if err := rows.Scan(&top.ID, &top.Name, &top.Company, &top.LeadScore); err != nil {
			return ReportMetrics{}, fmt.Errorf("scan top performer: %w", err)
		}
		metrics.TopPerformers = append(metrics.TopPerformers, top)
	}
	return metrics, rows.Err()
}
