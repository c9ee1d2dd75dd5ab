package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crm_backend/internal/workflow/service"
	"crm_backend/internal/workflow/transport"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"
)

// Handler handles HTTP requests for workflow automation.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new workflow handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Run executes an automation template for a customer.
// POST /api/v1/workflows
func (h *Handler) Run(c *gin.Context) {
	var req transport.RunWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	workflow, err := h.svc.RunWorkflow(c.Request.Context(), req.WorkflowType, req.CustomerID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToWorkflowResponse(workflow))
}

// List retrieves a customer's workflow runs.
// GET /api/v1/workflows?customerId=...
func (h *Handler) List(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customerId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid customer ID", nil)
		return
	}

	workflows, err := h.svc.ListWorkflows(c.Request.Context(), customerID)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.WorkflowResponse, len(workflows))
	for i, workflow := range workflows {
		items[i] = transport.ToWorkflowResponse(workflow)
	}
	httpkit.OK(c, gin.H{"items": items, "total": len(items)})
}

// ScheduleFollowUp creates a follow-up task for a customer.
// POST /api/v1/workflows/follow-up
func (h *Handler) ScheduleFollowUp(c *gin.Context) {
	var req transport.ScheduleFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}

	task, err := h.svc.ScheduleFollowUp(c.Request.Context(), req.CustomerID, req.Priority, req.DaysAhead)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToTaskResponse(task))
}

// Reminders lists pending tasks that are overdue or due soon.
// GET /api/v1/workflows/reminders
func (h *Handler) Reminders(c *gin.Context) {
	reminders, err := h.svc.Reminders(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": reminders, "total": len(reminders)})
}

// CompleteTask marks a task as completed.
// PATCH /api/v1/workflows/tasks/:id/complete
func (h *Handler) CompleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid task ID", nil)
		return
	}

	task, err := h.svc.CompleteTask(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToTaskResponse(task))
}

// Report builds a performance report for the requested period.
// GET /api/v1/reports?period=weekly
func (h *Handler) Report(c *gin.Context) {
	report, err := h.svc.GenerateReport(c.Request.Context(), c.DefaultQuery("period", "monthly"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}
