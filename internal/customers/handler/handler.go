package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crm_backend/internal/customers/repository"
	"crm_backend/internal/customers/service"
	"crm_backend/internal/customers/transport"
	"crm_backend/internal/scoring"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/phone"
	"crm_backend/platform/validator"
)

// Handler handles HTTP requests for customers.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid customer ID"
)

// New creates a new customers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create creates a customer and returns it with its initial lead score.
// POST /api/v1/customers
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	customer, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		Name:     req.Name,
		Company:  req.Company,
		Industry: req.Industry,
		Status:   req.Status,
		Budget:   scoring.BudgetValue(req.Budget),
		Website:  req.Website,
		Email:    req.Email,
		Phone:    phone.NormalizeE164(req.Phone),
		Notes:    req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToCustomerResponse(customer))
}

// List retrieves customers with optional status, industry, and search
// filters.
// GET /api/v1/customers
func (h *Handler) List(c *gin.Context) {
	filters := repository.ListFilters{
		Status:   c.Query("status"),
		Industry: c.Query("industry"),
		Search:   c.Query("search"),
		Limit:    queryInt(c, "limit", 100),
		Offset:   queryInt(c, "offset", 0),
	}

	customers, err := h.svc.List(c.Request.Context(), filters)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCustomerListResponse(customers))
}

// Get retrieves a customer by ID.
// GET /api/v1/customers/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	customer, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCustomerResponse(customer))
}

// Update updates a customer; the lead score is recomputed before the
// response is written.
// PUT /api/v1/customers/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transport.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	params := repository.UpdateParams{
		ID:       id,
		Name:     req.Name,
		Company:  req.Company,
		Industry: req.Industry,
		Status:   req.Status,
		Website:  req.Website,
		Email:    req.Email,
		Notes:    req.Notes,
	}
	if req.Budget != nil {
		budget := scoring.BudgetValue(req.Budget)
		params.Budget = &budget
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	customer, err := h.svc.Update(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCustomerResponse(customer))
}

// Delete removes a customer.
// DELETE /api/v1/customers/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// AddInteraction records an interaction and triggers a rescore.
// POST /api/v1/customers/:id/interactions
func (h *Handler) AddInteraction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transport.AddInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	interaction, err := h.svc.RecordInteraction(c.Request.Context(), id, req.Type, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToInteractionResponse(interaction))
}

// ListInteractions retrieves a customer's interaction history.
// GET /api/v1/customers/:id/interactions
func (h *Handler) ListInteractions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	interactions, err := h.svc.ListInteractions(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.InteractionResponse, len(interactions))
	for i, interaction := range interactions {
		items[i] = transport.ToInteractionResponse(interaction)
	}
	httpkit.OK(c, gin.H{"items": items, "total": len(items)})
}

// Insights returns the explainable scoring breakdown for a customer.
// GET /api/v1/customers/:id/insights
func (h *Handler) Insights(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	insights, err := h.svc.Insights(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, insights)
}

// BatchScore scores all matching customers and returns them best first.
// POST /api/v1/customers/score/batch
func (h *Handler) BatchScore(c *gin.Context) {
	filters := repository.ListFilters{
		Status:   c.Query("status"),
		Industry: c.Query("industry"),
		Limit:    queryInt(c, "limit", 500),
	}
	scored, err := h.svc.BatchScore(c.Request.Context(), filters)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": scored, "total": len(scored)})
}

// CreateOpportunity records a deal for a customer.
// POST /api/v1/customers/:id/opportunities
func (h *Handler) CreateOpportunity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transport.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	opportunity, err := h.svc.CreateOpportunity(c.Request.Context(), repository.CreateOpportunityParams{
		CustomerID: id,
		Title:      req.Title,
		Value:      req.Value,
		Stage:      req.Stage,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToOpportunityResponse(opportunity))
}

// ListOpportunities retrieves a customer's deals.
// GET /api/v1/customers/:id/opportunities
func (h *Handler) ListOpportunities(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	opportunities, err := h.svc.ListOpportunities(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.OpportunityResponse, len(opportunities))
	for i, opportunity := range opportunities {
		items[i] = transport.ToOpportunityResponse(opportunity)
	}
	httpkit.OK(c, gin.H{"items": items, "total": len(items)})
}

// UpdateOpportunityStage moves a deal; won and lost stamp the close time.
// PATCH /api/v1/opportunities/:id/stage
func (h *Handler) UpdateOpportunityStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid opportunity ID", nil)
		return
	}

	var req transport.UpdateOpportunityStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var closedAt *time.Time
	if req.Stage == "won" || req.Stage == "lost" {
		now := time.Now().UTC()
		closedAt = &now
	}

	opportunity, err := h.svc.UpdateOpportunityStage(c.Request.Context(), id, req.Stage, closedAt)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToOpportunityResponse(opportunity))
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
