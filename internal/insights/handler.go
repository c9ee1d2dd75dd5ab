package insights

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"
)

// EmailTemplateRequest selects the purpose of a drafted email.
type EmailTemplateRequest struct {
	Purpose string `json:"purpose" validate:"omitempty,max=200"`
}

// SalesPitchRequest describes the product the pitch should sell.
type SalesPitchRequest struct {
	ProductInfo string `json:"productInfo" validate:"omitempty,max=500"`
}

// SentimentRequest carries the text to analyze.
type SentimentRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for AI insights.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new insights handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CustomerInsights returns the analysis for one customer.
// GET /api/v1/ai/customers/:id/insights
func (h *Handler) CustomerInsights(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	result, err := h.svc.CustomerInsights(c.Request.Context(), customerID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// BusinessInsights returns the analysis of the whole customer base.
// GET /api/v1/ai/business-insights
func (h *Handler) BusinessInsights(c *gin.Context) {
	result, err := h.svc.BusinessInsights(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// EmailTemplate drafts an email for the customer.
// POST /api/v1/ai/customers/:id/email
func (h *Handler) EmailTemplate(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req EmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	template, err := h.svc.EmailTemplate(c.Request.Context(), customerID, req.Purpose)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"template": template, "customer_id": customerID})
}

// SalesPitch drafts a pitch for the customer.
// POST /api/v1/ai/customers/:id/pitch
func (h *Handler) SalesPitch(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req SalesPitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pitch, err := h.svc.SalesPitch(c.Request.Context(), customerID, req.ProductInfo)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"pitch": pitch, "customer_id": customerID})
}

// Sentiment analyzes a piece of text.
// POST /api/v1/ai/sentiment
func (h *Handler) Sentiment(c *gin.Context) {
	var req SentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, h.svc.Sentiment(c.Request.Context(), req.Text))
}

// ChurnRisk returns the retention assessment for a customer.
// GET /api/v1/ai/customers/:id/churn-risk
func (h *Handler) ChurnRisk(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	result, err := h.svc.ChurnRisk(c.Request.Context(), customerID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) customerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid customer ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
