package analytics

import (
	"github.com/gin-gonic/gin"

	"crm_backend/platform/httpkit"
	"crm_backend/platform/logger"
)

// Handler handles HTTP requests for analytics.
type Handler struct {
	svc *Service
	log *logger.Logger
}

// NewHandler creates a new analytics handler.
func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Dashboard returns the aggregate dashboard payload.
// GET /api/v1/analytics/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.log.Error("dashboard build failed", "error", err)
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, dashboard)
}

// Notifications returns the activity feed.
// GET /api/v1/analytics/notifications
func (h *Handler) Notifications(c *gin.Context) {
	feed, err := h.svc.Notifications(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	if feed == nil {
		feed = []Notification{}
	}
	httpkit.OK(c, gin.H{"items": feed, "total": len(feed)})
}

// SalesReport returns the revenue and pipeline breakdown.
// GET /api/v1/analytics/sales-report
func (h *Handler) SalesReport(c *gin.Context) {
	report, err := h.svc.SalesReport(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}
