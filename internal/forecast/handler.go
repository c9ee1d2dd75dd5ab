package forecast

import (
	"net/http"

	"crm_backend/platform/httpkit"
	"crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handler exposes forecast endpoints.
type Handler struct {
	svc *Service
	log *logger.Logger
}

func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// GenerateForecast handles GET /forecast. The timeframe query parameter
// defaults to monthly; unrecognized values use the yearly horizon table.
func (h *Handler) GenerateForecast(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", "monthly")

	result, err := h.svc.Generate(c.Request.Context(), timeframe, nil)
	if err != nil {
		h.log.Error("generate forecast failed", "error", err)
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusOK, result)
}

// QuickForecast handles GET /forecast/quick for the dashboard widget.
func (h *Handler) QuickForecast(c *gin.Context) {
	quick, err := h.svc.QuickForecast(c.Request.Context())
	if err != nil {
		h.log.Error("quick forecast failed", "error", err)
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusOK, quick)
}
