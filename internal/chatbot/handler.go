package chatbot

import (
	"context"
	"net/http"

	"crm_backend/platform/httpkit"
	"crm_backend/platform/logger"
	appvalidator "crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InteractionRecorder logs a chat exchange against a customer record.
type InteractionRecorder interface {
	RecordChatInteraction(ctx context.Context, customerID uuid.UUID, message string) error
}

// Handler exposes the conversational endpoints.
type Handler struct {
	svc      *Service
	recorder InteractionRecorder
	validate *appvalidator.Validator
	log      *logger.Logger
}

func NewHandler(svc *Service, recorder InteractionRecorder, validate *appvalidator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, recorder: recorder, validate: validate, log: log}
}

type messageRequest struct {
	Message    string     `json:"message" validate:"required,max=2000"`
	SessionID  string     `json:"session_id" validate:"omitempty,max=128"`
	CustomerID *uuid.UUID `json:"customer_id"`
}

// PostMessage handles POST /chatbot/message. The session defaults to the
// authenticated user so history follows them across requests.
func (h *Handler) PostMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		if userID, ok := httpkit.MustGetUserID(c); ok {
			sessionID = userID.String()
		}
	}

	reply := h.svc.ProcessMessage(c.Request.Context(), sessionID, req.Message)

	if req.CustomerID != nil && h.recorder != nil {
		if err := h.recorder.RecordChatInteraction(c.Request.Context(), *req.CustomerID, req.Message); err != nil {
			h.log.Error("record chat interaction failed",
				"customer_id", req.CustomerID, "error", err)
		}
	}

	httpkit.JSON(c, http.StatusOK, reply)
}

// GetSummary handles GET /chatbot/sessions/:sessionID/summary.
func (h *Handler) GetSummary(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		httpkit.Error(c, http.StatusBadRequest, "session id is required", nil)
		return
	}
	summary := h.svc.Summary(c.Request.Context(), sessionID)
	httpkit.JSON(c, http.StatusOK, gin.H{"session_id": sessionID, "summary": summary})
}
