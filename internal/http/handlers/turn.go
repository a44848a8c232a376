package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/http/response"
	apperrors "github.com/sproutlearn/sproutlearn-backend/internal/pkg/errors"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"github.com/sproutlearn/sproutlearn-backend/internal/services"
)

type TurnHandler struct {
	log   *logger.Logger
	turns services.TurnService
}

func NewTurnHandler(log *logger.Logger, turns services.TurnService) *TurnHandler {
	return &TurnHandler{
		log:   log.With("handler", "TurnHandler"),
		turns: turns,
	}
}

type processTurnRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	ProfileID string `json:"profile_id" binding:"required"`
	InputText string `json:"input_text" binding:"required"`
}

// ProcessTurn runs one child question through the pipeline.
func (h *TurnHandler) ProcessTurn(c *gin.Context) {
	var req processTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_profile_id", err)
		return
	}

	result, err := h.turns.ProcessTurn(c.Request.Context(), services.TurnRequest{
		SessionID: sessionID,
		ProfileID: profileID,
		InputText: req.InputText,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (h *TurnHandler) SessionStatus(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id",
			fmt.Errorf("%w: session id must be a uuid", apperrors.ErrInvalidArgument))
		return
	}
	response.RespondOK(c, gin.H{
		"session_id": sessionID,
		"status":     h.turns.SessionStatus(sessionID),
	})
}

func (h *TurnHandler) EndSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id",
			fmt.Errorf("%w: session id must be a uuid", apperrors.ErrInvalidArgument))
		return
	}
	h.turns.EndSession(sessionID)
	response.RespondOK(c, gin.H{"session_id": sessionID, "status": "idle"})
}
