package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/http/middleware"
	"github.com/sproutlearn/sproutlearn-backend/internal/http/response"
	apperrors "github.com/sproutlearn/sproutlearn-backend/internal/pkg/errors"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"github.com/sproutlearn/sproutlearn-backend/internal/services"
)

type SessionHandler struct {
	log      *logger.Logger
	sessions services.SessionService
}

func NewSessionHandler(log *logger.Logger, sessions services.SessionService) *SessionHandler {
	return &SessionHandler{
		log:      log.With("handler", "SessionHandler"),
		sessions: sessions,
	}
}

func (h *SessionHandler) Transcript(c *gin.Context) {
	parentID, ok := middleware.ParentID(c)
	if !ok {
		response.RespondServiceError(c, apperrors.ErrUnauthorized)
		return
	}
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	from, to, err := parseTimeRange(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_time_range", err)
		return
	}

	logs, err := h.sessions.Transcript(c.Request.Context(), parentID, childID, from, to)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, logs)
}

func (h *SessionHandler) Progress(c *gin.Context) {
	parentID, ok := middleware.ParentID(c)
	if !ok {
		response.RespondServiceError(c, apperrors.ErrUnauthorized)
		return
	}
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	from, to, err := parseTimeRange(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_time_range", err)
		return
	}

	snapshots, err := h.sessions.Progress(c.Request.Context(), parentID, childID, from, to)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, snapshots)
}

func (h *SessionHandler) Achievements(c *gin.Context) {
	parentID, ok := middleware.ParentID(c)
	if !ok {
		response.RespondServiceError(c, apperrors.ErrUnauthorized)
		return
	}
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}

	grants, err := h.sessions.Achievements(c.Request.Context(), parentID, childID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, grants)
}
