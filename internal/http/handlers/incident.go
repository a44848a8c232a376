package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/http/middleware"
	"github.com/sproutlearn/sproutlearn-backend/internal/http/response"
	apperrors "github.com/sproutlearn/sproutlearn-backend/internal/pkg/errors"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"github.com/sproutlearn/sproutlearn-backend/internal/services"
)

const defaultRangeDays = 30

type IncidentHandler struct {
	log       *logger.Logger
	profiles  services.ProfileService
	incidents services.IncidentService
}

func NewIncidentHandler(log *logger.Logger, profiles services.ProfileService, incidents services.IncidentService) *IncidentHandler {
	return &IncidentHandler{
		log:       log.With("handler", "IncidentHandler"),
		profiles:  profiles,
		incidents: incidents,
	}
}

// parseTimeRange reads optional RFC3339 "from"/"to" query params, defaulting
// to the last defaultRangeDays days ending now.
func parseTimeRange(c *gin.Context) (time.Time, time.Time, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -defaultRangeDays)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}

func (h *IncidentHandler) ListByChild(c *gin.Context) {
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

	if _, err := h.profiles.GetChild(c.Request.Context(), parentID, childID); err != nil {
		response.RespondServiceError(c, err)
		return
	}

	incidents, err := h.incidents.ListByChildAndRange(c.Request.Context(), childID, from, to)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, incidents)
}

func (h *IncidentHandler) Report(c *gin.Context) {
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

	if _, err := h.profiles.GetChild(c.Request.Context(), parentID, childID); err != nil {
		response.RespondServiceError(c, err)
		return
	}

	report, err := h.incidents.Report(c.Request.Context(), childID, from, to)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}
