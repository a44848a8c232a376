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

type ProfileHandler struct {
	log      *logger.Logger
	profiles services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:      log.With("handler", "ProfileHandler"),
		profiles: profiles,
	}
}

type createChildRequest struct {
	Name string `json:"name" binding:"required"`
	Age  int    `json:"age" binding:"required"`
}

func (h *ProfileHandler) CreateChild(c *gin.Context) {
	parentID, ok := middleware.ParentID(c)
	if !ok {
		response.RespondServiceError(c, apperrors.ErrUnauthorized)
		return
	}

	var req createChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	child, err := h.profiles.CreateChild(c.Request.Context(), parentID, req.Name, req.Age)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, child)
}

func (h *ProfileHandler) GetChild(c *gin.Context) {
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

	child, err := h.profiles.GetChild(c.Request.Context(), parentID, childID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, child)
}

func (h *ProfileHandler) ListChildren(c *gin.Context) {
	parentID, ok := middleware.ParentID(c)
	if !ok {
		response.RespondServiceError(c, apperrors.ErrUnauthorized)
		return
	}

	children, err := h.profiles.ListChildren(c.Request.Context(), parentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, children)
}

type updateChildAgeRequest struct {
	Age int `json:"age" binding:"required"`
}

func (h *ProfileHandler) UpdateChildAge(c *gin.Context) {
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

	var req updateChildAgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	if err := h.profiles.UpdateChildAge(c.Request.Context(), parentID, childID, req.Age); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": true})
}

func (h *ProfileHandler) DeleteChild(c *gin.Context) {
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

	if err := h.profiles.DeleteChild(c.Request.Context(), parentID, childID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
