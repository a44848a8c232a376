package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sproutlearn/sproutlearn-backend/internal/http/middleware"
	"github.com/sproutlearn/sproutlearn-backend/internal/http/response"
	apperrors "github.com/sproutlearn/sproutlearn-backend/internal/pkg/errors"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"github.com/sproutlearn/sproutlearn-backend/internal/services"
)

type ParentAuthHandler struct {
	log  *logger.Logger
	auth services.ParentAuthService
}

func NewParentAuthHandler(log *logger.Logger, auth services.ParentAuthService) *ParentAuthHandler {
	return &ParentAuthHandler{
		log:  log.With("handler", "ParentAuthHandler"),
		auth: auth,
	}
}

type registerRequest struct {
	Email string `json:"email" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
}

func (h *ParentAuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	account, err := h.auth.Register(c.Request.Context(), req.Email, req.PIN)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"parent_id": account.ID,
		"email":     account.Email,
	})
}

type loginRequest struct {
	Email string `json:"email" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
}

func (h *ParentAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.PIN)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"token": token})
}

type changePINRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required"`
	NewPIN     string `json:"new_pin" binding:"required"`
}

func (h *ParentAuthHandler) ChangePIN(c *gin.Context) {
	parentID, ok := middleware.ParentID(c)
	if !ok {
		response.RespondServiceError(c, apperrors.ErrUnauthorized)
		return
	}

	var req changePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	if err := h.auth.ChangePIN(c.Request.Context(), parentID, req.CurrentPIN, req.NewPIN); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": true})
}
