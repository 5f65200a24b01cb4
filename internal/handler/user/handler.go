package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/service/user"
	"github.com/jwalitptl/cancerguard-api/pkg/validator"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	users := rg.Group("/user", requireAuth)
	{
		users.PATCH("/:id", h.UpdateProfile)
		users.POST("/change-password", h.ChangePassword)
	}
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	callerID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	targetID, err := handler.ParamID(c, "id")
	if err != nil {
		handler.Abort(c, err)
		return
	}

	var req model.UpdateUserRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}

	updated, err := h.svc.UpdateProfile(c.Request.Context(), callerID, targetID, &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}

	var req model.ChangePasswordRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
