package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/service/auth"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
	"github.com/jwalitptl/cancerguard-api/pkg/validator"
)

// Sessions opens and closes login sessions on the response.
type Sessions interface {
	Start(c *gin.Context, userID int64) error
	End(c *gin.Context) error
}

type Handler struct {
	svc      *auth.Service
	sessions Sessions
}

func NewHandler(svc *auth.Service, sessions Sessions) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/user", requireAuth, h.CurrentUser)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	if err := h.sessions.Start(c, user.ID); err != nil {
		handler.Abort(c, apperrors.NewInternal("Registration failed", err))
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}

	user, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	if err := h.sessions.Start(c, user.ID); err != nil {
		handler.Abort(c, apperrors.NewInternal("Authentication failed", err))
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.End(c); err != nil {
		handler.Abort(c, apperrors.NewInternal("Logout failed", err))
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) CurrentUser(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	user, err := h.svc.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
