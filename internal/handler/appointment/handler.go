package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/service/appointment"
	"github.com/jwalitptl/cancerguard-api/pkg/validator"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	appointments := rg.Group("/appointments", requireAuth)
	{
		appointments.GET("", h.List)
		appointments.POST("", h.Create)
		appointments.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) List(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Create(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	var req model.CreateAppointmentRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	apt, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	id, err := handler.ParamID(c, "id")
	if err != nil {
		handler.Abort(c, err)
		return
	}
	var req model.UpdateAppointmentStatusRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	apt, err := h.svc.UpdateStatus(c.Request.Context(), userID, id, req.Status)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}
