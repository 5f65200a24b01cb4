package recovery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/service/recovery"
	"github.com/jwalitptl/cancerguard-api/pkg/validator"
)

type Handler struct {
	svc *recovery.Service
}

func NewHandler(svc *recovery.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	plans := rg.Group("/recovery-plans", requireAuth)
	{
		plans.GET("", h.ListPlans)
		plans.POST("", h.CreatePlan)
		plans.POST("/:id/activities", h.AddActivity)
	}
	rg.PATCH("/recovery-activities/:id", requireAuth, h.UpdateActivity)
}

func (h *Handler) ListPlans(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	plans, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *Handler) CreatePlan(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	var req model.CreateRecoveryPlanRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	plan, err := h.svc.CreatePlan(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *Handler) AddActivity(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	planID, err := handler.ParamID(c, "id")
	if err != nil {
		handler.Abort(c, err)
		return
	}
	var req model.CreateRecoveryActivityRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	activity, err := h.svc.AddActivity(c.Request.Context(), userID, planID, &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *Handler) UpdateActivity(c *gin.Context) {
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
	var req model.UpdateRecoveryActivityRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	activity, err := h.svc.SetCompleted(c.Request.Context(), userID, id, *req.Completed)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
