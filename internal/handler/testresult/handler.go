package testresult

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/service/testresult"
	"github.com/jwalitptl/cancerguard-api/pkg/validator"
)

type Handler struct {
	svc *testresult.Service
}

func NewHandler(svc *testresult.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	results := rg.Group("/test-results", requireAuth)
	{
		results.GET("", h.List)
		results.POST("", h.Create)
		results.GET("/:id", h.Get)
	}
}

func (h *Handler) List(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	results, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) Create(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		handler.Abort(c, err)
		return
	}

	var req model.CreateTestResultRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) Get(c *gin.Context) {
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

	result, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
