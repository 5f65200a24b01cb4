package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	"github.com/jwalitptl/cancerguard-api/internal/service/hospital"
)

type Handler struct {
	svc *hospital.Service
}

func NewHandler(svc *hospital.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public hospital directory.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("/hospitals", h.List)
	rg.GET("/hospitals/:id", h.Get)
}

func (h *Handler) List(c *gin.Context) {
	hospitals, err := h.svc.List(c.Request.Context())
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, hospitals)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		handler.Abort(c, err)
		return
	}
	found, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}
