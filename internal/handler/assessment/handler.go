package assessment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/service/assessment"
	"github.com/jwalitptl/cancerguard-api/pkg/validator"
)

type Handler struct {
	svc *assessment.Service
}

func NewHandler(svc *assessment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g := rg.Group("", requireAuth)
	{
		g.POST("/generate-question", h.GenerateQuestion)
		g.POST("/generate-assessment", h.GenerateAssessment)
		g.POST("/analyze-symptoms", h.AnalyzeSymptoms)
		g.POST("/chatbot", h.Chatbot)
	}
}

func (h *Handler) GenerateQuestion(c *gin.Context) {
	var req model.GenerateQuestionRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	q, err := h.svc.GenerateQuestion(c.Request.Context(), &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) GenerateAssessment(c *gin.Context) {
	var req model.GenerateAssessmentRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	a, err := h.svc.GenerateAssessment(c.Request.Context(), &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) AnalyzeSymptoms(c *gin.Context) {
	var req model.AnalyzeSymptomsRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	a, err := h.svc.AnalyzeSymptoms(c.Request.Context(), &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) Chatbot(c *gin.Context) {
	var req model.ChatbotRequest
	if err := validator.BindJSON(c, &req); err != nil {
		handler.Abort(c, err)
		return
	}
	reply, err := h.svc.Chat(c.Request.Context(), &req)
	if err != nil {
		handler.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
