package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"veridoc/internal/orchestrator"
	"veridoc/internal/repository"
	"veridoc/internal/transport/http/response"
)

type QueryHandler struct {
	orch            *orchestrator.Orchestrator
	interactionRepo *repository.InteractionRepository
}

func NewQueryHandler(orch *orchestrator.Orchestrator, interactionRepo *repository.InteractionRepository) *QueryHandler {
	return &QueryHandler{
		orch:            orch,
		interactionRepo: interactionRepo,
	}
}

type queryRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k"`
}

func (h *QueryHandler) Ask(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "question is required")
		return
	}

	result := h.orch.Query(c.Request.Context(), req.Question, req.TopK)
	if !result.Success {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, result.Error)
		return
	}
	response.OK(c, result)
}

func (h *QueryHandler) RecentInteractions(c *gin.Context) {
	interactions, err := h.interactionRepo.ListRecent(50)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list interactions failed")
		return
	}
	response.OK(c, interactions)
}
