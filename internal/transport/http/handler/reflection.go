package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediaitor/internal/app"
	"mediaitor/internal/transport/http/middleware"
	"mediaitor/internal/transport/http/response"
)

type ReflectionHandler struct {
	reflectionService *app.ReflectionService
}

type CreateReflectionRequest struct {
	Content string `json:"content" binding:"required,max=8000"`
}

func NewReflectionHandler(reflectionService *app.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{reflectionService: reflectionService}
}

func (h *ReflectionHandler) CreateReflection(c *gin.Context) {
	caller, _ := middleware.CallerFromContext(c)

	var req CreateReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	reflection, err := h.reflectionService.CreateReflection(c.Request.Context(), caller, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, reflection)
}

func (h *ReflectionHandler) ListReflections(c *gin.Context) {
	caller, _ := middleware.CallerFromContext(c)

	reflections, err := h.reflectionService.ListReflections(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, reflections)
}
