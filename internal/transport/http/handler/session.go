package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediaitor/internal/app"
	"mediaitor/internal/transport/http/middleware"
	"mediaitor/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
}

type SessionRequest struct {
	SessionID string `json:"sessionId" form:"sessionId" binding:"required,max=64"`
}

type SendMessageRequest struct {
	SessionID string `json:"sessionId" binding:"required,max=64"`
	Content   string `json:"content" binding:"required,max=8000"`
}

func NewSessionHandler(sessionService *app.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	caller, _ := middleware.CallerFromContext(c)

	result, err := h.sessionService.CreateSession(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	caller, _ := middleware.CallerFromContext(c)

	var req SessionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid sessionId")
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), caller, req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, session)
}

func (h *SessionHandler) JoinSession(c *gin.Context) {
	caller, _ := middleware.CallerFromContext(c)

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.sessionService.JoinSession(c.Request.Context(), caller, req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *SessionHandler) SendMessage(c *gin.Context) {
	caller, _ := middleware.CallerFromContext(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	message, err := h.sessionService.SendMessage(c.Request.Context(), caller, app.SendMessageInput{
		SessionID: req.SessionID,
		Content:   req.Content,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, message)
}
