package handler

import (
	"github.com/gin-gonic/gin"

	"mediaitor/internal/app"
	"mediaitor/internal/transport/http/middleware"
	"mediaitor/internal/transport/http/response"
)

type UserHandler struct {
	userService *app.UserService
}

func NewUserHandler(userService *app.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) SyncCurrentUser(c *gin.Context) {
	caller, _ := middleware.CallerFromContext(c)

	result, err := h.userService.SyncCurrentUser(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

// GetCurrentUser answers anonymous callers with a null user.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	caller, _ := middleware.CallerFromContext(c)

	user, err := h.userService.GetCurrentUser(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, user)
}
