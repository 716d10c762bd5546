package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mediaitor/internal/app"
	"mediaitor/internal/transport/http/response"
)

// writeError renders an operation error. Internal errors only expose the
// operation's generic message.
func writeError(c *gin.Context, err error) {
	message := "internal server error"
	var appErr *app.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	status, code := classify(err)
	response.Error(c, status, code, message)
}

func classify(err error) (int, int) {
	switch {
	case errors.Is(err, app.ErrNoPrimaryEmail):
		return http.StatusBadRequest, response.CodeNoPrimaryEmail
	case errors.Is(err, app.ErrEmptyContent):
		return http.StatusBadRequest, response.CodeEmptyContent
	case errors.Is(err, app.ErrAlreadyParticipant):
		return http.StatusForbidden, response.CodeAlreadyParticipant
	case errors.Is(err, app.ErrNotParticipant):
		return http.StatusForbidden, response.CodeNotParticipant
	case errors.Is(err, app.ErrSessionNotFound):
		return http.StatusNotFound, response.CodeSessionNotFound
	case errors.Is(err, app.ErrUserNotFound):
		return http.StatusNotFound, response.CodeUserNotFound
	case errors.Is(err, app.ErrEmailConflict):
		return http.StatusConflict, response.CodeEmailExists
	}

	switch app.KindOf(err) {
	case app.KindUnauthenticated:
		return http.StatusUnauthorized, response.CodeUnauthorized
	case app.KindInvalidRequest:
		return http.StatusBadRequest, response.CodeBadRequest
	case app.KindForbidden:
		return http.StatusForbidden, response.CodeForbidden
	case app.KindNotFound:
		return http.StatusNotFound, response.CodeNotFound
	case app.KindConflict:
		return http.StatusConflict, response.CodeConflict
	default:
		return http.StatusInternalServerError, response.CodeInternalServer
	}
}
