package response

import "github.com/gin-gonic/gin"

const (
	CodeOK                 = 0
	CodeBadRequest         = 40000
	CodeNoPrimaryEmail     = 40003
	CodeEmptyContent       = 40004
	CodeUnauthorized       = 40100
	CodeForbidden          = 40300
	CodeAlreadyParticipant = 40301
	CodeNotParticipant     = 40302
	CodeNotFound           = 40400
	CodeSessionNotFound    = 40401
	CodeUserNotFound       = 40402
	CodeConflict           = 40900
	CodeEmailExists        = 40901
	CodeInternalServer     = 50000
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// OK always writes a data field so a nil result reaches the client as null.
func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}
