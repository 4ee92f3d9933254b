package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/apperr"
	"go.uber.org/zap"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error writes err as an error envelope with the status its code maps to.
// Internal failures are logged with their cause and answered with a generic message.
func Error(c *gin.Context, err error) {
	e := apperr.As(err)
	status := apperr.HTTPStatus(e.Code)

	if status >= http.StatusInternalServerError {
		zap.S().Errorf("API Error: %s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		zap.S().Debugf("API Error: %s %s: %s", c.Request.Method, c.FullPath(), e.Message)
	}

	c.JSON(status, Response{
		Success: false,
		Message: e.Message,
		Error: &ErrorBody{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		},
	})
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
