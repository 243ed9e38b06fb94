// Package response defines the JSON envelope shared by all API handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Application codes carried in the envelope alongside the HTTP status.
const (
	CodeOK                = 0
	CodeBadRequest        = 40000
	CodeUnsupportedFormat = 40001
	CodeFileTooLarge      = 40002
	CodeInternalServer    = 50000
)

type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Code: CodeOK, Message: "ok", Data: data})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{Code: code, Message: message})
}
