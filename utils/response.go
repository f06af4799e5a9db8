package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  int         `json:"-"`                 // HTTP status code
	Message string      `json:"message,omitempty"` // Optional message
	Error   string      `json:"error,omitempty"`   // Error message
	Data    interface{} `json:"data,omitempty"`    // Response data
}

func respond(c *gin.Context, status int, message, errMsg string, data interface{}) {
	c.JSON(status, &Response{
		Status:  status,
		Message: message,
		Error:   errMsg,
		Data:    data,
	})
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, "", "", data)
}

func Created(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, "Resource created successfully", "", data)
}

func Message(c *gin.Context, message string) {
	respond(c, http.StatusOK, message, "", nil)
}

// Error responses
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, "", message, nil)
}

func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, "", message, nil)
}

func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, "", message, nil)
}

func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, "", message, nil)
}

func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, "", message, nil)
}

func InternalError(c *gin.Context, message string) {
	respond(c, http.StatusInternalServerError, "", message, nil)
}

func ServiceUnavailable(c *gin.Context, message string) {
	respond(c, http.StatusServiceUnavailable, "", message, nil)
}

// AbortUnauthorized is used by middleware that must stop the chain.
func AbortUnauthorized(c *gin.Context, message string) {
	Unauthorized(c, message)
	c.Abort()
}
