package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The portal wire format: success bodies are plain JSON objects, failures
// carry a single message field the front-end surfaces as-is.

// GinJSON writes a success response.
func GinJSON(c *gin.Context, status int, data any) {
	if c == nil {
		return
	}
	c.JSON(status, data)
}

// GinMessage writes a bare confirmation message.
func GinMessage(c *gin.Context, status int, message string) {
	if c == nil {
		return
	}
	c.JSON(status, gin.H{"message": message})
}

// GinError writes a failure message and aborts the handler chain.
func GinError(c *gin.Context, status int, err any) {
	if c == nil {
		return
	}

	var msg string
	switch v := err.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = http.StatusText(status)
	}

	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
