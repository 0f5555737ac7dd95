package handlers

import (
	"github.com/gin-gonic/gin"
)

// envelope is the uniform response body shape
type envelope struct {
	Error   bool        `json:"error"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// respondOK writes a success envelope. Responses are marked no-store by
// default; cacheable endpoints override the header themselves.
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	if c.Writer.Header().Get("Cache-Control") == "" {
		c.Header("Cache-Control", "no-store")
	}
	c.JSON(status, envelope{
		Error:   false,
		Message: message,
		Data:    data,
	})
}

// respondError writes a failure envelope
func respondError(c *gin.Context, status int, message string) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, envelope{
		Error:   true,
		Message: message,
	})
}
