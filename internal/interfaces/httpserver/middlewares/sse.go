package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PrepareSSE sets the Server-Sent Events headers and returns the flusher.
func PrepareSSE(c *gin.Context) (http.Flusher, bool) {
	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	flusher, ok := c.Writer.(http.Flusher)
	return flusher, ok
}
