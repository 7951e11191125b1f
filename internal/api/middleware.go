package api

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// RequestID tags each request with an id, reusing the caller's header when it
// is at most 64 characters of letters, digits and dashes.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext retrieves the id stored by RequestID.
func RequestIDFromContext(c *gin.Context) string {
	val, ok := c.Get(requestIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}
