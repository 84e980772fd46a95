package session

import "github.com/gin-gonic/gin"

// Middleware decodes the session once per request and stashes the snapshot
// in the request context, so downstream consumers (handlers, the gateway)
// never re-read cookies themselves.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := s.Get(c.Request); ok {
			ctx := WithSession(c.Request.Context(), sess)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
