package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/storefront/internal/session"
)

// protectedPrefixes are the path prefixes that require an authenticated
// session before the page is served.
var protectedPrefixes = []string{"/profile", "/settings", "/orders"}

// RouteGuard redirects unauthenticated requests for protected paths to the
// login page. Profile-detail paths additionally require the embedded user id
// to match the persisted one. It reads the session persistence format
// directly; it is a consumer of the session store's cookies, not part of it.
func RouteGuard(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		protected := false
		for _, p := range protectedPrefixes {
			if strings.HasPrefix(path, p) {
				protected = true
				break
			}
		}
		if !protected {
			c.Next()
			return
		}

		tok, err := c.Request.Cookie(session.TokenCookie)
		if err != nil || tok.Value == "" {
			redirectToLogin(c, loginPath)
			return
		}
		userID, ok := session.PersistedUserID(c.Request)
		if !ok {
			redirectToLogin(c, loginPath)
			return
		}

		if strings.HasPrefix(path, "/profile/") {
			parts := strings.Split(path, "/")
			if len(parts) < 3 || parts[2] != userID {
				redirectToLogin(c, loginPath)
				return
			}
		}

		c.Next()
	}
}

func redirectToLogin(c *gin.Context, loginPath string) {
	c.Redirect(http.StatusSeeOther, loginPath)
	c.Abort()
}
