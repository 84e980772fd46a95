package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/duynhne/storefront/internal/session"
)

func guardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RouteGuard("/login"))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/products", ok)
	r.GET("/profile/:id", ok)
	r.GET("/settings", ok)
	r.GET("/orders", ok)
	return r
}

func get(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookies(id string) []*http.Cookie {
	return []*http.Cookie{
		{Name: session.TokenCookie, Value: "tok"},
		{Name: session.UserCookie, Value: url.QueryEscape(`{"id":"` + id + `","name":"A","email":"a@x.com","isAdmin":false}`)},
	}
}

func TestPublicPathsPassThrough(t *testing.T) {
	r := guardedRouter()
	assert.Equal(t, http.StatusOK, get(r, "/").Code)
	assert.Equal(t, http.StatusOK, get(r, "/products").Code)
}

func TestProtectedPathsRedirectWithoutSession(t *testing.T) {
	r := guardedRouter()
	for _, path := range []string{"/profile/u1", "/settings", "/orders"} {
		w := get(r, path)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
}

func TestProtectedPathsRequireBothCookies(t *testing.T) {
	r := guardedRouter()

	w := get(r, "/settings", &http.Cookie{Name: session.TokenCookie, Value: "tok"})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = get(r, "/settings", sessionCookies("u1")[1])
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = get(r, "/settings", sessionCookies("u1")...)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilePathMustMatchPersistedUser(t *testing.T) {
	r := guardedRouter()

	w := get(r, "/profile/u1", sessionCookies("u1")...)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/profile/u2", sessionCookies("u1")...)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestCorruptUserDataRedirects(t *testing.T) {
	r := guardedRouter()
	w := get(r, "/profile/u1",
		&http.Cookie{Name: session.TokenCookie, Value: "tok"},
		&http.Cookie{Name: session.UserCookie, Value: url.QueryEscape(`{"id":`)},
	)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}
