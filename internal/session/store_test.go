package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *Store {
	return NewStore(Options{Secure: true, SameSite: http.SameSiteStrictMode})
}

// requestWith builds a request carrying the cookies a previous response set.
func requestWith(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestSetThenGetRoundTrip(t *testing.T) {
	s := newStore()
	w := httptest.NewRecorder()

	s.Set(w, "tok-123", UserRecord{ID: "u1", Name: "Ada", Email: "ada@example.com", IsAdmin: true})

	sess, ok := s.Get(requestWith(t, w))
	require.True(t, ok)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "Ada", sess.Name)
	assert.Equal(t, "ada@example.com", sess.Email)
	assert.True(t, sess.IsAdmin)
	assert.Equal(t, "tok-123", sess.Token)
}

func TestSetPersistsExactlyMinimalProjection(t *testing.T) {
	s := newStore()
	w := httptest.NewRecorder()

	s.Set(w, "tok", UserRecord{ID: "u1", Name: "A", Email: "a@x.com"})

	var userCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == UserCookie {
			userCookie = c
		}
	}
	require.NotNil(t, userCookie)

	raw, err := url.QueryUnescape(userCookie.Value)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &fields))
	assert.ElementsMatch(t, []string{"id", "name", "email", "isAdmin"}, keys(fields))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestCookieAttributes(t *testing.T) {
	s := newStore()
	w := httptest.NewRecorder()

	s.Set(w, "tok", UserRecord{ID: "u1"})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, int(TTL/time.Second), c.MaxAge)
	}
}

func TestGetAbsentWithoutCookies(t *testing.T) {
	s := newStore()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := s.Get(r)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated(r))
}

func TestGetFailsSoftOnMalformedState(t *testing.T) {
	s := newStore()

	cases := map[string]string{
		"truncated json": url.QueryEscape(`{"id":"u1","na`),
		"not json":       url.QueryEscape(`hello`),
		"empty id":       url.QueryEscape(`{"id":"","name":"A"}`),
		"wrong shape":    url.QueryEscape(`[1,2,3]`),
		"bad url escape": `%zz`,
		"empty value":    ``,
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok"})
			if value != "" {
				r.Header.Add("Cookie", UserCookie+"="+value)
			}
			_, ok := s.Get(r)
			assert.False(t, ok)
		})
	}
}

func TestTokenWithoutRecordIsNotASession(t *testing.T) {
	s := newStore()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok"})

	_, ok := s.Get(r)
	assert.False(t, ok)
}

func TestRecordWithoutTokenIsNotASession(t *testing.T) {
	s := newStore()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Add("Cookie", UserCookie+"="+url.QueryEscape(`{"id":"u1"}`))

	_, ok := s.Get(r)
	assert.False(t, ok)
}

func TestClearExpiresBothCookies(t *testing.T) {
	s := newStore()
	w := httptest.NewRecorder()

	s.Clear(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Less(t, c.MaxAge, 0)
		assert.Empty(t, c.Value)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	s := newStore()
	w := httptest.NewRecorder()
	s.Set(w, "tok", UserRecord{ID: "u1", Name: "Old", Email: "old@x.com"})

	r := requestWith(t, w)
	w2 := httptest.NewRecorder()
	name := "New"
	s.Update(w2, r, Patch{Name: &name})

	// Re-read from the updated cookie; email and id are untouched.
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok"})
	for _, c := range w2.Result().Cookies() {
		if c.Name == UserCookie {
			r2.AddCookie(c)
		}
	}
	sess, ok := s.Get(r2)
	require.True(t, ok)
	assert.Equal(t, "New", sess.Name)
	assert.Equal(t, "old@x.com", sess.Email)
	assert.Equal(t, "u1", sess.UserID)
}

func TestUpdateWithoutSessionIsNoOp(t *testing.T) {
	s := newStore()
	var notified bool
	s.Subscribe(func() { notified = true })

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	name := "X"
	s.Update(w, r, Patch{Name: &name})

	assert.Empty(t, w.Result().Cookies())
	assert.False(t, notified)

	_, ok := s.Get(r)
	assert.False(t, ok)
}

func TestMutationsBroadcastInRegistrationOrder(t *testing.T) {
	s := newStore()

	var order []string
	s.Subscribe(func() { order = append(order, "a") })
	s.Subscribe(func() { order = append(order, "b") })

	w := httptest.NewRecorder()
	s.Set(w, "tok", UserRecord{ID: "u1"})
	assert.Equal(t, []string{"a", "b"}, order)

	order = nil
	s.Clear(httptest.NewRecorder())
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestUnsubscribe(t *testing.T) {
	s := newStore()

	var calls int
	unsub := s.Subscribe(func() { calls++ })

	s.Clear(httptest.NewRecorder())
	unsub()
	unsub() // second call is a no-op
	s.Clear(httptest.NewRecorder())

	assert.Equal(t, 1, calls)
}

func TestPersistedUserID(t *testing.T) {
	s := newStore()
	w := httptest.NewRecorder()
	s.Set(w, "tok", UserRecord{ID: "u42"})

	id, ok := PersistedUserID(requestWith(t, w))
	require.True(t, ok)
	assert.Equal(t, "u42", id)

	_, ok = PersistedUserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithSession(httptest.NewRequest(http.MethodGet, "/", nil).Context(), Session{UserID: "u1", Token: "t"})
	sess, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", sess.UserID)
}
