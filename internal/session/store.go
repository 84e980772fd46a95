// Package session is the single source of truth for "who is logged in".
// State is persisted across requests in a pair of cookies: an opaque bearer
// token and a minimal JSON projection of the user record. Corrupt or partial
// state always reads as logged out.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// TokenCookie holds the opaque bearer credential.
	TokenCookie = "auth_token"
	// UserCookie holds the minimal JSON user projection.
	UserCookie = "user_data"

	// TTL is how long a session persists from the last write.
	TTL = 7 * 24 * time.Hour
)

// Session is a read-only snapshot of the authenticated identity.
type Session struct {
	UserID  string
	Name    string
	Email   string
	IsAdmin bool
	Token   string
}

// persistedUser is the wire form of the user_data cookie. Only these four
// fields are ever persisted client-side, whatever else the backend returns.
type persistedUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// UserRecord is the subset of a backend user record the store accepts on
// login. Extra backend fields never reach the cookie.
type UserRecord struct {
	ID      string
	Name    string
	Email   string
	IsAdmin bool
}

// Patch is a partial update applied to the persisted record. Nil fields are
// left unchanged.
type Patch struct {
	Name    *string
	Email   *string
	IsAdmin *bool
}

// Options control cookie attributes.
type Options struct {
	Secure   bool
	SameSite http.SameSite
}

// Store reads and writes the session cookies and broadcasts a payloadless
// session-changed signal on every mutation. Constructed once at startup and
// injected into consumers.
type Store struct {
	opts Options

	mu        sync.Mutex
	listeners []listenerEntry
	nextID    int
}

type listenerEntry struct {
	id int
	fn func()
}

// NewStore creates a Store with the given cookie options.
func NewStore(opts Options) *Store {
	if opts.SameSite == http.SameSiteDefaultMode {
		opts.SameSite = http.SameSiteStrictMode
	}
	return &Store{opts: opts}
}

// Get returns the current session, or ok=false when unauthenticated.
// It never fails: a missing token, a missing record, or a record that does
// not parse all read as absent.
func (s *Store) Get(r *http.Request) (Session, bool) {
	tok, err := r.Cookie(TokenCookie)
	if err != nil || tok.Value == "" {
		return Session{}, false
	}
	u, ok := decodeUserCookie(r)
	if !ok {
		return Session{}, false
	}
	return Session{
		UserID:  u.ID,
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
		Token:   tok.Value,
	}, true
}

// IsAuthenticated reports whether a full session is present.
func (s *Store) IsAuthenticated(r *http.Request) bool {
	_, ok := s.Get(r)
	return ok
}

// Set persists the credential and the minimal projection of the user record,
// then broadcasts. Extra fields on the backend record are dropped here.
func (s *Store) Set(w http.ResponseWriter, token string, user UserRecord) {
	s.setCookie(w, TokenCookie, token)
	s.writeUser(w, persistedUser{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	s.broadcast()
}

// Clear removes both session cookies and broadcasts. Navigation to the login
// page is the caller's redirect, not the store's.
func (s *Store) Clear(w http.ResponseWriter) {
	s.expireCookie(w, TokenCookie)
	s.expireCookie(w, UserCookie)
	s.broadcast()
}

// Update shallow-merges patch into the persisted record and re-persists.
// Without an active session it does nothing.
func (s *Store) Update(w http.ResponseWriter, r *http.Request, patch Patch) {
	sess, ok := s.Get(r)
	if !ok {
		return
	}
	u := persistedUser{ID: sess.UserID, Name: sess.Name, Email: sess.Email, IsAdmin: sess.IsAdmin}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.IsAdmin != nil {
		u.IsAdmin = *patch.IsAdmin
	}
	s.writeUser(w, u)
	s.broadcast()
}

// Subscribe registers fn to run on every session mutation. Delivery is
// synchronous in registration order. The returned function removes the
// listener and is safe to call more than once.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) broadcast() {
	s.mu.Lock()
	entries := make([]listenerEntry, len(s.listeners))
	copy(entries, s.listeners)
	s.mu.Unlock()
	for _, e := range entries {
		e.fn()
	}
}

func (s *Store) writeUser(w http.ResponseWriter, u persistedUser) {
	data, err := json.Marshal(u)
	if err != nil {
		// persistedUser only holds strings and a bool; this cannot happen.
		return
	}
	// JSON is not valid cookie-octet material; percent-encode like js-cookie.
	s.setCookie(w, UserCookie, url.QueryEscape(string(data)))
}

func (s *Store) setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(TTL),
		MaxAge:   int(TTL / time.Second),
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})
}

func (s *Store) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})
}

// decodeUserCookie parses the user_data cookie. ok=false on any failure or
// on a record with an empty id; partial sessions are never surfaced.
func decodeUserCookie(r *http.Request) (persistedUser, bool) {
	c, err := r.Cookie(UserCookie)
	if err != nil || c.Value == "" {
		return persistedUser{}, false
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return persistedUser{}, false
	}
	var u persistedUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return persistedUser{}, false
	}
	if u.ID == "" {
		return persistedUser{}, false
	}
	return u, true
}

// PersistedUserID decodes just the user id from the request cookies, for
// consumers of the persistence format (the route guard) that do not need a
// full session.
func PersistedUserID(r *http.Request) (string, bool) {
	u, ok := decodeUserCookie(r)
	if !ok {
		return "", false
	}
	return u.ID, true
}

type ctxKey struct{}

// WithSession stashes a session snapshot in ctx for downstream consumers.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session placed in ctx by the middleware.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(Session)
	return sess, ok
}
