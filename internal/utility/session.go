package utility

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	SessionName  = "gymbuddy"
	sessionIDKey = "sid"
)

// NewSessionStore builds the signed cookie store. The cookie only carries an
// opaque session id; profiles are kept server side.
func NewSessionStore(secret string, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(int(maxAge.Seconds()))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// SessionID returns the caller's session id. When create is true and the
// request has no valid session, a new id is issued and the cookie is written.
// With create false an absent session yields "".
func SessionID(c echo.Context, store sessions.Store, create bool) (string, error) {
	// A tampered or expired cookie still yields a fresh session, so the error
	// from Get only matters when no session came back at all.
	sess, err := store.Get(c.Request(), SessionName)
	if sess == nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	if id, ok := sess.Values[sessionIDKey].(string); ok && id != "" {
		return id, nil
	}
	if !create {
		return "", nil
	}

	id := uuid.New().String()
	sess.Values[sessionIDKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}
