package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// CookieName is the name of the session cookie
	CookieName = "mailsift_session"

	// sessionIDKey is the cookie key for the server session id
	sessionIDKey = "session_id"

	// stateKey is the cookie key for the in-flight OAuth state parameter
	stateKey = "oauth_state"
)

// CookieManager wraps gorilla/sessions for our use case: it carries only
// the opaque server session id and the transient OAuth state.
type CookieManager struct {
	store *sessions.CookieStore
}

// NewCookieManager creates a new cookie manager.
// secretKey should be 32 bytes.
func NewCookieManager(secretKey []byte) *CookieManager {
	store := sessions.NewCookieStore(secretKey)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   24 * 60 * 60, // sessions are only needed between login and logout
		HttpOnly: true,
		Secure:   false, // set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	}

	return &CookieManager{store: store}
}

// SetSessionID stores the server session id in the cookie
func (m *CookieManager) SetSessionID(r *http.Request, w http.ResponseWriter, sessionID string) error {
	cookie, err := m.store.Get(r, CookieName)
	if err != nil {
		cookie, _ = m.store.New(r, CookieName)
	}
	cookie.Values[sessionIDKey] = sessionID
	return cookie.Save(r, w)
}

// SessionID retrieves the server session id from the cookie
func (m *CookieManager) SessionID(r *http.Request) (string, error) {
	cookie, err := m.store.Get(r, CookieName)
	if err != nil {
		return "", err
	}
	id, ok := cookie.Values[sessionIDKey].(string)
	if !ok || id == "" {
		return "", http.ErrNoCookie
	}
	return id, nil
}

// SetState stores the OAuth state parameter for the pending exchange
func (m *CookieManager) SetState(r *http.Request, w http.ResponseWriter, state string) error {
	cookie, err := m.store.Get(r, CookieName)
	if err != nil {
		cookie, _ = m.store.New(r, CookieName)
	}
	cookie.Values[stateKey] = state
	return cookie.Save(r, w)
}

// ConsumeState returns the stored OAuth state and removes it
func (m *CookieManager) ConsumeState(r *http.Request, w http.ResponseWriter) (string, error) {
	cookie, err := m.store.Get(r, CookieName)
	if err != nil {
		return "", err
	}
	state, ok := cookie.Values[stateKey].(string)
	if !ok || state == "" {
		return "", http.ErrNoCookie
	}
	delete(cookie.Values, stateKey)
	if err := cookie.Save(r, w); err != nil {
		return "", err
	}
	return state, nil
}

// Clear removes the cookie (logout)
func (m *CookieManager) Clear(r *http.Request, w http.ResponseWriter) error {
	cookie, err := m.store.Get(r, CookieName)
	if err != nil {
		return nil // cookie doesn't exist, nothing to clear
	}
	cookie.Options.MaxAge = -1
	return cookie.Save(r, w)
}
