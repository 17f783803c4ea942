package sessions

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessionCookieName = "cristal-session"

	accessTokenSessionKey = "accessToken"
)

// SessionStore keeps the signed-in principal's access token between requests.
type SessionStore interface {
	GetAccessToken(r *http.Request) string
	SetAccessToken(w http.ResponseWriter, r *http.Request, token string) error
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(ttl time.Duration, secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

// getSession always returns a usable session: a cookie that fails to decode
// (rotated keys, tampering) yields a fresh one.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		zap.S().Debugw("CookieSessionStore: discarding undecodable session", "error", err)
	}
	return session
}

func (c *CookieSessionStore) GetAccessToken(r *http.Request) string {
	token, ok := c.getSession(r).Values[accessTokenSessionKey].(string)
	if !ok {
		return ""
	}
	return token
}

func (c *CookieSessionStore) SetAccessToken(w http.ResponseWriter, r *http.Request, token string) error {
	session := c.getSession(r)
	session.Values[accessTokenSessionKey] = token
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
