package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *CookieSessionStore {
	return NewCookieSessionStore(time.Hour, false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
}

func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestAccessTokenRoundTrip(t *testing.T) {
	store := newStore()

	rec := httptest.NewRecorder()
	require.NoError(t, store.SetAccessToken(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok-123"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	assert.Equal(t, "tok-123", store.GetAccessToken(replay(rec)))
}

func TestClearSession(t *testing.T) {
	store := newStore()

	rec := httptest.NewRecorder()
	require.NoError(t, store.SetAccessToken(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok"))

	cleared := httptest.NewRecorder()
	require.NoError(t, store.ClearSession(cleared, replay(rec)))
	cookies := cleared.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestForeignCookieIsIgnored(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, newStore().SetAccessToken(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok"))

	assert.Empty(t, newStore().GetAccessToken(replay(rec)))
}
