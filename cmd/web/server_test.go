package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samarth-qa/internal/gateway"
)

func newTestServer() *server {
	return newServer(nil, nil, &gateway.Gateway{Generator: gateway.NewMock("ok")})
}

func TestSessionCookieIssuedOnFirstContact(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	s.currentSession(w, r)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	_, err := uuid.Parse(cookies[0].Value)
	assert.NoError(t, err, "issued session id should be a uuid")
	assert.Len(t, s.sessions, 1)
}

func TestForgedSessionCookieRejected(t *testing.T) {
	s := newTestServer()

	for _, forged := range []string{"x", "not-a-uuid-but-36-characters-long!!!", "{12345678-1234-1234-1234-123456789012}"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: sessionCookie, Value: forged})

		s.currentSession(w, r)

		// The forged value must never become a session key; a fresh id is
		// issued instead.
		_, ok := s.sessions[forged]
		assert.False(t, ok, "forged cookie %q stored as session key", forged)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		_, err := uuid.Parse(cookies[0].Value)
		assert.NoError(t, err)
	}
}

func TestValidSessionCookieReused(t *testing.T) {
	s := newTestServer()
	id := uuid.New().String()

	var sessions []*session
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
		sessions = append(sessions, s.currentSession(w, r))

		assert.Empty(t, w.Result().Cookies(), "no new cookie for a returning session")
	}

	assert.Same(t, sessions[0], sessions[1])
	assert.Len(t, s.sessions, 1)
}
