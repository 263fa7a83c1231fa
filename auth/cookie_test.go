package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/campus-portal-go/config"
)

func testCookie(secret string, secure bool) *SessionCookie {
	return NewSessionCookie(&config.SessionConfig{
		Secret:       secret,
		CookieName:   "campus.sid",
		TTL:          time.Hour,
		SecureCookie: secure,
	})
}

func issued(t *testing.T, c *SessionCookie, token string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Write(rec, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(ck *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if ck != nil {
		r.AddCookie(ck)
	}
	return r
}

func TestSessionCookie_RoundTrip(t *testing.T) {
	c := testCookie(strings.Repeat("s", 32), false)

	ck := issued(t, c, "tok123")
	assert.Equal(t, "campus.sid", ck.Name)
	assert.True(t, strings.HasPrefix(ck.Value, "tok123."))
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 3600, ck.MaxAge)
	assert.False(t, ck.Secure)

	token, ok := c.Read(requestWith(ck))
	require.True(t, ok)
	assert.Equal(t, "tok123", token)
}

func TestSessionCookie_SecureInProduction(t *testing.T) {
	c := testCookie(strings.Repeat("s", 32), true)
	assert.True(t, issued(t, c, "tok").Secure)
}

func TestSessionCookie_Rejects(t *testing.T) {
	c := testCookie(strings.Repeat("s", 32), false)
	good := issued(t, c, "tok123")

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"missing", nil},
		{"unsigned", &http.Cookie{Name: "campus.sid", Value: "tok123"}},
		{"tampered token", &http.Cookie{Name: "campus.sid", Value: "tok124" + strings.TrimPrefix(good.Value, "tok123")}},
		{"garbage signature", &http.Cookie{Name: "campus.sid", Value: "tok123.!!!"}},
		{"empty token", &http.Cookie{Name: "campus.sid", Value: "." + strings.TrimPrefix(good.Value, "tok123.")}},
		{"signed with another secret", issued(t, testCookie(strings.Repeat("o", 32), false), "tok123")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := c.Read(requestWith(tt.cookie))
			assert.False(t, ok)
		})
	}
}

func TestSessionCookie_Clear(t *testing.T) {
	c := testCookie(strings.Repeat("s", 32), false)
	rec := httptest.NewRecorder()
	c.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "campus.sid", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
