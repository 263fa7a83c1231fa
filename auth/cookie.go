package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/user/campus-portal-go/config"
)

// SessionCookie reads and writes the signed session cookie.
// The cookie value is `token.signature`, where signature is the unpadded
// base64url HMAC-SHA256 of the token under the session secret.
type SessionCookie struct {
	name   string
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewSessionCookie builds a SessionCookie from the session configuration.
func NewSessionCookie(cfg *config.SessionConfig) *SessionCookie {
	return &SessionCookie{
		name:   cfg.CookieName,
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		secure: cfg.SecureCookie,
	}
}

// Read returns the verified session token from r. ok is false when the
// cookie is missing, malformed or carries a bad signature.
func (c *SessionCookie) Read(r *http.Request) (token string, ok bool) {
	ck, err := r.Cookie(c.name)
	if err != nil {
		return "", false
	}
	return c.verify(ck.Value)
}

// Write sets the cookie for token with Max-Age equal to the session TTL.
func (c *SessionCookie) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    c.sign(token),
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie on the client.
func (c *SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *SessionCookie) sign(token string) string {
	return token + "." + base64.RawURLEncoding.EncodeToString(c.mac(token))
}

func (c *SessionCookie) verify(value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}
	if subtle.ConstantTimeCompare(got, c.mac(token)) != 1 {
		return "", false
	}
	return token, true
}

func (c *SessionCookie) mac(token string) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(token))
	return h.Sum(nil)
}
