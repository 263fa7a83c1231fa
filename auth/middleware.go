// Package auth, as part of the authentication module.
// This file, `middleware.go`, defines HTTP middleware related to authentication.
// Middleware are functions that process HTTP requests before they reach the main handler.
// In Nest.js, middleware and guards (`CanActivate`) serve similar purposes.
package auth

import (
	"net/http"
)

// SessionMiddleware resolves the session for every request and places it in
// the request context. It never rejects a request: a missing, forged or expired
// cookie simply yields an anonymous session.
//
// Authenticated sessions get their cookie re-issued so the browser-side
// Max-Age slides together with the server-side expiry.
func SessionMiddleware(service *AuthService, cookie *SessionCookie) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := cookie.Read(r)
			sess := service.LoadSession(token)
			if sess.IsAuthenticated() {
				cookie.Write(w, sess.Token)
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithSession(r.Context(), sess)))
		})
	}
}

// RequireAuth guards a route group. Anonymous requests are answered with a
// 401 JSON error; authenticated ones continue with the principal id in the
// context (see GetUserIDFromContext).
func RequireAuth(service *AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := SessionFromContext(r.Context())
			userID, err := service.RequireAuthenticated(sess)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithUserID(r.Context(), userID)))
		})
	}
}
