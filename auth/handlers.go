// Package auth, as part of the authentication module.
// This file, `handlers.go`, is responsible for handling HTTP requests related to authentication.
// It acts as the "Controller" layer, analogous to an `AuthController` in Nest.js.
// It also hosts the JSON request/response helpers shared by the other resource packages.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/campus-portal-go/apperror"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
	cookie  *SessionCookie
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService, cookie *SessionCookie) *Handlers {
	return &Handlers{service: service, cookie: cookie}
}

// RegisterRoutes mounts the auth endpoints under the router it is given
// (main mounts it at /api/auth).
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.HandleRegister())
	r.Post("/login", h.HandleLogin())
	r.Post("/logout", h.HandleLogout())
	r.Get("/me", h.HandleMe())
}

// HandleRegister creates an account and logs the caller in as it.
// 201 with the user, 400 on validation failure or a taken email.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		sess := h.session(r)
		user, err := h.service.Register(r.Context(), sess, req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		h.cookie.Write(w, sess.Token)
		WriteJSON(w, http.StatusCreated, user)
	}
}

// HandleLogin verifies credentials and starts an authenticated session.
// 200 with the user, 401 with a uniform message on any credential failure.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		sess := h.session(r)
		user, err := h.service.Login(r.Context(), sess, req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		h.cookie.Write(w, sess.Token)
		WriteJSON(w, http.StatusOK, user)
	}
}

// HandleLogout ends the session. Always 200 with an empty body, also for
// callers that were never logged in.
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.service.Logout(r.Context(), h.session(r))
		h.cookie.Clear(w)
		w.WriteHeader(http.StatusOK)
	}
}

// HandleMe returns the logged-in user, or 401.
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.session(r)
		hadSession := sess.IsAuthenticated()

		user, err := h.service.CurrentPrincipal(r.Context(), sess)
		if err != nil {
			if hadSession && !sess.IsAuthenticated() {
				// The principal vanished and the session was dropped.
				h.cookie.Clear(w)
			}
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, user)
	}
}

// session returns the request's session, or a fresh anonymous one when the
// handler is mounted without SessionMiddleware (as in some tests).
func (h *Handlers) session(r *http.Request) *Session {
	if sess, ok := SessionFromContext(r.Context()); ok {
		return sess
	}
	return h.service.LoadSession("")
}

// Helper functions for reading requests and writing responses.
// These helpers centralize the JSON plumbing for every resource package.

// DecodeJSON reads a JSON body of at most MaxBodyBytes into dst. Unknown
// fields are ignored. A value of the wrong JSON type is a ValidationError on
// that field; other failures come back as BadRequestError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			return apperror.NewBadRequestError("request body is too large", err)
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return apperror.NewValidationError(typeErr.Field,
				fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type)))
		case errors.Is(err, io.EOF):
			return apperror.NewBadRequestError("request body is required", err)
		default:
			return apperror.NewBadRequestError("invalid request body", err)
		}
	}
	return nil
}

// jsonKind names the JSON type a Go type decodes from.
func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Pointer:
		return jsonKind(t.Elem())
	default:
		return "JSON object"
	}
}

// WriteJSON serializes `data` to JSON and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; all we can do is record it.
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError converts any error into the standardized `{message, field?}` payload.
// Server-side failures are logged with the request id and answered with an
// opaque message; their details never reach the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, _ := apperror.FromError(err)
	if appErr == nil {
		appErr = apperror.NewInternalError("nil error written", nil)
	}

	if appErr.IsServerError() {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", appErr,
		)
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
