package issues

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/campus-portal-go/apperror"
	"github.com/user/campus-portal-go/auth"
)

// IssueHandler handles HTTP requests for issues.
// Both routes expect auth.RequireAuth to run first; main mounts them inside
// the authenticated route group.
type IssueHandler struct {
	service IssueService
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(service IssueService) *IssueHandler {
	return &IssueHandler{service: service}
}

// RegisterRoutes registers the issue routes on a sub-router mounted at /api/issues.
func (h *IssueHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.listIssues)
	router.Post("/", h.createIssue)
}

func (h *IssueHandler) listIssues(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
		return
	}

	list, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, list)
}

func (h *IssueHandler) createIssue(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
		return
	}

	var req CreateIssueRequest
	if err := auth.DecodeJSON(w, r, &req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	issue, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, issue)
}
