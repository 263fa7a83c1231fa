package ragging

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/campus-portal-go/auth"
)

// ReportHandler handles HTTP requests for ragging reports.
// No route here requires a session.
type ReportHandler struct {
	service ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers the routes on a sub-router mounted at /api/ragging-reports.
func (h *ReportHandler) RegisterRoutes(router chi.Router) {
	router.Post("/", h.createReport)
}

func (h *ReportHandler) createReport(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := auth.DecodeJSON(w, r, &req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	report, err := h.service.Create(r.Context(), req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, report)
}
