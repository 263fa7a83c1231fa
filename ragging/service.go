package ragging

import (
	"context"
	"log/slog"

	"github.com/user/campus-portal-go/validate"
)

// ReportService defines the operations the handler depends on.
type ReportService interface {
	Create(ctx context.Context, req CreateReportRequest) (*Report, error)
}

type reportServiceImpl struct {
	store  Store
	logger *slog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(store Store, logger *slog.Logger) ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportServiceImpl{store: store, logger: logger}
}

// Create validates and stores a report. The victim name is kept even when
// IsAnonymous is set.
func (s *reportServiceImpl) Create(ctx context.Context, req CreateReportRequest) (*Report, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	nr := NewReport{
		VictimName:  req.VictimName,
		Location:    req.Location,
		Description: req.Description,
		IsAnonymous: req.IsAnonymous,
	}
	if req.ImageURL != "" {
		url := req.ImageURL
		nr.ImageURL = &url
	}

	report, err := s.store.Create(ctx, nr)
	if err != nil {
		return nil, err
	}
	// Report contents are confidential; only the id is logged.
	s.logger.InfoContext(ctx, "ragging report filed", "report_id", report.ID)
	return report, nil
}
