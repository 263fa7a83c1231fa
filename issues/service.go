// Package issues, as part of the issues module.
// This file, `service.go`, contains the business logic for issue operations.
// It acts as the "Service" layer, analogous to a Service class in Nest.js.
package issues

import (
	"context"
	"log/slog"

	"github.com/user/campus-portal-go/validate"
)

// IssueService defines the operations the handler depends on.
// Handlers depend on this interface rather than the concrete implementation.
type IssueService interface {
	Create(ctx context.Context, userID int, req CreateIssueRequest) (*Issue, error)
	ListForUser(ctx context.Context, userID int) ([]Issue, error)
}

// issueServiceImpl is the implementation of IssueService.
type issueServiceImpl struct {
	store  Store
	logger *slog.Logger
}

// NewIssueService creates a new IssueService.
func NewIssueService(store Store, logger *slog.Logger) IssueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &issueServiceImpl{store: store, logger: logger}
}

// Create validates req and stores it as a Pending issue owned by userID.
// Nothing is persisted when validation fails.
func (s *issueServiceImpl) Create(ctx context.Context, userID int, req CreateIssueRequest) (*Issue, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	ni := NewIssue{
		UserID:      userID,
		Type:        req.Type,
		Location:    req.Location,
		Description: req.Description,
	}
	if req.ImageURL != "" {
		url := req.ImageURL
		ni.ImageURL = &url
	}

	issue, err := s.store.Create(ctx, ni)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "issue reported", "issue_id", issue.ID, "user_id", userID, "type", issue.Type)
	return issue, nil
}

// ListForUser returns the caller's issues, oldest first. The result is never
// nil, so an empty list serializes as `[]`.
func (s *issueServiceImpl) ListForUser(ctx context.Context, userID int) ([]Issue, error) {
	list, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Issue{}
	}
	return list, nil
}
