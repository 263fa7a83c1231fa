package issues

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	issues []Issue
	nextID int
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore. IDs start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, ni NewIssue) (*Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue := Issue{
		ID:          s.nextID,
		UserID:      ni.UserID,
		Type:        ni.Type,
		Location:    ni.Location,
		Description: ni.Description,
		ImageURL:    copyString(ni.ImageURL),
		Status:      StatusPending,
		CreatedAt:   s.now().UTC(),
	}
	s.nextID++
	s.issues = append(s.issues, issue)

	out := issue
	out.ImageURL = copyString(issue.ImageURL)
	return &out, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID int) ([]Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Issue, 0)
	for _, issue := range s.issues {
		if issue.UserID == userID {
			issue.ImageURL = copyString(issue.ImageURL)
			list = append(list, issue)
		}
	}
	return list, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issues), nil
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
