package ragging

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	reports []Report
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore. IDs start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, nr NewReport) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Report{
		ID:          len(s.reports) + 1,
		VictimName:  nr.VictimName,
		Location:    nr.Location,
		Description: nr.Description,
		IsAnonymous: nr.IsAnonymous,
		CreatedAt:   s.now().UTC(),
	}
	if nr.ImageURL != nil {
		v := *nr.ImageURL
		r.ImageURL = &v
	}
	s.reports = append(s.reports, r)
	return &r, nil
}

// All returns a snapshot of every stored report in insertion order.
func (s *MemoryStore) All() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Report(nil), s.reports...)
}
