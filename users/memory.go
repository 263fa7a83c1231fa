package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/campus-portal-go/apperror"
)

// MemoryStore implements Store in process memory. It is used for local
// development (STORE_DRIVER=memory) and by tests in other packages.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[int]*User
	byEmail map[string]int
	nextID  int
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore. IDs start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[int]*User),
		byEmail: make(map[string]int),
		nextID:  1,
		now:     time.Now,
	}
}

func (s *MemoryStore) GetByID(_ context.Context, id int) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}
	cp := *s.byID[id]
	return &cp, nil
}

// Create enforces email uniqueness under the write lock, mirroring the
// database constraint.
func (s *MemoryStore) Create(_ context.Context, nu NewUser) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[nu.Email]; taken {
		return nil, apperror.NewConflictError("Email already exists", nil)
	}

	u := &User{
		ID:           s.nextID,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		FullName:     nu.FullName,
		IsAdmin:      nu.IsAdmin,
		CreatedAt:    s.now().UTC(),
	}
	s.nextID++
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u.ID

	cp := *u
	return &cp, nil
}
