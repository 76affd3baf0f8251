package repository

import (
	"context"
	"sync"
	"time"

	"github.com/asleulv/vervekart/internal/domain"
)

// MemoryUsersRepo backs registration when no database is configured and in
// unit tests. Same idempotence as the Postgres version: one row per name.
type MemoryUsersRepo struct {
	mu     sync.Mutex
	byName map[string]*domain.User
	nextID int64
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{
		byName: map[string]*domain.User{},
		nextID: 1,
	}
}

var _ UsersRepository = (*MemoryUsersRepo)(nil)

func (r *MemoryUsersRepo) RegisterUser(_ context.Context, name, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byName[name]; ok {
		copied := *u
		return &copied, nil
	}

	u := &domain.User{
		ID:        r.nextID,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.byName[name] = u

	copied := *u
	return &copied, nil
}
