package inmemory

import (
	"context"
	"sync"
	"time"

	"taskKeeper/internal/models/user"
	repo "taskKeeper/internal/repository"

	"github.com/google/uuid"
)

type UserStorage struct {
	storage map[uuid.UUID]*user.User
	byEmail map[string]uuid.UUID
	mtx     *sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage: make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]uuid.UUID),
		mtx:     &sync.RWMutex{},
	}
}

func clone(u *user.User) *user.User {
	copied := *u
	if u.RefreshToken != nil {
		token := *u.RefreshToken
		copied.RefreshToken = &token
	}
	return &copied
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.byEmail[userToCreate.Email]; exists {
		return repo.ErrDuplicateEmail
	}

	userToCreate.CreatedAt = time.Now()
	s.storage[userToCreate.ID] = clone(userToCreate)
	s.byEmail[userToCreate.Email] = userToCreate.ID
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(u), nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(s.storage[id]), nil
}

func (s *UserStorage) UpdateSession(ctx context.Context, id uuid.UUID, tokenVersion int, refreshToken *string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u, ok := s.storage[id]
	if !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	u.TokenVersion = tokenVersion
	u.UpdatedAt = &now
	if refreshToken != nil {
		token := *refreshToken
		u.RefreshToken = &token
	} else {
		u.RefreshToken = nil
	}
	return nil
}

func (s *UserStorage) BumpTokenVersion(ctx context.Context, id uuid.UUID) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u, ok := s.storage[id]
	if !ok {
		return 0, repo.ErrNotFound
	}

	now := time.Now()
	u.TokenVersion++
	u.RefreshToken = nil
	u.UpdatedAt = &now
	return u.TokenVersion, nil
}
