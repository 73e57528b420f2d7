package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskKeeper/internal/models/task"
	repo "taskKeeper/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage - вариант репозитория без БД, семантика версий та же,
// что и у postgres: несовпадение версии = конфликт
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func clone(t *task.Task) *task.Task {
	copied := *t
	return &copied
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.CreatedAt = time.Now()
	s.storage[taskToCreate.UUID] = clone(taskToCreate)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok || taskToGet.IsDeleted {
		return nil, repo.ErrNotFound
	}
	return clone(taskToGet), nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.UUID]
	if !ok || existing.IsDeleted {
		return repo.ErrVersionConflict
	}
	if existing.Version != taskToUpdate.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	taskToUpdate.Version++
	s.storage[taskToUpdate.UUID] = clone(taskToUpdate)

	return nil
}

func (s *TaskStorage) DeleteSoft(ctx context.Context, taskToDelete *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToDelete.UUID]
	if !ok || existing.IsDeleted {
		return repo.ErrVersionConflict
	}
	if existing.Version != taskToDelete.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	existing.UpdatedAt = &now
	existing.IsDeleted = true
	existing.Version++

	taskToDelete.UpdatedAt = &now
	taskToDelete.IsDeleted = true
	taskToDelete.Version = existing.Version

	return nil
}

func (s *TaskStorage) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*task.Task, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	owned := []*task.Task{}
	for _, t := range s.storage {
		if t.UserID == ownerID && !t.IsDeleted {
			owned = append(owned, clone(t))
		}
	}

	// новые сверху, как и в postgres-варианте
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := len(owned)
	offset := (page - 1) * limit
	if offset >= total {
		return []*task.Task{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return owned[offset:end], total, nil
}

// GetDueBefore - кандидаты на отмену; исключаемые статусы приходят
// от сервиса, как и в postgres-варианте
func (s *TaskStorage) GetDueBefore(ctx context.Context, deadline time.Time, exclude []task.Status, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	excluded := make(map[task.Status]bool, len(exclude))
	for _, st := range exclude {
		excluded[st] = true
	}

	tasks := []*task.Task{}

	for _, t := range s.storage {
		if len(tasks) >= limit {
			break
		}

		if !t.IsDeleted &&
			!excluded[t.Status] &&
			t.EndAt != nil &&
			t.EndAt.Before(deadline) {

			tasks = append(tasks, clone(t))
		}
	}

	return tasks, nil
}
