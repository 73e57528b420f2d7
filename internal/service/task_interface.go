package service

import (
	"context"
	"time"

	"taskKeeper/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Update(context.Context, *task.Task) error
	DeleteSoft(context.Context, *task.Task) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*task.Task, int, error)
	GetDueBefore(ctx context.Context, deadline time.Time, exclude []task.Status, limit int) ([]*task.Task, error)
}
