package handlers

import (
	"context"
	"time"

	"taskKeeper/internal/models/task"
	"taskKeeper/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(context.Context) error
	CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, startAt, endAt *time.Time) (*task.Task, error)
	UpdateTask(ctx context.Context, requesterID, id uuid.UUID, options ...service.TaskOption) (*task.Task, error)
	CompleteTask(ctx context.Context, requesterID, id uuid.UUID) (*task.Task, error)
	DeleteTask(ctx context.Context, requesterID, id uuid.UUID) error
	ListTasks(ctx context.Context, requesterID uuid.UUID, page, limit int) (*service.TaskPage, error)
}
