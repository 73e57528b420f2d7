package service

import (
	"time"

	"taskKeeper/internal/models/task"
)

// TaskOption - функция частичного обновления: хендлер собирает набор
// только из присланных полей и передаёт его в UpdateTask
type TaskOption func(*task.Task)

func WithTitle(title string) TaskOption {
	return func(t *task.Task) {
		t.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(t *task.Task) {
		t.Description = description
	}
}

func WithStatus(status task.Status) TaskOption {
	return func(t *task.Task) {
		t.Status = status
	}
}

func WithStartAt(startAt *time.Time) TaskOption {
	return func(t *task.Task) {
		t.StartAt = startAt
	}
}

func WithEndAt(endAt *time.Time) TaskOption {
	return func(t *task.Task) {
		t.EndAt = endAt
	}
}
