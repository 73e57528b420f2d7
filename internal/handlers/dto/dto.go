package dto

import (
	"time"

	"taskKeeper/internal/models/task"
	"taskKeeper/internal/models/user"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	Message      string      `json:"message"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         user.Public `json:"user"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTaskAt *time.Time `json:"start_task_at,omitempty"`
	StartDate   string     `json:"start_date,omitempty"`
	StartTime   string     `json:"start_time,omitempty"`
	EndTaskAt   *time.Time `json:"end_task_at,omitempty"`
	EndDate     string     `json:"end_date,omitempty"`
	EndTime     string     `json:"end_time,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	StartTaskAt *time.Time `json:"start_task_at,omitempty"`
	StartDate   string     `json:"start_date,omitempty"`
	StartTime   string     `json:"start_time,omitempty"`
	EndTaskAt   *time.Time `json:"end_task_at,omitempty"`
	EndDate     string     `json:"end_date,omitempty"`
	EndTime     string     `json:"end_time,omitempty"`
}

type TaskResponse struct {
	UUID        uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartTaskAt *time.Time `json:"start_task_at,omitempty"`
	EndTaskAt   *time.Time `json:"end_task_at,omitempty"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type TaskListResponse struct {
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
	Data  []TaskResponse `json:"data"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		UUID:        t.UUID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		StartTaskAt: t.StartAt,
		EndTaskAt:   t.EndAt,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
