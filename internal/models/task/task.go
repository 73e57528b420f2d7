package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	StartAt     *time.Time `json:"start_task_at,omitempty" db:"start_task_at"`
	EndAt       *time.Time `json:"end_task_at,omitempty" db:"end_task_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
	Version     int        `db:"version" json:"version"`
	IsDeleted   bool       `json:"is_deleted" db:"is_deleted"`
}

type Status string

// полный набор известных статусов; какое подмножество включено —
// решает конфигурация (ревизии схемы отличаются)
const StatusPending Status = "pending"
const StatusToDo Status = "to_do"
const StatusProcessing Status = "processing"
const StatusCompleted Status = "completed"
const StatusCanceled Status = "canceled"
