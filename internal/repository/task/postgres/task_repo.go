package postgres

import (
	"context"
	"fmt"
	"time"

	"taskKeeper/internal/logger"
	"taskKeeper/internal/models/task"
	repo "taskKeeper/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, user_id, title, description, status, start_task_at, end_task_at, version, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.UserID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.StartAt,
		taskToCreate.EndAt,
		taskToCreate.Version,
		time.Now(),
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// GetByID отдаёт только не удалённые задачи: для мягко удалённой
// записи поведение неотличимо от отсутствующей
func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				user_id,
				title,
				description,
				status,
				start_task_at,
				end_task_at,
				created_at,
				updated_at,
				version,
				is_deleted
				FROM tasks
				WHERE uuid = $1 AND is_deleted = FALSE`

	t := &task.Task{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.UUID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.StartAt,
		&t.EndAt,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Version,
		&t.IsDeleted,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				start_task_at = $4,
				end_task_at = $5,
				version = version + 1,
				updated_at = NOW()
			WHERE uuid = $6 AND version = $7 AND is_deleted = FALSE
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Status,
		taskToUpdate.StartAt,
		taskToUpdate.EndAt,
		taskToUpdate.UUID,
		taskToUpdate.Version,
	).Scan(&taskToUpdate.UpdatedAt, &taskToUpdate.Version)

	if err != nil {
		if err == pgx.ErrNoRows {
			logger.Warn("Конфликт версий при обновлении задачи",
				zap.String("task_id", taskToUpdate.UUID.String()),
				zap.Int("expected_version", taskToUpdate.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// мягкое удаление задачи
func (s *Storage) DeleteSoft(ctx context.Context, taskToDelete *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
				SET is_deleted = TRUE,
				version = version + 1,
				updated_at = NOW()
			WHERE uuid = $1 AND version = $2 AND is_deleted = FALSE
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query, taskToDelete.UUID, taskToDelete.Version).
		Scan(&taskToDelete.UpdatedAt, &taskToDelete.Version)

	if err != nil {
		if err == pgx.ErrNoRows {
			logger.Warn("Конфликт версий при мягком удалении",
				zap.String("task_id", taskToDelete.UUID.String()),
				zap.Int("expected_version", taskToDelete.Version))
			return repo.ErrVersionConflict
		}

		logger.Error("Repository: Мягкое удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("мягкое удаление: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	taskToDelete.IsDeleted = true
	return nil
}

// ListByOwner - страница задач владельца (новые сверху) и общее количество
func (s *Storage) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*task.Task, int, error) {
	start := time.Now()
	offset := (page - 1) * limit

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND is_deleted = FALSE`
	if err := s.pool.QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return nil, 0, fmt.Errorf("подсчёт задач: %w", err)
	}

	query := `SELECT
				uuid,
				user_id,
				title,
				description,
				status,
				start_task_at,
				end_task_at,
				created_at,
				updated_at,
				version,
				is_deleted
				FROM tasks
				WHERE user_id = $1 AND is_deleted = FALSE
				ORDER BY created_at DESC
				LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, 0, fmt.Errorf("получение задач: %w", err)
	}

	defer rows.Close()

	tasks := []*task.Task{}

	for rows.Next() {
		t := &task.Task{}

		err := rows.Scan(
			&t.UUID,
			&t.UserID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.StartAt,
			&t.EndAt,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.Version,
			&t.IsDeleted,
		)

		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, 0, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*50+time.Millisecond*10*time.Duration(limit) {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, total, nil
}

// GetDueBefore - задачи с прошедшим дедлайном для фонового воркера.
// Исключаемые статусы приходят от сервиса: их имена задаёт конфигурация
func (s *Storage) GetDueBefore(ctx context.Context, deadline time.Time, exclude []task.Status, limit int) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				user_id,
				title,
				description,
				status,
				start_task_at,
				end_task_at,
				created_at,
				updated_at,
				version,
				is_deleted
				FROM tasks
				WHERE is_deleted = FALSE
					AND status <> ALL($1)
					AND end_task_at IS NOT NULL
					AND end_task_at < $2
				LIMIT $3`

	excluded := make([]string, len(exclude))
	for i, st := range exclude {
		excluded[i] = string(st)
	}

	rows, err := s.pool.Query(ctx, query, excluded, deadline, limit)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t := &task.Task{}

		err := rows.Scan(
			&t.UUID,
			&t.UserID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.StartAt,
			&t.EndAt,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.Version,
			&t.IsDeleted,
		)

		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*50+time.Millisecond*10*time.Duration(limit) {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}
