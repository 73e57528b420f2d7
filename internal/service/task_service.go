package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"taskKeeper/internal/config"
	"taskKeeper/internal/logger"
	"taskKeeper/internal/models/task"
	rep "taskKeeper/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики: владелец, версии, статусы

type TaskService struct {
	repo TaskRepository

	statuses        map[task.Status]bool
	defaultStatus   task.Status
	completedStatus task.Status
	canceledStatus  task.Status
	defaultLimit    int
	maxLimit        int
}

func NewTaskService(repo TaskRepository, cfg config.TasksConfig) TaskService {
	statuses := make(map[task.Status]bool, len(cfg.Statuses))
	for _, s := range cfg.Statuses {
		statuses[task.Status(s)] = true
	}

	return TaskService{
		repo:            repo,
		statuses:        statuses,
		defaultStatus:   task.Status(cfg.DefaultStatus),
		completedStatus: task.Status(cfg.CompletedStatus),
		canceledStatus:  task.Status(cfg.CanceledStatus),
		defaultLimit:    cfg.DefaultLimit,
		maxLimit:        cfg.MaxLimit,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var timeRe = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// CombineDateTime склеивает раздельные дату и время в один момент.
// Формат строгий: YYYY-MM-DD и HH:MM либо HH:MM:SS
func CombineDateTime(field, dateStr, timeStr string) (time.Time, error) {
	if !dateRe.MatchString(dateStr) || !timeRe.MatchString(timeStr) {
		return time.Time{}, NewValidationError(field, "ожидается YYYY-MM-DD и HH:MM или HH:MM:SS")
	}

	if len(timeStr) == 5 {
		timeStr += ":00"
	}

	combined, err := time.Parse("2006-01-02 15:04:05", dateStr+" "+timeStr)
	if err != nil {
		return time.Time{}, NewValidationError(field, "несуществующая дата или время")
	}

	return combined, nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, startAt, endAt *time.Time) (*task.Task, error) {
	if title == "" {
		return nil, NewValidationError("title", "обязательное поле")
	}

	newTask := &task.Task{
		UUID:        uuid.New(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      s.defaultStatus,
		StartAt:     startAt,
		EndAt:       endAt,
		Version:     1,
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.UUID.String()),
		zap.String("user_id", ownerID.String()))

	return newTask, nil
}

// getOwned достаёт задачу и проверяет владельца - каждая мутация
// начинается с этих двух шагов
func (s *TaskService) getOwned(ctx context.Context, requesterID, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if t.UserID != requesterID {
		logger.Warn("Service: Попытка доступа к чужой задаче",
			zap.String("task_id", id.String()),
			zap.String("requester_id", requesterID.String()))
		return nil, NewForbidden("задача принадлежит другому пользователю")
	}

	return t, nil
}

// UpdateTask - общий путь обновления. Статус здесь принимается любой из
// конфигурационного набора, без проверки машины состояний - строгий
// переход есть только у CompleteTask
func (s *TaskService) UpdateTask(ctx context.Context, requesterID, id uuid.UUID, options ...TaskOption) (*task.Task, error) {
	if len(options) == 0 {
		return nil, NewValidationError("body", "нечего обновлять")
	}

	t, err := s.getOwned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	for _, opt := range options {
		opt(t)
	}

	if !s.statuses[t.Status] {
		return nil, NewValidationError("status", fmt.Sprintf("недопустимый статус '%s'", t.Status))
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return nil, NewVersionConflict("задача", id.String())
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	return t, nil
}

// CompleteTask - единственный переход, охраняемый машиной состояний:
// из начального статуса в завершённый, всё остальное отклоняется
func (s *TaskService) CompleteTask(ctx context.Context, requesterID, id uuid.UUID) (*task.Task, error) {
	t, err := s.getOwned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if t.Status != s.defaultStatus {
		logger.Info("Service: Недопустимый переход статуса",
			zap.String("task_id", id.String()),
			zap.String("current", string(t.Status)))
		return nil, NewInvalidState(string(t.Status), string(s.defaultStatus))
	}

	t.Status = s.completedStatus

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return nil, NewVersionConflict("задача", id.String())
		}
		return nil, fmt.Errorf("завершение задачи: %w", err)
	}

	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, requesterID, id uuid.UUID) error {
	t, err := s.getOwned(ctx, requesterID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSoft(ctx, t); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return NewVersionConflict("задача", id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}

// TaskPage - страница списка задач с фактическими параметрами пагинации
type TaskPage struct {
	Tasks []*task.Task
	Total int
	Page  int
	Limit int
}

func (s *TaskService) ListTasks(ctx context.Context, requesterID uuid.UUID, page, limit int) (*TaskPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	// потолок из конфига, что бы ни прислал клиент
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	tasks, total, err := s.repo.ListByOwner(ctx, requesterID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	return &TaskPage{
		Tasks: tasks,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// ErrNoCanceledStatus - в конфигурации нет отменённого статуса,
// переводить просроченные задачи некуда
var ErrNoCanceledStatus = errors.New("отменённый статус не настроен")

// CancelOverdue переводит просроченную задачу в отменённый статус,
// если такой статус вообще включён в конфигурации. Используется воркером
func (s *TaskService) CancelOverdue(ctx context.Context, t *task.Task) error {
	if s.canceledStatus == "" || !s.statuses[s.canceledStatus] {
		return ErrNoCanceledStatus
	}

	t.Status = s.canceledStatus
	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			// задачу параллельно кто-то изменил - пропускаем, воркер
			// вернётся к ней на следующем круге
			return NewVersionConflict("задача", t.UUID.String())
		}
		return fmt.Errorf("отмена просроченной задачи: %w", err)
	}
	return nil
}

// GetTasksDueBefore отдаёт кандидатов на отмену. Терминальные статусы
// берутся из конфигурации, а не из констант: имена статусов - настройка
func (s *TaskService) GetTasksDueBefore(ctx context.Context, deadline time.Time, limit int) ([]*task.Task, error) {
	exclude := make([]task.Status, 0, 2)
	if s.completedStatus != "" {
		exclude = append(exclude, s.completedStatus)
	}
	if s.canceledStatus != "" {
		exclude = append(exclude, s.canceledStatus)
	}

	tasks, err := s.repo.GetDueBefore(ctx, deadline, exclude, limit)
	if err != nil {
		return nil, fmt.Errorf("получение просроченных задач: %w", err)
	}
	return tasks, nil
}
