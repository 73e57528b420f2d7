package worker

import (
	"context"
	"errors"
	"time"

	"taskKeeper/internal/logger"
	"taskKeeper/internal/models/task"
	"taskKeeper/internal/service"

	"go.uber.org/zap"
)

// TaskCanceler - кусок TaskService, который нужен воркеру
type TaskCanceler interface {
	GetTasksDueBefore(ctx context.Context, deadline time.Time, limit int) ([]*task.Task, error)
	CancelOverdue(ctx context.Context, t *task.Task) error
}

// OverdueWorker фоном отменяет задачи с прошедшим дедлайном.
// Каждая отмена идёт через версионную проверку: если задачу параллельно
// изменили, воркер её пропускает и вернётся на следующем круге
type OverdueWorker struct {
	tasks     TaskCanceler
	interval  time.Duration
	batchSize int
}

func NewOverdueWorker(tasks TaskCanceler, interval time.Duration, batchSize int) *OverdueWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OverdueWorker{
		tasks:     tasks,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка задач на просроченность", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *OverdueWorker) Check(ctx context.Context) {
	start := time.Now()

	tasks, err := w.tasks.GetTasksDueBefore(ctx, time.Now(), w.batchSize)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return
	}

	canceled := 0
	skipped := 0

	for _, t := range tasks {
		err := w.tasks.CancelOverdue(ctx, t)
		if errors.Is(err, service.ErrNoCanceledStatus) {
			// переводить некуда - считаем пропущенной, а не отменённой
			skipped++
			continue
		}
		if err != nil {
			logger.Warn("Worker: Ошибка отмены задачи",
				zap.String("task_id", t.UUID.String()),
				zap.Error(err))
			skipped++
			continue
		}
		canceled++
	}

	logger.Info(
		"Worker: Завершение проверки задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(tasks)),
		zap.Int("canceled", canceled),
		zap.Int("skipped", skipped),
	)
}
