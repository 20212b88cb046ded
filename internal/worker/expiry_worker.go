package worker

import (
	"context"
	"fmt"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	"todoTracker/internal/service"

	"go.uber.org/zap"
)

type PeriodLister interface {
	ListTasksByPeriod(ctx context.Context, period string) ([]*task.Task, error)
}

// ExpiryReporter периодически пишет в лог невыполненные задачи,
// срок которых истекает сегодня или завтра
type ExpiryReporter struct {
	tasks    PeriodLister
	interval time.Duration
}

func NewExpiryReporter(tasks PeriodLister, interval *time.Duration) *ExpiryReporter {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}
	return &ExpiryReporter{
		tasks:    tasks,
		interval: intervalToSet,
	}
}

func (w *ExpiryReporter) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка сроков задач", zap.Time("started_at", time.Now()))
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: Ошибка проверки", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

// Check возвращает число невыполненных задач в окнах today и nextday
func (w *ExpiryReporter) Check(ctx context.Context) (int, error) {
	start := time.Now()
	pending := 0

	for _, period := range []service.Period{service.PeriodToday, service.PeriodNextDay} {
		list, err := w.tasks.ListTasksByPeriod(ctx, string(period))
		if err != nil {
			return pending, fmt.Errorf("получение задач за период %s: %w", period, err)
		}

		for _, t := range list {
			if t.IsDone() {
				continue
			}
			pending++
			logger.Info("Worker: Срок задачи истекает",
				zap.String("period", string(period)),
				zap.Int64("task_id", t.ID),
				zap.String("title", t.Title),
				zap.Float64("percentage", t.CompletionPercentage),
				zap.Time("expiration_date", t.ExpirationDate))
		}
	}

	logger.Info("Worker: Завершение проверки задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int("pending", pending))
	return pending, nil
}
