package handlers

import (
	"context"

	"todoTracker/internal/models/task"
	"todoTracker/internal/service"
)

type Service interface {
	ListTasks(ctx context.Context) ([]*task.Task, error)
	GetTask(ctx context.Context, id int64) (*task.Task, error)
	ListTasksByPeriod(ctx context.Context, period string) ([]*task.Task, error)
	UpsertTask(ctx context.Context, draft *task.Draft) (*service.UpsertResult, error)
	CreateTask(ctx context.Context, draft *task.Draft) (*task.Task, error)
	UpdateTask(ctx context.Context, draft *task.Draft) error
	UpdatePercentage(ctx context.Context, update *task.PercentageUpdate) error
	DeleteTask(ctx context.Context, id int64) error
	MarkAsDone(ctx context.Context, id int64) error
}

var _ Service = (*service.TaskService)(nil)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
