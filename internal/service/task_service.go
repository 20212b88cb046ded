package service

import (
	"context"
	"errors"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/tasks"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeNoContent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeNoContent:
		return "no_content"
	}
	return "unknown"
}

// UpsertResult новый экземпляр на каждый вызов
type UpsertResult struct {
	Outcome Outcome
	Task    *task.Task
}

type TaskService struct {
	newUnit UnitOfWorkFactory
	now     func() time.Time
}

func NewTaskService(factory UnitOfWorkFactory, options ...Option) *TaskService {
	s := &TaskService{
		newUnit: factory,
		now:     time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *TaskService) load(ctx context.Context, unit UnitOfWork, id int64) (*task.Task, error) {
	t, err := unit.Tasks().Get(ctx, tasks.ByID(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("task_id", id))
			return nil, NewNotFound(id)
		}
		logger.Error("Service: Не удалось получить задачу", err, zap.Int64("task_id", id))
		return nil, storeError(err)
	}
	return t, nil
}

func (s *TaskService) save(ctx context.Context, unit UnitOfWork, operation string) error {
	if err := unit.Save(ctx); err != nil {
		logger.Error("Service: Не удалось сохранить изменения", err, zap.String("operation", operation))
		return storeError(err)
	}
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	list, err := s.newUnit().Tasks().GetAll(ctx, repository.All)
	if err != nil {
		logger.Error("Service: Не удалось получить задачи", err)
		return nil, storeError(err)
	}
	return list, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	if id == 0 {
		return nil, NewInvalidArgument("id", "ID cannot be null")
	}
	return s.load(ctx, s.newUnit(), id)
}

// ListTasksByPeriod отбирает задачи по дате истечения: today, nextday, currentweek
func (s *TaskService) ListTasksByPeriod(ctx context.Context, rawPeriod string) ([]*task.Task, error) {
	if rawPeriod == "" {
		return nil, NewInvalidArgument("period", "Period cannot be null")
	}

	period := ParsePeriod(rawPeriod)
	from, to := period.Window(s.now())

	list, err := s.newUnit().Tasks().GetAll(ctx, tasks.ExpiringBetween(from, to))
	if err != nil {
		logger.Error("Service: Не удалось получить задачи за период", err, zap.String("period", string(period)))
		return nil, storeError(err)
	}

	logger.Debug("Service: Задачи за период",
		zap.String("period", string(period)),
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("count", len(list)))
	return list, nil
}

// UpsertTask создаёт задачу при ID == 0, иначе целиком заменяет существующую.
// Ненулевой ID несуществующей задачи даёт обновление без затронутых строк.
func (s *TaskService) UpsertTask(ctx context.Context, draft *task.Draft) (*UpsertResult, error) {
	if draft == nil {
		return nil, NewInvalidArgument("task", "Task payload is required.")
	}

	t := draft.ToTask()
	if err := t.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	unit := s.newUnit()
	result := &UpsertResult{}
	if t.ID == 0 {
		unit.Tasks().Add(t)
		result.Outcome = OutcomeCreated
		result.Task = t
	} else {
		unit.Tasks().Update(t)
		result.Outcome = OutcomeNoContent
	}

	if err := s.save(ctx, unit, "upsert_task"); err != nil {
		return nil, err
	}

	logger.Info("Service: Задача сохранена",
		zap.Int64("task_id", t.ID),
		zap.String("outcome", result.Outcome.String()))
	return result, nil
}

func (s *TaskService) CreateTask(ctx context.Context, draft *task.Draft) (*task.Task, error) {
	if draft == nil {
		return nil, NewInvalidArgument("task", "Task payload is required.")
	}
	if draft.ID != 0 {
		return nil, NewInvalidArgument("id", "ID must be empty when creating a task.")
	}

	t := draft.ToTask()
	if err := t.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	unit := s.newUnit()
	unit.Tasks().Add(t)
	if err := s.save(ctx, unit, "create_task"); err != nil {
		return nil, err
	}

	logger.Info("Service: Задача создана", zap.Int64("task_id", t.ID))
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, draft *task.Draft) error {
	if draft == nil {
		return NewInvalidArgument("task", "Task payload is required.")
	}
	if draft.ID == 0 {
		return NewInvalidArgument("id", "ID cannot be null")
	}

	t := draft.ToTask()
	if err := t.Validate(); err != nil {
		return newValidationError(err)
	}

	unit := s.newUnit()
	if _, err := s.load(ctx, unit, t.ID); err != nil {
		return err
	}

	unit.Tasks().Update(t)
	return s.save(ctx, unit, "update_task")
}

func (s *TaskService) UpdatePercentage(ctx context.Context, update *task.PercentageUpdate) error {
	if update == nil {
		return NewInvalidArgument("task", "Task payload is required.")
	}
	if update.ID == 0 {
		return NewInvalidArgument("id", "ID cannot be null")
	}
	if !task.ValidPercentage(update.Percentage) {
		return NewInvalidArgument("percentage", "Percentage must be between 0 and 100.")
	}

	unit := s.newUnit()
	t, err := s.load(ctx, unit, update.ID)
	if err != nil {
		return err
	}

	t.SetCompletion(update.Percentage)
	unit.Tasks().Update(t)
	if err := s.save(ctx, unit, "update_percentage"); err != nil {
		return err
	}

	logger.Info("Service: Процент выполнения обновлён",
		zap.Int64("task_id", t.ID),
		zap.Float64("percentage", t.CompletionPercentage),
		zap.String("status", string(t.Status)))
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if id == 0 {
		return NewInvalidArgument("id", "ID cannot be null")
	}

	unit := s.newUnit()
	t, err := s.load(ctx, unit, id)
	if err != nil {
		return err
	}

	unit.Tasks().Remove(t)
	if err := s.save(ctx, unit, "delete_task"); err != nil {
		return err
	}

	logger.Info("Service: Задача удалена", zap.Int64("task_id", id))
	return nil
}

// MarkAsDone не идемпотентна: повторный вызов для Done-задачи это ошибка
func (s *TaskService) MarkAsDone(ctx context.Context, id int64) error {
	if id == 0 {
		return NewInvalidArgument("id", "ID cannot be null")
	}

	unit := s.newUnit()
	t, err := s.load(ctx, unit, id)
	if err != nil {
		return err
	}

	if t.IsDone() {
		logger.Info("Service: Задача уже выполнена", zap.Int64("task_id", id))
		return NewAlreadyDone(id)
	}

	t.MarkDone()
	unit.Tasks().Update(t)
	if err := s.save(ctx, unit, "mark_as_done"); err != nil {
		return err
	}

	logger.Info("Service: Задача отмечена выполненной", zap.Int64("task_id", id))
	return nil
}
