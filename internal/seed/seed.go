package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/uow"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed tasks.yml
var fixture []byte

type fixtureFile struct {
	Tasks []fixtureTask `yaml:"tasks"`
}

type fixtureTask struct {
	Title                string      `yaml:"title"`
	Description          string      `yaml:"description"`
	CompletionPercentage float64     `yaml:"completion_percentage"`
	ExpirationDate       time.Time   `yaml:"expiration_date"`
	Status               task.Status `yaml:"status"`
}

// Load разбирает встроенный набор задач
func Load() ([]*task.Task, error) {
	return Parse(fixture)
}

func Parse(data []byte) ([]*task.Task, error) {
	var file fixtureFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("ошибка парсинга сидов: %w", err)
	}

	result := make([]*task.Task, 0, len(file.Tasks))
	for i, ft := range file.Tasks {
		t := task.New(
			task.WithTitle(ft.Title),
			task.WithDescription(ft.Description),
			task.WithExpiration(ft.ExpirationDate),
			task.WithPercentage(ft.CompletionPercentage),
			task.WithStatus(ft.Status),
		)
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("сид #%d: %w", i+1, err)
		}
		result = append(result, t)
	}
	return result, nil
}

type Unit interface {
	Tasks() uow.TaskRepository
	Save(ctx context.Context) error
}

// Apply добавляет сиды, только если таблица пуста. Возвращает число добавленных задач.
func Apply(ctx context.Context, unit Unit) (int, error) {
	existing, err := unit.Tasks().Get(ctx, repository.All)
	if err == nil && existing != nil {
		logger.Info("Seed: Таблица не пуста, сиды пропущены")
		return 0, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return 0, fmt.Errorf("проверка задач: %w", err)
	}

	list, err := Load()
	if err != nil {
		return 0, err
	}
	for _, t := range list {
		unit.Tasks().Add(t)
	}
	if err := unit.Save(ctx); err != nil {
		return 0, fmt.Errorf("запись сидов: %w", err)
	}

	logger.Info("Seed: Добавлены задачи", zap.Int("count", len(list)))
	return len(list), nil
}
