package task

import (
	"time"
)

type TaskOption func(*Task)

func New(options ...TaskOption) *Task {
	t := &Task{
		Status: StatusInProgress,
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func WithID(id int64) TaskOption {
	return func(task *Task) {
		task.ID = id
	}
}

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	if description == "" {
		return nil
	}
	return func(task *Task) {
		task.Description = description
	}
}

// WithPercentage выставляет процент вместе со статусом
func WithPercentage(percentage float64) TaskOption {
	return func(task *Task) {
		task.SetCompletion(percentage)
	}
}

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithExpiration(expiration time.Time) TaskOption {
	if expiration.IsZero() {
		return nil
	}
	return func(task *Task) {
		task.ExpirationDate = expiration.UTC()
	}
}
