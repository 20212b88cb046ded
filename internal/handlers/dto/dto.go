package dto

import (
	"time"

	"todoTracker/internal/models/task"
)

type UpsertTaskRequest struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ExpirationDate time.Time `json:"expirationDate"`
}

func (r *UpsertTaskRequest) ToDraft() *task.Draft {
	if r == nil {
		return nil
	}
	return &task.Draft{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		ExpirationDate: r.ExpirationDate,
	}
}

type UpdatePercentageRequest struct {
	ID         int64   `json:"id"`
	Percentage float64 `json:"percentage"`
}

func (r *UpdatePercentageRequest) ToUpdate() *task.PercentageUpdate {
	if r == nil {
		return nil
	}
	return &task.PercentageUpdate{
		ID:         r.ID,
		Percentage: r.Percentage,
	}
}

type TaskResponse struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	CompletionPercentage float64   `json:"completionPercentage"`
	ExpirationDate       time.Time `json:"expirationDate"`
	Status               string    `json:"status"`
	IsExpired            bool      `json:"isExpired"`
}

func FromTask(t *task.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		CompletionPercentage: t.CompletionPercentage,
		ExpirationDate:       t.ExpirationDate.UTC(),
		Status:               string(t.Status),
		IsExpired:            !t.IsDone() && t.ExpirationDate.Before(now),
	}
}

func FromTaskList(tasks []*task.Task, now time.Time) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, now)
	}
	return result
}
