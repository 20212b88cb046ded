package task

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Task struct {
	ID                   int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title                string    `json:"title" gorm:"not null"`
	Description          string    `json:"description" gorm:"not null"`
	CompletionPercentage float64   `json:"completionPercentage" gorm:"not null;check:chk_tasks_completion_percentage,completion_percentage >= 0 AND completion_percentage <= 100"`
	ExpirationDate       time.Time `json:"expirationDate" gorm:"not null;index:idx_tasks_expiration_date"`
	Status               Status    `json:"status" gorm:"not null;check:chk_tasks_status,status IN ('InProgress', 'Done')"`
}

func (Task) TableName() string {
	return "tasks"
}

type Status string

const StatusInProgress Status = "InProgress"
const StatusDone Status = "Done"

const MinPercentage = 0.0
const MaxPercentage = 100.0

func (s Status) Valid() bool {
	return s == StatusInProgress || s == StatusDone
}

// ValidPercentage отсекает NaN и значения вне [0, 100]
func ValidPercentage(p float64) bool {
	return !math.IsNaN(p) && p >= MinPercentage && p <= MaxPercentage
}

// SetCompletion единственное место, где статус выводится из процента
func (t *Task) SetCompletion(percentage float64) {
	t.CompletionPercentage = percentage
	if percentage == MaxPercentage {
		t.Status = StatusDone
	} else {
		t.Status = StatusInProgress
	}
}

func (t *Task) MarkDone() {
	t.Status = StatusDone
	t.CompletionPercentage = MaxPercentage
}

func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid task: " + strings.Join(e.Messages, "; ")
}

func (t *Task) Validate() error {
	var msgs []string
	if strings.TrimSpace(t.Title) == "" {
		msgs = append(msgs, "Title is required.")
	}
	if strings.TrimSpace(t.Description) == "" {
		msgs = append(msgs, "Description is required.")
	}
	if !ValidPercentage(t.CompletionPercentage) {
		msgs = append(msgs, "Percentage value must be between 0 to 100.")
	}
	if !t.Status.Valid() {
		msgs = append(msgs, fmt.Sprintf("Status %q is not supported.", t.Status))
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// Draft входные данные для создания/замены задачи
type Draft struct {
	ID             int64
	Title          string
	Description    string
	ExpirationDate time.Time
}

// ToTask собирает новую задачу: процент и статус всегда сбрасываются
func (d *Draft) ToTask() *Task {
	return &Task{
		ID:                   d.ID,
		Title:                d.Title,
		Description:          d.Description,
		CompletionPercentage: MinPercentage,
		ExpirationDate:       d.ExpirationDate.UTC(),
		Status:               StatusInProgress,
	}
}

type PercentageUpdate struct {
	ID         int64
	Percentage float64
}
