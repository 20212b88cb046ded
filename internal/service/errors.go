package service

import (
	"errors"
	"fmt"
	"strings"

	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
)

const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyDone     = "ALREADY_DONE"
	CodePersistence     = "PERSISTENCE_ERROR"
	CodeResolution      = "RESOLUTION_ERROR"
)

type BusinessError struct {
	Code     string
	Messages []string
	Details  map[string]any
	Err      error
}

// сентинелы для errors.Is: сравнение идёт по коду
var (
	ErrInvalidArgument = &BusinessError{Code: CodeInvalidArgument}
	ErrNotFound        = &BusinessError{Code: CodeNotFound}
	ErrAlreadyDone     = &BusinessError{Code: CodeAlreadyDone}
	ErrPersistence     = &BusinessError{Code: CodePersistence}
	ErrResolution      = &BusinessError{Code: CodeResolution}
)

func (b *BusinessError) Error() string {
	msg := strings.Join(b.Messages, "; ")
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, msg, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, msg)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func (b *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	return ok && t.Code == b.Code
}

type Detail struct {
	Key     string
	Payload any
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, messages []string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:     code,
		Messages: messages,
		Details:  make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewInvalidArgument(field, message string) *BusinessError {
	return NewBusinessError(CodeInvalidArgument, []string{message}, ToDetail("field", field))
}

func NewNotFound(id int64) *BusinessError {
	return NewBusinessError(CodeNotFound,
		[]string{fmt.Sprintf("Task %d not found.", id)},
		ToDetail("resource", "task"),
		ToDetail("id", id))
}

func NewAlreadyDone(id int64) *BusinessError {
	return NewBusinessError(CodeAlreadyDone,
		[]string{"Task already marked as done"},
		ToDetail("id", id))
}

func newValidationError(err error) *BusinessError {
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		busErr := NewBusinessError(CodeInvalidArgument, verr.Messages)
		busErr.Err = err
		return busErr
	}
	busErr := NewBusinessError(CodeInvalidArgument, []string{err.Error()})
	busErr.Err = err
	return busErr
}

// storeError переводит ошибки слоя данных в бизнес-ошибки
func storeError(err error) *BusinessError {
	var rerr *repository.ResolutionError
	if errors.As(err, &rerr) {
		busErr := NewBusinessError(CodeResolution,
			[]string{rerr.Error()},
			ToDetail("entity", rerr.Entity),
			ToDetail("relation", rerr.Relation))
		busErr.Err = err
		return busErr
	}

	busErr := NewBusinessError(CodePersistence, []string{"The store rejected the operation."})
	busErr.Err = err
	return busErr
}
