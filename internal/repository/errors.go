package repository

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("entity not found")

// ResolutionError неизвестное имя связи в Include
type ResolutionError struct {
	Entity   string
	Relation string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("relation %q is not defined on %s", e.Relation, e.Entity)
}

// PersistenceError хранилище отвергло запрос или коммит
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
