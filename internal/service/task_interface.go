package service

import (
	"context"

	"todoTracker/internal/repository/uow"
)

type UnitOfWork interface {
	Tasks() uow.TaskRepository
	Save(ctx context.Context) error
}

// UnitOfWorkFactory выдаёт новый UnitOfWork на каждую операцию
type UnitOfWorkFactory func() UnitOfWork

// FromFactory adapts the gorm-backed factory to the service contract.
func FromFactory(f *uow.Factory) UnitOfWorkFactory {
	return func() UnitOfWork {
		return f.New()
	}
}
