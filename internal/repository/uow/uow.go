package uow

import (
	"context"
	"fmt"

	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/tasks"

	"gorm.io/gorm"
)

type TaskRepository interface {
	GetAll(ctx context.Context, filter repository.Filter, opts ...repository.QueryOption) ([]*task.Task, error)
	Get(ctx context.Context, filter repository.Filter, opts ...repository.QueryOption) (*task.Task, error)
	Add(entity *task.Task)
	Update(entity *task.Task)
	Remove(entity *task.Task)
	RemoveRange(entities []*task.Task)
}

var _ TaskRepository = (*tasks.Repository)(nil)

// UnitOfWork владеет одной сессией; все репозитории пишут через неё.
// Экземпляр живёт в пределах одной операции.
type UnitOfWork struct {
	session *repository.Session
	tasks   *tasks.Repository
}

func New(db *gorm.DB) *UnitOfWork {
	session := repository.NewSession(db)
	return &UnitOfWork{
		session: session,
		tasks:   tasks.New(session),
	}
}

func (u *UnitOfWork) Tasks() TaskRepository {
	return u.tasks
}

// Save commits every staged change atomically.
func (u *UnitOfWork) Save(ctx context.Context) error {
	if err := u.session.Commit(ctx); err != nil {
		return fmt.Errorf("сохранение изменений: %w", err)
	}
	return nil
}

func (u *UnitOfWork) Pending() int {
	return u.session.Pending()
}

type Factory struct {
	db *gorm.DB
}

func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

func (f *Factory) New() *UnitOfWork {
	return New(f.db)
}
