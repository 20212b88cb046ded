package tasks

import (
	"time"

	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
)

// Repository добавляет к общему репозиторию явное обновление задачи
type Repository struct {
	*repository.Repository[task.Task]
}

func New(session *repository.Session) *Repository {
	return &Repository{
		Repository: repository.NewRepository[task.Task](session),
	}
}

// Update stages a full replacement of the row with taskToUpdate.ID. An id
// that is not in the store affects no rows and is not reported as an error.
func (r *Repository) Update(taskToUpdate *task.Task) {
	r.Session().MarkModified(taskToUpdate)
}

func ByID(id int64) repository.Filter {
	return repository.Eq("id", id)
}

func ByStatus(status task.Status) repository.Filter {
	return repository.Eq("status", string(status))
}

func ExpiringBetween(from, to time.Time) repository.Filter {
	return repository.BetweenDates("expiration_date", from, to)
}
