package repository

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"todoTracker/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const slowQuery = 100 * time.Millisecond

// Repository gives filtered access to entities of type T. Reads go straight to
// the store, writes are staged in the session until it commits.
type Repository[T any] struct {
	session *Session
}

func NewRepository[T any](session *Session) *Repository[T] {
	return &Repository[T]{session: session}
}

func (r *Repository[T]) Session() *Session {
	return r.session
}

func (r *Repository[T]) schema() (*schema.Schema, error) {
	stmt := &gorm.Statement{DB: r.session.db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("разбор схемы: %w", err)
	}
	return stmt.Schema, nil
}

func hasRelation(sch *schema.Schema, path string) bool {
	cur := sch
	for _, name := range strings.Split(path, ".") {
		rel, ok := cur.Relationships.Relations[name]
		if !ok {
			return false
		}
		cur = rel.FieldSchema
	}
	return true
}

func (r *Repository[T]) query(ctx context.Context, sch *schema.Schema, filter Filter, o queryOptions) (*gorm.DB, error) {
	q := r.session.db.WithContext(ctx).Model(new(T))
	if !filter.IsZero() {
		q = q.Clauses(clause.Where{Exprs: []clause.Expression{filter.expr}})
	}
	for _, rel := range o.include {
		if !hasRelation(sch, rel) {
			return nil, &ResolutionError{Entity: sch.Name, Relation: rel}
		}
		q = q.Preload(rel)
	}
	return q, nil
}

func (r *Repository[T]) find(ctx context.Context, filter Filter, opts []QueryOption, limit int) ([]*T, error) {
	start := time.Now()
	o := buildOptions(opts)

	sch, err := r.schema()
	if err != nil {
		return nil, &PersistenceError{Op: "query", Err: err}
	}

	q, err := r.query(ctx, sch, filter, o)
	if err != nil {
		logger.Warn("Repository: Неизвестная связь", zap.Error(err))
		return nil, err
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var items []*T
	if err := q.Find(&items).Error; err != nil {
		return nil, &PersistenceError{Op: "query", Err: err}
	}

	if o.tracked {
		for i, item := range items {
			items[i] = r.attach(ctx, sch, item)
		}
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос",
			zap.String("entity", sch.Name),
			zap.Duration("ms", time.Since(start)))
	}
	return items, nil
}

// GetAll returns every entity matching filter; All returns the whole table.
func (r *Repository[T]) GetAll(ctx context.Context, filter Filter, opts ...QueryOption) ([]*T, error) {
	return r.find(ctx, filter, opts, 0)
}

// Get returns the first match in the store's natural order, or ErrNotFound.
func (r *Repository[T]) Get(ctx context.Context, filter Filter, opts ...QueryOption) (*T, error) {
	items, err := r.find(ctx, filter, opts, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items[0], nil
}

func (r *Repository[T]) Add(entity *T) {
	r.session.stage(&change{
		kind:   changeAdd,
		entity: entity,
		reset:  r.identityReset(entity),
	})
}

func (r *Repository[T]) Remove(entity *T) {
	r.session.stage(&change{kind: changeRemove, entity: entity})
}

func (r *Repository[T]) RemoveRange(entities []*T) {
	for _, entity := range entities {
		r.Remove(entity)
	}
}

// attach возвращает уже отслеживаемый экземпляр той же строки, если он есть
func (r *Repository[T]) attach(ctx context.Context, sch *schema.Schema, item *T) *T {
	pk := sch.PrioritizedPrimaryField
	if pk == nil {
		return item
	}
	id, zero := pk.ValueOf(ctx, reflect.ValueOf(item))
	if zero {
		return item
	}

	key := fmt.Sprintf("%s:%v", sch.Table, id)
	if existing, ok := r.session.lookup(key); ok {
		if cur, ok := existing.(*T); ok {
			return cur
		}
	}

	snapshot := *item
	r.session.track(key, &trackedEntry{
		entity:  item,
		dirty:   func() bool { return !reflect.DeepEqual(*item, snapshot) },
		refresh: func() { snapshot = *item },
	})
	return item
}

func (r *Repository[T]) identityReset(entity *T) func() {
	sch, err := r.schema()
	if err != nil || sch.PrioritizedPrimaryField == nil {
		return nil
	}
	pk := sch.PrioritizedPrimaryField
	value := reflect.ValueOf(entity)
	before, _ := pk.ValueOf(context.Background(), value)

	return func() {
		if err := pk.Set(context.Background(), value, before); err != nil {
			logger.Warn("Repository: Не удалось сбросить идентификатор", zap.Error(err))
		}
	}
}
