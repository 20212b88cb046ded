package repository

import (
	"context"
	"errors"
	"time"

	"todoTracker/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type changeKind int

const (
	changeAdd changeKind = iota
	changeUpdate
	changeRemove
)

func (k changeKind) String() string {
	switch k {
	case changeAdd:
		return "add"
	case changeUpdate:
		return "update"
	case changeRemove:
		return "remove"
	}
	return "unknown"
}

type change struct {
	kind   changeKind
	entity any
	// откатывает идентификатор, выданный хранилищем в неудачной транзакции
	reset func()
}

type trackedEntry struct {
	entity  any
	dirty   func() bool
	refresh func()
}

// Session накапливает изменения и применяет их одной транзакцией.
// Не предназначена для конкурентного использования: одна сессия на одну операцию.
type Session struct {
	db      *gorm.DB
	changes []*change
	tracked map[string]*trackedEntry
	order   []string
}

func NewSession(db *gorm.DB) *Session {
	return &Session{
		db:      db,
		tracked: make(map[string]*trackedEntry),
	}
}

func (s *Session) DB() *gorm.DB {
	return s.db
}

func (s *Session) find(entity any) int {
	for i, c := range s.changes {
		if c.entity == entity {
			return i
		}
	}
	return -1
}

func (s *Session) stage(c *change) {
	idx := s.find(c.entity)
	if idx < 0 {
		s.changes = append(s.changes, c)
		return
	}

	prev := s.changes[idx]
	switch {
	case prev.kind == changeAdd && c.kind == changeRemove:
		// ещё не записанная сущность просто забывается
		s.changes = append(s.changes[:idx], s.changes[idx+1:]...)
	case prev.kind == changeAdd:
		// повторное обновление добавленной сущности ничего не меняет
	default:
		prev.kind = c.kind
	}
}

// MarkModified stages a full-row update of an already persisted entity.
func (s *Session) MarkModified(entity any) {
	s.stage(&change{kind: changeUpdate, entity: entity})
}

func (s *Session) track(key string, entry *trackedEntry) {
	if _, ok := s.tracked[key]; !ok {
		s.order = append(s.order, key)
	}
	s.tracked[key] = entry
}

func (s *Session) lookup(key string) (any, bool) {
	entry, ok := s.tracked[key]
	if !ok {
		return nil, false
	}
	return entry.entity, true
}

// Pending число изменений, которые запишет следующий Commit
func (s *Session) Pending() int {
	return len(s.plan())
}

func (s *Session) plan() []*change {
	plan := make([]*change, 0, len(s.changes))
	plan = append(plan, s.changes...)

	for _, key := range s.order {
		entry := s.tracked[key]
		if s.find(entry.entity) >= 0 || !entry.dirty() {
			continue
		}
		plan = append(plan, &change{kind: changeUpdate, entity: entry.entity})
	}
	return plan
}

func apply(tx *gorm.DB, c *change) error {
	switch c.kind {
	case changeAdd:
		return tx.Create(c.entity).Error
	case changeUpdate:
		return tx.Model(c.entity).Select("*").Updates(c.entity).Error
	case changeRemove:
		return tx.Delete(c.entity).Error
	}
	return nil
}

// Commit applies every staged change and every modified tracked entity in one
// transaction. On failure nothing is written, staged changes are kept and
// identities assigned during the attempt are reset.
func (s *Session) Commit(ctx context.Context) error {
	plan := s.plan()
	if len(plan) == 0 {
		return nil
	}
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range plan {
			if err := apply(tx, c); err != nil {
				return &PersistenceError{Op: c.kind.String(), Err: err}
			}
		}
		return nil
	})
	if err != nil {
		for _, c := range plan {
			if c.reset != nil {
				c.reset()
			}
		}
		logger.Error("Repository: Транзакция отменена", err, zap.Int("changes", len(plan)))
		var perr *PersistenceError
		if errors.As(err, &perr) {
			return err
		}
		return &PersistenceError{Op: "commit", Err: err}
	}

	for _, c := range plan {
		if c.kind == changeRemove {
			s.untrack(c.entity)
		}
	}
	for _, entry := range s.tracked {
		entry.refresh()
	}
	s.changes = nil

	logger.Debug("Repository: Транзакция зафиксирована",
		zap.Int("changes", len(plan)),
		zap.Duration("ms", time.Since(start)))
	return nil
}

func (s *Session) untrack(entity any) {
	for i, key := range s.order {
		if s.tracked[key].entity == entity {
			delete(s.tracked, key)
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
