package repository

import (
	"time"

	"gorm.io/gorm/clause"
)

// Filter is a condition over entity columns. It is rendered into SQL by the
// store dialect and never evaluated in memory. The zero Filter matches every row.
type Filter struct {
	expr clause.Expression
}

var All = Filter{}

func (f Filter) IsZero() bool {
	return f.expr == nil
}

func (f Filter) Expression() clause.Expression {
	return f.expr
}

func col(name string) clause.Column {
	return clause.Column{Name: name}
}

func Eq(column string, value any) Filter {
	return Filter{expr: clause.Eq{Column: col(column), Value: value}}
}

func Neq(column string, value any) Filter {
	return Filter{expr: clause.Neq{Column: col(column), Value: value}}
}

func Gt(column string, value any) Filter {
	return Filter{expr: clause.Gt{Column: col(column), Value: value}}
}

func Gte(column string, value any) Filter {
	return Filter{expr: clause.Gte{Column: col(column), Value: value}}
}

func Lt(column string, value any) Filter {
	return Filter{expr: clause.Lt{Column: col(column), Value: value}}
}

func Lte(column string, value any) Filter {
	return Filter{expr: clause.Lte{Column: col(column), Value: value}}
}

func In(column string, values ...any) Filter {
	return Filter{expr: clause.IN{Column: col(column), Values: values}}
}

// Expr raw SQL condition with ? placeholders
func Expr(sql string, vars ...any) Filter {
	return Filter{expr: clause.Expr{SQL: sql, Vars: vars}}
}

func And(filters ...Filter) Filter {
	exprs := nonZero(filters)
	switch len(exprs) {
	case 0:
		return All
	case 1:
		return Filter{expr: exprs[0]}
	}
	return Filter{expr: clause.And(exprs...)}
}

func Or(filters ...Filter) Filter {
	exprs := nonZero(filters)
	switch len(exprs) {
	case 0:
		return All
	case 1:
		return Filter{expr: exprs[0]}
	}
	return Filter{expr: clause.Or(exprs...)}
}

func Not(filter Filter) Filter {
	if filter.IsZero() {
		return filter
	}
	return Filter{expr: clause.Not(filter.expr)}
}

// OnDate matches timestamps that fall on the same UTC calendar day as day.
func OnDate(column string, day time.Time) Filter {
	return BetweenDates(column, day, day)
}

// BetweenDates matches timestamps whose UTC date lies in [from, to], both ends inclusive.
func BetweenDates(column string, from, to time.Time) Filter {
	start := startOfDay(from)
	end := startOfDay(to).AddDate(0, 0, 1)
	return And(Gte(column, start), Lt(column, end))
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nonZero(filters []Filter) []clause.Expression {
	exprs := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		if !f.IsZero() {
			exprs = append(exprs, f.expr)
		}
	}
	return exprs
}
