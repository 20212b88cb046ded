package service

import (
	"strings"
	"time"
)

type Period string

const (
	PeriodToday       Period = "today"
	PeriodNextDay     Period = "nextday"
	PeriodCurrentWeek Period = "currentweek"
)

// ParsePeriod без учёта регистра; всё неизвестное считается "today"
func ParsePeriod(raw string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case PeriodNextDay, PeriodCurrentWeek, PeriodToday:
		return p
	default:
		return PeriodToday
	}
}

// Window returns the inclusive range of UTC dates covered by the period.
func (p Period) Window(now time.Time) (from, to time.Time) {
	today := dateOf(now)

	switch p {
	case PeriodNextDay:
		next := today.AddDate(0, 0, 1)
		return next, next
	case PeriodCurrentWeek:
		offset := (int(today.Weekday()) - int(time.Monday) + 7) % 7
		monday := today.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 6)
	default:
		return today, today
	}
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
