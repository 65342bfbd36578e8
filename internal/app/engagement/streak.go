// Package engagement implements the jokebox engagement engine.
// Read counts, daily streaks, the activity histogram, favorites and
// achievements all live here; everything else only renders them.
package engagement

import (
	"time"

	"github.com/tutu-network/jokebox/internal/domain"
)

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of calendar-day boundaries from from to to,
// measured in loc. Negative when to falls on an earlier day.
// Civil dates are compared so DST transitions never yield 23- or 25-hour "days".
func DaysBetween(from, to time.Time, loc *time.Location) int {
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// NextStreak applies one read on today to a streak last touched on lastRead.
//
//	no previous read  → 1
//	same day          → unchanged
//	next day          → +1
//	gap of 2+ days    → 1
//	earlier day       → 1 (clock moved backwards)
func NextStreak(current int, lastRead *time.Time, today time.Time, loc *time.Location) int {
	if lastRead == nil {
		return 1
	}

	switch gap := DaysBetween(*lastRead, today, loc); {
	case gap == 0:
		return current
	case gap == 1:
		return current + 1
	default:
		return 1
	}
}

// DayKey formats t's calendar day in loc as the persisted histogram key.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(domain.DayLayout)
}
