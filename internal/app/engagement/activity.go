package engagement

import (
	"time"

	"github.com/tutu-network/jokebox/internal/domain"
)

// LastDays returns the read counts for the n calendar days ending on now's
// day, oldest first. Days without reads are reported as zero.
func LastDays(daily map[string]int, now time.Time, loc *time.Location, n int) []domain.DayActivity {
	if n <= 0 {
		return nil
	}
	today := StartOfDay(now, loc)
	out := make([]domain.DayActivity, 0, n)
	for offset := n - 1; offset >= 0; offset-- {
		key := DayKey(today.AddDate(0, 0, -offset), loc)
		out = append(out, domain.DayActivity{Day: key, Count: daily[key]})
	}
	return out
}
