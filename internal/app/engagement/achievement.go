package engagement

import (
	"time"

	"github.com/tutu-network/jokebox/internal/domain"
)

// Achievement ids, stable across releases; they key the persisted table.
const (
	AchFirstJoke     = "first_joke"
	AchJokeMaster    = "joke_master"
	AchComedyKing    = "comedy_king"
	AchFirstFavorite = "first_favorite"
	AchStreakWeek    = "streak_week"
)

// Catalog returns the achievement definitions in evaluation order.
//
// The read-count and favorite predicates test for equality, so a counter
// that jumps past a threshold (for example after a restore) never unlocks
// that achievement retroactively. Only streak_week uses a threshold.
func Catalog() []domain.AchievementDef {
	return []domain.AchievementDef{
		{
			ID: AchFirstJoke, Title: "First Laugh", Description: "Read your first joke", Emoji: "😄",
			Predicate: func(s domain.Stats) bool { return s.JokesRead == 1 },
		},
		{
			ID: AchJokeMaster, Title: "Joke Master", Description: "Read 10 jokes", Emoji: "🎭",
			Predicate: func(s domain.Stats) bool { return s.JokesRead == 10 },
		},
		{
			ID: AchComedyKing, Title: "Comedy King", Description: "Read 50 jokes", Emoji: "👑",
			Predicate: func(s domain.Stats) bool { return s.JokesRead == 50 },
		},
		{
			ID: AchFirstFavorite, Title: "Favorite Fun", Description: "Add your first favorite", Emoji: "❤️",
			Predicate: func(s domain.Stats) bool { return s.Favorites == 1 },
		},
		{
			ID: AchStreakWeek, Title: "Week Warrior", Description: "7-day reading streak", Emoji: "🔥",
			Predicate: func(s domain.Stats) bool { return s.CurrentStreak >= 7 },
		},
	}
}

// seedAchievements builds the runtime table from the catalog, carrying over
// unlock state from stored entries. Stored ids missing from the catalog are
// dropped; catalog ids missing from storage start locked.
func seedAchievements(defs []domain.AchievementDef, stored []domain.Achievement, fallback time.Time) map[string]domain.Achievement {
	byID := make(map[string]domain.Achievement, len(stored))
	for _, a := range stored {
		byID[a.ID] = a
	}

	table := make(map[string]domain.Achievement, len(defs))
	for _, def := range defs {
		prev, ok := byID[def.ID]
		switch {
		case !ok || !prev.IsUnlocked:
			table[def.ID] = def.Locked()
		case prev.UnlockedDate == nil:
			// Unlocked without a date breaks the unlockedDate-iff-unlocked rule.
			table[def.ID] = def.Unlocked(fallback)
		default:
			table[def.ID] = def.Unlocked(*prev.UnlockedDate)
		}
	}
	return table
}

// evaluate checks every locked achievement against stats and unlocks the
// ones whose predicate holds. Returns the newly unlocked entries in catalog order.
func evaluate(defs []domain.AchievementDef, table map[string]domain.Achievement, stats domain.Stats, at time.Time) []domain.Achievement {
	var newlyUnlocked []domain.Achievement
	for _, def := range defs {
		if table[def.ID].IsUnlocked {
			continue
		}
		if def.Predicate != nil && def.Predicate(stats) {
			a := def.Unlocked(at)
			table[def.ID] = a
			newlyUnlocked = append(newlyUnlocked, a)
		}
	}
	return newlyUnlocked
}

// orderedAchievements flattens the table in catalog order.
func orderedAchievements(defs []domain.AchievementDef, table map[string]domain.Achievement) []domain.Achievement {
	out := make([]domain.Achievement, 0, len(defs))
	for _, def := range defs {
		if a, ok := table[def.ID]; ok {
			out = append(out, copyAchievement(a))
		}
	}
	return out
}

func copyAchievement(a domain.Achievement) domain.Achievement {
	if a.UnlockedDate != nil {
		at := *a.UnlockedDate
		a.UnlockedDate = &at
	}
	return a
}
