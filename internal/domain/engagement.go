package domain

import (
	"time"
)

// DayLayout is the persisted calendar-day key format.
const DayLayout = "2006-01-02"

// RecentCapacity bounds the recent-jokes list.
const RecentCapacity = 10

// ReadGoal is the read count the stats view measures progress against.
const ReadGoal = 100

// ─── Achievement Types ──────────────────────────────────────────────────────

// Achievement is the runtime state of one catalog entry.
// UnlockedDate is non-nil iff IsUnlocked.
type Achievement struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Emoji        string     `json:"emoji"`
	IsUnlocked   bool       `json:"isUnlocked"`
	UnlockedDate *time.Time `json:"unlockedDate,omitempty"`
}

// AchievementDef is a catalog template plus its unlock predicate.
type AchievementDef struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Emoji       string           `json:"emoji"`
	Predicate   func(Stats) bool `json:"-"`
}

// Locked returns the locked runtime copy of this definition.
func (d AchievementDef) Locked() Achievement {
	return Achievement{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Emoji:       d.Emoji,
	}
}

// Unlocked returns the unlocked runtime copy stamped with at.
func (d AchievementDef) Unlocked(at time.Time) Achievement {
	a := d.Locked()
	a.IsUnlocked = true
	a.UnlockedDate = &at
	return a
}

// Stats is the counter snapshot fed to achievement predicates.
type Stats struct {
	JokesRead     int `json:"jokes_read"`
	Favorites     int `json:"favorites"`
	CurrentStreak int `json:"current_streak"`
}

// ─── Engagement State ───────────────────────────────────────────────────────

// State is the published engagement aggregate. Values handed out by the
// engine are deep copies; mutating them has no effect on the engine.
type State struct {
	CurrentJoke    *Joke          `json:"current_joke,omitempty"`
	JokesReadCount int            `json:"jokes_read_count"`
	FavoriteJokes  []Joke         `json:"favorite_jokes"`
	RecentJokes    []Joke         `json:"recent_jokes"`
	CurrentStreak  int            `json:"current_streak"`
	LastReadDate   *time.Time     `json:"last_read_date,omitempty"`
	DailyJokesRead map[string]int `json:"daily_jokes_read"`
	Achievements   []Achievement  `json:"achievements"`
	MemberSince    time.Time      `json:"member_since"`
}

// DayActivity is one bar in the activity timeline.
type DayActivity struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Summary is the stats view: totals, goal progress and the last week.
type Summary struct {
	JokesRead         int           `json:"jokes_read"`
	GoalProgress      float64       `json:"goal_progress"` // 0.0–1.0 toward ReadGoal
	CurrentStreak     int           `json:"current_streak"`
	Favorites         int           `json:"favorites"`
	UnlockedCount     int           `json:"unlocked_count"`
	TotalAchievements int           `json:"total_achievements"`
	MemberSince       time.Time     `json:"member_since"`
	LastSevenDays     []DayActivity `json:"last_seven_days"`
}

// ReadResult is what a single read leaves behind, taken under the same
// lock as the read itself.
type ReadResult struct {
	JokesRead     int           `json:"jokes_read"`
	CurrentStreak int           `json:"current_streak"`
	Unlocked      []Achievement `json:"unlocked"`
}

// ─── Events ─────────────────────────────────────────────────────────────────

// EventType categorizes engine events.
type EventType string

const (
	EventStateChanged         EventType = "state_changed"
	EventJokeFetched          EventType = "joke_fetched"
	EventFetchFailed          EventType = "fetch_failed"
	EventFavoriteAdded        EventType = "favorite_added"
	EventAchievementsUnlocked EventType = "achievements_unlocked"
)

// Event is published to subscribers after a mutation has been applied.
type Event struct {
	Type         EventType     `json:"type"`
	At           time.Time     `json:"at"`
	Joke         *Joke         `json:"joke,omitempty"`
	Achievements []Achievement `json:"achievements,omitempty"`
	Error        string        `json:"error,omitempty"`
}
