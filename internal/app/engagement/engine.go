package engagement

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tutu-network/jokebox/internal/domain"
	"github.com/tutu-network/jokebox/internal/infra/metrics"
)

// Engine is the single source of truth for engagement state.
// Every mutation goes through one of its methods and runs under one mutex,
// so callers on any goroutine see operations applied one at a time.
// Persistence is best-effort: storage failures are logged and counted,
// never returned.
type Engine struct {
	mu     sync.Mutex
	store  domain.KVStore
	source domain.JokeSource
	log    logrus.FieldLogger
	now    func() time.Time
	loc    *time.Location
	defs   []domain.AchievementDef
	events *hub

	current      *domain.Joke
	readCount    int
	favorites    []domain.Joke
	recent       []domain.Joke
	streak       int
	lastRead     *time.Time
	daily        map[string]int
	achievements map[string]domain.Achievement
	memberSince  time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now. Tests use it to walk across days.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithLogger sets the logger for absorbed storage failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an engine and loads its state from store. Each field is
// loaded on its own; a missing or unreadable field falls back to its zero
// value. On first launch member-since is stamped and persisted.
func New(store domain.KVStore, source domain.JokeSource, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		source: source,
		log:    logrus.StandardLogger(),
		now:    time.Now,
		loc:    time.Local,
		defs:   Catalog(),
		events: newHub(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithField("component", "engagement")

	e.load()
	return e
}

// ─── Loading ────────────────────────────────────────────────────────────────

func (e *Engine) load() {
	now := e.now()

	e.favorites = e.loadFavorites()

	if n, ok, err := e.store.GetInt(keyJokesReadCount); err != nil {
		e.storageFailed("load_read_count", keyJokesReadCount, err)
	} else if ok && n > 0 {
		e.readCount = n
	}

	if n, ok, err := e.store.GetInt(keyCurrentStreak); err != nil {
		e.storageFailed("load_streak", keyCurrentStreak, err)
	} else if ok && n > 0 {
		e.streak = n
	}

	if t, ok, err := e.store.GetTime(keyLastReadDate); err != nil {
		e.storageFailed("load_last_read", keyLastReadDate, err)
	} else if ok {
		day := StartOfDay(t, e.loc)
		e.lastRead = &day
	}

	var stored []domain.Achievement
	if raw, ok, err := e.store.GetData(keyAchievements); err != nil {
		e.storageFailed("load_achievements", keyAchievements, err)
	} else if ok {
		if err := json.Unmarshal(raw, &stored); err != nil {
			e.storageFailed("load_achievements", keyAchievements, err)
			stored = nil
		}
	}
	e.achievements = seedAchievements(e.defs, stored, now)

	e.daily = make(map[string]int)
	if raw, ok, err := e.store.GetData(keyDailyJokesRead); err != nil {
		e.storageFailed("load_daily", keyDailyJokesRead, err)
	} else if ok {
		var daily map[string]int
		if err := json.Unmarshal(raw, &daily); err != nil {
			e.storageFailed("load_daily", keyDailyJokesRead, err)
		} else {
			for day, n := range daily {
				if _, err := time.Parse(domain.DayLayout, day); err == nil && n > 0 {
					e.daily[day] = n
				}
			}
		}
	}

	switch t, ok, err := e.store.GetTime(keyMemberSince); {
	case err != nil:
		// Unknown, not absent: keep the stored value untouched.
		e.storageFailed("load_member_since", keyMemberSince, err)
		e.memberSince = now
	case ok:
		e.memberSince = t
	default:
		e.memberSince = now
		if err := e.store.SetTime(keyMemberSince, now); err != nil {
			e.storageFailed("save_member_since", keyMemberSince, err)
		}
	}

	metrics.CurrentStreak.Set(float64(e.streak))
	metrics.Favorites.Set(float64(len(e.favorites)))

	e.log.WithFields(logrus.Fields{
		"jokes_read":   e.readCount,
		"streak":       e.streak,
		"favorites":    len(e.favorites),
		"member_since": e.memberSince.Format(time.RFC3339),
	}).Debug("engagement state loaded")
}

func (e *Engine) loadFavorites() []domain.Joke {
	raw, ok, err := e.store.GetData(keyFavorites)
	if err != nil {
		e.storageFailed("load_favorites", keyFavorites, err)
		return nil
	}
	if !ok {
		return nil
	}
	var stored []domain.Joke
	if err := json.Unmarshal(raw, &stored); err != nil {
		e.storageFailed("load_favorites", keyFavorites, err)
		return nil
	}

	// Drop duplicate ids, keeping the first occurrence.
	seen := make(map[int]bool, len(stored))
	favorites := make([]domain.Joke, 0, len(stored))
	for _, j := range stored {
		if seen[j.ID] {
			continue
		}
		seen[j.ID] = true
		favorites = append(favorites, j)
	}
	return favorites
}

// ─── Operations ─────────────────────────────────────────────────────────────

// RecordJokeRead counts one read and returns the achievements it unlocked.
func (e *Engine) RecordJokeRead() []domain.Achievement {
	return e.RecordRead().Unlocked
}

// RecordRead counts one read: bumps the read count, advances the streak,
// bumps today's bucket, persists and evaluates achievements. The returned
// count and streak are the ones this read produced.
func (e *Engine) RecordRead() domain.ReadResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	today := StartOfDay(now, e.loc)

	e.readCount++
	e.streak = NextStreak(e.streak, e.lastRead, today, e.loc)
	e.lastRead = &today
	e.saveStreak()

	e.daily[DayKey(today, e.loc)]++
	e.saveDaily()
	e.saveReadCount()

	metrics.JokesRead.Inc()
	metrics.CurrentStreak.Set(float64(e.streak))

	unlocked := e.evaluateLocked(now)
	e.publishLocked(now, domain.Event{Type: domain.EventStateChanged}, unlocked)
	return domain.ReadResult{
		JokesRead:     e.readCount,
		CurrentStreak: e.streak,
		Unlocked:      unlocked,
	}
}

// AddFavorite appends joke to favorites unless its id is already there.
// Returns whether it was added and any achievements that unlocked.
func (e *Engine) AddFavorite(joke domain.Joke) (bool, []domain.Achievement) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexOfFavorite(joke.ID) >= 0 {
		return false, nil
	}

	now := e.now()
	e.favorites = append(e.favorites, joke)
	e.saveFavorites()
	metrics.Favorites.Set(float64(len(e.favorites)))

	unlocked := e.evaluateLocked(now)
	j := joke
	e.publishLocked(now, domain.Event{Type: domain.EventFavoriteAdded, Joke: &j}, unlocked)
	return true, unlocked
}

// RemoveFavorite removes the favorite with jokeID. Returns false if there
// was none.
func (e *Engine) RemoveFavorite(jokeID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOfFavorite(jokeID)
	if i < 0 {
		return false
	}
	e.favorites = append(e.favorites[:i:i], e.favorites[i+1:]...)
	e.saveFavorites()
	metrics.Favorites.Set(float64(len(e.favorites)))

	e.publishLocked(e.now(), domain.Event{Type: domain.EventStateChanged}, nil)
	return true
}

// FetchAndRecordJoke fetches a joke and makes it current, prepending it to
// the recent list. On failure nothing changes and the error is returned.
//
// Fetching is not reading: the read count only moves on RecordJokeRead.
// The fetch runs without the engine lock, so overlapping fetches each
// apply their result in the order they complete.
func (e *Engine) FetchAndRecordJoke(ctx context.Context) (domain.Joke, error) {
	joke, err := e.source.Fetch(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if err != nil {
		e.log.WithError(err).Warn("joke fetch failed")
		e.publishLocked(now, domain.Event{Type: domain.EventFetchFailed, Error: err.Error()}, nil)
		return domain.Joke{}, err
	}

	j := joke
	e.current = &j
	e.recent = prependBounded(e.recent, joke, domain.RecentCapacity)

	e.publishLocked(now, domain.Event{Type: domain.EventJokeFetched, Joke: &j}, nil)
	return joke, nil
}

// EvaluateAchievements checks every locked achievement against the current
// counters, unlocks and persists the satisfied ones, and returns them.
func (e *Engine) EvaluateAchievements() []domain.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	unlocked := e.evaluateLocked(now)
	if len(unlocked) > 0 {
		e.publishLocked(now, domain.Event{Type: domain.EventStateChanged}, unlocked)
	}
	return unlocked
}

// ─── Queries ────────────────────────────────────────────────────────────────

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() domain.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// CurrentJoke returns the most recently fetched joke, if any.
func (e *Engine) CurrentJoke() (domain.Joke, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return domain.Joke{}, false
	}
	return *e.current, true
}

// IsFavorite reports whether jokeID is in favorites.
func (e *Engine) IsFavorite(jokeID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexOfFavorite(jokeID) >= 0
}

// Achievements returns the achievement table in catalog order.
func (e *Engine) Achievements() []domain.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return orderedAchievements(e.defs, e.achievements)
}

// MemberSince returns the first-launch timestamp.
func (e *Engine) MemberSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memberSince
}

// Summary builds the stats view as of the engine clock's now.
func (e *Engine) Summary() domain.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	unlocked := 0
	for _, a := range e.achievements {
		if a.IsUnlocked {
			unlocked++
		}
	}

	progress := float64(e.readCount) / float64(domain.ReadGoal)
	if progress > 1 {
		progress = 1
	}

	return domain.Summary{
		JokesRead:         e.readCount,
		GoalProgress:      progress,
		CurrentStreak:     e.streak,
		Favorites:         len(e.favorites),
		UnlockedCount:     unlocked,
		TotalAchievements: len(e.defs),
		MemberSince:       e.memberSince,
		LastSevenDays:     LastDays(e.daily, e.now(), e.loc, 7),
	}
}

// Subscribe returns a channel of engine events and a func to stop
// listening. Events are dropped for subscribers that fall behind.
func (e *Engine) Subscribe() (<-chan domain.Event, func()) {
	return e.events.subscribe()
}

// ─── Internals (callers hold e.mu) ──────────────────────────────────────────

func (e *Engine) evaluateLocked(now time.Time) []domain.Achievement {
	stats := domain.Stats{
		JokesRead:     e.readCount,
		Favorites:     len(e.favorites),
		CurrentStreak: e.streak,
	}
	unlocked := evaluate(e.defs, e.achievements, stats, now)
	if len(unlocked) == 0 {
		return nil
	}

	e.saveAchievements()
	for _, a := range unlocked {
		metrics.AchievementsUnlocked.WithLabelValues(a.ID).Inc()
		e.log.WithField("achievement", a.ID).Info("achievement unlocked")
	}
	return unlocked
}

// publishLocked emits ev, then an achievements event when unlocked is
// non-empty, then a state-changed event unless ev already is one or
// nothing changed.
func (e *Engine) publishLocked(now time.Time, ev domain.Event, unlocked []domain.Achievement) {
	ev.At = now
	events := []domain.Event{ev}
	if len(unlocked) > 0 {
		list := make([]domain.Achievement, len(unlocked))
		for i, a := range unlocked {
			list[i] = copyAchievement(a)
		}
		events = append(events, domain.Event{Type: domain.EventAchievementsUnlocked, At: now, Achievements: list})
	}
	if ev.Type != domain.EventStateChanged && ev.Type != domain.EventFetchFailed {
		events = append(events, domain.Event{Type: domain.EventStateChanged, At: now})
	}
	e.events.publish(events...)
}

func (e *Engine) indexOfFavorite(jokeID int) int {
	for i, j := range e.favorites {
		if j.ID == jokeID {
			return i
		}
	}
	return -1
}

func (e *Engine) snapshotLocked() domain.State {
	s := domain.State{
		JokesReadCount: e.readCount,
		FavoriteJokes:  append([]domain.Joke{}, e.favorites...),
		RecentJokes:    append([]domain.Joke{}, e.recent...),
		CurrentStreak:  e.streak,
		DailyJokesRead: make(map[string]int, len(e.daily)),
		Achievements:   orderedAchievements(e.defs, e.achievements),
		MemberSince:    e.memberSince,
	}
	if e.current != nil {
		j := *e.current
		s.CurrentJoke = &j
	}
	if e.lastRead != nil {
		d := *e.lastRead
		s.LastReadDate = &d
	}
	for day, n := range e.daily {
		s.DailyJokesRead[day] = n
	}
	return s
}

// prependBounded puts j at the front of list and drops the oldest entries
// past capacity.
func prependBounded(list []domain.Joke, j domain.Joke, capacity int) []domain.Joke {
	out := make([]domain.Joke, 0, min(len(list)+1, capacity))
	out = append(out, j)
	for _, old := range list {
		if len(out) == capacity {
			break
		}
		out = append(out, old)
	}
	return out
}
