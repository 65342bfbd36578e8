package engagement

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/tutu-network/jokebox/internal/domain"
	"github.com/tutu-network/jokebox/internal/infra/metrics"
)

// ─── Best-effort persistence (callers hold e.mu) ────────────────────────────
// Each save is independent. A failure is logged and counted; in-memory
// state stays authoritative until the next successful write.

// saveStreak writes the streak and the read date in one transaction so the
// two can never disagree after a crash.
func (e *Engine) saveStreak() {
	err := e.store.Update(func(w domain.KVWriter) error {
		if err := w.SetInt(keyCurrentStreak, e.streak); err != nil {
			return err
		}
		return w.SetTime(keyLastReadDate, *e.lastRead)
	})
	if err != nil {
		e.storageFailed("save_streak", keyCurrentStreak, err)
	}
}

func (e *Engine) saveReadCount() {
	if err := e.store.SetInt(keyJokesReadCount, e.readCount); err != nil {
		e.storageFailed("save_read_count", keyJokesReadCount, err)
	}
}

func (e *Engine) saveDaily() {
	e.saveJSON("save_daily", keyDailyJokesRead, e.daily)
}

func (e *Engine) saveFavorites() {
	favorites := e.favorites
	if favorites == nil {
		favorites = []domain.Joke{}
	}
	e.saveJSON("save_favorites", keyFavorites, favorites)
}

func (e *Engine) saveAchievements() {
	e.saveJSON("save_achievements", keyAchievements, orderedAchievements(e.defs, e.achievements))
}

func (e *Engine) saveJSON(op, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		e.storageFailed(op, key, err)
		return
	}
	if err := e.store.SetData(key, raw); err != nil {
		e.storageFailed(op, key, err)
	}
}

func (e *Engine) storageFailed(op, key string, err error) {
	metrics.StorageErrors.WithLabelValues(op).Inc()
	e.log.WithFields(logrus.Fields{
		"op":  op,
		"key": key,
	}).WithError(err).Warn("storage failure absorbed")
}
