package engagement

// Persisted store keys. The engine owns the first group; preferences own the second.
const (
	keyFavorites      = "favorites"        // JSON []domain.Joke
	keyJokesReadCount = "jokes_read_count" // int
	keyCurrentStreak  = "current_streak"   // int
	keyLastReadDate   = "last_read_date"   // time, start of day
	keyAchievements   = "achievements"     // JSON []domain.Achievement
	keyDailyJokesRead = "daily_jokes_read" // JSON map "YYYY-MM-DD" → int
	keyMemberSince    = "member_since"     // time, written once

	keyPrefTheme        = "pref_theme"
	keyPrefSound        = "pref_sound_enabled"
	keyPrefLargeText    = "pref_large_text"
	keyPrefHighContrast = "pref_high_contrast"
	keyPrefVoice        = "pref_voice_enabled"
)
