package engagement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/jokebox/internal/app/engagement"
	"github.com/tutu-network/jokebox/internal/domain"
)

func TestPreferences_Defaults(t *testing.T) {
	prefs := engagement.NewPreferenceService(testDB(t), quietLogger())

	got := prefs.Load()
	assert.Equal(t, domain.ThemeClassic, got.Theme)
	assert.False(t, got.SoundEnabled)
	assert.False(t, got.LargeText)
}

func TestPreferences_SetAndReload(t *testing.T) {
	db := testDB(t)
	prefs := engagement.NewPreferenceService(db, quietLogger())

	_, err := prefs.Set("theme", "dark_glow")
	require.NoError(t, err)
	_, err = prefs.Set("large_text", "true")
	require.NoError(t, err)
	_, err = prefs.Set("voice", "1")
	require.NoError(t, err)

	got := engagement.NewPreferenceService(db, quietLogger()).Load()
	assert.Equal(t, domain.Preferences{
		Theme:        domain.ThemeDarkGlow,
		LargeText:    true,
		VoiceEnabled: true,
	}, got)
}

func TestPreferences_Rejects(t *testing.T) {
	prefs := engagement.NewPreferenceService(testDB(t), quietLogger())

	tests := []struct{ name, value string }{
		{"theme", "sepia"},
		{"sound", "loud"},
		{"font", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prefs.Set(tt.name, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidPreference)
		})
	}
	assert.Equal(t, domain.DefaultPreferences(), prefs.Load(), "nothing written")

	err := prefs.Save(domain.Preferences{Theme: "sepia"})
	assert.ErrorIs(t, err, domain.ErrInvalidPreference)
}

func TestPreferences_UnknownStoredThemeFallsBack(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SetString("pref_theme", "retro"))

	assert.Equal(t, domain.ThemeClassic, engagement.NewPreferenceService(db, quietLogger()).Load().Theme)
}
