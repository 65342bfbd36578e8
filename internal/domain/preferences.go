package domain

// Theme names a presentation theme. jokebox only stores the choice.
type Theme string

const (
	ThemeClassic      Theme = "classic"
	ThemeFunNeon      Theme = "fun_neon"
	ThemeMinimalWhite Theme = "minimal_white"
	ThemeDarkGlow     Theme = "dark_glow"
)

// Themes lists every accepted theme in display order.
func Themes() []Theme {
	return []Theme{ThemeClassic, ThemeFunNeon, ThemeMinimalWhite, ThemeDarkGlow}
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	for _, known := range Themes() {
		if t == known {
			return true
		}
	}
	return false
}

// Preferences are the presentation settings that share the engagement store.
type Preferences struct {
	Theme        Theme `json:"theme"`
	SoundEnabled bool  `json:"sound_enabled"`
	LargeText    bool  `json:"large_text"`
	HighContrast bool  `json:"high_contrast"`
	VoiceEnabled bool  `json:"voice_enabled"`
}

// DefaultPreferences returns the first-launch settings.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeClassic}
}
