package engagement

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/tutu-network/jokebox/internal/domain"
	"github.com/tutu-network/jokebox/internal/infra/metrics"
)

// PreferenceNames lists the settable preference names in display order.
var PreferenceNames = []string{"theme", "sound", "large_text", "high_contrast", "voice"}

// PreferenceService persists presentation settings next to the engagement
// state. Like the engine, it absorbs storage failures.
type PreferenceService struct {
	store domain.KVStore
	log   logrus.FieldLogger
}

// NewPreferenceService creates a preference service over store.
func NewPreferenceService(store domain.KVStore, log logrus.FieldLogger) *PreferenceService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PreferenceService{store: store, log: log.WithField("component", "preferences")}
}

// Load returns the stored preferences, with defaults for anything unset
// or unreadable.
func (p *PreferenceService) Load() domain.Preferences {
	prefs := domain.DefaultPreferences()

	if s, ok, err := p.store.GetString(keyPrefTheme); err != nil {
		p.failed("load", keyPrefTheme, err)
	} else if ok && domain.Theme(s).Valid() {
		prefs.Theme = domain.Theme(s)
	}

	p.loadBool(keyPrefSound, &prefs.SoundEnabled)
	p.loadBool(keyPrefLargeText, &prefs.LargeText)
	p.loadBool(keyPrefHighContrast, &prefs.HighContrast)
	p.loadBool(keyPrefVoice, &prefs.VoiceEnabled)
	return prefs
}

// Save writes every field of prefs. Unknown themes are rejected before
// anything is written.
func (p *PreferenceService) Save(prefs domain.Preferences) error {
	if !prefs.Theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", domain.ErrInvalidPreference, prefs.Theme)
	}
	err := p.store.Update(func(w domain.KVWriter) error {
		if err := w.SetString(keyPrefTheme, string(prefs.Theme)); err != nil {
			return err
		}
		for key, v := range map[string]bool{
			keyPrefSound:        prefs.SoundEnabled,
			keyPrefLargeText:    prefs.LargeText,
			keyPrefHighContrast: prefs.HighContrast,
			keyPrefVoice:        prefs.VoiceEnabled,
		} {
			if err := w.SetBool(key, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		p.failed("save", "preferences", err)
	}
	return nil
}

// Set changes one preference by name, e.g. Set("theme", "dark_glow") or
// Set("sound", "true"), and returns the resulting preferences.
func (p *PreferenceService) Set(name, value string) (domain.Preferences, error) {
	prefs := p.Load()

	if name == "theme" {
		prefs.Theme = domain.Theme(value)
		if !prefs.Theme.Valid() {
			return p.Load(), fmt.Errorf("%w: unknown theme %q", domain.ErrInvalidPreference, value)
		}
		return prefs, p.Save(prefs)
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return prefs, fmt.Errorf("%w: %s wants true or false, got %q", domain.ErrInvalidPreference, name, value)
	}
	switch name {
	case "sound":
		prefs.SoundEnabled = b
	case "large_text":
		prefs.LargeText = b
	case "high_contrast":
		prefs.HighContrast = b
	case "voice":
		prefs.VoiceEnabled = b
	default:
		return prefs, fmt.Errorf("%w: unknown preference %q", domain.ErrInvalidPreference, name)
	}
	return prefs, p.Save(prefs)
}

func (p *PreferenceService) loadBool(key string, dst *bool) {
	v, ok, err := p.store.GetBool(key)
	if err != nil {
		p.failed("load", key, err)
		return
	}
	if ok {
		*dst = v
	}
}

func (p *PreferenceService) failed(op, key string, err error) {
	metrics.StorageErrors.WithLabelValues("prefs_" + op).Inc()
	p.log.WithField("key", key).WithError(err).Warn("storage failure absorbed")
}
