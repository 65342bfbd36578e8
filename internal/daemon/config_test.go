package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 11435 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 11435)
	}
	if cfg.Deck.Preload != 3 || cfg.Deck.RefillBelow != 2 {
		t.Errorf("Deck = %+v, want preload 3 refill 2", cfg.Deck)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Setenv("JOKEBOX_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadConfig_RoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JOKEBOX_HOME", home)

	cfg := DefaultConfig()
	cfg.API.Port = 18080
	cfg.Source.Timeout = "3s"
	cfg.Logging.Format = "json"
	cfg.Telemetry.Prometheus = true
	require.NoError(t, SaveConfig(cfg))

	assert.FileExists(t, filepath.Join(home, "config.toml"))
	got, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JOKEBOX_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(`
[source]
endpoint = "http://localhost:9999/joke"
`), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/joke", cfg.Source.Endpoint)
	assert.Equal(t, "10s", cfg.Source.Timeout)
	assert.Equal(t, 11435, cfg.API.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[api\nport = 1"},
		{"port", "[api]\nport = 70000"},
		{"timeout", "[source]\ntimeout = \"soon\""},
		{"format", "[logging]\nformat = \"xml\""},
		{"deck", "[deck]\npreload = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("JOKEBOX_HOME", home)
			require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(tt.body), 0600))

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"10s", 10 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"-1s", 0, true},
		{"ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, closeFn, err := NewLogger(LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	_, _, err = NewLogger(LoggingConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jokebox.log")
	log, closeFn, err := NewLogger(LoggingConfig{File: path})
	require.NoError(t, err)

	log.Info("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewWithConfig_WiresServices(t *testing.T) {
	t.Setenv("JOKEBOX_HOME", t.TempDir())

	d, err := NewWithConfig(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	assert.NotNil(t, d.Engine)
	assert.NotNil(t, d.Deck)
	assert.NotNil(t, d.Server)
	assert.Equal(t, "127.0.0.1:11435", d.Addr())
	assert.Equal(t, DefaultConfig().Source.Endpoint, d.Source.Endpoint())
}
