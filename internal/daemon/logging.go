package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from cfg. The returned close func
// releases the log file, if any.
func NewLogger(cfg LoggingConfig) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	noop := func() error { return nil }

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, noop, fmt.Errorf("logging level: %w", err)
	}
	log.SetLevel(lvl)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return log, noop, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
		return nil, noop, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return log, f.Close, nil
}
