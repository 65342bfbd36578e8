package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/tutu-network/jokebox/internal/api"
	"github.com/tutu-network/jokebox/internal/app/engagement"
	"github.com/tutu-network/jokebox/internal/health"
	"github.com/tutu-network/jokebox/internal/infra/jokeapi"
	_ "github.com/tutu-network/jokebox/internal/infra/metrics" // Register Prometheus metrics
	"github.com/tutu-network/jokebox/internal/infra/sqlite"
)

// ErrLocked is returned when another jokebox process already owns the
// data directory. Only one engine may write state.db at a time.
var ErrLocked = errors.New("jokebox data directory is in use by another process")

// lockFile sits next to state.db and is held for the daemon's lifetime.
const lockFile = "state.lock"

// Daemon is the jokebox runtime. It owns the store and wires every
// service to it; CLI commands and the HTTP bridge share one instance.
type Daemon struct {
	Config Config
	Log    *logrus.Logger
	DB     *sqlite.DB
	Source *jokeapi.Client
	Engine *engagement.Engine
	Deck   *engagement.Deck
	Prefs  *engagement.PreferenceService
	Health *health.Checker
	Server *api.Server

	lock     *flock.Flock
	cancel   context.CancelFunc
	closeLog func() error
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	home := Home()
	lock, err := lockHome(home)
	if err != nil {
		closeLog()
		return nil, err
	}

	// Open SQLite
	db, err := sqlite.Open(home)
	if err != nil {
		_ = lock.Unlock()
		closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}

	timeout, _ := parseDuration(cfg.Source.Timeout)
	source := jokeapi.NewClient(cfg.Source.Endpoint, timeout)

	eng := engagement.New(db, source, engagement.WithLogger(logger))
	deck := engagement.NewDeck(eng, source, engagement.DeckConfig{
		Preload:     cfg.Deck.Preload,
		RefillBelow: cfg.Deck.RefillBelow,
	}, logger)
	prefs := engagement.NewPreferenceService(db, logger)
	checker := health.NewChecker(db, home, logger)

	// Initialize API server
	srv := api.NewServer(eng, deck, prefs, checker, logger)
	srv.SetCORSOrigins(cfg.API.CORSOrigins)

	// Enable Prometheus /metrics if configured
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:   cfg,
		Log:      logger,
		DB:       db,
		Source:   source,
		Engine:   eng,
		Deck:     deck,
		Prefs:    prefs,
		Health:   checker,
		Server:   srv,
		lock:     lock,
		closeLog: closeLog,
	}, nil
}

// Addr is the listen address of the HTTP bridge.
func (d *Daemon) Addr() string {
	return d.Config.Addr()
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Health checker (always runs)
	go d.Health.Run(ctx)

	addr := d.Addr()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           d.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			d.Log.WithError(err).Warn("http shutdown")
		}
	}()

	d.Log.WithFields(logrus.Fields{
		"addr":     addr,
		"endpoint": d.Source.Endpoint(),
		"metrics":  d.Config.Telemetry.Prometheus,
	}).Info("jokebox bridge listening")

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Log.WithError(err).Warn("close database")
		}
	}
	if d.lock != nil {
		if err := d.lock.Unlock(); err != nil {
			d.Log.WithError(err).Warn("release data directory lock")
		}
	}
	if d.closeLog != nil {
		_ = d.closeLog()
	}
}

// lockHome takes the exclusive lock on home without blocking.
func lockHome(home string) (*flock.Flock, error) {
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	lock := flock.New(filepath.Join(home, lockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data directory: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, home)
	}
	return lock, nil
}

// parseDuration parses a config duration. Empty means zero, which the
// fetch client treats as its default.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
