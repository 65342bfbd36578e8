package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/tutu-network/jokebox/internal/app/engagement"
	"github.com/tutu-network/jokebox/internal/daemon"
	"github.com/tutu-network/jokebox/internal/domain"
)

// session is what a command needs from jokebox. Commands run against an
// in-process daemon, or against a running 'jokebox serve' when that
// process owns the data directory.
type session interface {
	FetchJoke(ctx context.Context) (joke domain.Joke, isFavorite bool, err error)
	Read(ctx context.Context) (domain.ReadResult, error)
	AddFavorite(ctx context.Context, joke domain.Joke) (bool, []domain.Achievement, error)
	RemoveFavorite(ctx context.Context, jokeID int) (bool, error)
	State(ctx context.Context) (domain.State, error)
	Summary(ctx context.Context) (domain.Summary, error)
	Achievements(ctx context.Context) ([]domain.Achievement, error)
	Preferences(ctx context.Context) (domain.Preferences, error)
	SetPreference(ctx context.Context, name, value string) (domain.Preferences, error)
	DealDeck(ctx context.Context) ([]domain.Card, error)
	TopCard(ctx context.Context) (domain.Card, bool, error)
	Swipe(ctx context.Context, dir domain.SwipeDirection) (engagement.SwipeResult, error)
	Close()
}

// openSession opens the data directory for this command. If another
// process holds it and a bridge answers at the configured address, the
// command goes through the bridge instead.
func openSession(ctx context.Context) (session, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	d, err := daemon.NewWithConfig(cfg)
	if err == nil {
		return localSession{d}, nil
	}
	if !errors.Is(err, daemon.ErrLocked) {
		return nil, err
	}

	b := newBridgeClient(cfg.Addr())
	if pingErr := b.ping(ctx); pingErr != nil {
		return nil, fmt.Errorf("%w; no bridge answered at %s", err, cfg.Addr())
	}
	return b, nil
}

// localSession drives an in-process daemon.
type localSession struct {
	d *daemon.Daemon
}

func (s localSession) FetchJoke(ctx context.Context) (domain.Joke, bool, error) {
	joke, err := s.d.Engine.FetchAndRecordJoke(ctx)
	if err != nil {
		return domain.Joke{}, false, err
	}
	return joke, s.d.Engine.IsFavorite(joke.ID), nil
}

func (s localSession) Read(context.Context) (domain.ReadResult, error) {
	return s.d.Engine.RecordRead(), nil
}

func (s localSession) AddFavorite(_ context.Context, joke domain.Joke) (bool, []domain.Achievement, error) {
	added, unlocked := s.d.Engine.AddFavorite(joke)
	return added, unlocked, nil
}

func (s localSession) RemoveFavorite(_ context.Context, jokeID int) (bool, error) {
	return s.d.Engine.RemoveFavorite(jokeID), nil
}

func (s localSession) State(context.Context) (domain.State, error) {
	return s.d.Engine.Snapshot(), nil
}

func (s localSession) Summary(context.Context) (domain.Summary, error) {
	return s.d.Engine.Summary(), nil
}

func (s localSession) Achievements(context.Context) ([]domain.Achievement, error) {
	return s.d.Engine.Achievements(), nil
}

func (s localSession) Preferences(context.Context) (domain.Preferences, error) {
	return s.d.Prefs.Load(), nil
}

func (s localSession) SetPreference(_ context.Context, name, value string) (domain.Preferences, error) {
	return s.d.Prefs.Set(name, value)
}

// DealDeck preloads the deck. A partial deal returns the cards together
// with the error.
func (s localSession) DealDeck(ctx context.Context) ([]domain.Card, error) {
	err := s.d.Deck.Preload(ctx)
	return s.d.Deck.Cards(), err
}

func (s localSession) TopCard(context.Context) (domain.Card, bool, error) {
	card, ok := s.d.Deck.Current()
	return card, ok, nil
}

func (s localSession) Swipe(ctx context.Context, dir domain.SwipeDirection) (engagement.SwipeResult, error) {
	return s.d.Deck.Swipe(ctx, dir)
}

func (s localSession) Close() { s.d.Close() }
