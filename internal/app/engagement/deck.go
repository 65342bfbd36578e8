package engagement

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tutu-network/jokebox/internal/domain"
	"github.com/tutu-network/jokebox/internal/infra/metrics"
)

// DeckConfig controls how many cards are kept queued.
type DeckConfig struct {
	Preload     int // cards fetched by Preload
	RefillBelow int // fetch one more card when fewer than this remain
}

// DefaultDeckConfig deals three cards up front and tops up when fewer
// than two are left.
func DefaultDeckConfig() DeckConfig {
	return DeckConfig{Preload: 3, RefillBelow: 2}
}

// SwipeResult reports what a swipe did.
type SwipeResult struct {
	Card      domain.Card           `json:"card"`
	Direction domain.SwipeDirection `json:"direction"`
	Favorited bool                  `json:"favorited"`
	Unlocked  []domain.Achievement  `json:"unlocked,omitempty"`
	Remaining int                   `json:"remaining"`
}

// Deck is the swipe queue. Cards come straight from the joke source and
// do not touch the engine's recent list; swiping records the read.
type Deck struct {
	mu     sync.Mutex
	engine *Engine
	source domain.JokeSource
	cfg    DeckConfig
	log    logrus.FieldLogger
	cards  []domain.Card
}

// NewDeck creates an empty deck that feeds reads and favorites into engine.
func NewDeck(engine *Engine, source domain.JokeSource, cfg DeckConfig, log logrus.FieldLogger) *Deck {
	if cfg.Preload <= 0 {
		cfg.Preload = DefaultDeckConfig().Preload
	}
	if cfg.RefillBelow < 0 {
		cfg.RefillBelow = 0
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Deck{
		engine: engine,
		source: source,
		cfg:    cfg,
		log:    log.WithField("component", "deck"),
	}
}

// Preload fetches cfg.Preload cards. Failed fetches are skipped; the
// joined errors are returned so callers can tell an empty deck apart
// from a partial one.
func (d *Deck) Preload(ctx context.Context) error {
	var errs []error
	for i := 0; i < d.cfg.Preload; i++ {
		if err := d.deal(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Current returns the top card.
func (d *Deck) Current() (domain.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return domain.Card{}, false
	}
	return d.cards[0], true
}

// Next returns the card under the top one.
func (d *Deck) Next() (domain.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) < 2 {
		return domain.Card{}, false
	}
	return d.cards[1], true
}

// Cards returns a copy of the queued cards, top first.
func (d *Deck) Cards() []domain.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Card{}, d.cards...)
}

// Swipe consumes the top card. Right adds its joke to favorites; either
// direction counts as a read. When the queue runs low one more card is
// fetched; a failed top-up is logged, not returned.
func (d *Deck) Swipe(ctx context.Context, dir domain.SwipeDirection) (SwipeResult, error) {
	d.mu.Lock()
	if len(d.cards) == 0 {
		d.mu.Unlock()
		return SwipeResult{}, domain.ErrDeckEmpty
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	remaining := len(d.cards)
	d.mu.Unlock()

	res := SwipeResult{Card: card, Direction: dir}
	if dir == domain.SwipeRight {
		added, unlocked := d.engine.AddFavorite(card.Joke)
		res.Favorited = added
		res.Unlocked = append(res.Unlocked, unlocked...)
	}
	res.Unlocked = append(res.Unlocked, d.engine.RecordJokeRead()...)
	metrics.Swipes.WithLabelValues(string(dir)).Inc()

	if remaining < d.cfg.RefillBelow {
		if err := d.deal(ctx); err != nil {
			d.log.WithError(err).Warn("deck refill failed")
		}
	}

	d.mu.Lock()
	res.Remaining = len(d.cards)
	d.mu.Unlock()
	return res, nil
}

// deal fetches one joke and queues it as a card.
func (d *Deck) deal(ctx context.Context) error {
	joke, err := d.source.Fetch(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.cards = append(d.cards, domain.NewCard(joke))
	d.mu.Unlock()
	return nil
}
