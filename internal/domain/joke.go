// Package domain holds the pure jokebox types: jokes, achievements, engagement
// state, preferences and the sentinel errors shared across layers.
// Nothing in here touches storage or the network.
package domain

import "github.com/google/uuid"

// Joke is a single record returned by the joke endpoint.
// Immutable once fetched; two jokes are the same joke when their IDs match.
type Joke struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// ─── Swipe Deck ─────────────────────────────────────────────────────────────

// SwipeDirection is the gesture applied to the top card of the deck.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"  // skip
	SwipeRight SwipeDirection = "right" // favorite
)

// ParseSwipeDirection maps user input onto a direction.
func ParseSwipeDirection(s string) (SwipeDirection, bool) {
	switch SwipeDirection(s) {
	case SwipeLeft, SwipeRight:
		return SwipeDirection(s), true
	}
	return "", false
}

// Card wraps a joke queued in the swipe deck. The same joke can be dealt
// twice, so cards carry their own identity.
type Card struct {
	ID   uuid.UUID `json:"id"`
	Joke Joke      `json:"joke"`
}

// NewCard deals a fresh card for j.
func NewCard(j Joke) Card {
	return Card{ID: uuid.New(), Joke: j}
}
