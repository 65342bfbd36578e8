package engagement

import (
	"sync"

	"github.com/tutu-network/jokebox/internal/domain"
)

// subscriberBuffer is how many events a subscriber may fall behind before
// new events are dropped for it.
const subscriberBuffer = 32

// hub fans engine events out to subscribers. Sends never block: a
// subscriber that stops draining its channel misses events instead of
// stalling the engine.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan domain.Event
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan domain.Event)}
}

// subscribe registers a new listener. The returned func unsubscribes and
// closes the channel; calling it twice is safe.
func (h *hub) subscribe() (<-chan domain.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan domain.Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *hub) publish(events ...domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ev := range events {
		for _, ch := range h.subs {
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
