package controller

import (
	"sync"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
)

// hub fans view snapshots out to subscribers. Each subscriber has a
// one-slot channel; a slow reader loses intermediate snapshots, never the
// latest one.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan lock.View
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan lock.View)}
}

func (h *hub) subscribe(initial lock.View) (<-chan lock.View, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan lock.View, 1)
	if h.closed {
		close(ch)

		return ch, func() {}
	}

	ch <- initial

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

func (h *hub) publish(v lock.View) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- v:
			continue
		default:
		}

		// Replace the stale snapshot. publish holds h.mu, so nothing else
		// refills the slot between the drain and the send.
		select {
		case <-ch:
		default:
		}

		ch <- v
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
