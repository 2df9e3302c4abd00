package routing

import "sync"

// History abstracts the browser history transport. Push is the router's only
// write path; Listen delivers externally triggered changes (the popstate
// equivalent: back/forward), which re-enter route resolution.
type History interface {
	Push(path string) error
	Current() string
	Listen(fn func(path string))
}

// MemoryHistory is an in-process History backed by a navigation stack. It
// serves tests and the dev server; Back and Forward play the role of the
// browser's buttons and notify listeners.
type MemoryHistory struct {
	mu        sync.Mutex
	stack     []string
	idx       int
	listeners []func(string)
}

// NewMemoryHistory creates a history positioned at initial.
func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{stack: []string{initial}}
}

// Push records a new entry, discarding any forward entries.
func (h *MemoryHistory) Push(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = append(h.stack[:h.idx+1], path)
	h.idx++
	return nil
}

// Current returns the entry the history is positioned at.
func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack[h.idx]
}

// Listen subscribes to externally triggered position changes.
func (h *MemoryHistory) Listen(fn func(path string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Back moves one entry backwards and notifies listeners, like the browser's
// back button firing popstate. No-op at the oldest entry.
func (h *MemoryHistory) Back() {
	h.move(-1)
}

// Forward moves one entry forwards and notifies listeners.
func (h *MemoryHistory) Forward() {
	h.move(1)
}

func (h *MemoryHistory) move(delta int) {
	h.mu.Lock()
	next := h.idx + delta
	if next < 0 || next >= len(h.stack) {
		h.mu.Unlock()
		return
	}
	h.idx = next
	path := h.stack[h.idx]
	listeners := make([]func(string), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(path)
	}
}

// Length returns the number of recorded entries.
func (h *MemoryHistory) Length() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}
