package chart

import "sync"

// RenderRequest is what the next frame should draw.
type RenderRequest struct {
	Pointer *Point
}

// Scheduler coalesces render requests: any number of requests between two
// Take calls result in a single draw using the latest pointer state.
type Scheduler struct {
	mu      sync.Mutex
	pending bool
	pointer *Point
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: true}
}

// Request schedules a render with the given pointer, or without crosshair
// when pointer is nil.
func (s *Scheduler) Request(pointer *Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pointer != nil {
		p := *pointer
		pointer = &p
	}
	s.pointer = pointer
	s.pending = true
}

// Invalidate schedules a render that keeps the last requested pointer.
func (s *Scheduler) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = true
}

// Take returns the pending request, if any, and clears it.
func (s *Scheduler) Take() (RenderRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return RenderRequest{}, false
	}
	s.pending = false
	return RenderRequest{Pointer: s.pointer}, true
}
