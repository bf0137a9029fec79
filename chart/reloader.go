package chart

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	LoadingMessage = "Loading data..."
	FailedMessage  = "Failed to load data."

	DefaultLoadingDelay = 100 * time.Millisecond
)

// Feedback shows and hides the status message drawn over the chart.
type Feedback interface {
	ShowMessage(msg string)
	ClearMessage()
}

// Loader is implemented by Data.
type Loader interface {
	Load(ctx context.Context, symbol string) error
}

// Reloader runs loads and drives the status message around them. The
// loading message appears only if a load takes longer than the delay, and is
// always removed when the load ends. Only the newest load touches the
// message.
type Reloader struct {
	data     Loader
	feedback Feedback
	sched    *Scheduler
	delay    time.Duration

	mu     sync.Mutex
	token  uint64
	active bool
	symbol string
	shown  string
}

type ReloaderOption func(*Reloader)

func WithLoadingDelay(d time.Duration) ReloaderOption {
	return func(r *Reloader) { r.delay = d }
}

func NewReloader(data Loader, feedback Feedback, sched *Scheduler, opts ...ReloaderOption) *Reloader {
	r := &Reloader{
		data:     data,
		feedback: feedback,
		sched:    sched,
		delay:    DefaultLoadingDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Symbol returns the most recently requested symbol.
func (r *Reloader) Symbol() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.symbol
}

// Shown returns the symbol of the last load that installed a series, empty
// before the first one.
func (r *Reloader) Shown() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown
}

// Loading reports whether the newest load is still outstanding.
func (r *Reloader) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// ChangeSymbol loads symbol unless it is already shown and no other load is
// outstanding. It reports whether a load ran.
func (r *Reloader) ChangeSymbol(ctx context.Context, symbol string) (bool, error) {
	r.mu.Lock()
	same := !r.active && r.shown != "" && r.shown == symbol
	r.mu.Unlock()
	if same {
		return false, nil
	}
	return true, r.Load(ctx, symbol)
}

// Load blocks until the load of symbol ends and returns its error.
func (r *Reloader) Load(ctx context.Context, symbol string) (err error) {
	r.mu.Lock()
	r.token++
	token := r.token
	r.active = true
	r.symbol = symbol
	r.mu.Unlock()

	timer := time.AfterFunc(r.delay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.token == token && r.active {
			r.feedback.ShowMessage(LoadingMessage)
			r.sched.Invalidate()
		}
	})

	var returned bool
	defer func() {
		timer.Stop()

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.token != token {
			return
		}
		r.active = false
		if returned && (err == nil || errors.Is(err, ErrEmptyData)) {
			r.shown = symbol
		}
		r.feedback.ClearMessage()
		if IsLoadError(err) {
			r.feedback.ShowMessage(FailedMessage)
		}
		r.sched.Invalidate()
	}()

	err = r.data.Load(ctx, symbol)
	returned = true
	return err
}

// Status is a Feedback that stores the message for the next frame.
type Status struct {
	mu  sync.Mutex
	msg string
}

func (s *Status) ShowMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
}

func (s *Status) ClearMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = ""
}

// Message returns the current message, if any.
func (s *Status) Message() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg, s.msg != ""
}
