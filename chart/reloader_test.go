package chart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loadFunc func(ctx context.Context, symbol string) error

func (f loadFunc) Load(ctx context.Context, symbol string) error { return f(ctx, symbol) }

type recordingFeedback struct {
	Status
	mu    sync.Mutex
	shown []string
}

func (f *recordingFeedback) ShowMessage(msg string) {
	f.mu.Lock()
	f.shown = append(f.shown, msg)
	f.mu.Unlock()
	f.Status.ShowMessage(msg)
}

func (f *recordingFeedback) history() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.shown...)
}

func (f *recordingFeedback) message() string {
	msg, _ := f.Message()
	return msg
}

func TestReloaderFastLoadShowsNothing(t *testing.T) {
	fb := &recordingFeedback{}
	sched := NewScheduler()
	sched.Take()
	r := NewReloader(loadFunc(func(context.Context, string) error { return nil }), fb, sched,
		WithLoadingDelay(time.Second))

	require.NoError(t, r.Load(context.Background(), "EURUSD"))
	assert.Empty(t, fb.history())
	assert.Equal(t, "", fb.message())
	assert.False(t, r.Loading())

	_, ok := sched.Take()
	assert.True(t, ok)
}

func TestReloaderSlowLoadShowsLoading(t *testing.T) {
	fb := &recordingFeedback{}
	release := make(chan struct{})
	r := NewReloader(loadFunc(func(context.Context, string) error {
		<-release
		return nil
	}), fb, NewScheduler(), WithLoadingDelay(10*time.Millisecond))

	done := make(chan error)
	go func() { done <- r.Load(context.Background(), "EURUSD") }()

	assert.Eventually(t, func() bool { return fb.message() == LoadingMessage },
		time.Second, 5*time.Millisecond)
	assert.True(t, r.Loading())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "", fb.message())
	assert.Equal(t, []string{LoadingMessage}, fb.history())
}

func TestReloaderFailure(t *testing.T) {
	fb := &recordingFeedback{}
	cause := &LoadError{Symbol: "EURUSD", Err: errors.New("503")}
	r := NewReloader(loadFunc(func(context.Context, string) error { return cause }), fb, NewScheduler())

	err := r.Load(context.Background(), "EURUSD")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, FailedMessage, fb.message())

	// a successful retry removes the failure message
	r.data = loadFunc(func(context.Context, string) error { return nil })
	require.NoError(t, r.Load(context.Background(), "EURUSD"))
	assert.Equal(t, "", fb.message())
}

func TestReloaderEmptyDataIsNotFailure(t *testing.T) {
	fb := &recordingFeedback{}
	r := NewReloader(loadFunc(func(context.Context, string) error { return ErrEmptyData }), fb, NewScheduler())

	assert.ErrorIs(t, r.Load(context.Background(), "EURUSD"), ErrEmptyData)
	assert.Equal(t, "", fb.message())
}

func TestReloaderCleansUpOnPanic(t *testing.T) {
	fb := &recordingFeedback{}
	fb.ShowMessage(LoadingMessage)
	r := NewReloader(loadFunc(func(context.Context, string) error { panic("boom") }), fb, NewScheduler())

	assert.Panics(t, func() { _ = r.Load(context.Background(), "EURUSD") })
	assert.Equal(t, "", fb.message())
	assert.False(t, r.Loading())
}

func TestReloaderSupersededLoadIsSilent(t *testing.T) {
	fb := &recordingFeedback{}
	release := make(chan struct{})
	started := make(chan struct{})
	r := NewReloader(loadFunc(func(_ context.Context, symbol string) error {
		if symbol == "SLOW" {
			close(started)
			<-release
			return &LoadError{Symbol: symbol, Err: errors.New("timeout")}
		}
		return nil
	}), fb, NewScheduler(), WithLoadingDelay(time.Hour))

	done := make(chan error)
	go func() { done <- r.Load(context.Background(), "SLOW") }()
	<-started

	require.NoError(t, r.Load(context.Background(), "FAST"))
	close(release)
	assert.Error(t, <-done)

	assert.Equal(t, "", fb.message())
	assert.Empty(t, fb.history())
	assert.Equal(t, "FAST", r.Symbol())
}

func TestReloaderChangeSymbol(t *testing.T) {
	var calls []string
	r := NewReloader(loadFunc(func(_ context.Context, symbol string) error {
		calls = append(calls, symbol)
		return nil
	}), &recordingFeedback{}, NewScheduler())

	ctx := context.Background()
	for _, step := range []struct {
		symbol string
		loaded bool
	}{
		{"EURUSD", true},
		{"EURUSD", false},
		{"USDJPY", true},
	} {
		loaded, err := r.ChangeSymbol(ctx, step.symbol)
		require.NoError(t, err)
		assert.Equal(t, step.loaded, loaded, step.symbol)
	}
	// an explicit reload always runs
	require.NoError(t, r.Load(ctx, "USDJPY"))

	assert.Equal(t, []string{"EURUSD", "USDJPY", "USDJPY"}, calls)
}

func TestReloaderRetriesFailedSymbol(t *testing.T) {
	fb := &recordingFeedback{}
	var calls []string
	failing := map[string]bool{"USDJPY": true}
	r := NewReloader(loadFunc(func(_ context.Context, symbol string) error {
		calls = append(calls, symbol)
		if failing[symbol] {
			return &LoadError{Symbol: symbol, Err: errors.New("503")}
		}
		return nil
	}), fb, NewScheduler())

	ctx := context.Background()
	loaded, err := r.ChangeSymbol(ctx, "EURUSD")
	require.True(t, loaded)
	require.NoError(t, err)

	loaded, err = r.ChangeSymbol(ctx, "USDJPY")
	assert.True(t, loaded)
	assert.True(t, IsLoadError(err))
	assert.Equal(t, "EURUSD", r.Shown())
	assert.Equal(t, FailedMessage, fb.message())

	// picking the failed symbol again retries it
	failing["USDJPY"] = false
	loaded, err = r.ChangeSymbol(ctx, "USDJPY")
	assert.True(t, loaded)
	require.NoError(t, err)
	assert.Equal(t, "USDJPY", r.Shown())
	assert.Equal(t, "", fb.message())

	assert.Equal(t, []string{"EURUSD", "USDJPY", "USDJPY"}, calls)
}

func TestReloaderPanicDoesNotMarkShown(t *testing.T) {
	r := NewReloader(loadFunc(func(context.Context, string) error { panic("boom") }), &recordingFeedback{}, NewScheduler())

	assert.Panics(t, func() { _ = r.Load(context.Background(), "EURUSD") })
	assert.Equal(t, "", r.Shown())
}

func TestReloaderChangeSymbolDuringLoad(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	var calls []string
	r := NewReloader(loadFunc(func(_ context.Context, symbol string) error {
		mu.Lock()
		calls = append(calls, symbol)
		mu.Unlock()
		if symbol == "USDJPY" {
			close(started)
			<-release
		}
		return nil
	}), &recordingFeedback{}, NewScheduler(), WithLoadingDelay(time.Hour))

	ctx := context.Background()
	_, err := r.ChangeSymbol(ctx, "EURUSD")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.ChangeSymbol(ctx, "USDJPY")
	}()
	<-started

	// switching back while another symbol loads must supersede it
	loaded, err := r.ChangeSymbol(ctx, "EURUSD")
	assert.True(t, loaded)
	require.NoError(t, err)
	close(release)
	<-done

	assert.Equal(t, "EURUSD", r.Shown())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"EURUSD", "USDJPY", "EURUSD"}, calls)
}
