package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anthdm/hollywood/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candleview/event"
)

type countingSource struct {
	calls atomic.Int32
	gate  chan struct{}
	err   error
}

func (s *countingSource) FetchChunks(ctx context.Context, q event.Query) ([]event.RawChunk, error) {
	s.calls.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return []event.RawChunk{{ChunkStart: int64(len(q.Symbol)), Bars: []event.RawBar{{Close: 1}}}}, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func spawn(t *testing.T, source Source, opts ...Option) (*actor.Engine, *actor.PID) {
	t.Helper()
	engine, err := actor.NewEngine(actor.NewEngineConfig())
	require.NoError(t, err)
	pid := engine.Spawn(New(source, opts...), "loader")
	t.Cleanup(func() { <-engine.Poison(pid).Done() })
	return engine, pid
}

func request(t *testing.T, engine *actor.Engine, pid *actor.PID, q event.Query) event.LoadResult {
	t.Helper()
	v, err := engine.Request(pid, event.LoadRequest{Query: q}, time.Second).Result()
	require.NoError(t, err)
	res, ok := v.(event.LoadResult)
	require.True(t, ok)
	return res
}

var eurusd = event.Query{Broker: "Advanced", Symbol: "EURUSD", Timeframe: 1, Start: 57674, End: 59113}

func TestLoaderCachesResponses(t *testing.T) {
	source := &countingSource{}
	engine, pid := spawn(t, source)

	first := request(t, engine, pid, eurusd)
	require.NoError(t, first.Err)
	assert.False(t, first.Cached)
	assert.Len(t, first.Chunks, 1)

	second := request(t, engine, pid, eurusd)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Chunks, second.Chunks)
	assert.Equal(t, int32(1), source.calls.Load())

	// a different query misses
	request(t, engine, pid, eurusd.WithSymbol("USDJPY"))
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestLoaderExpiresEntries(t *testing.T) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	source := &countingSource{}
	engine, pid := spawn(t, source, WithTTL(time.Minute), withClock(clock.Now))

	request(t, engine, pid, eurusd)
	clock.Advance(30 * time.Second)
	assert.True(t, request(t, engine, pid, eurusd).Cached)

	clock.Advance(time.Minute)
	assert.False(t, request(t, engine, pid, eurusd).Cached)
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestLoaderDoesNotCacheErrors(t *testing.T) {
	source := &countingSource{err: errors.New("bad gateway")}
	engine, pid := spawn(t, source)

	res := request(t, engine, pid, eurusd)
	assert.EqualError(t, res.Err, "bad gateway")

	request(t, engine, pid, eurusd)
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestLoaderCollapsesConcurrentRequests(t *testing.T) {
	source := &countingSource{gate: make(chan struct{})}
	engine, pid := spawn(t, source)
	fetcher := NewFetcher(engine, pid, time.Second)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fetcher.FetchChunks(context.Background(), eurusd)
		}(i)
	}

	require.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, time.Millisecond)
	// give the remaining requests time to queue behind the first
	time.Sleep(20 * time.Millisecond)
	close(source.gate)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), source.calls.Load())
}

func TestLoaderEvictsOldest(t *testing.T) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	source := &countingSource{}
	engine, pid := spawn(t, source, WithMaxEntries(2), withClock(clock.Now))

	for _, symbol := range []string{"EURUSD", "USDJPY", "GBPUSD"} {
		request(t, engine, pid, eurusd.WithSymbol(symbol))
		clock.Advance(time.Second)
	}
	assert.Equal(t, int32(3), source.calls.Load())

	assert.True(t, request(t, engine, pid, eurusd.WithSymbol("GBPUSD")).Cached)
	assert.True(t, request(t, engine, pid, eurusd.WithSymbol("USDJPY")).Cached)
	assert.False(t, request(t, engine, pid, eurusd.WithSymbol("EURUSD")).Cached)
}

func TestLoaderInvalidate(t *testing.T) {
	source := &countingSource{}
	engine, pid := spawn(t, source)

	request(t, engine, pid, eurusd)
	engine.Send(pid, event.Invalidate{})
	assert.False(t, request(t, engine, pid, eurusd).Cached)
}

func TestFetcherReturnsSourceError(t *testing.T) {
	cause := errors.New("connection reset")
	engine, pid := spawn(t, &countingSource{err: cause})

	_, err := NewFetcher(engine, pid, time.Second).FetchChunks(context.Background(), eurusd)
	assert.ErrorIs(t, err, cause)
}

func TestFetcherHonorsContext(t *testing.T) {
	source := &countingSource{gate: make(chan struct{})}
	defer close(source.gate)
	engine, pid := spawn(t, source)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewFetcher(engine, pid, time.Second).FetchChunks(ctx, eurusd)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoaderSeparatesQueriesSharingKey(t *testing.T) {
	source := &countingSource{gate: make(chan struct{})}
	engine, pid := spawn(t, source, withKey(func(event.Query) uint32 { return 7 }))
	fetcher := NewFetcher(engine, pid, time.Second)

	symbols := []string{"EURUSD", "GOLD"}
	chunks := make([][]event.RawChunk, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chunks[i], _ = fetcher.FetchChunks(context.Background(), eurusd.WithSymbol(symbol))
		}()
	}

	require.Eventually(t, func() bool { return source.calls.Load() == 2 }, time.Second, time.Millisecond)
	close(source.gate)
	wg.Wait()

	require.Len(t, chunks[0], 1)
	require.Len(t, chunks[1], 1)
	assert.Equal(t, int64(6), chunks[0][0].ChunkStart)
	assert.Equal(t, int64(4), chunks[1][0].ChunkStart)

	// a cached entry under the shared key is not served for the other query
	res := request(t, engine, pid, eurusd.WithSymbol("EURUSD"))
	assert.Equal(t, int64(6), res.Chunks[0].ChunkStart)
}

func TestFetcherInvalidate(t *testing.T) {
	source := &countingSource{}
	engine, pid := spawn(t, source)
	fetcher := NewFetcher(engine, pid, time.Second)

	_, err := fetcher.FetchChunks(context.Background(), eurusd)
	require.NoError(t, err)
	fetcher.Invalidate()
	_, err = fetcher.FetchChunks(context.Background(), eurusd)
	require.NoError(t, err)

	assert.Equal(t, int32(2), source.calls.Load())
}
