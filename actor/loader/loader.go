package loader

import (
	"context"
	"time"

	"github.com/anthdm/hollywood/actor"
	"github.com/tidwall/btree"
	"go.uber.org/zap"

	"candleview/event"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 32
)

// Source is the remote side of the loader, usually a *datafeed.Client.
type Source interface {
	FetchChunks(ctx context.Context, q event.Query) ([]event.RawChunk, error)
}

type entry struct {
	query  event.Query
	chunks []event.RawChunk
	stored time.Time
}

// fetched is sent to the loader by the goroutine running a fetch.
type fetched struct {
	key    uint32
	query  event.Query
	chunks []event.RawChunk
	err    error
}

// Loader serves event.LoadRequest messages from a response cache and
// collapses concurrent requests for the same query into one fetch.
type Loader struct {
	source     Source
	log        *zap.Logger
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	key        func(event.Query) uint32

	cache   *btree.Map[uint32, entry]
	pending map[event.Query][]*actor.PID

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Loader)

func WithTTL(ttl time.Duration) Option {
	return func(l *Loader) { l.ttl = ttl }
}

func WithMaxEntries(n int) Option {
	return func(l *Loader) { l.maxEntries = n }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

func withClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

func withKey(key func(event.Query) uint32) Option {
	return func(l *Loader) { l.key = key }
}

func New(source Source, opts ...Option) actor.Producer {
	return func() actor.Receiver {
		l := &Loader{
			source:     source,
			log:        zap.NewNop(),
			ttl:        DefaultTTL,
			maxEntries: DefaultMaxEntries,
			now:        time.Now,
			key:        event.Query.Key,
			cache:      btree.NewMap[uint32, entry](0),
			pending:    make(map[event.Query][]*actor.PID),
		}
		for _, opt := range opts {
			opt(l)
		}
		return l
	}
}

func (l *Loader) Receive(c *actor.Context) {
	switch msg := c.Message().(type) {
	case actor.Started:
		l.ctx, l.cancel = context.WithCancel(context.Background())
		l.log.Info("loader started", zap.Duration("ttl", l.ttl), zap.Int("max_entries", l.maxEntries))
	case actor.Stopped:
		if l.cancel != nil {
			l.cancel()
		}
	case event.LoadRequest:
		l.handleLoad(c, msg.Query)
	case fetched:
		l.handleFetched(c, msg)
	case event.Invalidate:
		l.log.Debug("cache cleared", zap.Int("entries", l.cache.Len()))
		l.cache.Clear()
	}
}

func (l *Loader) handleLoad(c *actor.Context, q event.Query) {
	key := l.key(q)

	if e, ok := l.cache.Get(key); ok && e.query == q {
		if l.now().Sub(e.stored) < l.ttl {
			l.log.Debug("cache hit", zap.Stringer("query", q))
			if c.Sender() != nil {
				c.Respond(event.LoadResult{Query: q, Chunks: e.chunks, Cached: true})
			}
			return
		}
		l.cache.Delete(key)
	}

	// different queries may share a cache key, so fetches are joined by query
	waiters, inflight := l.pending[q]
	if c.Sender() != nil {
		waiters = append(waiters, c.Sender())
	}
	l.pending[q] = waiters
	if inflight {
		return
	}

	var (
		engine = c.Engine()
		self   = c.PID()
		ctx    = l.ctx
		source = l.source
	)
	go func() {
		chunks, err := source.FetchChunks(ctx, q)
		engine.Send(self, fetched{key: key, query: q, chunks: chunks, err: err})
	}()
}

func (l *Loader) handleFetched(c *actor.Context, msg fetched) {
	waiters := l.pending[msg.query]
	delete(l.pending, msg.query)

	if msg.err != nil {
		l.log.Warn("fetch failed", zap.Stringer("query", msg.query), zap.Error(msg.err))
	} else {
		l.store(msg.key, entry{query: msg.query, chunks: msg.chunks, stored: l.now()})
	}

	result := event.LoadResult{Query: msg.query, Chunks: msg.chunks, Err: msg.err}
	for _, pid := range waiters {
		c.Send(pid, result)
	}
}

func (l *Loader) store(key uint32, e entry) {
	l.cache.Set(key, e)
	for l.maxEntries > 0 && l.cache.Len() > l.maxEntries {
		var (
			oldestKey uint32
			oldest    time.Time
			found     bool
		)
		l.cache.Scan(func(k uint32, v entry) bool {
			if !found || v.stored.Before(oldest) {
				oldestKey, oldest, found = k, v.stored, true
			}
			return true
		})
		l.cache.Delete(oldestKey)
	}
}
