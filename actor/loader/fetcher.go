package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/anthdm/hollywood/actor"

	"candleview/event"
)

// Fetcher forwards fetches to a loader actor and waits for the reply.
type Fetcher struct {
	engine  *actor.Engine
	pid     *actor.PID
	timeout time.Duration
}

func NewFetcher(engine *actor.Engine, pid *actor.PID, timeout time.Duration) *Fetcher {
	return &Fetcher{
		engine:  engine,
		pid:     pid,
		timeout: timeout,
	}
}

// Invalidate drops the loader's cached responses. Requests sent afterwards
// are fetched again.
func (f *Fetcher) Invalidate() {
	f.engine.Send(f.pid, event.Invalidate{})
}

type reply struct {
	v   any
	err error
}

func (f *Fetcher) FetchChunks(ctx context.Context, q event.Query) ([]event.RawChunk, error) {
	resp := f.engine.Request(f.pid, event.LoadRequest{Query: q}, f.timeout)

	done := make(chan reply, 1)
	go func() {
		v, err := resp.Result()
		done <- reply{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("loader: request %s: %w", q, r.err)
		}
		res, ok := r.v.(event.LoadResult)
		if !ok {
			return nil, fmt.Errorf("loader: unexpected reply %T", r.v)
		}
		return res.Chunks, res.Err
	}
}
