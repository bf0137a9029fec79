package chart

import (
	"context"
	"errors"
	"sync"

	"candleview/event"
)

// Fetcher retrieves the raw chunks of a query from the bar service.
type Fetcher interface {
	FetchChunks(ctx context.Context, q event.Query) ([]event.RawChunk, error)
}

// Data owns the bar series of the chart. A successful Load replaces the
// series wholesale; readers never observe a partially built series.
type Data struct {
	fetcher   Fetcher
	normalize func([]event.RawChunk) ([]Bar, error)

	mu     sync.RWMutex
	base   event.Query
	series *Series
	symbol string
	seq    uint64
}

type DataOption func(*Data)

// WithSortedBars sorts bars by time after normalization.
func WithSortedBars() DataOption {
	return func(d *Data) { d.normalize = NormalizeSorted }
}

func NewData(fetcher Fetcher, base event.Query, opts ...DataOption) *Data {
	d := &Data{
		fetcher:   fetcher,
		normalize: Normalize,
		base:      base,
		series:    emptySeries,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Series returns the current series. It is never nil.
func (d *Data) Series() *Series {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.series
}

func (d *Data) Len() int {
	return d.Series().Len()
}

// Symbol is the symbol of the installed series, empty before the first
// successful load.
func (d *Data) Symbol() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.symbol
}

// Query returns the base query used for the next load.
func (d *Data) Query() event.Query {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.base
}

// SetTimeframe changes the timeframe of subsequent loads.
func (d *Data) SetTimeframe(tf int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.base.Timeframe = tf
}

// CompareAndSetTimeframe sets the timeframe to tf if it is still old.
func (d *Data) CompareAndSetTimeframe(old, tf int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.base.Timeframe != old {
		return false
	}
	d.base.Timeframe = tf
	return true
}

// Load fetches the bars of symbol and installs them. On failure the previous
// series is kept and a *LoadError is returned. When another Load started
// after this one, the response is dropped and ErrStaleLoad is returned.
func (d *Data) Load(ctx context.Context, symbol string) error {
	d.mu.Lock()
	d.seq++
	id := d.seq
	q := d.base.WithSymbol(symbol)
	d.mu.Unlock()

	chunks, err := d.fetcher.FetchChunks(ctx, q)
	if err != nil {
		if d.stale(id) {
			return ErrStaleLoad
		}
		return &LoadError{Symbol: symbol, Err: err}
	}

	var bars []Bar
	if len(chunks) > 0 {
		bars, err = d.normalize(chunks)
		if err != nil {
			if d.stale(id) {
				return ErrStaleLoad
			}
			return &LoadError{Symbol: symbol, Err: err}
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if id != d.seq {
		return ErrStaleLoad
	}
	d.series = NewSeries(bars)
	d.symbol = symbol
	if len(bars) == 0 {
		return ErrEmptyData
	}
	return nil
}

func (d *Data) stale(id uint64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return id != d.seq
}

// IsLoadError reports whether err is a failed load that should be shown to
// the user.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
