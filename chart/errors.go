package chart

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by Normalize when there are no chunks.
	ErrEmptyInput = errors.New("chart: no chunks to normalize")
	// ErrEmptyData is returned by Data.Load when the response holds no bars.
	ErrEmptyData = errors.New("chart: no bars loaded")
	// ErrStaleLoad is returned by Data.Load when a newer load was started
	// before this one finished. The response is discarded.
	ErrStaleLoad = errors.New("chart: load superseded by a newer request")
)

// LoadError reports a failed fetch or a payload that could not be used. The
// previous bars are kept when it is returned.
type LoadError struct {
	Symbol string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("chart: load %s: %v", e.Symbol, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
