package chart

import (
	"math"
	"time"
)

// Bar is one OHLC candle. Bars are values and never change after
// normalization; the screen extent of a drawn bar lives in the renderer.
type Bar struct {
	Time       time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	TickVolume uint64
	// TimeOffset is the distance in seconds from the earliest chunk start.
	TimeOffset int64
}

// Up reports whether the bar closed above its open. Ties are not up.
func (b Bar) Up() bool {
	return b.Close > b.Open
}

// HitBox is the horizontal extent a bar occupied in the last drawn frame.
type HitBox struct {
	Index int
	X     float64
	Width float64
}

// Contains reports whether x lies on the box, edges included.
func (h HitBox) Contains(x float64) bool {
	return x >= h.X && x <= h.X+h.Width
}

// Series is a read-only sequence of bars with the price range of the whole
// sequence computed once at construction.
type Series struct {
	bars []Bar
	low  float64
	high float64
}

var emptySeries = &Series{}

// NewSeries takes ownership of bars; callers must not modify the slice
// afterwards.
func NewSeries(bars []Bar) *Series {
	if len(bars) == 0 {
		return emptySeries
	}
	s := &Series{
		bars: bars,
		low:  math.Inf(1),
		high: math.Inf(-1),
	}
	for _, b := range bars {
		s.low = math.Min(s.low, b.Low)
		s.high = math.Max(s.high, b.High)
	}
	return s
}

func (s *Series) Len() int {
	return len(s.bars)
}

func (s *Series) At(i int) Bar {
	return s.bars[i]
}

// PriceRange returns the lowest low and the highest high. ok is false for an
// empty series, where no range exists.
func (s *Series) PriceRange() (low, high float64, ok bool) {
	if len(s.bars) == 0 {
		return 0, 0, false
	}
	return s.low, s.high, true
}
