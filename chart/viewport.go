package chart

import "math"

const (
	MinBarWidth     = 5.0
	MaxBarWidth     = 67.0
	DefaultBarWidth = 15.0
)

// Viewport is the horizontal view state shared by the renderer and the
// controller: a pixel offset into the bar sequence and the width of one bar
// slot. Setters clamp; Clamp must also be called before every draw because
// the bar count and canvas width change independently of the offset.
type Viewport struct {
	offsetX  float64
	barWidth float64
}

func NewViewport(barWidth float64) *Viewport {
	v := &Viewport{}
	v.SetBarWidth(barWidth)
	return v
}

func (v *Viewport) OffsetX() float64 { return v.offsetX }

func (v *Viewport) BarWidth() float64 { return v.barWidth }

// SetBarWidth clamps w into [MinBarWidth, MaxBarWidth]. NaN falls back to
// the default width.
func (v *Viewport) SetBarWidth(w float64) {
	if math.IsNaN(w) {
		w = DefaultBarWidth
	}
	v.barWidth = clamp(w, MinBarWidth, MaxBarWidth)
}

// SetOffsetX stores x clamped to the scrollable range of totalBars bars on a
// canvas of the given width.
func (v *Viewport) SetOffsetX(x float64, totalBars int, canvasWidth float64) {
	if math.IsNaN(x) {
		x = 0
	}
	v.offsetX = clamp(x, 0, MaxOffset(totalBars, v.barWidth, canvasWidth))
}

// Clamp re-applies the offset bound and returns the clamped offset.
func (v *Viewport) Clamp(totalBars int, canvasWidth float64) float64 {
	v.SetOffsetX(v.offsetX, totalBars, canvasWidth)
	return v.offsetX
}

// VisibleRange returns the half-open index range [start, end) of the bars
// that fit on the canvas at the current offset.
func (v *Viewport) VisibleRange(totalBars int, canvasWidth float64) (start, end int) {
	start = int(math.Floor(v.offsetX / v.barWidth))
	end = min(totalBars, start+int(math.Floor(canvasWidth/v.barWidth)))
	if end < start {
		end = start
	}
	return start, end
}

// SlotX is the left edge of the slot of bar i when start is the first
// visible index.
func (v *Viewport) SlotX(i, start int) float64 {
	return float64(i-start)*v.barWidth - math.Mod(v.offsetX, v.barWidth)
}

// MaxOffset is the largest valid offset: zero when the content is narrower
// than the canvas.
func MaxOffset(totalBars int, barWidth, canvasWidth float64) float64 {
	return math.Max(0, float64(totalBars)*barWidth-canvasWidth)
}

func clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
