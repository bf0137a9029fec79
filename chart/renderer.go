package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	gridSpacingX = 100.0
	gridSpacingY = 50.0

	candleBodyRatio = 0.6

	priceScaleSteps  = 5
	priceLabelX      = 30.0
	priceRuleStartX  = 70.0
	timeLabelSpacing = 150.0
	timeLabelBottom  = 10.0

	infoEdgePadding = 200.0
	infoBottom      = 50.0
	infoMinSpacing  = 16.0

	crosshairDash = 5.0

	messagePadding = 8.0

	NoDataMessage = "No data"
)

// Point is a pointer position in surface pixels.
type Point struct {
	X, Y float64
}

// SeriesSource provides the bars to draw. Data implements it.
type SeriesSource interface {
	Series() *Series
}

// Frame summarizes what the last Render call drew.
type Frame struct {
	Start, End int
	YMin, YMax float64
	// Degenerate is set when every bar shared one price and the range was
	// widened to keep coordinates finite.
	Degenerate bool
	Empty      bool
	// Hovered is the index of the bar under the pointer or -1.
	Hovered int
}

type Renderer struct {
	source   SeriesSource
	view     *Viewport
	theme    Theme
	location *time.Location

	hits     []HitBox
	hovered  Bar
	hasHover bool
}

type RendererOption func(*Renderer)

func WithTheme(theme Theme) RendererOption {
	return func(r *Renderer) { r.theme = theme }
}

// WithLocation sets the time zone of the time axis and the info readout.
func WithLocation(loc *time.Location) RendererOption {
	return func(r *Renderer) { r.location = loc }
}

func NewRenderer(source SeriesSource, view *Viewport, opts ...RendererOption) *Renderer {
	r := &Renderer{
		source:   source,
		view:     view,
		theme:    DefaultTheme(),
		location: time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HoveredBar returns the bar under the pointer in the last frame.
func (r *Renderer) HoveredBar() (Bar, bool) {
	return r.hovered, r.hasHover
}

// HitTest returns the index of the first bar, in index order, whose last
// drawn extent contains x.
func (r *Renderer) HitTest(x float64) (int, bool) {
	for _, h := range r.hits {
		if h.Contains(x) {
			return h.Index, true
		}
	}
	return -1, false
}

// Render draws one full frame. A nil pointer draws no crosshair and clears
// the hovered bar.
func (r *Renderer) Render(s Surface, pointer *Point) Frame {
	series := r.source.Series()
	w, h := s.Size()
	frame := Frame{Hovered: -1}

	r.hits = r.hits[:0]
	r.hasHover = false

	s.FillRect(0, 0, w, h, r.theme.Background)
	r.drawGrid(s, w, h)

	low, high, ok := series.PriceRange()
	if !ok {
		frame.Empty = true
		r.DisplayMessage(s, NoDataMessage)
		if pointer != nil {
			r.drawCrosshair(s, w, h, *pointer)
		}
		return frame
	}

	yMin, yMax, degenerate := widenRange(low, high)
	frame.YMin, frame.YMax, frame.Degenerate = yMin, yMax, degenerate

	r.view.Clamp(series.Len(), w)
	frame.Start, frame.End = r.view.VisibleRange(series.Len(), w)

	r.drawCandles(s, series, frame.Start, frame.End, h, yMin, yMax)
	r.drawPriceScale(s, w, h, yMin, yMax)
	r.drawTimeAxis(s, series, frame.Start, frame.End, h)

	if pointer != nil {
		r.drawCrosshair(s, w, h, *pointer)
		if i, ok := r.HitTest(pointer.X); ok {
			r.hovered, r.hasHover = series.At(i), true
			frame.Hovered = i
			r.drawBarInfo(s, w, h, r.hovered)
		}
	}
	return frame
}

// DisplayMessage draws msg centered on the surface over a background
// colored backdrop.
func (r *Renderer) DisplayMessage(s Surface, msg string) {
	w, h := s.Size()
	tw, th := s.MeasureText(msg)
	s.FillRect(w/2-tw/2-messagePadding, h/2-th-messagePadding, tw+messagePadding*2, th+messagePadding*2, r.theme.Background)
	s.DrawText(msg, w/2, h/2, AlignCenter, r.theme.Text)
}

func (r *Renderer) drawGrid(s Surface, w, h float64) {
	for x := 0.0; x <= w; x += gridSpacingX {
		s.StrokeLine(x, 0, x, h, 1, r.theme.Grid)
	}
	for y := 0.0; y <= h; y += gridSpacingY {
		s.StrokeLine(0, y, w, y, 1, r.theme.Grid)
	}
}

func (r *Renderer) drawCandles(s Surface, series *Series, start, end int, h, yMin, yMax float64) {
	yScale := h / (yMax - yMin)
	toY := func(price float64) float64 {
		return (yMax - price) * yScale
	}

	barWidth := r.view.BarWidth()
	bodyWidth := barWidth * candleBodyRatio
	inset := (barWidth - bodyWidth) / 2

	for i := start; i < end; i++ {
		bar := series.At(i)
		x := r.view.SlotX(i, start) + inset

		col := r.theme.Down
		if bar.Up() {
			col = r.theme.Up
		}

		openY, closeY := toY(bar.Open), toY(bar.Close)
		top := math.Min(openY, closeY)
		bottom := math.Max(openY, closeY)
		bodyHeight := math.Max(bottom-top, 1)
		s.FillRect(x, top, bodyWidth, bodyHeight, col)

		mid := x + bodyWidth/2
		s.StrokeLine(mid, toY(bar.High), mid, top, 1, col)
		s.StrokeLine(mid, bottom, mid, toY(bar.Low), 1, col)

		r.hits = append(r.hits, HitBox{Index: i, X: x, Width: bodyWidth})
	}
}

func (r *Renderer) drawPriceScale(s Surface, w, h, yMin, yMax float64) {
	span := yMax - yMin
	step := span / priceScaleSteps
	for i := 0; i <= priceScaleSteps; i++ {
		price := yMin + float64(i)*step
		y := h - (price-yMin)/span*h
		s.DrawText(fmt.Sprintf("%.4f", price), priceLabelX, y, AlignLeft, r.theme.Text)
		s.StrokeLine(priceRuleStartX, y, w, y, 1, r.theme.Scale)
	}
}

func (r *Renderer) drawTimeAxis(s Surface, series *Series, start, end int, h float64) {
	barWidth := r.view.BarWidth()
	every := max(1, int(math.Floor(timeLabelSpacing/math.Max(barWidth, 1))))
	for i := start; i < end; i += every {
		x := r.view.SlotX(i, start) + barWidth/2
		s.DrawText(TimeLabel(series.At(i).Time.In(r.location)), x, h-timeLabelBottom, AlignCenter, r.theme.Text)
	}
}

func (r *Renderer) drawCrosshair(s Surface, w, h float64, p Point) {
	s.StrokeDashedLine(p.X, 0, p.X, h, 1, crosshairDash, crosshairDash, r.theme.Crosshair)
	s.StrokeDashedLine(0, p.Y, w, p.Y, 1, crosshairDash, crosshairDash, r.theme.Crosshair)
}

func (r *Renderer) drawBarInfo(s Surface, w, h float64, bar Bar) {
	labels := InfoLabels(bar, r.location)

	widths := make([]float64, len(labels))
	total := 0.0
	for i, label := range labels {
		widths[i], _ = s.MeasureText(label)
		total += widths[i]
	}
	spacing := (w - total - infoEdgePadding*2) / float64(len(labels)-1)
	spacing = math.Max(spacing, infoMinSpacing)

	x := infoEdgePadding
	for i, label := range labels {
		s.DrawText(label, x, h-infoBottom, AlignLeft, r.theme.Text)
		x += widths[i] + spacing
	}
}

// InfoLabels are the readout lines shown for a hovered bar.
func InfoLabels(bar Bar, loc *time.Location) []string {
	return []string{
		"Vol: " + humanize.Comma(int64(bar.TickVolume)),
		"Date: " + bar.Time.In(loc).Format("2006-01-02 15:04:05"),
		"Price: " + humanize.CommafWithDigits(bar.Close, 5),
	}
}

// TimeLabel formats t as H:MM.
func TimeLabel(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// widenRange returns a usable price range. A flat range is opened up around
// its midpoint so that the price-to-pixel scale stays finite.
func widenRange(low, high float64) (float64, float64, bool) {
	if high > low {
		return low, high, false
	}
	mid := (low + high) / 2
	half := math.Max(math.Abs(mid)*1e-4, 1e-8)
	return mid - half, mid + half, true
}
