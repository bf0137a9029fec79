package chart

import "time"

const (
	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9
	ScrollStep    = 30.0
	WheelThrottle = 50 * time.Millisecond
)

// EventHandler is the set of input operations a platform adapter forwards
// to the chart. Coordinates are in surface pixels.
type EventHandler interface {
	OnPointerDown(p Point)
	OnPointerMove(p Point)
	OnPointerUp()
	OnPointerLeave()
	// OnWheel reports whether the event was consumed; the adapter must
	// suppress native scrolling for consumed events.
	OnWheel(e WheelEvent) bool
	OnResize(w, h float64)
}

// WheelEvent uses browser-style deltas: negative DeltaY scrolls up, negative
// DeltaX scrolls left. Zoom is set while the zoom modifier is held.
type WheelEvent struct {
	DeltaX float64
	DeltaY float64
	Zoom   bool
}

type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrabbing
)

// BarCounter reports the number of loaded bars.
type BarCounter interface {
	Len() int
}

// Controller is the pan/zoom/hover state machine. It must be driven from a
// single goroutine.
type Controller struct {
	view  *Viewport
	bars  BarCounter
	sched *Scheduler
	now   func() time.Time

	state        State
	anchorX      float64
	anchorOffset float64

	pointer   *Point
	width     float64
	height    float64
	lastWheel time.Time
	throttle  time.Duration
}

type ControllerOption func(*Controller)

// WithClock replaces time.Now for wheel throttling.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// WithThrottle sets the minimum interval between two handled wheel events.
func WithThrottle(d time.Duration) ControllerOption {
	return func(c *Controller) { c.throttle = d }
}

func NewController(view *Viewport, bars BarCounter, sched *Scheduler, opts ...ControllerOption) *Controller {
	c := &Controller{
		view:     view,
		bars:     bars,
		sched:    sched,
		now:      time.Now,
		throttle: WheelThrottle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Cursor() Cursor {
	if c.state == StateDragging {
		return CursorGrabbing
	}
	return CursorDefault
}

// Pointer returns the last known pointer position inside the surface.
func (c *Controller) Pointer() (Point, bool) {
	if c.pointer == nil {
		return Point{}, false
	}
	return *c.pointer, true
}

func (c *Controller) OnPointerDown(p Point) {
	c.state = StateDragging
	c.anchorX = p.X
	c.anchorOffset = c.view.OffsetX()
}

func (c *Controller) OnPointerMove(p Point) {
	c.pointer = &p
	if c.state == StateDragging {
		c.view.SetOffsetX(c.anchorOffset-(p.X-c.anchorX), c.bars.Len(), c.width)
	}
	c.sched.Request(c.pointer)
}

func (c *Controller) OnPointerUp() {
	c.state = StateIdle
}

func (c *Controller) OnPointerLeave() {
	c.state = StateIdle
	c.pointer = nil
	c.sched.Request(nil)
}

func (c *Controller) OnWheel(e WheelEvent) bool {
	now := c.now()
	if !c.lastWheel.IsZero() && now.Sub(c.lastWheel) < c.throttle {
		return false
	}
	c.lastWheel = now

	if e.Zoom {
		factor := ZoomOutFactor
		if e.DeltaY < 0 {
			factor = ZoomInFactor
		}
		c.view.SetBarWidth(c.view.BarWidth() * factor)
	} else {
		offset := c.view.OffsetX()
		switch {
		case e.DeltaX < 0:
			offset -= ScrollStep
		case e.DeltaX > 0:
			offset += ScrollStep
		}
		c.view.SetOffsetX(offset, c.bars.Len(), c.width)
	}

	c.sched.Request(c.pointer)
	return true
}

func (c *Controller) OnResize(w, h float64) {
	c.width, c.height = w, h
	c.view.Clamp(c.bars.Len(), w)
	c.sched.Request(c.pointer)
}

// WheelFromOffsets converts scroll offsets where positive y scrolls up and
// positive x scrolls left into a WheelEvent. Without a horizontal component
// and outside zoom, vertical scrolling pans the chart.
func WheelFromOffsets(x, y float64, zoom bool) WheelEvent {
	e := WheelEvent{DeltaX: -x, DeltaY: -y, Zoom: zoom}
	if !zoom && x == 0 {
		e.DeltaX = e.DeltaY
	}
	return e
}
