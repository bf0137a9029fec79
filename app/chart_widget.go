package app

import (
	img "image"

	"candleview/chart"
	"candleview/settings"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

// ChartWidget hosts the chart on an offscreen canvas and forwards the
// ebitenui input events to the chart controller.
type ChartWidget struct {
	*widget.Container

	controller *chart.Controller
	events     chart.EventHandler
	renderer   *chart.Renderer
	sched      *chart.Scheduler
	status     *chart.Status

	canvas  *ebiten.Image
	surface *canvasSurface
	size    img.Point

	isMouseInBounds bool
}

func NewChartWidget(controller *chart.Controller, renderer *chart.Renderer, sched *chart.Scheduler, status *chart.Status) *ChartWidget {
	w := &ChartWidget{
		controller: controller,
		events:     controller,
		renderer:   renderer,
		sched:      sched,
		status:     status,
		surface:    newCanvasSurface(settings.FontSM),
	}
	w.Container = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.ChartTheme.Background),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.CursorMoveHandler(w.onMouseMove),
			widget.WidgetOpts.MouseButtonPressedHandler(w.onMousePressed),
			widget.WidgetOpts.MouseButtonReleasedHandler(w.onMouseReleased),
			widget.WidgetOpts.ScrolledHandler(w.onScroll),
			widget.WidgetOpts.CursorEnterHandler(w.onContainerEnter),
			widget.WidgetOpts.CursorExitHandler(w.onContainerLeave),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				StretchHorizontal: true,
				StretchVertical:   true,
			}),
		),
	)
	return w
}

func (w *ChartWidget) Update() {
	w.Container.Update()

	size := w.GetWidget().Rect.Size()
	if size != w.size {
		w.resize(size)
	}

	if w.isMouseInBounds {
		switch w.controller.Cursor() {
		case chart.CursorGrabbing:
			ebiten.SetCursorShape(ebiten.CursorShapeMove)
		default:
			ebiten.SetCursorShape(ebiten.CursorShapeDefault)
		}
	}
}

func (w *ChartWidget) resize(size img.Point) {
	w.size = size
	if w.canvas != nil {
		w.canvas.Deallocate()
		w.canvas = nil
	}
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	w.canvas = ebiten.NewImage(size.X, size.Y)
	w.surface.setImage(w.canvas)
	w.events.OnResize(float64(size.X), float64(size.Y))
}

func (w *ChartWidget) Render(screen *ebiten.Image) {
	w.Container.Render(screen)
	if w.canvas == nil {
		return
	}

	if req, ok := w.sched.Take(); ok {
		w.renderer.Render(w.surface, req.Pointer)
		if msg, ok := w.status.Message(); ok {
			w.renderer.DisplayMessage(w.surface, msg)
		}
		w.surface.Flush()
	}

	rect := w.GetWidget().Rect
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	screen.DrawImage(w.canvas, op)
}

// cursor returns the pointer position relative to the canvas.
func (w *ChartWidget) cursor() chart.Point {
	mx, my := ebiten.CursorPosition()
	rect := w.GetWidget().Rect
	return chart.Point{
		X: float64(mx - rect.Min.X),
		Y: float64(my - rect.Min.Y),
	}
}

func (w *ChartWidget) onMouseMove(_ *widget.WidgetCursorMoveEventArgs) {
	w.events.OnPointerMove(w.cursor())
}

func (w *ChartWidget) onMousePressed(args *widget.WidgetMouseButtonPressedEventArgs) {
	if args.Button == settings.PanChartButton {
		w.events.OnPointerDown(w.cursor())
	}
}

func (w *ChartWidget) onMouseReleased(args *widget.WidgetMouseButtonReleasedEventArgs) {
	if args.Button == settings.PanChartButton {
		w.events.OnPointerUp()
	}
}

func (w *ChartWidget) onContainerEnter(_ *widget.WidgetCursorEnterEventArgs) {
	w.isMouseInBounds = true
}

func (w *ChartWidget) onContainerLeave(_ *widget.WidgetCursorExitEventArgs) {
	w.isMouseInBounds = false
	ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	w.events.OnPointerLeave()
}

func (w *ChartWidget) onScroll(args *widget.WidgetScrolledEventArgs) {
	w.events.OnWheel(chart.WheelFromOffsets(args.X, args.Y, ebiten.IsKeyPressed(settings.ZoomKey)))
}
