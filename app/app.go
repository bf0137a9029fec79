package app

import (
	"context"
	"errors"
	"math"
	"time"

	"candleview/chart"
	"candleview/event"
	"candleview/pkg/logger"
	"candleview/pkg/ring"
	"candleview/settings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// number of load durations averaged in the status bar
const loadHistory = 16

type Deps struct {
	Fetcher      chart.Fetcher
	Query        event.Query
	SortBars     bool
	BarWidth     float64
	Location     *time.Location
	LoadingDelay time.Duration
	Log          *zap.Logger
	// Cache, when set, is dropped before a manual reload.
	Cache        Invalidator
}

type Invalidator interface {
	Invalidate()
}

type App struct {
	ui  *ebitenui.UI
	log *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	data      *chart.Data
	reloader  *chart.Reloader
	cache     Invalidator
	symbol    string
	loadTimes *ring.Buffer[time.Duration]
}

func New(deps Deps) *App {
	log := logger.OrNop(deps.Log).Named("app")

	var dataOpts []chart.DataOption
	if deps.SortBars {
		dataOpts = append(dataOpts, chart.WithSortedBars())
	}
	data := chart.NewData(deps.Fetcher, deps.Query, dataOpts...)
	view := chart.NewViewport(deps.BarWidth)
	sched := chart.NewScheduler()
	status := &chart.Status{}

	var reloaderOpts []chart.ReloaderOption
	if deps.LoadingDelay > 0 {
		reloaderOpts = append(reloaderOpts, chart.WithLoadingDelay(deps.LoadingDelay))
	}

	var rendererOpts []chart.RendererOption
	rendererOpts = append(rendererOpts, chart.WithTheme(settings.ChartTheme))
	if deps.Location != nil {
		rendererOpts = append(rendererOpts, chart.WithLocation(deps.Location))
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ui:        &ebitenui.UI{},
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		data:      data,
		reloader:  chart.NewReloader(data, status, sched, reloaderOpts...),
		cache:     deps.Cache,
		symbol:    deps.Query.Symbol,
		loadTimes: ring.NewBuffer[time.Duration](loadHistory),
	}

	root := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.BackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Spacing(0, 0),
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Stretch(
				[]bool{true, true, true},
				[]bool{false, true, false}),
		)),
	)
	app.ui.Container = root

	controller := chart.NewController(view, data, sched)
	renderer := chart.NewRenderer(data, view, rendererOpts...)

	root.AddChild(
		NewMenuBarWidget(app.ui, deps.Query.Broker, app, app.changeSymbol, app.changeTimeframe),
		NewChartWidget(controller, renderer, sched, status),
		NewStatusBarWidget(app, app.loadTimes),
	)

	return app
}

// Start loads the configured symbol.
func (app *App) Start() {
	app.changeSymbol(app.symbol)
}

// Close cancels outstanding loads.
func (app *App) Close() {
	app.cancel()
}

// Symbol is the symbol being loaded, or else the symbol on screen.
func (app *App) Symbol() string {
	if app.reloader.Loading() {
		return app.reloader.Symbol()
	}
	if s := app.reloader.Shown(); s != "" {
		return s
	}
	return app.symbol
}

func (app *App) Timeframe() Timeframe {
	return Timeframe(app.data.Query().Timeframe)
}

func (app *App) Len() int {
	return app.data.Len()
}

func (app *App) changeSymbol(symbol string) {
	go func() {
		start := time.Now()
		loaded, err := app.reloader.ChangeSymbol(app.ctx, symbol)
		if !loaded {
			return
		}
		app.handleLoaded(symbol, time.Since(start), err)
	}()
}

// changeTimeframe reloads the shown symbol with tf. A failed load puts the
// previous timeframe back.
func (app *App) changeTimeframe(tf Timeframe) {
	prev := app.data.Query().Timeframe
	if int(tf) == prev || !app.data.CompareAndSetTimeframe(prev, int(tf)) {
		return
	}
	symbol := app.Symbol()
	go func() {
		start := time.Now()
		err := app.reloader.Load(app.ctx, symbol)
		if chart.IsLoadError(err) && app.data.CompareAndSetTimeframe(int(tf), prev) {
			app.log.Info("timeframe restored", zap.Stringer("timeframe", Timeframe(prev)))
		}
		app.handleLoaded(symbol, time.Since(start), err)
	}()
}

// refresh drops cached responses and reloads the symbol on screen.
func (app *App) refresh() {
	if app.cache != nil {
		app.cache.Invalidate()
	}
	symbol := app.Symbol()
	go func() {
		start := time.Now()
		err := app.reloader.Load(app.ctx, symbol)
		app.handleLoaded(symbol, time.Since(start), err)
	}()
}

func (app *App) handleLoaded(symbol string, took time.Duration, err error) {
	log := app.log.With(zap.String("symbol", symbol), zap.Duration("took", took))
	switch {
	case err == nil:
		app.loadTimes.Push(took)
		log.Info("bars loaded", zap.Int("bars", app.data.Len()))
	case errors.Is(err, chart.ErrStaleLoad):
		log.Debug("discarded superseded load")
	case errors.Is(err, chart.ErrEmptyData):
		log.Warn("no bars for symbol")
	case errors.Is(err, context.Canceled):
		// shutting down
	default:
		log.Error("load failed", zap.Error(err))
	}
}

func (app *App) Draw(screen *ebiten.Image) {
	app.ui.Draw(screen)
}

func (app *App) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(settings.ReloadKey) {
		app.refresh()
	}

	app.ui.Update()

	return nil
}

func (app *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	panic("candleview running with an unsupported Ebiten Engine version")
}

func (app *App) LayoutF(logicWidth, logicHeight float64) (float64, float64) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	canvasWidth := math.Ceil(logicWidth * scale)
	canvasHeight := math.Ceil(logicHeight * scale)
	return canvasWidth, canvasHeight
}
