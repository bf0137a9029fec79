package app

import (
	"fmt"
	"image/color"
	"time"

	"candleview/pkg/ring"
	"candleview/settings"

	"github.com/dustin/go-humanize"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

// chartInfo is what the status bar reports about the loaded chart.
type chartInfo interface {
	Symbol() string
	Timeframe() Timeframe
	Len() int
}

type StatusBarWidget struct {
	*widget.Container

	info      chartInfo
	loadTimes *ring.Buffer[time.Duration]

	fpsLabel     *widget.Text
	chartLabel   *widget.Text
	warningLabel *widget.Text
}

func NewStatusBarWidget(info chartInfo, loadTimes *ring.Buffer[time.Duration]) *StatusBarWidget {
	container := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.PanelBackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(int(settings.PanelPadding)),
			widget.RowLayoutOpts.Padding(widget.Insets{Left: int(settings.PanelPadding)}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, int(settings.AppFooterHeight)),
		),
	)
	fpsLabel := newStatusLabel("60", color.White)
	chartLabel := newStatusLabel("", color.White)
	warningLabel := newStatusLabel("", settings.WarningColor)
	container.AddChild(fpsLabel, chartLabel, warningLabel)

	return &StatusBarWidget{
		Container:    container,
		info:         info,
		loadTimes:    loadTimes,
		fpsLabel:     fpsLabel,
		chartLabel:   chartLabel,
		warningLabel: warningLabel,
	}
}

func newStatusLabel(label string, clr color.Color) *widget.Text {
	return widget.NewText(
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
		widget.TextOpts.Text(label, settings.FontSM, clr),
	)
}

func (w *StatusBarWidget) Render(screen *ebiten.Image) {
	w.Container.Render(screen)

	fps := ebiten.ActualFPS()
	w.fpsLabel.Label = fmt.Sprintf("FPS %d", int(fps))

	label := fmt.Sprintf("%s %s  %s bars", w.info.Symbol(), w.info.Timeframe(), humanize.Comma(int64(w.info.Len())))
	if avg, ok := averageDuration(w.loadTimes.Items()); ok {
		label += fmt.Sprintf("  load %dms", avg.Milliseconds())
	}
	w.chartLabel.Label = label

	ww, wh := ebiten.WindowSize()
	if ww < settings.MinScreenWidth || wh < settings.MinScreenHeight {
		w.warningLabel.Label = fmt.Sprintf("Window is smaller than %dx%d", settings.MinScreenWidth, settings.MinScreenHeight)
	} else {
		w.warningLabel.Label = ""
	}
}

func (w *StatusBarWidget) PreferredSize() (int, int) {
	return 0, int(settings.AppFooterHeight)
}

func averageDuration(ds []time.Duration) (time.Duration, bool) {
	if len(ds) == 0 {
		return 0, false
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds)), true
}
