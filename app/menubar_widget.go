package app

import (
	img "image"
	"image/color"

	"candleview/settings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
)

type MenuBarWidget struct {
	*widget.Container

	info         chartInfo
	symbolButton *widget.Button
	timeframes   *widget.ListComboButton
}

// NewMenuBarWidget builds the header with the symbol menu and the timeframe
// dropdown. The menu opens as a window of ui. Both follow info, so a failed
// change falls back to what is on screen.
func NewMenuBarWidget(ui *ebitenui.UI, broker string, info chartInfo, onSymbol func(string), onTimeframe func(Timeframe)) *MenuBarWidget {
	container := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.PanelBackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(widget.Insets{Left: int(settings.PanelPadding)}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, int(settings.AppHeaderHeight)),
		),
	)

	innerContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.PanelBackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				StretchHorizontal:  true,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	w := &MenuBarWidget{
		Container:  container,
		info:       info,
		timeframes: timeframeDropdown(info.Timeframe(), onTimeframe),
	}
	w.symbolButton = makeSymbolButton(ui, broker, info.Symbol(), onSymbol)
	innerContainer.AddChild(w.symbolButton, w.timeframes)
	container.AddChild(innerContainer)

	return w
}

func (w *MenuBarWidget) Update() {
	w.Container.Update()

	if label := w.symbolButton.Text(); label.Label != w.info.Symbol() {
		label.Label = w.info.Symbol()
	}
	if tf := w.info.Timeframe(); w.timeframes.SelectedEntry() != tf {
		w.timeframes.SetSelectedEntry(tf)
	}
}

func (w *MenuBarWidget) PreferredSize() (int, int) {
	return 0, int(settings.AppHeaderHeight)
}

func makeSymbolButton(ui *ebitenui.UI, broker, symbol string, onSymbol func(string)) *widget.Button {
	symbolButton := newToolbarButton(symbol)
	names := settings.SymbolNames(broker, symbol)
	entries := make([]*widget.Button, len(names))
	for i, name := range names {
		entry := newToolbarMenuEntry(name)
		entry.ClickedEvent.AddHandler(func(args any) {
			onSymbol(name)
		})
		entries[i] = entry
	}
	symbolButton.ClickedEvent.AddHandler(func(args any) {
		openToolbarMenu(symbolButton.GetWidget(), ui, entries...)
	})
	return symbolButton
}

func newToolbarButton(label string) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(nineSlices(color.Transparent, settings.MenuButtonHoverBg, settings.MenuButtonClickBg)),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
		widget.ButtonOpts.Text(label, settings.FontSM, toolbarTextColor()),
		widget.ButtonOpts.TextPadding(toolbarTextPadding),
	)
}

func newToolbarMenuEntry(label string) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(nineSlices(color.Transparent, settings.MenuButtonHoverBg, color.White)),
		widget.ButtonOpts.Text(label, settings.FontSM, toolbarTextColor()),
		widget.ButtonOpts.TextPosition(widget.TextPositionCenter, widget.TextPositionCenter),
		widget.ButtonOpts.TextPadding(toolbarTextPadding),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Stretch: true,
			}),
		),
	)
}

// openToolbarMenu shows entries in a modal column right below opener.
func openToolbarMenu(opener *widget.Widget, ui *ebitenui.UI, entries ...*widget.Button) {
	c := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(settings.BackgroundColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(4),
				widget.RowLayoutOpts.Padding(widget.Insets{Top: 1, Bottom: 1}),
			),
		),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(64, 0)),
	)
	for _, entry := range entries {
		c.AddChild(entry)
	}

	w, h := c.PreferredSize()
	at := opener.Rect
	window := widget.NewWindow(
		widget.WindowOpts.Modal(),
		widget.WindowOpts.Contents(c),
		// any click closes the menu, including one on an entry
		widget.WindowOpts.CloseMode(widget.CLICK),
		widget.WindowOpts.Location(img.Rect(at.Min.X, at.Max.Y, at.Min.X+w, at.Max.Y+h)),
	)
	ui.AddWindow(window)
}
