package app

import (
	"image/color"

	"candleview/settings"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
)

// timeframeDropdown lists the enabled timeframes and reports the selected one.
func timeframeDropdown(selected Timeframe, selectFn func(Timeframe)) *widget.ListComboButton {
	var entries []any
	for _, tf := range settings.Timeframes {
		if !tf.Disabled {
			entries = append(entries, Timeframe(tf.Minutes))
		}
	}
	label := func(e any) string { return e.(Timeframe).String() }

	button := widget.ComboButtonOpts.ButtonOpts(
		widget.ButtonOpts.Image(nineSlices(color.Transparent, settings.ColorPrimary, settings.ColorPrimaryDarker)),
		widget.ButtonOpts.Text("", settings.FontSM, toolbarTextColor()),
		widget.ButtonOpts.TextPadding(toolbarTextPadding),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	)
	list := widget.ListComboButtonOpts.ListOpts(
		widget.ListOpts.Entries(entries),
		widget.ListOpts.ScrollContainerOpts(
			widget.ScrollContainerOpts.Image(&widget.ScrollContainerImage{
				Idle: image.NewNineSliceColor(settings.BackgroundColor),
				Mask: image.NewNineSliceColor(settings.Black),
			}),
			widget.ScrollContainerOpts.Padding(widget.NewInsetsSimple(12)),
		),
		widget.ListOpts.SliderOpts(
			widget.SliderOpts.Images(&widget.SliderTrackImage{
				Idle:  image.NewNineSliceColor(settings.ColorPrimaryDarker),
				Hover: image.NewNineSliceColor(disabledColor),
			}, nineSlices(settings.ColorPrimaryDarker, disabledColor, disabledColor)),
			widget.SliderOpts.MinHandleSize(0),
		),
		widget.ListOpts.EntryFontFace(settings.FontSM),
		widget.ListOpts.EntryColor(listEntryColor()),
		widget.ListOpts.EntryTextPadding(widget.NewInsetsSimple(5)),
	)

	comboBox := widget.NewListComboButton(
		widget.ListComboButtonOpts.SelectComboButtonOpts(
			widget.SelectComboButtonOpts.ComboButtonOpts(
				widget.ComboButtonOpts.MaxContentHeight(300),
				button,
			),
		),
		list,
		widget.ListComboButtonOpts.EntryLabelFunc(label, label),
		widget.ListComboButtonOpts.EntrySelectedHandler(func(args *widget.ListComboButtonEntrySelectedEventArgs) {
			selectFn(args.Entry.(Timeframe))
		}),
	)
	comboBox.SetSelectedEntry(selected)

	return comboBox
}
