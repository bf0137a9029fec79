package app

import (
	"image/color"

	"candleview/settings"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"golang.org/x/image/colornames"
)

var disabledColor = color.NRGBA{100, 100, 100, 255}

var toolbarTextPadding = widget.Insets{Top: 4, Left: 12, Right: 12, Bottom: 4}

func nineSlices(idle, hover, pressed color.Color) *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(idle),
		Hover:    image.NewNineSliceColor(hover),
		Pressed:  image.NewNineSliceColor(pressed),
		Disabled: image.NewNineSliceColor(disabledColor),
	}
}

// toolbarTextColor is white on the dark panel and black on the highlight.
func toolbarTextColor() *widget.ButtonTextColor {
	return &widget.ButtonTextColor{
		Idle:     color.White,
		Disabled: colornames.Gray,
		Hover:    color.Black,
		Pressed:  color.Black,
	}
}

func listEntryColor() *widget.ListEntryColor {
	return &widget.ListEntryColor{
		Selected:                   settings.Black,
		Unselected:                 color.White,
		SelectingBackground:        settings.ColorPrimaryDarker,
		SelectingFocusedBackground: settings.Black,
		SelectedBackground:         settings.ColorPrimaryLighter,
		SelectedFocusedBackground:  settings.ColorPrimary,
		FocusedBackground:          settings.ColorPrimary,
		DisabledUnselected:         disabledColor,
		DisabledSelected:           disabledColor,
		DisabledSelectedBackground: disabledColor,
	}
}
