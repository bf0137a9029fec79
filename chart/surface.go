package chart

import (
	"image/color"

	"golang.org/x/image/colornames"
)

type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
)

// Surface is the 2D raster the renderer draws on. Coordinates are in the
// surface's pixel space with the origin at the top-left corner. Text is
// positioned by its baseline.
type Surface interface {
	Size() (w, h float64)
	FillRect(x, y, w, h float64, clr color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, clr color.Color)
	StrokeDashedLine(x0, y0, x1, y1, width, dash, gap float64, clr color.Color)
	MeasureText(s string) (w, h float64)
	DrawText(s string, x, y float64, align TextAlign, clr color.Color)
}

// Theme holds the colors of a chart frame.
type Theme struct {
	Background color.Color
	Grid       color.Color
	Crosshair  color.Color
	Scale      color.Color
	Text       color.Color
	Up         color.Color
	Down       color.Color
}

func DefaultTheme() Theme {
	return Theme{
		Background: color.RGBA{0x13, 0x17, 0x22, 0xff},
		Grid:       color.RGBA{0x2b, 0x2b, 0x43, 0xff},
		Crosshair:  colornames.White,
		Scale:      color.RGBA{0x66, 0x66, 0x66, 0xff},
		Text:       colornames.White,
		Up:         colornames.Green,
		Down:       colornames.Red,
	}
}
