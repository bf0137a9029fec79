package app

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// DrawText draws str with its top-left corner at (x, y).
func DrawText(dst *ebiten.Image, str string, face text.Face, x, y float64, clr color.Color) {
	ops := text.DrawOptions{}
	ops.GeoM.Translate(x, y)
	ops.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, str, face, &ops)
}

// DrawDashedLine strokes dashLen long segments separated by gapLen from
// (x0,y0) towards (x1,y1). The last dash is cut at the end point.
func DrawDashedLine(dst *ebiten.Image, x0, y0, x1, y1, thickness, dashLen, gapLen float32, clr color.Color, antialias bool) {
	dx, dy := float64(x1-x0), float64(y1-y0)
	length := math.Hypot(dx, dy)
	if length == 0 || dashLen <= 0 {
		return
	}
	ux, uy := dx/length, dy/length
	step := float64(dashLen + gapLen)

	for from := 0.0; from < length; from += step {
		to := math.Min(from+float64(dashLen), length)
		vector.StrokeLine(dst,
			x0+float32(ux*from), y0+float32(uy*from),
			x0+float32(ux*to), y0+float32(uy*to),
			thickness, clr, antialias)
	}
}
