package app

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/exp/shiny/materialdesign/colornames"

	"candleview/chart"
)

var _ chart.Surface = (*canvasSurface)(nil)

// max vertices addressable by uint16 indices
const maxBatchVertices = 1 << 16

// canvasSurface draws the chart onto an offscreen image. Filled rects are
// batched into one DrawTriangles call and flushed before any line or text
// so that paint order is kept.
type canvasSurface struct {
	image    *ebiten.Image
	triImage *ebiten.Image
	face     text.Face

	vertices []ebiten.Vertex
	indices  []uint16
}

func newCanvasSurface(face text.Face) *canvasSurface {
	triImage := ebiten.NewImage(1, 1)
	triImage.Fill(colornames.White)
	return &canvasSurface{
		triImage: triImage,
		face:     face,
	}
}

func (s *canvasSurface) setImage(image *ebiten.Image) {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	s.image = image
}

func (s *canvasSurface) Size() (float64, float64) {
	b := s.image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *canvasSurface) FillRect(x, y, w, h float64, clr color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if len(s.vertices)+4 > maxBatchVertices {
		s.Flush()
	}

	r, g, b, a := clr.RGBA()
	colR := float32(r>>8) / 255
	colG := float32(g>>8) / 255
	colB := float32(b>>8) / 255
	colA := float32(a>>8) / 255

	x0, y0 := float32(x), float32(y)
	x1, y1 := float32(x+w), float32(y+h)
	idx := uint16(len(s.vertices))

	s.vertices = append(s.vertices,
		ebiten.Vertex{DstX: x0, DstY: y0, SrcX: 0, SrcY: 0, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: colA},
		ebiten.Vertex{DstX: x1, DstY: y0, SrcX: 1, SrcY: 0, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: colA},
		ebiten.Vertex{DstX: x0, DstY: y1, SrcX: 0, SrcY: 1, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: colA},
		ebiten.Vertex{DstX: x1, DstY: y1, SrcX: 1, SrcY: 1, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: colA},
	)
	s.indices = append(s.indices,
		idx, idx+1, idx+2,
		idx+1, idx+3, idx+2,
	)
}

func (s *canvasSurface) StrokeLine(x0, y0, x1, y1, width float64, clr color.Color) {
	s.Flush()
	vector.StrokeLine(s.image, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, false)
}

func (s *canvasSurface) StrokeDashedLine(x0, y0, x1, y1, width, dash, gap float64, clr color.Color) {
	s.Flush()
	DrawDashedLine(s.image,
		float32(x0), float32(y0), float32(x1), float32(y1),
		float32(width), float32(dash), float32(gap), clr, false)
}

func (s *canvasSurface) MeasureText(str string) (float64, float64) {
	return text.Measure(str, s.face, s.face.Metrics().VLineGap)
}

func (s *canvasSurface) DrawText(str string, x, y float64, align chart.TextAlign, clr color.Color) {
	s.Flush()
	if align == chart.AlignCenter {
		w, _ := s.MeasureText(str)
		x -= w / 2
	}
	// text.Draw positions the top of the line; y is the baseline
	DrawText(s.image, str, s.face, x, y-s.face.Metrics().HAscent, clr)
}

// Flush draws the pending rects.
func (s *canvasSurface) Flush() {
	if len(s.indices) == 0 {
		return
	}
	s.image.DrawTriangles(s.vertices, s.indices, s.triImage, &ebiten.DrawTrianglesOptions{})
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}
