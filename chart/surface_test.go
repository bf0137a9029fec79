package chart

import (
	"image/color"
	"strings"
)

type opKind int

const (
	opFill opKind = iota
	opLine
	opDashed
	opText
)

type op struct {
	kind       opKind
	x, y, w, h float64
	x1, y1     float64
	text       string
	align      TextAlign
	clr        color.Color
}

// recordingSurface captures draw calls. Text is measured as 7px per rune.
type recordingSurface struct {
	width, height float64
	ops           []op
}

func newRecordingSurface(w, h float64) *recordingSurface {
	return &recordingSurface{width: w, height: h}
}

func (s *recordingSurface) Size() (float64, float64) { return s.width, s.height }

func (s *recordingSurface) FillRect(x, y, w, h float64, clr color.Color) {
	s.ops = append(s.ops, op{kind: opFill, x: x, y: y, w: w, h: h, clr: clr})
}

func (s *recordingSurface) StrokeLine(x0, y0, x1, y1, width float64, clr color.Color) {
	s.ops = append(s.ops, op{kind: opLine, x: x0, y: y0, x1: x1, y1: y1, w: width, clr: clr})
}

func (s *recordingSurface) StrokeDashedLine(x0, y0, x1, y1, width, dash, gap float64, clr color.Color) {
	s.ops = append(s.ops, op{kind: opDashed, x: x0, y: y0, x1: x1, y1: y1, w: width, clr: clr})
}

func (s *recordingSurface) MeasureText(text string) (float64, float64) {
	return float64(len([]rune(text))) * 7, 12
}

func (s *recordingSurface) DrawText(text string, x, y float64, align TextAlign, clr color.Color) {
	s.ops = append(s.ops, op{kind: opText, x: x, y: y, text: text, align: align, clr: clr})
}

func (s *recordingSurface) reset() { s.ops = s.ops[:0] }

func (s *recordingSurface) ofKind(kind opKind) []op {
	var out []op
	for _, o := range s.ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func (s *recordingSurface) texts(prefix string) []op {
	var out []op
	for _, o := range s.ofKind(opText) {
		if strings.HasPrefix(o.text, prefix) {
			out = append(out, o)
		}
	}
	return out
}

// fills returns the fill operations after the background clear.
func (s *recordingSurface) fills() []op {
	fills := s.ofKind(opFill)
	if len(fills) == 0 {
		return nil
	}
	return fills[1:]
}
