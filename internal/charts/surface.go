package charts

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Surface is a fixed-size 2D pixel surface the renderer paints on.
// Coordinates are in pixels with the origin at the top-left corner.
// Implementations clip to [0,Width)x[0,Height) and never resize.
type Surface interface {
	Width() int
	Height() int
	// Clear discards everything drawn so far and leaves a transparent surface
	Clear() error
	FillRect(r Rect, c drawing.Color)
	StrokeLine(x0, y0, x1, y1 float64, c drawing.Color, width float64)
	FillPath(p Path, c drawing.Color)
	// FillText draws text with its baseline at y
	FillText(text string, x, y float64, style TextStyle)
}

// Align is horizontal text alignment relative to the anchor x
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes how FillText renders a string
type TextStyle struct {
	Size  float64
	Color drawing.Color
	Align Align
}

// Rect is an axis-aligned rectangle. W and H may be negative.
type Rect struct {
	X, Y, W, H float64
}

// SegmentKind identifies one path instruction
type SegmentKind int

const (
	SegMoveTo SegmentKind = iota
	SegLineTo
	SegQuadTo
	SegClose
)

// Segment is a single path instruction. CX/CY are only used by SegQuadTo.
type Segment struct {
	Kind   SegmentKind
	X, Y   float64
	CX, CY float64
}

// Path is a closed outline built from straight and quadratic segments
type Path struct {
	Segments []Segment
}

func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegMoveTo, X: x, Y: y})
}

func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegLineTo, X: x, Y: y})
}

func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegQuadTo, CX: cx, CY: cy, X: x, Y: y})
}

func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Kind: SegClose})
}

// RoundedRect outlines a rectangle whose corners are rounded with radius r.
// r is clamped to [0, min(|w|/2, |h|/2)]; with r == 0 the corners are square.
// Each corner is a quadratic curve whose control point is the square corner.
func RoundedRect(x, y, w, h, r float64) Path {
	r = math.Max(0, math.Min(r, math.Min(math.Abs(w)/2, math.Abs(h)/2)))

	var p Path
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.QuadTo(x+w, y, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.QuadTo(x+w, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.QuadTo(x, y+h, x, y+h-r)
	p.LineTo(x, y+r)
	p.QuadTo(x, y, x+r, y)
	p.Close()
	return p
}

// RectPath outlines r with square corners
func RectPath(r Rect) Path {
	var p Path
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.X+r.W, r.Y)
	p.LineTo(r.X+r.W, r.Y+r.H)
	p.LineTo(r.X, r.Y+r.H)
	p.Close()
	return p
}

// Bounds returns the smallest rectangle containing every point and control point
func (p Path) Bounds() Rect {
	if len(p.Segments) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, s := range p.Segments {
		switch s.Kind {
		case SegMoveTo, SegLineTo:
			grow(s.X, s.Y)
		case SegQuadTo:
			grow(s.X, s.Y)
			grow(s.CX, s.CY)
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
