package charts

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// op is one call made against a recordingSurface
type op struct {
	kind  string
	rect  Rect
	path  Path
	text  string
	x, y  float64
	style TextStyle
	color drawing.Color
	width float64
}

// recordingSurface captures draw calls instead of painting pixels
type recordingSurface struct {
	w, h     int
	ops      []op
	clearErr error
}

func newRecorder(w, h int) *recordingSurface {
	return &recordingSurface{w: w, h: h}
}

func (r *recordingSurface) Width() int  { return r.w }
func (r *recordingSurface) Height() int { return r.h }

func (r *recordingSurface) Clear() error {
	if r.clearErr != nil {
		return r.clearErr
	}
	r.ops = append(r.ops[:0], op{kind: "clear"})
	return nil
}

func (r *recordingSurface) FillRect(rect Rect, c drawing.Color) {
	r.ops = append(r.ops, op{kind: "rect", rect: rect, color: c})
}

func (r *recordingSurface) StrokeLine(x0, y0, x1, y1 float64, c drawing.Color, width float64) {
	r.ops = append(r.ops, op{kind: "line", rect: Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, color: c, width: width})
}

func (r *recordingSurface) FillPath(p Path, c drawing.Color) {
	r.ops = append(r.ops, op{kind: "path", path: p, color: c})
}

func (r *recordingSurface) FillText(text string, x, y float64, style TextStyle) {
	r.ops = append(r.ops, op{kind: "text", text: text, x: x, y: y, style: style})
}

func (r *recordingSurface) kinds() []string {
	out := make([]string, len(r.ops))
	for i, o := range r.ops {
		out[i] = o.kind
	}
	return out
}

func (r *recordingSurface) filter(kind string) []op {
	var out []op
	for _, o := range r.ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}
