package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// canvasDPI makes font sizes read as CSS pixels
const canvasDPI = 72.0

var (
	fontOnce sync.Once
	font     *truetype.Font
	fontErr  error
)

func defaultFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		font, fontErr = chart.GetDefaultFont()
	})
	return font, fontErr
}

// Canvas is a raster Surface backed by a go-chart renderer.
// Clear swaps in a brand new raster, so repeated renders never see
// leftovers from earlier ones.
type Canvas struct {
	width    int
	height   int
	provider chart.RendererProvider
	font     *truetype.Font
	r        chart.Renderer
}

// NewCanvas creates a transparent PNG canvas of the given size
func NewCanvas(width, height int) (*Canvas, error) {
	return NewCanvasWithProvider(chart.PNG, width, height)
}

// NewCanvasWithProvider creates a canvas on any go-chart renderer, e.g. chart.SVG
func NewCanvasWithProvider(provider chart.RendererProvider, width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	f, err := defaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load chart font: %w", err)
	}
	c := &Canvas{width: width, height: height, provider: provider, font: f}
	if err := c.Clear(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Clear replaces the raster with a fresh transparent one
func (c *Canvas) Clear() error {
	r, err := c.provider(c.width, c.height)
	if err != nil {
		return fmt.Errorf("failed to create %dx%d renderer: %w", c.width, c.height, err)
	}
	r.SetDPI(canvasDPI)
	r.SetFont(c.font)
	c.r = r
	return nil
}

func (c *Canvas) FillRect(rect Rect, col drawing.Color) {
	c.FillPath(RectPath(rect), col)
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1 float64, col drawing.Color, width float64) {
	c.r.SetStrokeColor(col)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(px(x0), px(y0))
	c.r.LineTo(px(x1), px(y1))
	c.r.Stroke()
}

func (c *Canvas) FillPath(p Path, col drawing.Color) {
	if len(p.Segments) == 0 {
		return
	}
	c.r.SetFillColor(col)
	for _, s := range p.Segments {
		switch s.Kind {
		case SegMoveTo:
			c.r.MoveTo(px(s.X), px(s.Y))
		case SegLineTo:
			c.r.LineTo(px(s.X), px(s.Y))
		case SegQuadTo:
			c.r.QuadCurveTo(px(s.CX), px(s.CY), px(s.X), px(s.Y))
		case SegClose:
			c.r.Close()
		}
	}
	c.r.Fill()
}

func (c *Canvas) FillText(text string, x, y float64, style TextStyle) {
	if text == "" {
		return
	}
	c.r.SetFont(c.font)
	c.r.SetFontSize(style.Size)
	c.r.SetFontColor(style.Color)

	switch style.Align {
	case AlignCenter:
		x -= float64(c.r.MeasureText(text).Width()) / 2
	case AlignRight:
		x -= float64(c.r.MeasureText(text).Width())
	}
	c.r.Text(text, px(x), px(y))
}

// Save encodes the current raster to w
func (c *Canvas) Save(w io.Writer) error {
	return c.r.Save(w)
}

// Bytes returns the encoded raster
func (c *Canvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.r.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode canvas: %w", err)
	}
	return buf.Bytes(), nil
}

func px(v float64) int {
	return int(math.Round(v))
}
