package charts

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"pagecharts/internal/logger"
	"pagecharts/internal/models"
)

// Theme holds the fixed palette and type sizes of the page charts
type Theme struct {
	Background   drawing.Color
	Axis         drawing.Color
	Grid         drawing.Color
	Footnote     drawing.Color
	DefaultColor drawing.Color

	AxisLabelSize     float64
	CategoryLabelSize float64
	LegendLabelSize   float64
	FootnoteSize      float64
}

// DefaultTheme matches the page stylesheet
func DefaultTheme() Theme {
	return Theme{
		Background:   drawing.Color{R: 255, G: 255, B: 255, A: alpha(0.82)},
		Axis:         drawing.Color{R: 0x0f, G: 0x63, B: 0x7d, A: 255},
		Grid:         drawing.Color{R: 15, G: 99, B: 125, A: alpha(0.12)},
		Footnote:     drawing.Color{R: 16, G: 42, B: 67, A: alpha(0.55)},
		DefaultColor: drawing.Color{R: 0x1a, G: 0x5f, B: 0x40, A: 255},

		AxisLabelSize:     12,
		CategoryLabelSize: 13,
		LegendLabelSize:   13,
		FootnoteSize:      11,
	}
}

// Renderer paints grouped bar charts. It keeps no state between calls,
// so one Renderer may serve any number of surfaces concurrently.
type Renderer struct {
	theme Theme
	log   *logger.Logger
}

// NewRenderer creates a renderer with the default theme
func NewRenderer() *Renderer {
	return &Renderer{theme: DefaultTheme(), log: logger.Component("charts")}
}

// WithTheme returns a copy of the renderer that uses theme
func (r *Renderer) WithTheme(theme Theme) *Renderer {
	return &Renderer{theme: theme, log: r.log}
}

// WithLogger returns a copy of the renderer that logs to l
func (r *Renderer) WithLogger(l *logger.Logger) *Renderer {
	return &Renderer{theme: r.theme, log: l.WithComponent("charts")}
}

// Render clears s and paints spec onto it. Rendering the same spec on the
// same surface always produces the same pixels.
//
// Paint order: background, grid lines with value labels, bars (group by
// group, series by series), category labels, legend, footnote.
func (r *Renderer) Render(s Surface, spec models.ChartSpec) error {
	spec = spec.Normalize()
	l := ComputeLayout(spec, s.Width(), s.Height())

	if err := s.Clear(); err != nil {
		return fmt.Errorf("failed to clear surface: %w", err)
	}
	s.FillRect(Rect{W: float64(l.Width), H: float64(l.Height)}, r.theme.Background)

	r.drawGrid(s, l)
	colors := r.seriesColors(spec)
	r.drawBars(s, l, spec, colors)
	r.drawCategoryLabels(s, l, spec)
	r.drawLegend(s, l, spec, colors)
	r.drawFootnote(s, l, spec)
	return nil
}

func (r *Renderer) drawGrid(s Surface, l Layout) {
	style := TextStyle{Size: r.theme.AxisLabelSize, Color: r.theme.Axis, Align: AlignRight}
	for _, g := range l.GridLines() {
		s.StrokeLine(l.Padding, g.Y, l.Padding+l.ChartWidth, g.Y, withOpacity(r.theme.Grid, g.Opacity), 1)
		x, y := l.YLabelAt(g)
		s.FillText(g.Label, x, y, style)
	}
}

func (r *Renderer) drawBars(s Surface, l Layout, spec models.ChartSpec, colors []drawing.Color) {
	for g := range spec.Labels {
		for i, series := range spec.Datasets {
			s.FillPath(l.BarPath(g, i, series.Values[g]), colors[i])
		}
	}
}

func (r *Renderer) drawCategoryLabels(s Surface, l Layout, spec models.ChartSpec) {
	style := TextStyle{Size: r.theme.CategoryLabelSize, Color: r.theme.Axis, Align: AlignCenter}
	for g, label := range spec.Labels {
		x, y := l.CategoryLabelAt(g)
		s.FillText(label, x, y, style)
	}
}

func (r *Renderer) drawLegend(s Surface, l Layout, spec models.ChartSpec, colors []drawing.Color) {
	style := TextStyle{Size: r.theme.LegendLabelSize, Color: r.theme.Axis, Align: AlignLeft}
	for i, series := range spec.Datasets {
		swatch, x, y := l.LegendRow(i)
		s.FillRect(swatch, colors[i])
		s.FillText(series.Label, x, y, style)
	}
}

func (r *Renderer) drawFootnote(s Surface, l Layout, spec models.ChartSpec) {
	if spec.Meta.Footnote == "" {
		return
	}
	x, y := l.FootnoteAt()
	s.FillText(spec.Meta.Footnote, x, y, TextStyle{Size: r.theme.FootnoteSize, Color: r.theme.Footnote, Align: AlignLeft})
}

// seriesColors resolves each series color once per render; unparseable
// colors fall back to the theme default.
func (r *Renderer) seriesColors(spec models.ChartSpec) []drawing.Color {
	colors := make([]drawing.Color, len(spec.Datasets))
	for i, series := range spec.Datasets {
		c, err := ParseColor(series.Color)
		if err != nil {
			r.log.Warn("Invalid series color, using default", logger.Fields{
				"series": series.Label,
				"color":  series.Color,
			})
			c = r.theme.DefaultColor
		}
		colors[i] = c
	}
	return colors
}
