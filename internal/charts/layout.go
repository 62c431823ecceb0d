package charts

import (
	"math"
	"strconv"

	"pagecharts/internal/models"
)

const (
	// DefaultPadding is the gap kept free on every side of the plot area
	DefaultPadding = 56.0
	// GridSteps is the number of intervals on the value axis (GridSteps+1 lines)
	GridSteps = 4

	maxGroupGap   = 24.0
	groupGapRatio = 0.2
	barInset      = 4.0
	barRadius     = 6.0

	yLabelOffset     = 10.0
	yLabelBaseline   = 4.0
	categoryOffset   = 24.0
	footnoteOffset   = 20.0
	legendOffset     = 50.0
	legendRowHeight  = 20.0
	legendSwatchSize = 14.0
	legendSwatchLift = 12.0
	legendTextGap    = 22.0

	zeroLineOpacity = 0.3
	gridLineOpacity = 0.15
)

// Layout is the geometry of one chart on one surface. It is derived fresh
// for every render and never cached. All coordinates it returns are
// absolute surface pixels.
type Layout struct {
	Width, Height int
	Padding       float64

	ChartWidth  float64
	ChartHeight float64
	MaxValue    float64

	Groups     int
	Series     int
	GroupWidth float64
	GroupGap   float64
	BarWidth   float64
}

// GridLine is one horizontal value-axis line and its label
type GridLine struct {
	Value   float64
	Y       float64
	Label   string
	Opacity float64
}

// ComputeLayout derives the chart geometry for spec on a width x height surface
func ComputeLayout(spec models.ChartSpec, width, height int) Layout {
	l := Layout{
		Width:       width,
		Height:      height,
		Padding:     DefaultPadding,
		ChartWidth:  float64(width) - 2*DefaultPadding,
		ChartHeight: float64(height) - 2*DefaultPadding,
		MaxValue:    spec.MaxValue(),
		Groups:      len(spec.Labels),
		Series:      len(spec.Datasets),
	}
	if l.Groups > 0 {
		l.GroupWidth = l.ChartWidth / float64(l.Groups)
		l.GroupGap = math.Min(maxGroupGap, l.GroupWidth*groupGapRatio)
	}
	if l.Series > 0 {
		l.BarWidth = (l.GroupWidth - l.GroupGap) / float64(l.Series)
	}
	return l
}

// Baseline is the y of the zero line
func (l Layout) Baseline() float64 {
	return l.Padding + l.ChartHeight
}

// BarHeight maps a value onto the value axis. It is strictly increasing in v
// whenever the plot area has a positive height.
func (l Layout) BarHeight(v float64) float64 {
	return v / l.MaxValue * l.ChartHeight
}

// BarRect is the rectangle of the bar for series s in category group g.
// Bars stand on the baseline and grow upwards; they are barInset narrower
// than their slot so neighbours do not touch.
func (l Layout) BarRect(g, s int, v float64) Rect {
	h := l.BarHeight(v)
	return Rect{
		X: l.Padding + float64(g)*l.GroupWidth + l.GroupGap/2 + float64(s)*l.BarWidth,
		Y: l.Baseline() - h,
		W: l.BarWidth - barInset,
		H: h,
	}
}

// BarPath is the rounded outline drawn for a bar
func (l Layout) BarPath(g, s int, v float64) Path {
	r := l.BarRect(g, s, v)
	return RoundedRect(r.X, r.Y, r.W, r.H, barRadius)
}

// GridLines returns the GridSteps+1 value-axis lines from zero upwards
func (l Layout) GridLines() []GridLine {
	lines := make([]GridLine, 0, GridSteps+1)
	for i := 0; i <= GridSteps; i++ {
		ratio := float64(i) / GridSteps
		value := ratio * l.MaxValue
		op := gridLineOpacity
		if i == 0 {
			op = zeroLineOpacity
		}
		lines = append(lines, GridLine{
			Value:   value,
			Y:       l.Baseline() - ratio*l.ChartHeight,
			Label:   strconv.FormatFloat(value, 'f', 2, 64),
			Opacity: op,
		})
	}
	return lines
}

// CategoryLabelAt is the anchor (centre, baseline) of the label for group g
func (l Layout) CategoryLabelAt(g int) (x, y float64) {
	return l.Padding + float64(g)*l.GroupWidth + l.GroupWidth/2, l.Baseline() + categoryOffset
}

// LegendRow returns the swatch and text anchor for legend entry i
func (l Layout) LegendRow(i int) (swatch Rect, textX, textY float64) {
	y := l.Baseline() + legendOffset + float64(i)*legendRowHeight
	swatch = Rect{X: l.Padding, Y: y - legendSwatchLift, W: legendSwatchSize, H: legendSwatchSize}
	return swatch, l.Padding + legendTextGap, y
}

// FootnoteAt is where the footnote baseline starts
func (l Layout) FootnoteAt() (x, y float64) {
	return l.Padding, l.Baseline() + footnoteOffset
}

// YLabelAt is the right-aligned anchor of a grid line label
func (l Layout) YLabelAt(g GridLine) (x, y float64) {
	return l.Padding - yLabelOffset, g.Y + yLabelBaseline
}
