package charts

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"pagecharts/internal/models"
)

// ChartSnippet is an interactive ECharts rendition of a chart spec.
// HTML is a standalone page that loads echarts from its CDN.
type ChartSnippet struct {
	ID    string
	Title string
	HTML  string
}

// Snippet builds the interactive counterpart of the raster chart for spec
func Snippet(id, title string, spec models.ChartSpec, width, height int) (ChartSnippet, error) {
	spec = spec.Normalize()

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			ChartID:   id,
			Theme:     types.ThemeWesteros,
			Width:     fmt.Sprintf("%dpx", width),
			Height:    fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: spec.Meta.Footnote,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Bottom: "0"}),
	)

	bar.SetXAxis(spec.Labels)
	for _, series := range spec.Datasets {
		data := make([]opts.BarData, len(series.Values))
		for i, v := range series.Values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(series.Label, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: series.Color}))
	}

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to render chart %s: %w", id, err)
	}
	return ChartSnippet{ID: id, Title: title, HTML: buf.String()}, nil
}
