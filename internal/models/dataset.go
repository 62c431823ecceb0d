package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultSeriesColor is used for any series that does not declare a color
const DefaultSeriesColor = "#1a5f40"

// Dataset maps a chart key to the chart it describes
type Dataset map[string]ChartSpec

// ChartSpec is one grouped bar chart: a category axis and one or more series over it
type ChartSpec struct {
	Labels   []string `json:"labels"`
	Datasets []Series `json:"datasets"`
	Meta     Meta     `json:"meta"`
}

// Series is one named, colored sequence of values, one per label
type Series struct {
	Label  string    `json:"label"`
	Color  string    `json:"color"`
	Values []float64 `json:"values"`
}

// Meta holds optional chart annotations
type Meta struct {
	Footnote string `json:"footnote,omitempty"`
}

// ParseDataset decodes a dataset document and normalizes every chart in it.
// The document must be a JSON object; unknown keys are ignored.
func ParseDataset(data []byte) (Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("dataset document must be a JSON object")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	ds := make(Dataset, len(raw))
	for key, msg := range raw {
		var spec ChartSpec
		if err := json.Unmarshal(msg, &spec); err != nil {
			return nil, fmt.Errorf("chart %q: %w", key, err)
		}
		ds[key] = spec.Normalize()
	}
	return ds, nil
}

// UnmarshalJSON accepts null for the whole chart and for meta
func (c *ChartSpec) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*c = ChartSpec{}
		return nil
	}
	type plain struct {
		Labels   []string `json:"labels"`
		Datasets []Series `json:"datasets"`
		Meta     *Meta    `json:"meta"`
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	c.Labels = p.Labels
	c.Datasets = p.Datasets
	c.Meta = Meta{}
	if p.Meta != nil {
		c.Meta = *p.Meta
	}
	return nil
}

// Normalize returns a copy with every optional field defaulted:
// nil slices become empty, each series has exactly len(Labels) values
// (missing ones are 0, extras are dropped), and absent labels/colors are filled in.
func (c ChartSpec) Normalize() ChartSpec {
	n := len(c.Labels)
	out := ChartSpec{
		Labels:   append(make([]string, 0, n), c.Labels...),
		Datasets: make([]Series, len(c.Datasets)),
		Meta:     c.Meta,
	}
	for i, s := range c.Datasets {
		values := make([]float64, n)
		copy(values, s.Values)
		label := s.Label
		if label == "" {
			label = DefaultSeriesLabel(i)
		}
		color := s.Color
		if color == "" {
			color = DefaultSeriesColor
		}
		out.Datasets[i] = Series{Label: label, Color: color, Values: values}
	}
	return out
}

// DefaultSeriesLabel is the display label for the series at index i when it has none
func DefaultSeriesLabel(i int) string {
	return fmt.Sprintf("Series %d", i+1)
}

// MaxValue is the largest value across all series, floored at 1
func (c ChartSpec) MaxValue() float64 {
	max := 1.0
	for _, s := range c.Datasets {
		for _, v := range s.Values {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// IsEmpty reports whether there is nothing to plot
func (c ChartSpec) IsEmpty() bool {
	return len(c.Labels) == 0 || len(c.Datasets) == 0
}

// Lookup returns the chart stored under key
func (d Dataset) Lookup(key string) (ChartSpec, bool) {
	spec, ok := d[key]
	return spec, ok
}

// Keys returns the chart keys in sorted order
func (d Dataset) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
