package charts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecharts/internal/logger"
	"pagecharts/internal/models"
)

func quietRenderer() *Renderer {
	return NewRenderer().WithLogger(logger.Discard())
}

func TestRenderPaintOrder(t *testing.T) {
	s := newRecorder(800, 400)
	require.NoError(t, quietRenderer().Render(s, scenarioSpec()))

	want := []string{"clear", "rect"}
	for i := 0; i <= GridSteps; i++ {
		want = append(want, "line", "text")
	}
	want = append(want,
		"path", "path", // bars
		"text", "text", // category labels
		"rect", "text", // legend
		"text", // footnote
	)
	assert.Equal(t, want, s.kinds())
}

func TestRenderScenarioGeometry(t *testing.T) {
	s := newRecorder(800, 400)
	require.NoError(t, quietRenderer().Render(s, scenarioSpec()))
	theme := DefaultTheme()

	bg := s.ops[1]
	assert.Equal(t, Rect{W: 800, H: 400}, bg.rect)
	assert.Equal(t, theme.Background, bg.color)

	bars := s.filter("path")
	require.Len(t, bars, 2)
	assert.Equal(t, Rect{X: 68, Y: 200, W: 316, H: 144}, bars[0].path.Bounds())
	assert.Equal(t, Rect{X: 412, Y: 56, W: 316, H: 288}, bars[1].path.Bounds())
	for _, b := range bars {
		assert.Equal(t, theme.DefaultColor, b.color)
	}

	lines := s.filter("line")
	require.Len(t, lines, 5)
	assert.Equal(t, 344.0, lines[0].rect.Y)
	assert.Equal(t, 688.0, lines[0].rect.W)
	assert.Equal(t, withOpacity(theme.Grid, 0.3), lines[0].color)
	assert.Equal(t, withOpacity(theme.Grid, 0.15), lines[4].color)

	var texts []string
	for _, o := range s.filter("text") {
		texts = append(texts, o.text)
	}
	assert.Equal(t, []string{"0.00", "5.00", "10.00", "15.00", "20.00", "Q1", "Q2", "Rev", "demo"}, texts)

	footnote := s.ops[len(s.ops)-1]
	assert.Equal(t, 56.0, footnote.x)
	assert.Equal(t, 364.0, footnote.y)
	assert.Equal(t, theme.Footnote, footnote.style.Color)
	assert.Equal(t, 11.0, footnote.style.Size)
}

func TestRenderGroupsBarsByCategory(t *testing.T) {
	spec := models.ChartSpec{
		Labels: []string{"a", "b"},
		Datasets: []models.Series{
			{Label: "one", Color: "#ff0000", Values: []float64{1, 2}},
			{Label: "two", Color: "#0000ff", Values: []float64{3, 4}},
		},
	}
	s := newRecorder(800, 400)
	require.NoError(t, quietRenderer().Render(s, spec))

	bars := s.filter("path")
	require.Len(t, bars, 4)
	red, _ := ParseColor("#ff0000")
	blue, _ := ParseColor("#0000ff")
	assert.Equal(t, red, bars[0].color)
	assert.Equal(t, blue, bars[1].color)
	assert.Equal(t, red, bars[2].color)
	assert.Equal(t, blue, bars[3].color)
	assert.Less(t, bars[1].path.Bounds().X, bars[2].path.Bounds().X)
}

func TestRenderEmptySpec(t *testing.T) {
	s := newRecorder(640, 320)
	require.NoError(t, quietRenderer().Render(s, models.ChartSpec{}))

	assert.Empty(t, s.filter("path"))
	assert.Len(t, s.filter("line"), 5)
	assert.Len(t, s.filter("rect"), 1)

	texts := s.filter("text")
	require.Len(t, texts, 5)
	assert.Equal(t, "0.00", texts[0].text)
	assert.Equal(t, "1.00", texts[4].text)
}

func TestRenderNoFootnoteWhenEmpty(t *testing.T) {
	spec := scenarioSpec()
	spec.Meta.Footnote = ""
	s := newRecorder(800, 400)
	require.NoError(t, quietRenderer().Render(s, spec))

	last := s.ops[len(s.ops)-1]
	assert.Equal(t, "Rev", last.text)
}

func TestRenderInvalidColorFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: &buf})
	spec := scenarioSpec()
	spec.Datasets[0].Color = "chartreuse"

	s := newRecorder(800, 400)
	require.NoError(t, NewRenderer().WithLogger(log).Render(s, spec))

	for _, b := range s.filter("path") {
		assert.Equal(t, DefaultTheme().DefaultColor, b.color)
	}
	assert.Contains(t, buf.String(), "chartreuse")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestRenderIsIdempotent(t *testing.T) {
	s := newRecorder(800, 400)
	r := quietRenderer()

	require.NoError(t, r.Render(s, scenarioSpec()))
	first := append([]op(nil), s.ops...)
	require.NoError(t, r.Render(s, scenarioSpec()))

	assert.Equal(t, first, s.ops)
}

func TestRenderClearFailure(t *testing.T) {
	s := newRecorder(800, 400)
	s.clearErr = errors.New("gone")

	err := quietRenderer().Render(s, scenarioSpec())
	require.Error(t, err)
	assert.ErrorIs(t, err, s.clearErr)
	assert.Empty(t, s.ops)
}

func TestWithThemeKeepsOriginal(t *testing.T) {
	base := quietRenderer()
	theme := DefaultTheme()
	theme.FootnoteSize = 20
	custom := base.WithTheme(theme)

	s := newRecorder(800, 400)
	require.NoError(t, custom.Render(s, scenarioSpec()))
	assert.Equal(t, 20.0, s.ops[len(s.ops)-1].style.Size)

	require.NoError(t, base.Render(s, scenarioSpec()))
	assert.Equal(t, 11.0, s.ops[len(s.ops)-1].style.Size)
}
