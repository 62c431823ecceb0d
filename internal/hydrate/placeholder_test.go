package hydrate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html>
<body>
  <section>
    <canvas id="ventas" data-visualizacion="ventas" width="800" height="400"></canvas>
    <canvas data-visualizacion="alcance"></canvas>
    <canvas id="decor" width="10" height="10"></canvas>
    <CANVAS ID="Upper" DATA-VISUALIZACION="upper" WIDTH="12" HEIGHT="34"></CANVAS>
    <canvas id="blank" data-visualizacion=""></canvas>
    <canvas id="bad-size" data-visualizacion="x" width="wide" height="-3"></canvas>
    <div data-visualizacion="not-a-canvas"></div>
  </section>
</body>
</html>`

func TestScanPlaceholders(t *testing.T) {
	got, err := ScanPlaceholders(strings.NewReader(page), "data-visualizacion")
	require.NoError(t, err)

	want := []Placeholder{
		{ID: "ventas", Key: "ventas", Width: 800, Height: 400},
		{ID: "chart-2", Key: "alcance", Width: DefaultWidth, Height: DefaultHeight},
		{ID: "Upper", Key: "upper", Width: 12, Height: 34},
		{ID: "blank", Key: "", Width: DefaultWidth, Height: DefaultHeight},
		{ID: "bad-size", Key: "x", Width: DefaultWidth, Height: DefaultHeight},
	}
	assert.Equal(t, want, got)
}

func TestScanPlaceholdersCustomAttribute(t *testing.T) {
	doc := `<canvas id="a" data-chart="one"></canvas><canvas id="b" data-visualizacion="two"></canvas>`

	got, err := ScanPlaceholders(strings.NewReader(doc), "Data-Chart")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].Key)
}

func TestScanPlaceholdersEmptyDocument(t *testing.T) {
	got, err := ScanPlaceholders(strings.NewReader(""), "data-visualizacion")
	require.NoError(t, err)
	assert.Empty(t, got)
}
