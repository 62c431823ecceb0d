package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"pagecharts/internal/charts"
	"pagecharts/internal/models"
)

var previewTemplate = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Key}}</title>
<style>
body { font-family: system-ui, sans-serif; color: #0f637d; margin: 2rem; }
.charts { display: flex; gap: 2rem; flex-wrap: wrap; }
figure { margin: 0; }
iframe { border: 0; }
.footnote { color: rgba(16, 42, 67, 0.55); font-size: 0.85rem; }
</style>
</head>
<body>
<h1>{{.Key}}</h1>
<div class="charts">
  <figure>
    <img src="{{.ImageURL}}" width="{{.Width}}" height="{{.Height}}" alt="{{.Key}}">
    <figcaption>Static</figcaption>
  </figure>
  <figure>
    <iframe srcdoc="{{.Interactive}}" width="{{.FrameWidth}}" height="{{.FrameHeight}}"></iframe>
    <figcaption>Interactive</figcaption>
  </figure>
</div>
{{if .Footnote}}<div class="footnote">{{.Footnote}}</div>{{end}}
</body>
</html>
`))

type previewData struct {
	Key         string
	ImageURL    string
	Width       int
	Height      int
	FrameWidth  int
	FrameHeight int
	Interactive string
	Footnote    template.HTML
}

// buildPreview renders the preview page for one chart. The footnote is
// treated as markdown.
func (s *Server) buildPreview(key string, spec models.ChartSpec, width, height int) ([]byte, error) {
	snippet, err := charts.Snippet(key, key, spec, width, height)
	if err != nil {
		return nil, err
	}

	data := previewData{
		Key:         key,
		ImageURL:    fmt.Sprintf("/charts/%s.png?width=%d&height=%d", url.PathEscape(key), width, height),
		Width:       width,
		Height:      height,
		FrameWidth:  width + 40,
		FrameHeight: height + 40,
		Interactive: snippet.HTML,
	}

	if spec.Meta.Footnote != "" {
		var md bytes.Buffer
		if err := s.markdown.Convert([]byte(spec.Meta.Footnote), &md); err != nil {
			return nil, fmt.Errorf("failed to convert footnote: %w", err)
		}
		data.Footnote = template.HTML(md.String())
	}

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute preview template: %w", err)
	}
	return buf.Bytes(), nil
}
