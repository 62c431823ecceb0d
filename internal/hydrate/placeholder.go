package hydrate

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Default canvas size when a placeholder omits width or height
const (
	DefaultWidth  = 300
	DefaultHeight = 150
)

// Placeholder is a <canvas> element on the page waiting for a chart
type Placeholder struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ScanPlaceholders finds every <canvas> carrying attr in an HTML document.
// Canvases with the attribute but no value are returned with an empty Key;
// Hydrate skips them. Elements without an id get "chart-<n>" in document order.
func ScanPlaceholders(r io.Reader, attr string) ([]Placeholder, error) {
	attr = strings.ToLower(attr)
	z := html.NewTokenizer(r)

	var found []Placeholder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return found, nil
			}
			return nil, fmt.Errorf("failed to scan page: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Canvas {
				continue
			}
			p, ok := placeholderFrom(tok, attr)
			if !ok {
				continue
			}
			if p.ID == "" {
				p.ID = fmt.Sprintf("chart-%d", len(found)+1)
			}
			found = append(found, p)
		}
	}
}

func placeholderFrom(tok html.Token, attr string) (Placeholder, bool) {
	p := Placeholder{Width: DefaultWidth, Height: DefaultHeight}
	marked := false
	for _, a := range tok.Attr {
		switch a.Key {
		case attr:
			marked = true
			p.Key = strings.TrimSpace(a.Val)
		case "id":
			p.ID = strings.TrimSpace(a.Val)
		case "width":
			p.Width = dimension(a.Val, DefaultWidth)
		case "height":
			p.Height = dimension(a.Val, DefaultHeight)
		}
	}
	return p, marked
}

// dimension parses a canvas size attribute; anything that is not a
// non-negative integer falls back to def, as browsers do
func dimension(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return def
	}
	return n
}
