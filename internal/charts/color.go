package charts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ParseColor understands the CSS forms used in dataset files:
// #rgb, #rrggbb, rgb(r, g, b) and rgba(r, g, b, a) with a in [0,1].
func ParseColor(s string) (drawing.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) != 3 && len(hex) != 6 {
			return drawing.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return drawing.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		return drawing.ColorFromHex(hex), nil
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseRGB(s[len("rgba("):len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGB(s[len("rgb("):len(s)-1], false)
	default:
		return drawing.Color{}, fmt.Errorf("unsupported color %q", s)
	}
}

func parseRGB(body string, withAlpha bool) (drawing.Color, error) {
	parts := strings.Split(body, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return drawing.Color{}, fmt.Errorf("expected %d color components, got %d", want, len(parts))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return drawing.Color{}, fmt.Errorf("invalid color channel %q", parts[i])
		}
		ch[i] = uint8(v)
	}

	c := drawing.Color{R: ch[0], G: ch[1], B: ch[2], A: 255}
	if withAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return drawing.Color{}, fmt.Errorf("invalid alpha %q", parts[3])
		}
		c.A = alpha(a)
	}
	return c, nil
}

// withOpacity scales the color's alpha by op, like canvas globalAlpha
func withOpacity(c drawing.Color, op float64) drawing.Color {
	c.A = alpha(float64(c.A) / 255 * op)
	return c
}

func alpha(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}
