package main

import (
	"fmt"
	"image/color"
	"math"
)

// chartPalette assigns stable, well-spread hues to channels and labels
// that arrive without a configured color. Hues advance by the golden
// ratio so neighboring entries stay distinguishable.
var chartPalette = func() []color.NRGBA {
	const target = 20
	out := []color.NRGBA{}
	for i := 0; i < target; i++ {
		hue := math.Mod(float64(i+1)*math.Phi, 1)
		out = append(out, hslToNRGBA(hue, 0.65, 0.45))
	}
	return out
}()

func paletteColor(i int) color.NRGBA {
	return chartPalette[i%len(chartPalette)]
}

// parseHexColor parses "#rrggbb" or "#rrggbbaa".
func parseHexColor(s string) (color.NRGBA, error) {
	var c color.NRGBA
	c.A = 0xff
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	return c, nil
}

// resolveColor converts a configured hex color into an NRGBA, falling
// back to the palette entry for index i when the string is empty or
// malformed.
func resolveColor(s string, i int) color.NRGBA {
	if s != "" {
		if c, err := parseHexColor(s); err == nil {
			return c
		}
	}
	return paletteColor(i)
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func hslToNRGBA(h, s, l float64) color.NRGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h * 6
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return color.NRGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 0xff,
	}
}
