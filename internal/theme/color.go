// internal/theme/color.go
//
// RGB and HSL value types plus the conversion between them.
//
// Downstream CSS reads colors as bare HSL tokens ("271 81% 56%") so the
// stylesheet can compose them with its own alpha, e.g.
// `hsl(var(--primary) / 0.1)`.  The conversion is pure and deterministic.
package theme

import (
	"fmt"
	"math"
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// HSL holds hue in whole degrees [0,360) and saturation and lightness in
// whole percent [0,100].
type HSL struct {
	H, S, L int
}

// RGBToHSL converts c and rounds each component.
func RGBToHSL(c RGB) HSL {
	h, s, l := toHSL(c)
	hue := int(math.Round(h)) % 360
	return HSL{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// toHSL returns unrounded hue in degrees and saturation, lightness in [0,1].
func toHSL(c RGB) (h, s, l float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	// Achromatic: hue and saturation are undefined, report zero.
	if max == min {
		return 0, 0, l
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h >= 360 {
		h -= 360
	}
	return h, s, l
}

// String renders the CSS functional form "rgb(r, g, b)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGBA renders "rgba(r, g, b, alpha)".
func (c RGB) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, alpha)
}

// Hex renders "#rrggbb", used for <meta name="theme-color">.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Tokens renders the space-separated token form "H S% L%".
func (h HSL) Tokens() string {
	return fmt.Sprintf("%d %d%% %d%%", h.H, h.S, h.L)
}
