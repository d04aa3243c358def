// internal/theme/registry.go
//
// Closed set of color themes.
//
// Context
// -------
// Every portfolio page is painted with one of eight fixed palettes.  A
// tenant stores only the palette name; everything the page needs (HSL
// tokens, gradient, glow) is derived on demand from the three RGB
// triples below, so nothing is stored twice.
//
// The registry is built once at package init and never mutated, so it is
// safe for concurrent reads without locking.
//
// Notes
// -----
//   - Unknown or empty names resolve to Purple.  Lookup never fails.
//   - Oxford commas, two spaces after periods.
package theme

import "strings"

// Name identifies one palette in the registry.
type Name string

const (
	Purple Name = "purple"
	Blue   Name = "blue"
	Red    Name = "red"
	Orange Name = "orange"
	Yellow Name = "yellow"
	Green  Name = "green"
	Pink   Name = "pink"
	Brown  Name = "brown"
)

// Default is used whenever a name is absent or not in the registry.
const Default = Purple

// Config is one immutable palette.
type Config struct {
	Name      Name
	Label     string // display label, e.g. "Purple"
	Base      RGB
	Secondary RGB
	Accent    RGB
}

// order fixes iteration order for selectors and tests.
var order = []Name{Purple, Blue, Red, Orange, Yellow, Green, Pink, Brown}

var registry = map[Name]Config{
	Purple: {Name: Purple, Label: "Purple", Base: RGB{147, 51, 234}, Secondary: RGB{196, 181, 253}, Accent: RGB{168, 85, 247}},
	Blue:   {Name: Blue, Label: "Blue", Base: RGB{37, 99, 235}, Secondary: RGB{147, 197, 253}, Accent: RGB{59, 130, 246}},
	Red:    {Name: Red, Label: "Red", Base: RGB{220, 38, 127}, Secondary: RGB{251, 207, 232}, Accent: RGB{244, 63, 94}},
	Orange: {Name: Orange, Label: "Orange", Base: RGB{234, 88, 12}, Secondary: RGB{253, 186, 116}, Accent: RGB{249, 115, 22}},
	Yellow: {Name: Yellow, Label: "Yellow", Base: RGB{202, 138, 4}, Secondary: RGB{253, 224, 71}, Accent: RGB{234, 179, 8}},
	Green:  {Name: Green, Label: "Green", Base: RGB{22, 163, 74}, Secondary: RGB{134, 239, 172}, Accent: RGB{34, 197, 94}},
	Pink:   {Name: Pink, Label: "Pink", Base: RGB{219, 39, 119}, Secondary: RGB{248, 187, 208}, Accent: RGB{236, 72, 153}},
	Brown:  {Name: Brown, Label: "Brown", Base: RGB{120, 53, 15}, Secondary: RGB{217, 119, 6}, Accent: RGB{180, 83, 9}},
}

// Parse reports whether s names a registered palette.  Matching ignores
// case and surrounding whitespace.
func Parse(s string) (Name, bool) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := registry[n]; ok {
		return n, true
	}
	return "", false
}

// Resolve maps any input to a registered name, falling back to Default.
func Resolve(s string) Name {
	if n, ok := Parse(s); ok {
		return n
	}
	return Default
}

// Lookup returns the palette for name.  Total over all inputs.
func Lookup(name Name) Config {
	if cfg, ok := registry[name]; ok {
		return cfg
	}
	return registry[Default]
}

// All returns every palette in display order.
func All() []Config {
	out := make([]Config, 0, len(order))
	for _, n := range order {
		out = append(out, registry[n])
	}
	return out
}

func (n Name) String() string { return string(n) }
