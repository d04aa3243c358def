// internal/theme/css.go
//
// CSS custom-property derivation.
//
// Presentational templates read the palette only through the fixed
// property names below.  The Applier is the only writer of these names.
package theme

import "strings"

// Custom property names consumed by the stylesheet.
const (
	VarPrimary  = "--primary"
	VarAccent   = "--accent"
	VarRing     = "--ring"
	VarGradient = "--gradient-primary"
	VarGlow     = "--shadow-glow"
)

// GlowAlpha is the fixed opacity of the glow shadow.
const GlowAlpha = 0.3

// Variable is one custom-property declaration.
type Variable struct {
	Name  string
	Value string
}

// Variables derives the declarations for cfg in a fixed order.
func Variables(cfg Config) []Variable {
	primary := RGBToHSL(cfg.Base).Tokens()
	return []Variable{
		{VarPrimary, primary},
		{VarAccent, RGBToHSL(cfg.Accent).Tokens()},
		{VarRing, primary},
		{VarGradient, Gradient(cfg)},
		{VarGlow, "0 0 30px " + cfg.Base.RGBA(GlowAlpha)},
	}
}

// VariableMap is Variables keyed by property name.
func VariableMap(cfg Config) map[string]string {
	vars := Variables(cfg)
	m := make(map[string]string, len(vars))
	for _, v := range vars {
		m[v.Name] = v.Value
	}
	return m
}

// Gradient builds the 135° base-to-accent gradient.
func Gradient(cfg Config) string {
	return "linear-gradient(135deg, " + cfg.Base.String() + ", " + cfg.Accent.String() + ")"
}

// Stylesheet renders a `:root { … }` block for cfg.  Output is
// byte-identical for identical input.
func Stylesheet(cfg Config) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range Variables(cfg) {
		b.WriteString("  ")
		b.WriteString(v.Name)
		b.WriteString(": ")
		b.WriteString(v.Value)
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}
