package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Total(t *testing.T) {
	for _, in := range []string{"", "teal", "PURPLE ", "not-a-real-theme"} {
		cfg := Lookup(Resolve(in))
		assert.Equal(t, Purple, cfg.Name, "input %q", in)
	}
	assert.Equal(t, Lookup(Name("bogus")), Lookup(Purple))
}

func TestParse(t *testing.T) {
	n, ok := Parse(" Green ")
	require.True(t, ok)
	assert.Equal(t, Green, n)

	_, ok = Parse("teal")
	assert.False(t, ok)
}

func TestAll_FixedOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 8)
	assert.Equal(t, Purple, all[0].Name)
	assert.Equal(t, Brown, all[7].Name)
	for _, cfg := range all {
		assert.NotEmpty(t, cfg.Label)
	}
}

func TestStylesheet_Deterministic(t *testing.T) {
	for _, cfg := range All() {
		a := Stylesheet(Lookup(cfg.Name))
		b := Stylesheet(Lookup(cfg.Name))
		assert.Equal(t, a, b, "theme %s", cfg.Name)
	}
}

func TestVariables_Purple(t *testing.T) {
	vars := VariableMap(Lookup(Purple))

	assert.Equal(t, "271 81% 56%", vars[VarPrimary])
	assert.Equal(t, vars[VarPrimary], vars[VarRing])
	assert.Equal(t, RGBToHSL(RGB{168, 85, 247}).Tokens(), vars[VarAccent])
	assert.Equal(t,
		"linear-gradient(135deg, rgb(147, 51, 234), rgb(168, 85, 247))",
		vars[VarGradient])
	assert.Equal(t, "0 0 30px rgba(147, 51, 234, 0.3)", vars[VarGlow])
}

func TestStylesheet_Shape(t *testing.T) {
	css := Stylesheet(Lookup(Yellow))
	assert.Contains(t, css, ":root {\n")
	assert.Contains(t, css, "  --accent: 45 93% 47%;\n")
}
