package head

import (
	"strings"
	"testing"
)

func TestSetStyleReplacesInPlace(t *testing.T) {
	b := New()
	b.SetStyle("dynamic-theme", ":root { --primary: 1 2% 3%; }")
	b.SetStyle("other", "body{}")
	b.SetStyle("dynamic-theme", ":root { --primary: 4 5% 6%; }")

	out := string(b.Styles())
	if n := strings.Count(out, `id="dynamic-theme"`); n != 1 {
		t.Fatalf("want exactly one dynamic-theme element, got %d in %q", n, out)
	}
	if strings.Contains(out, "1 2% 3%") || !strings.Contains(out, "4 5% 6%") {
		t.Fatalf("style not overwritten: %q", out)
	}
	if strings.Index(out, "dynamic-theme") > strings.Index(out, `id="other"`) {
		t.Fatalf("insertion order not kept: %q", out)
	}
	if css, ok := b.Style("dynamic-theme"); !ok || !strings.Contains(css, "4 5% 6%") {
		t.Fatalf("Style lookup = %q, %v", css, ok)
	}
}

func TestStylesCannotCloseElement(t *testing.T) {
	b := New()
	b.SetStyle("x", "a{}</style><script>alert(1)</script>")
	if strings.Contains(string(b.Styles()), "</style><script>") {
		t.Fatalf("unescaped close tag in %q", b.Styles())
	}
}

func TestMetaDedupAndEscape(t *testing.T) {
	b := New()
	b.NamedMeta("theme-color", `#9333ea"><x`)
	b.NamedMeta("theme-color", `#9333ea"><x`)

	out := string(b.Metas())
	if strings.Count(out, "<meta") != 1 {
		t.Fatalf("dedup failed: %q", out)
	}
	if strings.Contains(out, `"><x`) {
		t.Fatalf("content not escaped: %q", out)
	}
}

func TestTitle(t *testing.T) {
	b := New()
	if b.Title() != "" {
		t.Fatalf("empty builder should have no title")
	}
	b.SetTitle("Alice & Co")
	if got := string(b.Title()); got != "<title>Alice &amp; Co</title>" {
		t.Fatalf("Title = %q", got)
	}
}
