// internal/head/builder.go
//
// The Builder collects everything that belongs inside a page's <head>
// element for one render.  Handlers and the theme applier push into it;
// the layout template decides where each slice is emitted.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Meta, Link         – arbitrary tags, deduplicated by content.
//   - SetStyle           – id-addressed <style> elements.  Setting an id
//     that already exists overwrites its content in place, so there is
//     never more than one element per id.
//   - JSONLD             – structured data wrapped in
//     <script type="application/ld+json">.
//
// The Builder satisfies theme.Document.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder is scoped to one request.  A mutex guards writes so helpers
// running in the same request cannot interleave.
type Builder struct {
	mu sync.Mutex

	title string

	metas  []string
	links  []string
	jsonLD []string

	// styles keeps insertion order; styleIdx maps id → position.
	styles   []style
	styleIdx map[string]int

	seen map[string]struct{}
}

type style struct {
	id  string
	css string
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{
		seen:     make(map[string]struct{}),
		styleIdx: make(map[string]int),
	}
}

// SetTitle overrides the page <title>.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// Meta adds a pre-built <meta> tag.
func (b *Builder) Meta(tag string) { b.add("meta:"+tag, &b.metas, tag) }

// Link adds a pre-built <link> tag.
func (b *Builder) Link(tag string) { b.add("link:"+tag, &b.links, tag) }

// JSONLD adds one structured-data document.
func (b *Builder) JSONLD(js string) { b.add("jsonld:"+js, &b.jsonLD, js) }

// NamedMeta adds <meta name=… content=…> with both values escaped.
func (b *Builder) NamedMeta(name, content string) {
	b.Meta(`<meta name="` + template.HTMLEscapeString(name) +
		`" content="` + template.HTMLEscapeString(content) + `">`)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// SetStyle finds or creates the <style> element with id and replaces its
// content with css.
func (b *Builder) SetStyle(id, css string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i, ok := b.styleIdx[id]; ok {
		b.styles[i].css = css
		return
	}
	b.styleIdx[id] = len(b.styles)
	b.styles = append(b.styles, style{id: id, css: css})
}

// Style returns the current content of the element with id.
func (b *Builder) Style(id string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i, ok := b.styleIdx[id]; ok {
		return b.styles[i].css, true
	}
	return "", false
}

// ------------------------------------------------------------------
// Rendering helpers called from layout templates
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML { return b.concat(&b.metas) }
func (b *Builder) Links() template.HTML { return b.concat(&b.links) }

// Styles renders every style element.  CSS is emitted verbatim; "</" is
// broken up so content cannot close the element early.
func (b *Builder) Styles() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, s := range b.styles {
		sb.WriteString(`<style id="`)
		sb.WriteString(template.HTMLEscapeString(s.id))
		sb.WriteString(`">`)
		sb.WriteString(strings.ReplaceAll(s.css, "</", `<\/`))
		sb.WriteString(`</style>`)
	}
	return template.HTML(sb.String())
}

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(strings.ReplaceAll(js, "</", `<\/`))
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

func (b *Builder) concat(sl *[]string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return template.HTML(strings.Join(*sl, ""))
}
