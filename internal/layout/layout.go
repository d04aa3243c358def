// Package layout loads the HTML layouts a portfolio can be rendered with.
// A profile's `template` column names its layout (v1, v2, …).  Each
// layout is a directory of .html files parsed as one template set:
//
//   - Name      – the layout directory name.
//   - Set       – parsed templates ready for execution.
//   - AssetFunc – resolves `{{ asset "css/site.css" }}` to
//     `/static/<name>/css/site.css`.
//
// Layouts ship embedded in the binary.  An operator may point the Manager
// at a directory on disk instead to override them without rebuilding.
package layout

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates static
var embedded embed.FS

// Embedded returns the layouts compiled into the binary, rooted so that
// top-level entries are layout names.
func Embedded() fs.FS { return sub("templates") }

// Static returns the layout assets, rooted so `/static/<name>/site.css`
// maps to `<name>/site.css`.
func Static() fs.FS { return sub("static") }

func sub(dir string) fs.FS {
	s, err := fs.Sub(embedded, dir)
	if err != nil {
		panic(err)
	}
	return s
}

// Layout is one parsed layout.
type Layout struct {
	Name      string
	Set       *template.Template
	AssetFunc func(string) string
}

// New constructs a Layout with an AssetFunc under /static/<name>/.
func New(name string, set *template.Template) *Layout {
	prefix := "/static/" + name + "/"
	return &Layout{
		Name: name,
		Set:  set,
		AssetFunc: func(p string) string {
			return prefix + p
		},
	}
}

// Execute runs the page template called view (page, notfound, home).
func (l *Layout) Execute(w io.Writer, view string, data any) error {
	name := view + ".html"
	if l.Set.Lookup(name) == nil {
		return fmt.Errorf("layout %s: no %s template", l.Name, view)
	}
	return l.Set.ExecuteTemplate(w, name, data)
}
