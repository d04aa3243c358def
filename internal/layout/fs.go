// fs.go holds a small helper for collecting template files from an fs.FS,
// since html/template has no recursive "**/*.html" glob.  CollectHTML
// returns every .html path under dir in walk order, ready for ParseFS.
package layout

import (
	"io/fs"
	"strings"
)

// CollectHTML walks dir inside fsys and returns the *.html file paths.
//
//	files, _ := CollectHTML(fsys, "v1")
//	tpl.ParseFS(fsys, files...)
func CollectHTML(fsys fs.FS, dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
