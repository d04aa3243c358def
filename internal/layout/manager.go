// internal/layout/manager.go
//
// Layout discovery, parsing, and caching.
//
// Workflow
// --------
//  1. Load(name) checks the LRU.
//  2. On a miss, `<name>/` must exist in the Manager's FS.  If it does
//     not, the Fallback layout is loaded instead and cached under the
//     requested name too, so a bad `template` value costs one lookup.
//  3. Every .html under the directory is parsed as one set, with the
//     shared FuncMap and the layout's real asset helper.
//
// Concurrent misses for the same name are collapsed with singleflight.
package layout

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/folio/internal/cache"
)

// Fallback is the layout used when a requested name does not exist.
const Fallback = "v1"

// DefaultCacheSize bounds the number of parsed sets kept in memory.
const DefaultCacheSize = 32

// Manager discovers and loads layouts from an fs.FS.
type Manager struct {
	fsys  fs.FS
	cache *cache.LRU[string, *Layout]
	sfg   singleflight.Group
	log   *zap.Logger
}

// NewManager returns a Manager over fsys.  A nil fsys selects the
// embedded layouts; size < 1 selects DefaultCacheSize.
func NewManager(fsys fs.FS, size int, log *zap.Logger) *Manager {
	if fsys == nil {
		fsys = Embedded()
	}
	if size < 1 {
		size = DefaultCacheSize
	}
	if log == nil {
		log = zap.L()
	}
	return &Manager{fsys: fsys, cache: cache.New[string, *Layout](size), log: log}
}

// Load returns the parsed layout for name, falling back to Fallback.
func (m *Manager) Load(name string) (*Layout, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Fallback
	}
	if l, ok := m.cache.Get(name); ok {
		return l, nil
	}

	v, err, _ := m.sfg.Do(name, func() (any, error) {
		if l, ok := m.cache.Get(name); ok {
			return l, nil
		}

		resolved := name
		if !m.exists(name) {
			if name == Fallback {
				return nil, fmt.Errorf("layout %s not found", Fallback)
			}
			m.log.Warn("unknown layout; using fallback",
				zap.String("layout", name), zap.String("fallback", Fallback))
			resolved = Fallback
		}

		l, ok := m.cache.Get(resolved)
		if !ok {
			var err error
			if l, err = m.parse(resolved); err != nil {
				return nil, err
			}
			m.cache.Add(resolved, l)
		}
		m.cache.Add(name, l)
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Layout), nil
}

// Names lists the layout directories available in the FS.
func (m *Manager) Names() []string {
	entries, err := fs.ReadDir(m.fsys, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

func (m *Manager) exists(name string) bool {
	if !fs.ValidPath(name) || strings.Contains(name, "/") {
		return false
	}
	info, err := fs.Stat(m.fsys, name)
	return err == nil && info.IsDir()
}

func (m *Manager) parse(name string) (*Layout, error) {
	files, err := CollectHTML(m.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", name, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("layout %s has no templates", name)
	}

	l := New(name, nil)
	tpl, err := template.New(path.Base(name)).Funcs(FuncMap(l.AssetFunc)).ParseFS(m.fsys, files...)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", name, err)
	}
	l.Set = tpl
	return l, nil
}
