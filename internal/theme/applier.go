// internal/theme/applier.go
//
// Runtime theme application.
//
// Context
// -------
// An Applier belongs to one client context: a document it can write a
// style element into, and a durable key-value store where the chosen
// palette is remembered between visits.  For an HTTP request the document
// is the page's head.Builder and the store is a cookie, but the Applier
// only sees the two small interfaces below.
//
// Lifecycle
// ---------
//  1. NewApplier binds the document and store.
//  2. Init applies the stored preference (or Default) exactly once.
//  3. Apply may be called again, e.g. with a tenant's explicit
//     preference, which then replaces the style and wins over the stored
//     value.
//
// Notes
// -----
//   - Apply and Init serialise on a mutex so the style write and the
//     store write happen as one unit per call.
//   - A nil document means there is no live client context.  Apply then
//     resolves the name and returns without side effects.
//   - Store failures are logged at debug level and dropped.
package theme

import (
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/metrics"
)

// StyleElementID identifies the single injected style element.
const StyleElementID = "dynamic-theme"

// StorageKey is the default durable key holding the last applied name.
const StorageKey = "themeColor"

// Document receives the generated stylesheet.  SetStyle must create the
// element on first use and overwrite its content afterwards.
type Document interface {
	SetStyle(id, css string)
}

// Storage is durable client-side key-value storage.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Applier writes palettes into one client context.
type Applier struct {
	mu       sync.Mutex
	doc      Document
	store    Storage
	key      string
	log      *zap.Logger
	initOnce sync.Once
	current  Name
}

// Option customises an Applier.
type Option func(*Applier)

// WithStorageKey overrides StorageKey.
func WithStorageKey(key string) Option {
	return func(a *Applier) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger used for swallowed store failures.
func WithLogger(l *zap.Logger) Option {
	return func(a *Applier) {
		if l != nil {
			a.log = l
		}
	}
}

// NewApplier binds doc and store.  Either may be nil.
func NewApplier(doc Document, store Storage, opts ...Option) *Applier {
	a := &Applier{
		doc:   doc,
		store: store,
		key:   StorageKey,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply resolves input against the registry, rewrites the style element,
// and persists the resolved name.  It never fails; unknown input behaves
// exactly like Default.
func (a *Applier) Apply(input string) Name {
	name := Resolve(input)
	if a == nil || a.doc == nil {
		return name
	}

	css := Stylesheet(Lookup(name))

	a.mu.Lock()
	defer a.mu.Unlock()

	a.doc.SetStyle(StyleElementID, css)
	a.current = name
	metrics.ThemeApplyTotal.WithLabelValues(string(name)).Inc()

	if a.store != nil {
		if err := a.store.Set(a.key, string(name)); err != nil {
			metrics.ThemePersistErrorsTotal.Inc()
			a.log.Debug("theme persist failed",
				zap.String("theme", string(name)), zap.Error(err))
		}
	}
	return name
}

// Init applies the stored preference, or Default when none is stored.
// Only the first call has an effect; later calls return Current.
func (a *Applier) Init() Name {
	if a == nil {
		return Default
	}
	a.initOnce.Do(func() {
		stored, _ := a.Stored()
		a.Apply(string(stored))
	})
	return a.Current()
}

// Stored reads the persisted preference.  Absent, unreadable, or
// unrecognised values all report ok == false.
func (a *Applier) Stored() (Name, bool) {
	if a == nil || a.store == nil {
		return "", false
	}
	raw, err := a.store.Get(a.key)
	if err != nil || raw == "" {
		return "", false
	}
	return Parse(raw)
}

// Current returns the most recently applied name, or Default.
func (a *Applier) Current() Name {
	if a == nil {
		return Default
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == "" {
		return Default
	}
	return a.current
}
