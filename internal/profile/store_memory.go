// internal/profile/store_memory.go
//
// In-memory Store for development and tests.
//
// Context
// -------
// MemoryStore keeps every Record it is given, keyed by normalized
// identifier.  Duplicate usernames are kept side by side so ByID can
// report ErrDuplicate exactly like SQLStore does.  LoadSeed fills a store
// from a YAML file:
//
//	profiles:
//	  - username: alice
//	    name: Alice Example
//	    color_preference: green
//
// Records without an id get a stable name-based UUID.
package profile

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/folio/internal/tenant"
)

// seedNamespace scopes UUIDs generated for seed records without an id.
var seedNamespace = uuid.MustParse("3b1f6c52-7d4e-4f0a-9c59-6f0b8f6a1d2e")

// MemoryStore is a concurrency-safe Store backed by a map.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[tenant.ID][]Record
}

// NewMemoryStore returns a store holding recs.
func NewMemoryStore(recs ...Record) *MemoryStore {
	s := &MemoryStore{rows: make(map[tenant.ID][]Record)}
	for _, r := range recs {
		s.Put(r)
	}
	return s
}

// Put adds rec.  A second record with the same username makes that
// identifier a duplicate.
func (s *MemoryStore) Put(rec Record) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.NewSHA1(seedNamespace, []byte(strings.ToLower(rec.Username)))
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	key := tenant.ID(strings.ToLower(strings.TrimSpace(rec.Username)))

	s.mu.Lock()
	s.rows[key] = append(s.rows[key], rec)
	s.mu.Unlock()
}

// ByID implements Store.
func (s *MemoryStore) ByID(ctx context.Context, id tenant.ID) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.rows[id]
	switch len(rows) {
	case 0:
		return nil, ErrNotFound
	case 1:
		rec := rows[0]
		return &rec, nil
	default:
		return nil, fmt.Errorf("%w: %q matched %d rows", ErrDuplicate, id, len(rows))
	}
}

// IDs implements Store.  Output is sorted.
func (s *MemoryStore) IDs(ctx context.Context) ([]tenant.ID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]tenant.ID, 0, len(s.rows))
	for id := range s.rows {
		if _, err := tenant.ParseID(string(id)); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type seedFile struct {
	Profiles []Record `yaml:"profiles"`
}

// LoadSeed reads a YAML seed file into a new MemoryStore.
func LoadSeed(path string) (*MemoryStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read seed: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("profile: parse seed %s: %w", path, err)
	}
	return NewMemoryStore(f.Profiles...), nil
}
