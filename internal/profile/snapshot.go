// internal/profile/snapshot.go
//
// Pre-materialized profile set.
//
// Context
// -------
// A Snapshot is an immutable map of identifier → normalized Profile built
// ahead of requests.  StaticLoader swaps whole snapshots atomically, so a
// reader sees either the previous set or the next one, never a mix.
//
// Workflow
// --------
//  1. IDs() enumerates the store.
//  2. ByID() fetches each identifier, at most `concurrency` at a time.
//  3. Rows that vanished between the two calls are skipped.  Duplicates
//     are logged at error level and recorded, so a Load for that
//     identifier fails instead of reporting NotFound.  Any other error
//     aborts the build and the previous snapshot stays live.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/folio/internal/tenant"
)

// DefaultBuildConcurrency bounds parallel fetches during a build.
const DefaultBuildConcurrency = 8

// Snapshot is an immutable set of normalized profiles.
type Snapshot struct {
	profiles map[tenant.ID]Profile
	poisoned map[tenant.ID]error
	builtAt  time.Time
}

// NewSnapshot returns a snapshot holding ps, keyed by username.
func NewSnapshot(ps ...Profile) *Snapshot {
	s := &Snapshot{profiles: make(map[tenant.ID]Profile, len(ps)), builtAt: time.Now()}
	for _, p := range ps {
		s.profiles[p.Username] = p
	}
	return s
}

// Get returns a copy of the profile for id.
func (s *Snapshot) Get(id tenant.ID) (Profile, bool) {
	if s == nil {
		return Profile{}, false
	}
	p, ok := s.profiles[id]
	if !ok {
		return Profile{}, false
	}
	return p.Clone(), true
}

// Err returns the integrity error recorded for id during the build, or nil.
func (s *Snapshot) Err(id tenant.ID) error {
	if s == nil {
		return nil
	}
	return s.poisoned[id]
}

// Len is the number of profiles held.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.profiles)
}

// IDs returns the held identifiers in sorted order.
func (s *Snapshot) IDs() []tenant.ID {
	if s == nil {
		return nil
	}
	ids := make([]tenant.ID, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BuiltAt reports when the snapshot was created.
func (s *Snapshot) BuiltAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.builtAt
}

// with returns a copy of s that also holds p.  s itself is not modified.
func (s *Snapshot) with(p Profile) *Snapshot {
	next := &Snapshot{profiles: make(map[tenant.ID]Profile, s.Len()+1), builtAt: s.BuiltAt()}
	if s != nil {
		for k, v := range s.profiles {
			next.profiles[k] = v
		}
		next.poisoned = s.poisoned
	}
	next.profiles[p.Username] = p
	return next
}

// BuildSnapshot enumerates store and materializes every profile.
func BuildSnapshot(ctx context.Context, store Store, concurrency int, log *zap.Logger) (*Snapshot, error) {
	if log == nil {
		log = zap.L()
	}
	if concurrency <= 0 {
		concurrency = DefaultBuildConcurrency
	}

	ids, err := store.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: enumerate: %w", err)
	}

	found := make([]*Profile, len(ids))
	dups := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := store.ByID(gctx, id)
			switch {
			case errors.Is(err, ErrNotFound):
				return nil
			case errors.Is(err, ErrDuplicate):
				log.Error("snapshot: duplicate identifier", zap.String("tenant", string(id)), zap.Error(err))
				dups[i] = fmt.Errorf("profile: load %q: %w", id, err)
				return nil
			case err != nil:
				return fmt.Errorf("snapshot: fetch %q: %w", id, err)
			}
			p := Normalize(*rec)
			found[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ps := make([]Profile, 0, len(found))
	for _, p := range found {
		if p != nil {
			ps = append(ps, *p)
		}
	}
	snap := NewSnapshot(ps...)
	for i, err := range dups {
		if err == nil {
			continue
		}
		if snap.poisoned == nil {
			snap.poisoned = make(map[tenant.ID]error)
		}
		snap.poisoned[ids[i]] = err
	}
	return snap, nil
}
