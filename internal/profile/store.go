// Package profile turns a tenant identifier into a display-ready Profile.
//
// The package owns three things: the raw Record shape and its one-time
// normalization, the Store contract with its SQL and in-memory
// implementations, and the Loader strategies (request-time, static
// snapshot, and static snapshot with request-time fallback).
package profile

import (
	"context"
	"errors"

	"github.com/yanizio/folio/internal/tenant"
)

var (
	// ErrNotFound is returned by a Store when no row matches.  Loaders
	// convert it into a NotFound Result; it never reaches the renderer.
	ErrNotFound = errors.New("profile not found")

	// ErrDuplicate is returned when more than one row matches a
	// supposedly unique identifier.  It is fatal to the request.
	ErrDuplicate = errors.New("profile: duplicate identifier")
)

// Store is the storage boundary.  It promises nothing about the engine
// beyond these two selections.
type Store interface {
	// ByID returns the single row for id, ErrNotFound, or ErrDuplicate.
	ByID(ctx context.Context, id tenant.ID) (*Record, error)

	// IDs returns every stored identifier.
	IDs(ctx context.Context) ([]tenant.ID, error)
}
