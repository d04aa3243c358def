package profile

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/tenant"
)

// SQLStore reads profiles from the `users` table.
type SQLStore struct {
	db  *sqlx.DB
	log *zap.Logger
}

// NewSQLStore wraps db.  A nil logger falls back to zap.L().
func NewSQLStore(db *sqlx.DB, log *zap.Logger) *SQLStore {
	if log == nil {
		log = zap.L()
	}
	return &SQLStore{db: db, log: log}
}

const selectByUsername = `
        SELECT id, username, name, title, bio, tagline, email, phone,
               instagram_handle, instagram_url, linkedin_url, whatsapp_url,
               avatar_url, template, instagram_posts, linkedin_posts,
               color_preference, created_at, updated_at
        FROM   users
        WHERE  username = ?
        LIMIT  2`

// ByID fetches the row for id.  Two rows are requested so a broken
// uniqueness constraint surfaces as ErrDuplicate instead of an arbitrary
// pick.
func (s *SQLStore) ByID(ctx context.Context, id tenant.ID) (*Record, error) {
	var rows []Record
	if err := s.db.SelectContext(ctx, &rows, selectByUsername, string(id)); err != nil {
		return nil, fmt.Errorf("profile: select %q: %w", id, err)
	}

	switch len(rows) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matched %d rows", ErrDuplicate, id, len(rows))
	}
}

const selectUsernames = `
        SELECT username
        FROM   users
        ORDER  BY username`

// IDs returns every valid identifier in the table.  Rows whose username is
// not a valid tenant identifier are unreachable by routing, so they are
// logged and skipped.
func (s *SQLStore) IDs(ctx context.Context) ([]tenant.ID, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, selectUsernames); err != nil {
		return nil, fmt.Errorf("profile: list usernames: %w", err)
	}

	ids := make([]tenant.ID, 0, len(names))
	for _, n := range names {
		id, err := tenant.ParseID(n)
		if err != nil {
			s.log.Warn("skipping unroutable username", zap.String("username", n), zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
