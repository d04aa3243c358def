// internal/profile/record.go
//
// Raw stored profile row.
//
// Context
// -------
// Record mirrors one row of the `users` table exactly as the store returns
// it: optional text columns are *string, embedded post columns are JSON,
// and nothing is defaulted.  Record never leaves this package's loaders;
// callers see the normalized Profile instead (see normalize.go).
//
// Notes
// -----
// • Timestamps require `parseTime=true` on the MySQL DSN; database.Open
//   forces it.
// • The yaml tags serve the dev seed file read by MemoryStore.
package profile

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one stored profile row.
type Record struct {
	ID              uuid.UUID      `db:"id"               yaml:"id"`
	Username        string         `db:"username"         yaml:"username"`
	Name            string         `db:"name"             yaml:"name"`
	Title           *string        `db:"title"            yaml:"title"`
	Bio             *string        `db:"bio"              yaml:"bio"`
	Tagline         *string        `db:"tagline"          yaml:"tagline"`
	Email           *string        `db:"email"            yaml:"email"`
	Phone           *string        `db:"phone"            yaml:"phone"`
	InstagramHandle *string        `db:"instagram_handle" yaml:"instagram_handle"`
	InstagramURL    *string        `db:"instagram_url"    yaml:"instagram_url"`
	LinkedInURL     *string        `db:"linkedin_url"     yaml:"linkedin_url"`
	WhatsAppURL     *string        `db:"whatsapp_url"     yaml:"whatsapp_url"`
	AvatarURL       *string        `db:"avatar_url"       yaml:"avatar_url"`
	Template        string         `db:"template"         yaml:"template"`
	InstagramPosts  InstagramPosts `db:"instagram_posts"  yaml:"instagram_posts"`
	LinkedInPosts   LinkedInPosts  `db:"linkedin_posts"   yaml:"linkedin_posts"`
	ColorPreference *string        `db:"color_preference" yaml:"color_preference"`
	CreatedAt       time.Time      `db:"created_at"       yaml:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"       yaml:"updated_at"`
}

// LinkedInPost is one embedded LinkedIn post: the embed URL and the iframe
// height in pixels.
type LinkedInPost struct {
	URL    string `json:"url"    yaml:"url"`
	Height int    `json:"height" yaml:"height"`
}

// InstagramPosts is a JSON column of permalink URLs.  A NULL column scans
// to a nil slice.
type InstagramPosts []string

// Scan implements sql.Scanner.
func (p *InstagramPosts) Scan(src any) error {
	var out []string
	if err := scanJSON(src, &out); err != nil {
		return fmt.Errorf("instagram_posts: %w", err)
	}
	*p = out
	return nil
}

// Value implements driver.Valuer.
func (p InstagramPosts) Value() (driver.Value, error) { return valueJSON(p) }

// LinkedInPosts is a JSON column of {url, height} objects.
type LinkedInPosts []LinkedInPost

// Scan implements sql.Scanner.
func (p *LinkedInPosts) Scan(src any) error {
	var out []LinkedInPost
	if err := scanJSON(src, &out); err != nil {
		return fmt.Errorf("linkedin_posts: %w", err)
	}
	*p = out
	return nil
}

// Value implements driver.Valuer.
func (p LinkedInPosts) Value() (driver.Value, error) { return valueJSON(p) }

func scanJSON(src any, dst any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func valueJSON[T any](v []T) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
