// internal/profile/normalize.go
//
// Record → Profile normalization.
//
// Context
// -------
// Normalize is the single place where missing optional fields become their
// documented defaults.  Loaders call it once, at load time; nothing
// downstream re-applies defaults or inspects the raw Record.  An empty
// string counts as missing, the same as NULL.
//
// Notes
// -----
// • AvatarURL has no default.  An empty value means "omit the avatar".
// • Post lists are never nil after normalization.
// • Normalize(p.Record()) == p for every normalized p.
package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/folio/internal/tenant"
	"github.com/yanizio/folio/internal/theme"
)

// Defaults for optional profile fields.
const (
	DefaultTitle           = "Professional"
	DefaultBio             = "Welcome to my portfolio"
	DefaultTagline         = "Available for freelance projects and collaborations"
	DefaultEmail           = "contact@example.com"
	DefaultPhone           = "+1234567890"
	DefaultInstagramHandle = "username"
	DefaultSocialURL       = "#"
	DefaultTemplate        = "v1"
)

// SocialLinks holds the outbound social profile URLs.
type SocialLinks struct {
	Instagram string
	LinkedIn  string
	WhatsApp  string
}

// EmbeddedPosts holds third-party posts rendered inline.
type EmbeddedPosts struct {
	Instagram []string
	LinkedIn  []LinkedInPost
}

// Profile is the fully populated, display-ready view of a Record.
type Profile struct {
	ID        uuid.UUID
	Username  tenant.ID
	Name      string
	Title     string
	Bio       string
	Tagline   string
	Email     string
	Phone     string
	Instagram string // handle, without @
	AvatarURL string // empty means omit
	Social    SocialLinks
	Posts     EmbeddedPosts
	Template  string

	// Theme is always resolvable.  ExplicitTheme reports whether the
	// stored record named a valid theme, in which case it overrides the
	// visitor's stored preference on this tenant's page.
	Theme         theme.Name
	ExplicitTheme bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Normalize converts a raw Record into a Profile, replacing every missing
// optional field with its default.
func Normalize(rec Record) Profile {
	th, explicit := theme.Parse(deref(rec.ColorPreference))

	p := Profile{
		ID:        rec.ID,
		Username:  tenant.ID(strings.ToLower(strings.TrimSpace(rec.Username))),
		Name:      rec.Name,
		Title:     or(rec.Title, DefaultTitle),
		Bio:       or(rec.Bio, DefaultBio),
		Tagline:   or(rec.Tagline, DefaultTagline),
		Email:     or(rec.Email, DefaultEmail),
		Phone:     or(rec.Phone, DefaultPhone),
		Instagram: or(rec.InstagramHandle, DefaultInstagramHandle),
		AvatarURL: deref(rec.AvatarURL),
		Social: SocialLinks{
			Instagram: or(rec.InstagramURL, DefaultSocialURL),
			LinkedIn:  or(rec.LinkedInURL, DefaultSocialURL),
			WhatsApp:  or(rec.WhatsAppURL, DefaultSocialURL),
		},
		Posts: EmbeddedPosts{
			Instagram: append(make([]string, 0, len(rec.InstagramPosts)), rec.InstagramPosts...),
			LinkedIn:  append(make([]LinkedInPost, 0, len(rec.LinkedInPosts)), rec.LinkedInPosts...),
		},
		Template:      rec.Template,
		Theme:         theme.Default,
		ExplicitTheme: explicit,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
	if explicit {
		p.Theme = th
	}
	if strings.TrimSpace(p.Template) == "" {
		p.Template = DefaultTemplate
	}
	return p
}

// Record converts p back into a stored-row shape.  Every optional field is
// populated, so normalizing the result yields p again.
func (p Profile) Record() Record {
	rec := Record{
		ID:              p.ID,
		Username:        string(p.Username),
		Name:            p.Name,
		Title:           ptr(p.Title),
		Bio:             ptr(p.Bio),
		Tagline:         ptr(p.Tagline),
		Email:           ptr(p.Email),
		Phone:           ptr(p.Phone),
		InstagramHandle: ptr(p.Instagram),
		InstagramURL:    ptr(p.Social.Instagram),
		LinkedInURL:     ptr(p.Social.LinkedIn),
		WhatsAppURL:     ptr(p.Social.WhatsApp),
		Template:        p.Template,
		InstagramPosts:  InstagramPosts(p.Posts.Instagram),
		LinkedInPosts:   LinkedInPosts(p.Posts.LinkedIn),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.AvatarURL != "" {
		rec.AvatarURL = ptr(p.AvatarURL)
	}
	if p.ExplicitTheme {
		rec.ColorPreference = ptr(p.Theme.String())
	}
	return rec
}

// Clone returns a deep copy so callers can never alias shared post slices.
func (p Profile) Clone() Profile {
	p.Posts.Instagram = append([]string(nil), p.Posts.Instagram...)
	p.Posts.LinkedIn = append([]LinkedInPost(nil), p.Posts.LinkedIn...)
	if p.Posts.Instagram == nil {
		p.Posts.Instagram = []string{}
	}
	if p.Posts.LinkedIn == nil {
		p.Posts.LinkedIn = []LinkedInPost{}
	}
	return p
}

func or(s *string, def string) string {
	if v := deref(s); v != "" {
		return v
	}
	return def
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string { return &s }
