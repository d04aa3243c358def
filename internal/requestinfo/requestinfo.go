//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, IP + geolocation, URL, and timestamp).
//  These structs are inert.  They hold no handles or large buffers, so
//  they are safe to log or hand to templates.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	surfer "github.com/avct/uasurfer"
)

// UA holds the parsed user-agent properties.
//
// Example (Chrome on macOS):
//
//	Browser   "Chrome"
//	Version   "125.0.6422"
//	OS        "MacOSX"
//	OSVersion "14.4"
//	Device    "Desktop"
//	Platform  "Mac"
type UA struct {
	Raw         string
	Browser     string
	Version     string
	OS          string
	OSVersion   string
	Device      string // Desktop, Tablet, Mobile, or Other
	Platform    string
	IsBot       bool
	PrimaryLang string // first Accept-Language tag, lowercased
}

// Geo holds IP-based geolocation hints.  Empty when no database is
// configured or the address has no match.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// Info is attached to the request context by Enrich.
type Info struct {
	UA        UA
	Geo       Geo
	URL       *url.URL // original URL, before any tenant rewrite
	Timestamp time.Time
}

type ctxKey struct{}

// WithInfo returns ctx carrying info.
func WithInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the pointer stored by Enrich, or nil.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// ParseUA converts raw headers into a UA.
func ParseUA(raw, acceptLang string) UA {
	ua := surfer.Parse(raw)

	info := UA{
		Raw:         raw,
		Browser:     strings.TrimPrefix(ua.Browser.Name.String(), "Browser"),
		Version:     versionToString(ua.Browser.Version),
		OS:          strings.TrimPrefix(ua.OS.Name.String(), "OS"),
		OSVersion:   versionToString(ua.OS.Version),
		Platform:    strings.TrimPrefix(ua.OS.Platform.String(), "Platform"),
		IsBot:       ua.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// versionToString renders 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return strconv.Itoa(int(v.Major))
	}
}

// primaryLang extracts the first language tag before any ";q=" weight.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
