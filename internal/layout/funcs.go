//
//  internal/layout/funcs.go
//
//  Template functions shared by every layout.  Request helpers expose
//  RequestInfo fields with short names so layout authors do not poke
//  through nested structs; the rest are small formatting helpers.
//

package layout

import (
	"html/template"
	"strings"
	"time"
	"unicode"

	"github.com/yanizio/folio/internal/requestinfo"
)

// FuncMap returns the function map installed on every layout set.
func FuncMap(asset func(string) string) template.FuncMap {
	return template.FuncMap{
		"asset": asset,
		"dict":  dict,
		"year":  func() int { return time.Now().Year() },

		"initials": initials,
		"tel":      tel,

		// Request helpers
		"country": func(i *requestinfo.Info) string {
			if i == nil {
				return ""
			}
			return i.Geo.CountryISO
		},
		"browser": func(i *requestinfo.Info) string {
			if i == nil {
				return ""
			}
			return i.UA.Browser
		},
		"isBot": func(i *requestinfo.Info) bool {
			return i != nil && i.UA.IsBot
		},
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// initials returns the uppercased first letter of each word, used as the
// avatar fallback: "Alice Example" → "AE".
func initials(name string) string {
	var sb strings.Builder
	for _, w := range strings.Fields(name) {
		r := []rune(w)[0]
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}

// tel builds a tel: URL.  html/template rejects the scheme by default, so
// the number is reduced to digits and a leading + before being trusted.
func tel(phone string) template.URL {
	var sb strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '+' && i == 0:
			sb.WriteRune(r)
		}
	}
	return template.URL("tel:" + sb.String())
}
