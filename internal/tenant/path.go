// internal/tenant/path.go
//
// Canonical internal tenant path.
//
// BuildPath joins a tenant ID and the original request path into
// `/{id}{path}` with exactly one leading slash and no duplicate
// separators.  It is the only place the canonical form is spelled out;
// the router's `/{tenantID}` route mirrors it.
package tenant

import "strings"

// BuildPath returns the internal route for id and path.
//
//	BuildPath("alice", "")       → "/alice"
//	BuildPath("alice", "/")      → "/alice"
//	BuildPath("alice", "/about") → "/alice/about"
func BuildPath(id ID, path string) string {
	rest := strings.TrimLeft(path, "/")

	switch {
	case id == "" && rest == "":
		return "/"
	case id == "":
		return "/" + rest
	case rest == "":
		return "/" + string(id)
	default:
		return "/" + string(id) + "/" + rest
	}
}
