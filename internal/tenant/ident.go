// internal/tenant/ident.go
//
// Tenant identifier parsing.
//
// Context
// -------
// A tenant is addressed either by the first path segment (`/alice`) or by
// the leftmost host label (`alice.example.com`).  Both forms pass through
// ParseID, so the same logical tenant always yields the same ID no matter
// how the request reached us.
//
// Rules
// -----
//  1. Trim surrounding whitespace and lower-case everything.
//  2. Length 3–30.
//  3. Only a-z, 0-9, “-”, and “_”.
//  4. Not a name the router serves itself (healthz, metrics, static,
//     _debug).  Those paths would shadow the tenant in both forms.
//
// Notes
// -----
// • Validation runs through go-playground/validator with one custom tag,
//   `tenantid`, so the rule set lives in a single tag string.
// • Oxford commas, two spaces after periods.
package tenant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidID is returned when a candidate identifier breaks the rules.
var ErrInvalidID = errors.New("invalid tenant identifier")

// ID is a normalized tenant identifier.  The zero value is not valid.
type ID string

const idRules = "required,min=3,max=30,tenantid"

// RouteNames are first path segments owned by the router.  They never
// parse as tenant identifiers.
var RouteNames = []string{"healthz", "metrics", "static", "_debug"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tenantid", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return isIDCharset(s) && !isRouteName(s)
	})
	return v
}

// ParseID normalizes raw and validates the result.
func ParseID(raw string) (ID, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(s, idRules); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }

func isIDCharset(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func isRouteName(s string) bool {
	for _, n := range RouteNames {
		if s == n {
			return true
		}
	}
	return false
}
