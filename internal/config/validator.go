// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree and applies defaults.  Any validation
// error aborts startup, so the binary never runs with partial, malformed,
// or missing configuration.
//
// Besides the built-ins, one custom rule is registered: `roothost`, which
// checks that every tenancy.root_hosts entry normalizes to a non-empty
// host.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/yanizio/folio/internal/tenant"
)

//
// validator instance (package-level singleton)
//

var v = func() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("roothost", func(fl validator.FieldLevel) bool {
		return tenant.NormalizeHost(fl.Field().String()) != ""
	})
	return val
}()

//
// public API
//

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
