package schema

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/vertz-dev/codegen/internal/pipeerr"
)

// Validate compiles a schema fragment with a real JSON Schema implementation
// before the structural walk in Convert runs. A fragment that fails to
// compile is almost certainly malformed (not merely "uses a feature we
// don't model"), so it fails with ErrInvalidSchema instead of silently
// degrading every nested field to "unknown" the way an unchecked walk would.
//
// A schema that compiles is then converted exactly as described in
// spec.md §4.4, independent of the compiled *jsonschema.Schema value — this
// is a pre-check, not an alternate code path.
func Validate(s Value) error {
	if s == nil {
		return nil
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", s); err != nil {
		return fmt.Errorf("%w: %v", pipeerr.ErrInvalidSchema, err)
	}
	if _, err := c.Compile("schema.json"); err != nil {
		return fmt.Errorf("%w: %v", pipeerr.ErrInvalidSchema, err)
	}
	return nil
}
