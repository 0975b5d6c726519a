package variant

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is matched by every UnknownVariant error.
var ErrUnknownVariant = errors.New("unknown variant")

// UnknownVariant reports a variant, strategy, or family name outside the
// recognized set.
type UnknownVariant struct {
	// Kind is what Name was parsed as: "variant", "strategy", or
	// "family". Empty means "variant".
	Kind string
	Name string
}

func (e *UnknownVariant) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "variant"
	}
	return fmt.Sprintf("unknown %s %q", kind, e.Name)
}

// Unwrap lets errors.Is match ErrUnknownVariant.
func (e *UnknownVariant) Unwrap() error {
	return ErrUnknownVariant
}
