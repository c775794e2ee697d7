// Package flags holds the capability flag registry: declared flags with
// defaults, caller overrides, derived flags computed from other flags, and
// the implications that tie dependent values together. Resolving the
// registry produces an immutable Snapshot.
package flags

import (
	"fmt"

	"github.com/spf13/cast"
)

// Kind is the value type of a flag.
type Kind int

const (
	KindBool Kind = iota
	KindEnum
	KindInteger
	KindString
)

// String returns the string representation
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// coerce converts v to the canonical Go type for kind: bool, int64 or string.
// Enum values must be one of choices.
func coerce(kind Kind, choices []string, v any) (any, error) {
	switch kind {
	case KindBool:
		return cast.ToBoolE(v)
	case KindInteger:
		return cast.ToInt64E(v)
	case KindString:
		return cast.ToStringE(v)
	case KindEnum:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		for _, c := range choices {
			if c == s {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %v", s, choices)
	default:
		return nil, fmt.Errorf("unsupported kind %d", kind)
	}
}

// truthy reports whether a resolved value counts as "enabled".
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case string:
		return x != ""
	default:
		return false
	}
}
