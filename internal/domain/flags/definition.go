package flags

import (
	"fmt"

	"github.com/reglet-dev/portcfg/internal/domain"
	"github.com/reglet-dev/portcfg/internal/domain/values"
)

// Definition declares a capability flag.
type Definition struct {
	// Default is the compiled-in value. Ignored for derived flags.
	Default    any
	Derivation *Derivation
	Name       string
	Doc        string
	// Choices lists the legal values of an enum flag.
	Choices []string
	Kind    Kind
}

// IsDerived reports whether the flag is computed from other flags.
func (d Definition) IsDerived() bool {
	return d.Derivation != nil
}

// Bool declares a boolean flag.
func Bool(name string, def bool, doc string) Definition {
	return Definition{Name: name, Kind: KindBool, Default: def, Doc: doc}
}

// Int declares an integer flag.
func Int(name string, def int64, doc string) Definition {
	return Definition{Name: name, Kind: KindInteger, Default: def, Doc: doc}
}

// String declares a string flag.
func String(name, def, doc string) Definition {
	return Definition{Name: name, Kind: KindString, Default: def, Doc: doc}
}

// Enum declares an enum flag.
func Enum(name, def string, choices []string, doc string) Definition {
	return Definition{Name: name, Kind: KindEnum, Default: def, Choices: choices, Doc: doc}
}

// Derived declares a flag whose value is always computed by d.
func Derived(name string, kind Kind, d *Derivation, doc string) Definition {
	return Definition{Name: name, Kind: kind, Derivation: d, Doc: doc}
}

// validate checks the definition and returns its coerced default.
func (d Definition) validate() (any, error) {
	if _, err := values.NewFlagName(d.Name); err != nil {
		return nil, domain.NewConfigurationError(domain.AspectFlags, d.Name, "invalid flag name", err)
	}

	if d.Kind == KindEnum && len(d.Choices) == 0 {
		return nil, domain.NewConfigurationError(domain.AspectFlags, d.Name, "enum flag declares no choices", nil)
	}

	if d.IsDerived() {
		if d.Derivation.Expr == "" && d.Derivation.Func == nil {
			return nil, domain.NewConfigurationError(domain.AspectFlags, d.Name,
				"derivation needs an expression or a function", nil)
		}
		// A derivation without sources reads only the toolchain and target
		// facts.
		return nil, nil
	}

	v, err := coerce(d.Kind, d.Choices, d.Default)
	if err != nil {
		return nil, domain.NewConfigurationError(domain.AspectFlags, d.Name,
			fmt.Sprintf("default is not a valid %s", d.Kind), err)
	}
	return v, nil
}
