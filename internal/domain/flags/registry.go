package flags

import (
	"fmt"
	"slices"
	"sort"

	"github.com/reglet-dev/portcfg/internal/domain"
)

type entry struct {
	def         Definition
	value       any
	override    any
	hasOverride bool
}

// Registry holds declared flags until they are resolved. It is meant to be
// populated and resolved by a single goroutine during startup.
type Registry struct {
	entries      map[string]*entry
	order        []string
	implications []Implication
	frozen       bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Declare adds flag definitions. Names must be unique.
func (r *Registry) Declare(defs ...Definition) error {
	if err := r.checkMutable("declare"); err != nil {
		return err
	}
	for _, d := range defs {
		if _, exists := r.entries[d.Name]; exists {
			return domain.NewConfigurationError(domain.AspectFlags, d.Name, "flag declared twice", nil)
		}
		v, err := d.validate()
		if err != nil {
			return err
		}
		d.Choices = slices.Clone(d.Choices)
		r.entries[d.Name] = &entry{def: d, value: v}
		r.order = append(r.order, d.Name)
	}
	return nil
}

// Imply registers implications checked at resolve time.
func (r *Registry) Imply(imps ...Implication) error {
	if err := r.checkMutable("add implications to"); err != nil {
		return err
	}
	r.implications = append(r.implications, imps...)
	return nil
}

// SetDefault replaces the compiled-in default of a non-derived flag.
func (r *Registry) SetDefault(name string, value any) error {
	e, err := r.mutableEntry(name, "default")
	if err != nil {
		return err
	}
	v, err := coerce(e.def.Kind, e.def.Choices, value)
	if err != nil {
		return domain.NewConfigurationError(domain.AspectFlags, name,
			fmt.Sprintf("default is not a valid %s", e.def.Kind), err)
	}
	e.value = v
	return nil
}

// ApplyOverride sets a caller-supplied value that wins over the default.
// Derived flags reject overrides.
func (r *Registry) ApplyOverride(name string, value any) error {
	e, err := r.mutableEntry(name, "override")
	if err != nil {
		return err
	}
	v, err := coerce(e.def.Kind, e.def.Choices, value)
	if err != nil {
		return domain.NewConfigurationError(domain.AspectFlags, name,
			fmt.Sprintf("override is not a valid %s", e.def.Kind), err)
	}
	e.override = v
	e.hasOverride = true
	return nil
}

// ApplyOverrides applies a set of overrides in name order and stops at the
// first failure.
func (r *Registry) ApplyOverrides(overrides map[string]any) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.ApplyOverride(name, overrides[name]); err != nil {
			return err
		}
	}
	return nil
}

// Definitions returns the declared flags in declaration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		d := r.entries[name].def
		d.Choices = slices.Clone(d.Choices)
		defs = append(defs, d)
	}
	return defs
}

// Implications returns the registered implications.
func (r *Registry) Implications() []Implication {
	return append([]Implication(nil), r.implications...)
}

// Resolve computes every derived flag, checks implications and freezes the
// registry. Calling Resolve again with the same facts yields an equal
// snapshot.
func (r *Registry) Resolve(facts Facts) (*Snapshot, error) {
	resolved := make(map[string]any, len(r.entries))
	sources := make(map[string]Source, len(r.entries))

	for name, e := range r.entries {
		if e.def.IsDerived() {
			continue
		}
		if e.hasOverride {
			resolved[name] = e.override
			sources[name] = SourceOverride
		} else {
			resolved[name] = e.value
			sources[name] = SourceDefault
		}
	}

	levels, err := derivationLevels(r.entries)
	if err != nil {
		return nil, err
	}

	for _, level := range levels {
		for _, name := range level {
			e := r.entries[name]
			env, err := e.def.Derivation.env(facts, resolved)
			if err != nil {
				return nil, domain.NewConfigurationError(domain.AspectFlags, name, "derivation failed", err)
			}
			out, err := e.def.Derivation.evaluate(env)
			if err != nil {
				return nil, domain.NewConfigurationError(domain.AspectFlags, name, "derivation failed", err)
			}
			v, err := coerce(e.def.Kind, e.def.Choices, out)
			if err != nil {
				return nil, domain.NewConfigurationError(domain.AspectFlags, name,
					fmt.Sprintf("derived value is not a valid %s", e.def.Kind), err)
			}
			resolved[name] = v
			sources[name] = SourceDerived
		}
	}

	if err := r.checkImplications(facts, resolved); err != nil {
		return nil, err
	}

	r.frozen = true

	defs := make(map[string]Definition, len(r.entries))
	for name, e := range r.entries {
		defs[name] = e.def
	}
	return newSnapshot(defs, resolved, sources), nil
}

func (r *Registry) checkImplications(facts Facts, resolved map[string]any) error {
	for _, imp := range r.implications {
		v, ok := resolved[imp.When]
		if !ok {
			return domain.NewConfigurationError(domain.AspectFlags, imp.When,
				"implication refers to an undeclared flag", nil)
		}
		if !truthy(v) {
			continue
		}

		out, err := evalExpr(imp.Require, newEnv(facts, resolved), true)
		if err != nil {
			return domain.NewConfigurationError(domain.AspectFlags, imp.When, "implication check failed", err)
		}
		if held, _ := out.(bool); !held {
			msg := imp.Message
			if msg == "" {
				msg = fmt.Sprintf("requires %s", imp.Require)
			}
			return domain.NewConfigurationError(domain.AspectFlags, imp.When, msg, nil)
		}
	}
	return nil
}

func (r *Registry) checkMutable(action string) error {
	if r.frozen {
		return domain.NewConfigurationError(domain.AspectFlags, "",
			fmt.Sprintf("cannot %s a resolved registry", action), nil)
	}
	return nil
}

func (r *Registry) mutableEntry(name, what string) (*entry, error) {
	if err := r.checkMutable("set a " + what + " on"); err != nil {
		return nil, err
	}
	e, ok := r.entries[name]
	if !ok {
		return nil, domain.NewDeclarationError(name, "")
	}
	if e.def.IsDerived() {
		return nil, domain.NewConfigurationError(domain.AspectFlags, name,
			fmt.Sprintf("derived flag does not accept an independent %s", what), nil)
	}
	return e, nil
}

// newEnv copies the resolved values so expressions cannot observe later
// mutation.
func newEnv(facts Facts, resolved map[string]any) Env {
	env := make(Env, len(facts)+1)
	for k, v := range facts {
		env[k] = v
	}
	vals := make(map[string]any, len(resolved))
	for k, v := range resolved {
		vals[k] = v
	}
	env["flags"] = vals
	return env
}

// sourceEnv is newEnv limited to the named flags.
func sourceEnv(facts Facts, resolved map[string]any, names []string) Env {
	env := make(Env, len(facts)+1)
	for k, v := range facts {
		env[k] = v
	}
	vals := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := resolved[name]; ok {
			vals[name] = v
		}
	}
	env["flags"] = vals
	return env
}
