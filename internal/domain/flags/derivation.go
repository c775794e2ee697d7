package flags

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Facts are the non-flag inputs visible to derivations and implications,
// usually {"toolchain": {...}, "target": {...}}.
type Facts map[string]any

// Env is the evaluation environment of a derivation: the facts plus the
// values of its source flags under "flags".
type Env map[string]any

// Flag returns a resolved flag value from the environment.
func (e Env) Flag(name string) any {
	if vals, ok := e["flags"].(map[string]any); ok {
		return vals[name]
	}
	return nil
}

// DeriveFunc computes a derived value from the environment.
type DeriveFunc func(env Env) (any, error)

// Derivation computes a flag from its source flags. Exactly one of Expr and
// Func is used; Expr wins when both are set.
type Derivation struct {
	Func DeriveFunc
	// Expr is an expr-lang expression over the Env, e.g.
	// `flags["math.special_functions"]` or
	// `toolchain.id == "msvc" && satisfies(toolchain.version, "<= 18.0")`.
	Expr    string
	Sources []string
}

// FromExpr derives a flag from an expression over sources. With no sources
// the expression may read only facts.
func FromExpr(expression string, sources ...string) *Derivation {
	return &Derivation{Expr: expression, Sources: sources}
}

// FromFunc derives a flag with a Go function over sources.
func FromFunc(fn DeriveFunc, sources ...string) *Derivation {
	return &Derivation{Func: fn, Sources: sources}
}

// SameAs mirrors another flag's resolved value.
func SameAs(source string) *Derivation {
	return FromExpr(fmt.Sprintf("flags[%q]", source), source)
}

// String describes the derivation: its expression, or the Go function and
// its sources.
func (d *Derivation) String() string {
	if d.Expr != "" {
		return d.Expr
	}
	return fmt.Sprintf("func(%s)", strings.Join(d.Sources, ", "))
}

// env builds the evaluation environment of d. Only the declared sources are
// visible under "flags", and an expression that names any other flag is
// rejected.
func (d *Derivation) env(facts Facts, resolved map[string]any) (Env, error) {
	if d.Expr != "" {
		refs, err := flagReferences(d.Expr)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			if !slices.Contains(d.Sources, ref) {
				return nil, fmt.Errorf("expression %q reads flag %q outside its sources %v", d.Expr, ref, d.Sources)
			}
		}
	}
	return sourceEnv(facts, resolved, d.Sources), nil
}

func (d *Derivation) evaluate(env Env) (any, error) {
	if d.Expr != "" {
		return evalExpr(d.Expr, env, false)
	}
	return d.Func(env)
}

// flagReferences returns the flag names an expression reads as
// flags["name"] or flags.name. Any other use of flags is an error since its
// reads cannot be checked.
func flagReferences(expression string) ([]string, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}

	v := &flagVisitor{literal: make(map[*ast.IdentifierNode]bool)}
	ast.Walk(&tree.Node, v)
	for _, ok := range v.literal {
		if !ok {
			return nil, fmt.Errorf("expression %q must index flags by a literal name", expression)
		}
	}
	return v.names, nil
}

type flagVisitor struct {
	literal map[*ast.IdentifierNode]bool
	names   []string
}

// Visit runs after a node's children, so the flags identifier is recorded
// before the member access that indexes it.
func (v *flagVisitor) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if n.Value == "flags" {
			v.literal[n] = false
		}
	case *ast.MemberNode:
		id, ok := n.Node.(*ast.IdentifierNode)
		if !ok || id.Value != "flags" {
			return
		}
		if s, ok := n.Property.(*ast.StringNode); ok {
			v.literal[id] = true
			v.names = append(v.names, s.Value)
		}
	}
}

// exprOptions are shared by derivations and implications.
func exprOptions(env Env, asBool bool) []expr.Option {
	opts := []expr.Option{
		expr.Env(map[string]any(env)),
		expr.Function("satisfies", satisfies, new(func(string, string) bool)),
	}
	if asBool {
		opts = append(opts, expr.AsBool())
	}
	return opts
}

func evalExpr(expression string, env Env, asBool bool) (any, error) {
	program, err := expr.Compile(expression, exprOptions(env, asBool)...)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}
	out, err := expr.Run(program, map[string]any(env))
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", expression, err)
	}
	return out, nil
}

// satisfies(version, constraint) reports whether a version string meets a
// semver constraint. An empty version never does.
func satisfies(params ...any) (any, error) {
	version, _ := params[0].(string)
	constraint, _ := params[1].(string)
	if version == "" {
		return false, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("satisfies: invalid version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("satisfies: invalid constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}
