package flags

import (
	"errors"
	"testing"

	"github.com/reglet-dev/portcfg/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Declare(
		Bool("math.special_functions", true, "math special functions"),
		Derived("math.isclose", KindBool, FromExpr(`flags["math.special_functions"]`, "math.special_functions"), "math.isclose"),
		Derived("math.isclose_doc", KindString, FromFunc(func(env Env) (any, error) {
			if env.Flag("math.isclose") == true {
				return "isclose available", nil
			}
			return "", nil
		}, "math.isclose"), "depends on another derived flag"),
		Int("alloc.path_max", 260, "maximum path length"),
		Derived("os.path_max", KindInteger, SameAs("alloc.path_max"), "mirrors alloc.path_max"),
		Enum("float.impl", "double", []string{"none", "float", "double"}, "float implementation"),
		String("sys.platform", "win32", "sys.platform value"),
		Bool("exceptions.emergency_buf", true, "emergency exception buffer"),
		Int("exceptions.emergency_buf_size", 256, "emergency buffer size"),
	))
	require.NoError(t, r.Imply(Implies("exceptions.emergency_buf",
		`flags["exceptions.emergency_buf_size"] > 0`,
		"emergency exception buffer needs a non-zero size")))
	return r
}

func TestRegistry_ResolveDefaults(t *testing.T) {
	snap, err := newTestRegistry(t).Resolve(nil)
	require.NoError(t, err)

	b, err := snap.GetBool("math.isclose")
	require.NoError(t, err)
	assert.True(t, b)

	n, err := snap.GetInt("os.path_max")
	require.NoError(t, err)
	assert.Equal(t, int64(260), n)

	s, err := snap.GetString("float.impl")
	require.NoError(t, err)
	assert.Equal(t, "double", s)

	src, err := snap.Source("alloc.path_max")
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, src)

	src, err = snap.Source("os.path_max")
	require.NoError(t, err)
	assert.Equal(t, SourceDerived, src)
}

func TestRegistry_OverridePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		value any
		want  any
	}{
		{"bool", "math.special_functions", false, false},
		{"bool from string", "math.special_functions", "0", false},
		{"integer", "alloc.path_max", 4096, int64(4096)},
		{"integer from string", "alloc.path_max", "1024", int64(1024)},
		{"enum", "float.impl", "float", "float"},
		{"string", "sys.platform", "linux", "linux"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			require.NoError(t, r.ApplyOverride(tt.flag, tt.value))

			snap, err := r.Resolve(nil)
			require.NoError(t, err)

			got, err := snap.Lookup(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			src, err := snap.Source(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, SourceOverride, src)
		})
	}
}

func TestRegistry_OverrideBeatsSetDefault(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.ApplyOverride("alloc.path_max", 512))
	require.NoError(t, r.SetDefault("alloc.path_max", 1024))

	snap, err := r.Resolve(nil)
	require.NoError(t, err)
	n, err := snap.GetInt("alloc.path_max")
	require.NoError(t, err)
	assert.Equal(t, int64(512), n)
}

func TestRegistry_SetDefault(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.SetDefault("alloc.path_max", 1024))

	snap, err := r.Resolve(nil)
	require.NoError(t, err)
	n, err := snap.GetInt("os.path_max")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), n)

	src, err := snap.Source("alloc.path_max")
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, src)
}

func TestRegistry_DerivationPropagatesOverrides(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.ApplyOverride("math.special_functions", false))

	snap, err := r.Resolve(nil)
	require.NoError(t, err)

	isclose, err := snap.GetBool("math.isclose")
	require.NoError(t, err)
	assert.False(t, isclose)

	// Transitive: isclose_doc reads the derived isclose.
	doc, err := snap.GetString("math.isclose_doc")
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestRegistry_DerivedRejectsOverrideAndDefault(t *testing.T) {
	r := newTestRegistry(t)

	err := r.ApplyOverride("math.isclose", false)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "math.isclose", ce.Subject)

	err = r.SetDefault("os.path_max", 10)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestRegistry_UndeclaredOverride(t *testing.T) {
	r := newTestRegistry(t)
	err := r.ApplyOverride("no.such.flag", true)

	var de *domain.DeclarationError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "no.such.flag", de.Name)
}

func TestRegistry_InvalidOverrideValue(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		value any
	}{
		{"enum outside choices", "float.impl", "quad"},
		{"integer from text", "alloc.path_max", "lots"},
		{"bool from text", "math.special_functions", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestRegistry(t).ApplyOverride(tt.flag, tt.value)
			assert.True(t, domain.IsConfigurationError(err))
			assert.Contains(t, err.Error(), tt.flag)
		})
	}
}

func TestRegistry_ApplyOverrides_StopsAtFirstError(t *testing.T) {
	r := newTestRegistry(t)
	err := r.ApplyOverrides(map[string]any{
		"alloc.path_max": 100,
		"zzz.unknown":    1,
	})
	assert.True(t, domain.IsDeclarationError(err))
}

func TestRegistry_ImplicationViolated(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.ApplyOverride("exceptions.emergency_buf_size", 0))

	_, err := r.Resolve(nil)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "exceptions.emergency_buf", ce.Subject)
	assert.Contains(t, err.Error(), "non-zero size")
	assert.False(t, r.frozen, "failed resolution leaves the registry open")
}

func TestRegistry_ImplicationSkippedWhenDisabled(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.ApplyOverride("exceptions.emergency_buf", false))
	require.NoError(t, r.ApplyOverride("exceptions.emergency_buf_size", 0))

	_, err := r.Resolve(nil)
	assert.NoError(t, err)
}

func TestRegistry_ImplicationOnUndeclaredFlag(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Imply(Implies("ghost", "true", "")))

	_, err := r.Resolve(nil)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestRegistry_FreezesAfterResolve(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Resolve(nil)
	require.NoError(t, err)
	assert.True(t, r.frozen)

	assert.Error(t, r.ApplyOverride("alloc.path_max", 1))
	assert.Error(t, r.SetDefault("alloc.path_max", 1))
	assert.Error(t, r.Declare(Bool("late.flag", true, "")))
	assert.Error(t, r.Imply(Implies("alloc.path_max", "true", "")))
}

func TestRegistry_ResolveIsIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.ApplyOverride("alloc.path_max", 777))

	first, err := r.Resolve(Facts{"toolchain": map[string]any{"id": "gcc"}})
	require.NoError(t, err)
	second, err := r.Resolve(Facts{"toolchain": map[string]any{"id": "gcc"}})
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Canonical(), second.Canonical())
	assert.Equal(t, first.Values(), second.Values())
}

func TestRegistry_DeclareErrors(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"bad name", Bool("Bad Name", true, "")},
		{"enum without choices", Definition{Name: "e.x", Kind: KindEnum, Default: "a"}},
		{"enum default outside choices", Enum("e.y", "c", []string{"a", "b"}, "")},
		{"integer default not numeric", Definition{Name: "n.x", Kind: KindInteger, Default: "ten"}},
		{"derivation without body", Derived("d.y", KindBool, &Derivation{Sources: []string{"a"}}, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Declare(tt.def)
			assert.True(t, domain.IsConfigurationError(err), "got %v", err)
		})
	}
}

func TestRegistry_DuplicateDeclaration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Declare(Bool("gc.enable", true, "")))
	assert.True(t, domain.IsConfigurationError(r.Declare(Bool("gc.enable", false, ""))))
}

func TestRegistry_DerivationErrors(t *testing.T) {
	t.Run("undeclared source", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Declare(Derived("a.b", KindBool, SameAs("missing"), "")))
		_, err := r.Resolve(nil)
		assert.True(t, domain.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("cycle", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Declare(
			Derived("cycle.a", KindBool, SameAs("cycle.b"), ""),
			Derived("cycle.b", KindBool, SameAs("cycle.a"), ""),
		))
		_, err := r.Resolve(nil)
		assert.True(t, domain.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "circular")
	})

	t.Run("expression does not compile", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Declare(
			Bool("src.a", true, ""),
			Derived("bad.expr", KindBool, FromExpr(`flags[`, "src.a"), ""),
		))
		_, err := r.Resolve(nil)
		assert.True(t, domain.IsConfigurationError(err))
	})

	t.Run("result has the wrong kind", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Declare(
			Bool("src.a", true, ""),
			Derived("bad.kind", KindInteger, FromExpr(`"not a number"`, "src.a"), ""),
		))
		_, err := r.Resolve(nil)
		assert.True(t, domain.IsConfigurationError(err))
	})
}

func TestRegistry_DerivationReadsOnlyItsSources(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		sources []string
		wantErr string
	}{
		{"undeclared derived flag", `flags["z.mid"]`, []string{"src.a"}, `reads flag "z.mid"`},
		{"undeclared plain flag", `flags["src.a"] && flags["src.b"]`, []string{"src.a"}, `reads flag "src.b"`},
		{"dot access", `flags.other`, []string{"src.a"}, `reads flag "other"`},
		{"computed name", `flags["src." + "a"]`, []string{"src.a"}, "literal name"},
		{"whole map", `len(flags) > 0`, []string{"src.a"}, "literal name"},
		{"declared sources", `flags["src.a"] && flags["z.mid"]`, []string{"src.a", "z.mid"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			require.NoError(t, r.Declare(
				Bool("src.a", true, ""),
				Bool("src.b", true, ""),
				Derived("z.mid", KindBool, SameAs("src.a"), ""),
				Derived("a.top", KindBool, FromExpr(tt.expr, tt.sources...), ""),
			))

			snap, err := r.Resolve(nil)
			if tt.wantErr != "" {
				var ce *domain.ConfigurationError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, domain.AspectFlags, ce.Aspect)
				assert.Equal(t, "a.top", ce.Subject)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			top, err := snap.GetBool("a.top")
			require.NoError(t, err)
			assert.True(t, top)
		})
	}
}

func TestRegistry_FuncDerivationSeesOnlySources(t *testing.T) {
	r := NewRegistry()
	var seen Env
	require.NoError(t, r.Declare(
		Bool("src.a", true, ""),
		Bool("src.b", false, ""),
		Derived("a.top", KindBool, FromFunc(func(env Env) (any, error) {
			seen = env
			return env.Flag("src.a"), nil
		}, "src.a"), ""),
	))

	_, err := r.Resolve(Facts{"toolchain": map[string]any{"id": "msvc"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"src.a": true}, seen["flags"])
	assert.Nil(t, seen.Flag("src.b"))
	assert.NotNil(t, seen["toolchain"])
}

func TestRegistry_FactsAndSatisfies(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Declare(
		Bool("gc.enable", true, ""),
		Derived("math.fix", KindBool, FromExpr(
			`toolchain.id == "msvc" && satisfies(toolchain.version, "<= 18.0")`, "gc.enable"), ""),
		Derived("section.data", KindString, FromExpr(
			`toolchain.id == "msvc" ? "upydata" : ""`, "gc.enable"), ""),
	))

	tests := []struct {
		name    string
		id      string
		version string
		wantFix bool
		wantSec string
	}{
		{"old msvc", "msvc", "18.0", true, "upydata"},
		{"new msvc", "msvc", "19.29", false, "upydata"},
		{"gcc without version", "gcc", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := r.Resolve(Facts{"toolchain": map[string]any{"id": tt.id, "version": tt.version}})
			require.NoError(t, err)
			fix, err := snap.GetBool("math.fix")
			require.NoError(t, err)
			assert.Equal(t, tt.wantFix, fix)
			sec, err := snap.GetString("section.data")
			require.NoError(t, err)
			assert.Equal(t, tt.wantSec, sec)
		})
	}
}

func TestRegistry_DefinitionsKeepOrder(t *testing.T) {
	defs := newTestRegistry(t).Definitions()
	require.NotEmpty(t, defs)
	assert.Equal(t, "math.special_functions", defs[0].Name)
	assert.Equal(t, "math.isclose", defs[1].Name)
	assert.True(t, defs[1].IsDerived())
}

func TestRegistry_FactOnlyDerivation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Declare(
		Derived("port.data_section", KindString, FromExpr(`target.win64 == true ? "upydata64" : "upydata"`), ""),
	))

	snap, err := r.Resolve(Facts{"target": map[string]any{"win64": true}})
	require.NoError(t, err)
	s, err := snap.GetString("port.data_section")
	require.NoError(t, err)
	assert.Equal(t, "upydata64", s)
}
