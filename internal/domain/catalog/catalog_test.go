package catalog

import (
	"testing"

	"github.com/reglet-dev/portcfg/internal/domain"
	"github.com/reglet-dev/portcfg/internal/domain/flags"
	"github.com/reglet-dev/portcfg/internal/domain/platform"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveCatalog(t *testing.T, compiler, version string, width int, overrides map[string]any) (*flags.Snapshot, error) {
	t.Helper()
	tc, err := toolchain.Resolve(toolchain.Input{Compiler: compiler, Version: version})
	require.NoError(t, err)
	p, err := platform.Resolve(tc, platform.Target{PointerWidth: width})
	require.NoError(t, err)

	r, err := NewRegistry()
	require.NoError(t, err)
	if err := r.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return r.Resolve(Facts(tc, p))
}

func TestCatalog_Defaults(t *testing.T) {
	snap, err := resolveCatalog(t, "gcc", "13.2", 64, nil)
	require.NoError(t, err)

	n, err := snap.GetInt("os.path_max")
	require.NoError(t, err)
	assert.Equal(t, int64(260), n)

	s, err := snap.GetString(SysPlatform)
	require.NoError(t, err)
	assert.Equal(t, "win32", s)

	s, err = snap.GetString("float.impl")
	require.NoError(t, err)
	assert.Equal(t, "double", s)

	s, err = snap.GetString("error.reporting")
	require.NoError(t, err)
	assert.Equal(t, "detailed", s)

	q, err := snap.GetInt(SchedulerQuantum)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), q)

	assert.True(t, snap.Enabled(SchedulerEnable))
	assert.True(t, snap.Enabled("math.isclose"))
	assert.False(t, snap.Enabled("emit.x64"))
	assert.Equal(t, len(Definitions()), snap.Len())
}

func TestCatalog_ToolchainDerivedFlags(t *testing.T) {
	tests := []struct {
		name     string
		compiler string
		version  string
		width    int
		want     map[string]any
	}{
		{
			name: "msvc 2013 64-bit", compiler: "msvc", version: "18.0", width: 64,
			want: map[string]any{
				"gc.regs_setjmp":        true,
				"printf.internal":       false,
				"math.atan2_fix_infnan": true,
				"math.fmod_fix_infnan":  true,
				"math.modf_fix_negzero": true,
				"math.pow_fix_nan":      false,
				"port.data_section":     "upydata",
				"port.bss_section":      "upybss",
			},
		},
		{
			name: "msvc 2013 32-bit", compiler: "msvc", version: "1800", width: 32,
			want: map[string]any{
				"math.modf_fix_negzero": false,
				"math.pow_fix_nan":      true,
			},
		},
		{
			name: "msvc 2019", compiler: "msvc", version: "19.29", width: 64,
			want: map[string]any{
				"gc.regs_setjmp":        true,
				"math.atan2_fix_infnan": false,
				"math.modf_fix_negzero": false,
				"port.data_section":     "upydata",
				"port.constants":        "{ MP_ROM_QSTR(MP_QSTR_dummy), MP_ROM_PTR(NULL) }",
			},
		},
		{
			name: "mingw", compiler: "mingw", version: "12.2", width: 64,
			want: map[string]any{
				"gc.regs_setjmp":        false,
				"printf.internal":       true,
				"math.atan2_fix_infnan": false,
				"port.data_section":     "",
				"port.bss_section":      "",
				"port.constants":        "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := resolveCatalog(t, tt.compiler, tt.version, tt.width, nil)
			require.NoError(t, err)
			for name, want := range tt.want {
				got, err := snap.Lookup(name)
				require.NoError(t, err)
				assert.Equal(t, want, got, name)
			}
		})
	}
}

func TestCatalog_PortHooks(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"port.init_func", "init()"},
		{"port.deinit_func", "deinit()"},
		{"port.hal_header", "windows_mphal.h"},
		{"debug.printer", "&mp_stderr_print"},
		{"error.printer", "&mp_stderr_print"},
		{"os.include_file", "ports/unix/moduos.c"},
		{"machine.mem_get_read_addr", "mod_machine_mem_get_addr"},
		{"machine.mem_get_write_addr", "mod_machine_mem_get_addr"},
	}

	snap, err := resolveCatalog(t, "msvc", "19.29", 64, nil)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := snap.GetString(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("overridable", func(t *testing.T) {
		snap, err := resolveCatalog(t, "gcc", "", 64, map[string]any{"port.hal_header": "unix_mphal.h"})
		require.NoError(t, err)
		got, err := snap.GetString("port.hal_header")
		require.NoError(t, err)
		assert.Equal(t, "unix_mphal.h", got)
	})
}

func TestCatalog_OverridePropagates(t *testing.T) {
	snap, err := resolveCatalog(t, "gcc", "", 64, map[string]any{
		"math.special_functions": false,
		PathMax:                  4096,
	})
	require.NoError(t, err)

	assert.False(t, snap.Enabled("math.isclose"))
	n, err := snap.GetInt("os.path_max")
	require.NoError(t, err)
	assert.Equal(t, int64(4096), n)
}

func TestCatalog_Implications(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		subject   string
	}{
		{"zero emergency buffer", map[string]any{"exceptions.emergency_buf_size": 0}, "exceptions.emergency_buf"},
		{"history without readline", map[string]any{"readline.use": false}, "readline.history"},
		{"empty history", map[string]any{"readline.history_size": 0}, "readline.history"},
		{"strict without stackless", map[string]any{"stackless.strict": true}, "stackless.strict"},
		{"zero quantum", map[string]any{SchedulerQuantum: 0}, SchedulerEnable},
		{"crc32 without binascii", map[string]any{"module.binascii": false}, "module.binascii_crc32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveCatalog(t, "clang", "17.0", 64, tt.overrides)
			require.Error(t, err)
			assert.True(t, domain.IsConfigurationError(err))
			assert.Contains(t, err.Error(), tt.subject)
		})
	}
}

func TestCatalog_ImplicationsSatisfiedWhenDisabled(t *testing.T) {
	_, err := resolveCatalog(t, "gcc", "", 64, map[string]any{
		"exceptions.emergency_buf":      false,
		"exceptions.emergency_buf_size": 0,
		"scheduler.enable":              false,
		SchedulerQuantum:                0,
	})
	assert.NoError(t, err)
}

func TestCatalog_DerivedFlagsRejectOverrides(t *testing.T) {
	_, err := resolveCatalog(t, "msvc", "19.0", 64, map[string]any{"math.atan2_fix_infnan": true})
	assert.True(t, domain.IsConfigurationError(err))
}

func TestFacts_ZeroValuesWithoutProfiles(t *testing.T) {
	facts := Facts(nil, nil)
	require.Contains(t, facts, "toolchain")
	require.Contains(t, facts, "target")

	r, err := NewRegistry()
	require.NoError(t, err)
	snap, err := r.Resolve(facts)
	require.NoError(t, err)
	assert.True(t, snap.Enabled("printf.internal"))
}
