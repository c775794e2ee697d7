package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/reglet-dev/portcfg/internal/domain"
	"github.com/reglet-dev/portcfg/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr string
	}{
		{"empty", nil, map[string]any{}, ""},
		{"single", []string{"readline.history_size=100"}, map[string]any{"readline.history_size": "100"}, ""},
		{"trims spaces", []string{" a.b = x "}, map[string]any{"a.b": "x"}, ""},
		{"value may contain equals", []string{"sys.platform=a=b"}, map[string]any{"sys.platform": "a=b"}, ""},
		{"empty value", []string{"sys.platform="}, map[string]any{"sys.platform": ""}, ""},
		{"missing equals", []string{"readline.use"}, nil, "expected name=value"},
		{"missing name", []string{"=1"}, nil, "expected name=value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.pairs)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputOptions_BuildRequest(t *testing.T) {
	path := writeFile(t, "inputs.yaml", `
toolchain:
  compiler: msvc
  version: "19.29"
target:
  pointer_width: 64
overrides:
  readline.history_size: 20
`)

	t.Run("flags only", func(t *testing.T) {
		cmd := newResolveCmd()
		require.NoError(t, cmd.Flags().Parse([]string{"--compiler", "gcc", "--pointer-width", "32", "--large-file"}))
		opts := InputOptions{Compiler: "gcc", PointerWidth: 32, LargeFile: true}

		req, err := opts.BuildRequest(context.Background(), config.NewInputsLoader(), cmd.Flags())
		require.NoError(t, err)

		assert.Equal(t, "gcc", req.Toolchain.Compiler)
		assert.Equal(t, 32, req.Target.PointerWidth)
		assert.True(t, req.Target.LargeFileOffsets)
		assert.Equal(t, "flags", req.Metadata.Source)
		assert.NotEmpty(t, req.Metadata.RequestID)
	})

	t.Run("file with flag precedence", func(t *testing.T) {
		cmd := newResolveCmd()
		require.NoError(t, cmd.Flags().Parse([]string{"--compiler-version", "19.30", "--set", "readline.history_size=100"}))
		opts := InputOptions{
			InputsFile:      path,
			Compiler:        "",
			CompilerVersion: "19.30",
			Set:             []string{"readline.history_size=100"},
		}

		req, err := opts.BuildRequest(context.Background(), config.NewInputsLoader(), cmd.Flags())
		require.NoError(t, err)

		assert.Equal(t, "msvc", req.Toolchain.Compiler)
		assert.Equal(t, "19.30", req.Toolchain.Version)
		assert.Equal(t, 64, req.Target.PointerWidth)
		assert.Equal(t, "100", req.Overrides["readline.history_size"])
		assert.Equal(t, path, req.Metadata.Source)
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := newResolveCmd()
		opts := InputOptions{InputsFile: path + ".missing"}

		_, err := opts.BuildRequest(context.Background(), config.NewInputsLoader(), cmd.Flags())
		require.Error(t, err)
	})
}

func TestResolveCmd_Table(t *testing.T) {
	out, err := runCommand(t, newResolveCmd(),
		"--compiler", "msvc", "--compiler-version", "19.29", "--pointer-width", "64", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "msvc")
	assert.Contains(t, out, "llp64")
	assert.Contains(t, out, "Scheduler: enabled, idle quantum 1ms")
}

func TestResolveCmd_JSON(t *testing.T) {
	out, err := runCommand(t, newResolveCmd(),
		"--compiler", "gcc", "--pointer-width", "32", "--large-file", "--format", "json")
	require.NoError(t, err)

	var view struct {
		Platform struct {
			DataModel string `json:"data_model"`
			Offset    string `json:"offset"`
		} `json:"platform"`
		Fingerprint string `json:"fingerprint"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "ilp32", view.Platform.DataModel)
	assert.Contains(t, view.Platform.Offset, "64")
	assert.NotEmpty(t, view.Fingerprint)
}

func TestResolveCmd_Get(t *testing.T) {
	out, err := runCommand(t, newResolveCmd(),
		"--compiler", "mingw", "--pointer-width", "64",
		"--set", "readline.history_size=100",
		"--get", "readline.history_size,scheduler.enable")
	require.NoError(t, err)

	assert.Equal(t, "readline.history_size=100\nscheduler.enable=true\n", out)
}

func TestResolveCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, err error)
		wantErr string
	}{
		{
			name: "compiler below floor",
			args: []string{"--compiler", "msvc", "--compiler-version", "17.0", "--pointer-width", "32"},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsConfigurationError(err))
			},
		},
		{
			name: "undeclared query",
			args: []string{"--compiler", "gcc", "--pointer-width", "64", "--get", "no.such_flag"},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsDeclarationError(err))
			},
		},
		{
			name: "undeclared override",
			args: []string{"--compiler", "gcc", "--pointer-width", "64", "--set", "no.such_flag=1"},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsDeclarationError(err))
			},
		},
		{
			name:    "bad format",
			args:    []string{"--compiler", "gcc", "--pointer-width", "64", "--format", "sarif"},
			wantErr: "invalid format",
		},
		{
			name:    "missing compiler",
			args:    []string{"--pointer-width", "64"},
			wantErr: "compiler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, newResolveCmd(), tt.args...)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}
