package services

import (
	"context"
	"testing"

	"github.com/reglet-dev/portcfg/internal/application/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_AllCombinations(t *testing.T) {
	uc := NewMatrixUseCase(newUseCase(), nil, nil)

	resp, err := uc.Execute(context.Background(), dto.MatrixRequest{MaxConcurrent: 4})
	require.NoError(t, err)

	// 4 compilers × 6 targets; msvc cannot target lp64.
	require.Len(t, resp.Cases, 24)
	assert.Equal(t, 22, resp.Resolved)
	assert.Equal(t, 2, resp.Failed)

	for _, c := range resp.Cases {
		if c.Compiler == "msvc" && c.DataModel == "lp64" {
			assert.False(t, c.OK())
			assert.Contains(t, c.Error, "unmatched architecture")
			continue
		}
		assert.True(t, c.OK(), "%s/%s: %s", c.Compiler, c.DataModel, c.Error)
		assert.NotEmpty(t, c.Fingerprint)
	}

	assert.Equal(t, "clang", resp.Cases[0].Compiler, "cases keep compiler order")
}

func TestMatrix_SelectedCompilersAndVersions(t *testing.T) {
	uc := NewMatrixUseCase(newUseCase(), nil, nil)

	resp, err := uc.Execute(context.Background(), dto.MatrixRequest{
		Compilers: []string{"msvc"},
		Versions:  map[string]string{"msvc": "17.0"},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Cases, 6)
	assert.Equal(t, 6, resp.Failed)
	for _, c := range resp.Cases {
		assert.Contains(t, c.Error, "msvc")
	}
}

func TestMatrix_CompilerAliases(t *testing.T) {
	tests := []struct {
		name        string
		compilers   []string
		versions    map[string]string
		wantVersion string
		wantFailed  int
	}{
		{"alias gets the default version", []string{"cl"}, nil, "19.29", 2},
		{"mixed case alias", []string{" CL "}, nil, "19.29", 2},
		{"version keyed by canonical id", []string{"cl"}, map[string]string{"msvc": "17.0"}, "17.0", 6},
		{"version keyed by alias", []string{"cl"}, map[string]string{"cl": "19.10"}, "19.10", 2},
		{"unknown compiler", []string{"tcc"}, nil, "", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewMatrixUseCase(newUseCase(), nil, nil)
			resp, err := uc.Execute(context.Background(), dto.MatrixRequest{
				Compilers: tt.compilers,
				Versions:  tt.versions,
			})
			require.NoError(t, err)

			require.Len(t, resp.Cases, 6)
			assert.Equal(t, tt.wantFailed, resp.Failed)
			for _, c := range resp.Cases {
				assert.Equal(t, tt.wantVersion, c.Version)
			}
		})
	}
}

func TestMatrix_OverridesApplyToEveryCase(t *testing.T) {
	uc := NewMatrixUseCase(newUseCase(), nil, nil)

	resp, err := uc.Execute(context.Background(), dto.MatrixRequest{
		Compilers: []string{"gcc"},
		Overrides: map[string]any{"exceptions.emergency_buf_size": 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Failed)
}

func TestMatrix_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMatrixUseCase(newUseCase(), nil, nil).Execute(ctx, dto.MatrixRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
