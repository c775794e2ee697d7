package services

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/portcfg/internal/application/dto"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
	"golang.org/x/sync/errgroup"
)

// MatrixUseCase resolves every compiler × architecture combination. Each
// combination owns its own registry and snapshot, so they run in parallel.
type MatrixUseCase struct {
	resolve    *ResolveConfigUseCase
	toolchains *toolchain.Resolver
	logger     *slog.Logger
}

// NewMatrixUseCase creates a new matrix use case.
func NewMatrixUseCase(resolve *ResolveConfigUseCase, toolchains *toolchain.Resolver, logger *slog.Logger) *MatrixUseCase {
	if toolchains == nil {
		toolchains = toolchain.DefaultResolver()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MatrixUseCase{resolve: resolve, toolchains: toolchains, logger: logger}
}

// Execute resolves all combinations. Configuration errors are recorded per
// case; only context cancellation fails the run.
func (uc *MatrixUseCase) Execute(ctx context.Context, req dto.MatrixRequest) (*dto.MatrixResponse, error) {
	cases := uc.expand(req)

	g, gCtx := errgroup.WithContext(ctx)
	if req.MaxConcurrent > 0 {
		g.SetLimit(req.MaxConcurrent)
	}

	for i := range cases {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			uc.run(gCtx, &cases[i], req.Overrides)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.MatrixResponse{Cases: cases}
	for _, c := range cases {
		if c.OK() {
			resp.Resolved++
		} else {
			resp.Failed++
		}
	}

	uc.logger.Info("matrix resolved", "cases", len(cases), "resolved", resp.Resolved, "failed", resp.Failed)
	return resp, nil
}

func (uc *MatrixUseCase) run(ctx context.Context, c *dto.MatrixCase, overrides map[string]any) {
	resp, err := uc.resolve.Execute(ctx, dto.ResolveRequest{
		Toolchain: dto.ToolchainInput{Compiler: c.Compiler, Version: c.Version},
		Target: dto.TargetInput{
			PointerWidth:     c.PointerWidth,
			DataModel:        c.DataModel,
			LargeFileOffsets: c.LargeFile,
		},
		Overrides: copyOverrides(overrides),
	})
	if err != nil {
		c.Err = err
		c.Error = err.Error()
		uc.logger.Debug("matrix case failed", "compiler", c.Compiler, "data_model", c.DataModel, "error", err)
		return
	}

	p := resp.Configuration.Platform()
	c.Rule = p.Rule
	c.SignedWord = p.SignedWord.Spelling
	c.Offset = p.Offset.String()
	c.Fingerprint = resp.Configuration.Fingerprint().String()
}

// expand lists cases in compiler, then target order.
func (uc *MatrixUseCase) expand(req dto.MatrixRequest) []dto.MatrixCase {
	compilers := req.Compilers
	if len(compilers) == 0 {
		for _, id := range uc.toolchains.Compilers() {
			compilers = append(compilers, string(id))
		}
	}

	var cases []dto.MatrixCase
	for _, compiler := range compilers {
		version := uc.version(req.Versions, compiler)
		for _, t := range dto.DefaultMatrixTargets() {
			cases = append(cases, dto.MatrixCase{
				Compiler:     compiler,
				Version:      version,
				PointerWidth: t.PointerWidth,
				DataModel:    t.DataModel,
				LargeFile:    t.LargeFile,
			})
		}
	}
	return cases
}

// version looks up a compiler's version by the token as given, then by its
// canonical ID, then in DefaultMatrixVersions.
func (uc *MatrixUseCase) version(versions map[string]string, compiler string) string {
	if v, ok := versions[compiler]; ok {
		return v
	}
	id, ok := uc.toolchains.Canonical(compiler)
	if !ok {
		return ""
	}
	if v, ok := versions[string(id)]; ok {
		return v
	}
	return dto.DefaultMatrixVersions[string(id)]
}

func copyOverrides(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
