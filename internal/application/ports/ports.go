// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"time"

	"github.com/reglet-dev/portcfg/internal/application/dto"
)

// InputsLoader loads build inputs from storage.
type InputsLoader interface {
	Load(ctx context.Context, path string) (*dto.ResolveRequest, error)
}

// RequestValidator checks build inputs before resolution.
type RequestValidator interface {
	ValidateRequest(req *dto.ResolveRequest) error
}

// HostScheduler abstracts the host's blocking sleep primitive.
type HostScheduler interface {
	// Sleep suspends the calling thread.
	Sleep(d time.Duration)
	// Granularity is the shortest sleep that actually blocks.
	Granularity() time.Duration
}

// ConfigurationFormatter renders a resolved configuration.
type ConfigurationFormatter interface {
	Format(view dto.ConfigurationView) error
}

// MatrixFormatter renders a matrix run.
type MatrixFormatter interface {
	FormatMatrix(resp *dto.MatrixResponse) error
}

// CatalogFormatter renders the declared flag catalog.
type CatalogFormatter interface {
	FormatCatalog(flags []dto.FlagView) error
}
