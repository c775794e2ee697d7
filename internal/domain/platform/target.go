// Package platform derives the machine-word, offset and time types of a
// build target from its toolchain profile and a few architecture facts.
package platform

import (
	"fmt"

	"github.com/reglet-dev/portcfg/internal/domain"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
	"github.com/reglet-dev/portcfg/internal/domain/values"
)

// Target holds the architecture facts supplied by the build.
type Target struct {
	DataModel        values.DataModel
	PointerWidth     int
	LargeFileOffsets bool
}

// normalize fills in an unset data model or pointer width and rejects
// contradictory combinations.
func (t Target) normalize(tc *toolchain.Profile) (Target, error) {
	if t.PointerWidth == 0 && t.DataModel == values.DataModelUnset {
		return t, domain.NewConfigurationError(domain.AspectPlatform, "",
			"pointer width or data model is required", nil)
	}

	if t.PointerWidth == 0 {
		t.PointerWidth = t.DataModel.PointerBits()
	}

	if t.PointerWidth != 32 && t.PointerWidth != 64 {
		return t, domain.NewConfigurationError(domain.AspectPlatform, fmt.Sprintf("%d-bit", t.PointerWidth),
			"unmatched architecture: pointer width must be 32 or 64", nil)
	}

	if t.DataModel == values.DataModelUnset {
		t.DataModel = inferDataModel(tc, t.PointerWidth)
	}

	if t.DataModel.PointerBits() != t.PointerWidth {
		return t, domain.NewConfigurationError(domain.AspectPlatform, t.DataModel.String(),
			fmt.Sprintf("unmatched architecture: data model has %d-bit pointers, target declares %d",
				t.DataModel.PointerBits(), t.PointerWidth), nil)
	}

	return t, nil
}

func inferDataModel(tc *toolchain.Profile, pointerWidth int) values.DataModel {
	if pointerWidth == 32 {
		return values.ILP32
	}
	// Both Windows toolchains target the LLP64 ABI.
	if tc.Compiler == toolchain.MSVC || tc.Compiler == toolchain.MinGW {
		return values.LLP64
	}
	return values.LP64
}
