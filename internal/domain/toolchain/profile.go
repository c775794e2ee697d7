package toolchain

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/portcfg/internal/domain"
)

// Profile is the resolved, read-only description of the active compiler.
type Profile struct {
	keywords map[Keyword]string
	version  *semver.Version
	Compiler ID
	Family   Family
}

// Version returns the compiler version, or nil when none was supplied.
func (p *Profile) Version() *semver.Version {
	return p.version
}

// VersionString returns "major.minor" or "" when the version is unknown.
func (p *Profile) VersionString() string {
	if p.version == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", p.version.Major(), p.version.Minor())
}

// Major returns the major version, 0 when unknown.
func (p *Profile) Major() int {
	if p.version == nil {
		return 0
	}
	return int(p.version.Major())
}

// Minor returns the minor version, 0 when unknown.
func (p *Profile) Minor() int {
	if p.version == nil {
		return 0
	}
	return int(p.version.Minor())
}

// IsGNU reports whether the compiler belongs to the GNU family.
func (p *Profile) IsGNU() bool {
	return p.Family == FamilyGNU
}

// Satisfies reports whether the compiler version meets a semver constraint.
// An unknown version never satisfies a constraint.
func (p *Profile) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	if p.version == nil {
		return false, nil
	}
	return c.Check(p.version), nil
}

// Spelling returns the concrete spelling of a logical keyword. An unmapped
// keyword is a configuration error.
func (p *Profile) Spelling(k Keyword) (string, error) {
	s, ok := p.keywords[k]
	if !ok {
		return "", domain.NewConfigurationError(domain.AspectToolchain, string(p.Compiler),
			fmt.Sprintf("keyword %q has no mapping", k), nil)
	}
	return s, nil
}

// Keywords returns a copy of the keyword map.
func (p *Profile) Keywords() map[Keyword]string {
	out := make(map[Keyword]string, len(p.keywords))
	for k, v := range p.keywords {
		out[k] = v
	}
	return out
}

// Dialect returns the family-specific keyword interface.
func (p *Profile) Dialect() Dialect {
	if p.Family == FamilyGNU {
		return gnuDialect{keywords: p.keywords}
	}
	return vendorDialect{keywords: p.keywords}
}
