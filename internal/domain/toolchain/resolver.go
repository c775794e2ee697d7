package toolchain

import (
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/portcfg/internal/domain"
)

// Input identifies the active compiler.
type Input struct {
	Compiler string
	// Version is "major.minor[.patch]". For msvc the _MSC_VER form ("1800")
	// is accepted as well.
	Version string
}

// Resolver turns an Input into a Profile using a compiler table.
type Resolver struct {
	specs   map[ID]CompilerSpec
	aliases map[string]ID
}

// NewResolver creates a resolver over the given compiler table.
func NewResolver(specs ...CompilerSpec) *Resolver {
	r := &Resolver{
		specs:   make(map[ID]CompilerSpec, len(specs)),
		aliases: make(map[string]ID),
	}
	for _, s := range specs {
		r.specs[s.ID] = s
		r.aliases[normalizeID(string(s.ID))] = s.ID
		for _, a := range s.Aliases {
			r.aliases[normalizeID(a)] = s.ID
		}
	}
	return r
}

// DefaultResolver returns a resolver over DefaultCompilers.
func DefaultResolver() *Resolver {
	return NewResolver(DefaultCompilers()...)
}

// Resolve resolves in against the default compiler table.
func Resolve(in Input) (*Profile, error) {
	return DefaultResolver().Resolve(in)
}

// Compilers returns the supported compiler IDs in name order.
func (r *Resolver) Compilers() []ID {
	return sortedIDs(r.specs)
}

// Canonical maps a compiler token or alias to its ID.
func (r *Resolver) Canonical(token string) (ID, bool) {
	id, ok := r.aliases[normalizeID(token)]
	return id, ok
}

// Resolve produces a Profile or a configuration error naming the compiler.
func (r *Resolver) Resolve(in Input) (*Profile, error) {
	token := normalizeID(in.Compiler)
	if token == "" {
		return nil, domain.NewConfigurationError(domain.AspectToolchain, "",
			"compiler identity is required", nil)
	}

	id, ok := r.Canonical(token)
	if !ok {
		return nil, domain.NewConfigurationError(domain.AspectToolchain, token,
			fmt.Sprintf("unsupported compiler (supported: %v)", r.Compilers()), nil)
	}
	spec := r.specs[id]

	var version *semver.Version
	if in.Version != "" {
		v, err := parseVersion(id, in.Version)
		if err != nil {
			return nil, domain.NewConfigurationError(domain.AspectToolchain, string(id),
				fmt.Sprintf("invalid version %q", in.Version), err)
		}
		version = v
	}

	if spec.Floor != "" {
		if err := checkFloor(id, spec.Floor, version); err != nil {
			return nil, err
		}
	}

	keywords := make(map[Keyword]string, len(spec.Keywords))
	for k, v := range spec.Keywords {
		keywords[k] = v
	}
	for _, k := range RequiredKeywords {
		if _, ok := keywords[k]; !ok {
			return nil, domain.NewConfigurationError(domain.AspectToolchain, string(id),
				fmt.Sprintf("keyword %q has no mapping", k), nil)
		}
	}

	return &Profile{
		Compiler: id,
		Family:   spec.Family,
		version:  version,
		keywords: keywords,
	}, nil
}

func checkFloor(id ID, floor string, version *semver.Version) error {
	constraint, err := semver.NewConstraint(floor)
	if err != nil {
		return domain.NewConfigurationError(domain.AspectToolchain, string(id),
			fmt.Sprintf("invalid version floor %q", floor), err)
	}
	if version == nil {
		return domain.NewConfigurationError(domain.AspectToolchain, string(id),
			fmt.Sprintf("version is required (must satisfy %s)", floor), nil)
	}
	if !constraint.Check(version) {
		return domain.NewConfigurationError(domain.AspectToolchain, string(id),
			fmt.Sprintf("version %s does not satisfy %s", version.Original(), floor), nil)
	}
	return nil
}

// parseVersion accepts semver-ish strings and, for msvc, the four-digit
// _MSC_VER form.
func parseVersion(id ID, raw string) (*semver.Version, error) {
	if id == MSVC && len(raw) == 4 {
		if n, err := strconv.Atoi(raw); err == nil {
			return semver.NewVersion(fmt.Sprintf("%d.%d", n/100, n%100))
		}
	}
	return semver.NewVersion(raw)
}
