// Package toolchain resolves the active compiler into a ToolchainProfile:
// its identity, version and the spellings of the low-level keywords the
// runtime needs (no-return, inlining control, weak symbols, branch hints).
package toolchain

import (
	"sort"
	"strings"
)

// ID identifies a supported compiler.
type ID string

const (
	GCC   ID = "gcc"
	Clang ID = "clang"
	MinGW ID = "mingw"
	MSVC  ID = "msvc"
)

// Family groups compilers that share keyword semantics.
type Family string

const (
	// FamilyGNU maps keywords to __attribute__ and __builtin_* spellings.
	FamilyGNU Family = "gnu"
	// FamilyVendor maps keywords to vendor declspecs, or to nothing where the
	// compiler has no equivalent.
	FamilyVendor Family = "vendor"
)

// CompilerSpec declares how a compiler is resolved.
type CompilerSpec struct {
	Keywords map[Keyword]string
	ID       ID
	Family   Family
	// Floor is a semver constraint the version must satisfy, e.g. ">= 18.0".
	// When set, a version is mandatory.
	Floor string
	// Aliases are alternative identifying tokens ("cl" for msvc).
	Aliases []string
}

// MSVCFloor is the oldest supported Visual Studio toolset (VS2013, _MSC_VER 1800).
const MSVCFloor = ">= 18.0"

// MSVCLegacyMath matches the toolsets whose C runtime math functions need
// patching (_MSC_VER <= 1800).
const MSVCLegacyMath = "<= 18.0"

var gnuKeywords = map[Keyword]string{
	KeywordNoReturn:     "__attribute__((noreturn))",
	KeywordWeak:         "__attribute__((weak))",
	KeywordNoInline:     "__attribute__((noinline))",
	KeywordAlwaysInline: "inline __attribute__((always_inline))",
	KeywordLikely:       "__builtin_expect((x), 1)",
	KeywordUnlikely:     "__builtin_expect((x), 0)",
	KeywordRestrict:     "restrict",
	KeywordInline:       "inline",
	KeywordAlignOf:      "_Alignof",
}

var msvcKeywords = map[Keyword]string{
	KeywordNoReturn:     "__declspec(noreturn)",
	KeywordWeak:         "",
	KeywordNoInline:     "__declspec(noinline)",
	KeywordAlwaysInline: "__forceinline",
	KeywordLikely:       "(x)",
	KeywordUnlikely:     "(x)",
	KeywordRestrict:     "",
	KeywordInline:       "__inline",
	KeywordAlignOf:      "__alignof",
}

// DefaultCompilers returns the built-in compiler table.
func DefaultCompilers() []CompilerSpec {
	return []CompilerSpec{
		{ID: GCC, Family: FamilyGNU, Keywords: gnuKeywords, Aliases: []string{"cc", "gnu"}},
		{ID: Clang, Family: FamilyGNU, Keywords: gnuKeywords},
		{ID: MinGW, Family: FamilyGNU, Keywords: gnuKeywords, Aliases: []string{"mingw32", "mingw64"}},
		{ID: MSVC, Family: FamilyVendor, Keywords: msvcKeywords, Floor: MSVCFloor, Aliases: []string{"cl"}},
	}
}

func normalizeID(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

func sortedIDs(specs map[ID]CompilerSpec) []ID {
	ids := make([]ID, 0, len(specs))
	for id := range specs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
