package platform

import (
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
	"github.com/reglet-dev/portcfg/internal/domain/values"
)

// wordRule selects the machine-word types for one toolchain/architecture
// combination. Rules are tried in order, most specific first.
type wordRule struct {
	matches     func(tc *toolchain.Profile, t Target) bool
	name        string
	signed      string
	unsigned    string
	maxSpelling func(tc *toolchain.Profile) string
	// bits returns the word width the rule produces.
	bits func(t Target) int
}

func pointerBits(t Target) int { return t.PointerWidth }

var wordRules = []wordRule{
	{
		name: "gnu-lp64",
		matches: func(tc *toolchain.Profile, t Target) bool {
			return tc.IsGNU() && t.DataModel == values.LP64
		},
		signed:      "long",
		unsigned:    "unsigned long",
		maxSpelling: func(*toolchain.Profile) string { return "__INT64_MAX__" },
		bits:        pointerBits,
	},
	{
		name: "gnu-win64",
		matches: func(tc *toolchain.Profile, t Target) bool {
			return tc.IsGNU() && t.DataModel == values.LLP64
		},
		signed:      "__int64",
		unsigned:    "unsigned __int64",
		maxSpelling: func(*toolchain.Profile) string { return "__INT64_MAX__" },
		bits:        pointerBits,
	},
	{
		name: "msvc-win64",
		matches: func(tc *toolchain.Profile, t Target) bool {
			return tc.Compiler == toolchain.MSVC && t.DataModel == values.LLP64
		},
		signed:      "__int64",
		unsigned:    "unsigned __int64",
		maxSpelling: func(*toolchain.Profile) string { return "_I64_MAX" },
		bits:        pointerBits,
	},
	{
		// Fallback for targets where sizeof(int) == sizeof(void*). This is a
		// compatibility default for commodity 32-bit targets, not a general
		// guarantee, so the rule only applies when the data model says the
		// assumption holds.
		name: "int-is-pointer",
		matches: func(_ *toolchain.Profile, t Target) bool {
			return t.DataModel.IntBits() == t.PointerWidth
		},
		signed:   "int",
		unsigned: "unsigned int",
		maxSpelling: func(tc *toolchain.Profile) string {
			if tc.Compiler == toolchain.MSVC {
				return "_I32_MAX"
			}
			return "INT_MAX"
		},
		bits: func(t Target) int { return t.DataModel.IntBits() },
	},
}

// RuleNames returns the word-type rules in priority order.
func RuleNames() []string {
	names := make([]string, len(wordRules))
	for i, r := range wordRules {
		names[i] = r.name
	}
	return names
}
