package flags

import (
	"fmt"
	"sort"

	"github.com/reglet-dev/portcfg/internal/domain"
)

// derivationLevels orders derived flags with Kahn's algorithm so every flag
// is evaluated after the derived flags it reads. Flags within a level are
// sorted by name for deterministic evaluation.
func derivationLevels(entries map[string]*entry) ([][]string, error) {
	inDegree := make(map[string]int)
	dependents := make(map[string][]string)

	for name, e := range entries {
		if !e.def.IsDerived() {
			continue
		}
		inDegree[name] = 0
	}

	for name := range inDegree {
		for _, src := range entries[name].def.Derivation.Sources {
			srcEntry, ok := entries[src]
			if !ok {
				return nil, domain.NewConfigurationError(domain.AspectFlags, name,
					fmt.Sprintf("derived from undeclared flag %q", src), nil)
			}
			if srcEntry.def.IsDerived() {
				inDegree[name]++
				dependents[src] = append(dependents[src], name)
			}
		}
	}

	var levels [][]string

	for len(inDegree) > 0 {
		var current []string
		for name, deg := range inDegree {
			if deg == 0 {
				current = append(current, name)
			}
		}

		// No progress made → cycle detected
		if len(current) == 0 {
			var remaining []string
			for name := range inDegree {
				remaining = append(remaining, name)
			}
			sort.Strings(remaining)
			return nil, domain.NewConfigurationError(domain.AspectFlags, remaining[0],
				fmt.Sprintf("circular derivation among flags: %v", remaining), nil)
		}

		sort.Strings(current)
		levels = append(levels, current)

		for _, name := range current {
			delete(inDegree, name)
			for _, dep := range dependents[name] {
				inDegree[dep]--
			}
		}
	}

	return levels, nil
}
