package values

import (
	"fmt"
	"regexp"
	"strings"
)

// Flag names are lowercase dotted paths, e.g. "readline.history_size".
var flagNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z0-9_]+)*$`)

// FlagName identifies a capability flag.
// Enforces non-empty, lowercase, dot-separated identifiers.
type FlagName struct {
	value string
}

// NewFlagName creates a FlagName with validation
func NewFlagName(name string) (FlagName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FlagName{}, fmt.Errorf("flag name cannot be empty")
	}
	if !flagNamePattern.MatchString(name) {
		return FlagName{}, fmt.Errorf("flag name %q is invalid (must be lowercase dotted identifiers)", name)
	}
	return FlagName{value: name}, nil
}

// String returns the string representation
func (f FlagName) String() string {
	return f.value
}
