package flags

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/reglet-dev/portcfg/internal/domain"
)

// Source records where a resolved value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceOverride Source = "override"
	SourceDerived  Source = "derived"
)

// fingerprintNamespace scopes snapshot fingerprints.
var fingerprintNamespace = uuid.MustParse("6f1c3e0a-5c1d-4f7e-9a53-2d8b1f0c7e41")

// Entry is a resolved flag.
type Entry struct {
	Value   any      `json:"value" yaml:"value"`
	Name    string   `json:"name" yaml:"name"`
	Doc     string   `json:"doc,omitempty" yaml:"doc,omitempty"`
	Source  Source   `json:"source" yaml:"source"`
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Kind    Kind     `json:"kind" yaml:"kind"`
}

// Snapshot is the immutable result of resolving a Registry. It is safe for
// concurrent reads.
type Snapshot struct {
	entries     map[string]Entry
	names       []string
	fingerprint uuid.UUID
}

func newSnapshot(defs map[string]Definition, resolved map[string]any, sources map[string]Source) *Snapshot {
	s := &Snapshot{entries: make(map[string]Entry, len(resolved))}
	for name, v := range resolved {
		def := defs[name]
		s.entries[name] = Entry{
			Name:    name,
			Kind:    def.Kind,
			Value:   v,
			Source:  sources[name],
			Doc:     def.Doc,
			Choices: slices.Clone(def.Choices),
		}
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	s.fingerprint = s.computeFingerprint()
	return s
}

// Len returns the number of resolved flags.
func (s *Snapshot) Len() int {
	return len(s.names)
}

// Names returns all flag names in sorted order.
func (s *Snapshot) Names() []string {
	return append([]string(nil), s.names...)
}

// Entries returns all resolved flags in name order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.entries[name].clone())
	}
	return out
}

// Entry returns the resolved flag or a declaration error.
func (s *Snapshot) Entry(name string) (Entry, error) {
	e, ok := s.entries[name]
	if !ok {
		return Entry{}, domain.NewDeclarationError(name, "")
	}
	return e.clone(), nil
}

func (e Entry) clone() Entry {
	e.Choices = slices.Clone(e.Choices)
	return e
}

// Lookup returns the resolved value (bool, int64 or string).
func (s *Snapshot) Lookup(name string) (any, error) {
	e, err := s.Entry(name)
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

// Source returns where the flag's value came from.
func (s *Snapshot) Source(name string) (Source, error) {
	e, err := s.Entry(name)
	if err != nil {
		return "", err
	}
	return e.Source, nil
}

// GetBool returns a bool flag.
func (s *Snapshot) GetBool(name string) (bool, error) {
	e, err := s.typed(name, KindBool)
	if err != nil {
		return false, err
	}
	return e.Value.(bool), nil
}

// GetInt returns an integer flag.
func (s *Snapshot) GetInt(name string) (int64, error) {
	e, err := s.typed(name, KindInteger)
	if err != nil {
		return 0, err
	}
	return e.Value.(int64), nil
}

// GetString returns a string or enum flag.
func (s *Snapshot) GetString(name string) (string, error) {
	e, err := s.Entry(name)
	if err != nil {
		return "", err
	}
	if e.Kind != KindString && e.Kind != KindEnum {
		return "", domain.NewDeclarationError(name, fmt.Sprintf("declared as %s, not string", e.Kind))
	}
	return e.Value.(string), nil
}

// Enabled is GetBool for callers that treat a query error as disabled.
func (s *Snapshot) Enabled(name string) bool {
	v, err := s.GetBool(name)
	return err == nil && v
}

// Values returns a copy of all resolved values keyed by name.
func (s *Snapshot) Values() map[string]any {
	out := make(map[string]any, len(s.entries))
	for name, e := range s.entries {
		out[name] = e.Value
	}
	return out
}

// Fingerprint identifies the snapshot's contents. Snapshots with equal
// names, kinds and values share a fingerprint.
func (s *Snapshot) Fingerprint() uuid.UUID {
	return s.fingerprint
}

// Equal reports whether two snapshots resolved to the same values.
func (s *Snapshot) Equal(other *Snapshot) bool {
	return other != nil && s.fingerprint == other.fingerprint
}

func (s *Snapshot) typed(name string, kind Kind) (Entry, error) {
	e, err := s.Entry(name)
	if err != nil {
		return Entry{}, err
	}
	if e.Kind != kind {
		return Entry{}, domain.NewDeclarationError(name, fmt.Sprintf("declared as %s, not %s", e.Kind, kind))
	}
	return e, nil
}

// Canonical returns the stable text encoding the fingerprint is computed over.
func (s *Snapshot) Canonical() string {
	var b strings.Builder
	for _, name := range s.names {
		e := s.entries[name]
		fmt.Fprintf(&b, "%s\x00%s\x00%v\n", name, e.Kind, e.Value)
	}
	return b.String()
}

func (s *Snapshot) computeFingerprint() uuid.UUID {
	return uuid.NewSHA1(fingerprintNamespace, []byte(s.Canonical()))
}
