package values

import (
	"fmt"
	"math"
)

// IntType describes a C integer type as seen by the runtime: its spelling in
// generated code, its width and signedness.
type IntType struct {
	Spelling string `json:"spelling" yaml:"spelling"`
	Bits     int    `json:"bits" yaml:"bits"`
	Signed   bool   `json:"signed" yaml:"signed"`
}

// NewIntType creates an IntType. Width must be 8, 16, 32 or 64.
func NewIntType(spelling string, bits int, signed bool) (IntType, error) {
	switch bits {
	case 8, 16, 32, 64:
	default:
		return IntType{}, fmt.Errorf("unsupported integer width %d for %s", bits, spelling)
	}
	return IntType{Spelling: spelling, Bits: bits, Signed: signed}, nil
}

// MustNewIntType creates an IntType or panics
func MustNewIntType(spelling string, bits int, signed bool) IntType {
	t, err := NewIntType(spelling, bits, signed)
	if err != nil {
		panic(err)
	}
	return t
}

// MaxSigned returns the largest value representable by the signed type of
// the same width.
func (t IntType) MaxSigned() int64 {
	if t.Bits >= 64 {
		return math.MaxInt64
	}
	return int64(1)<<(t.Bits-1) - 1
}

// Unsigned returns the unsigned counterpart of t with the given spelling.
func (t IntType) Unsigned(spelling string) IntType {
	return IntType{Spelling: spelling, Bits: t.Bits, Signed: false}
}

// String returns e.g. "long (int64)"
func (t IntType) String() string {
	prefix := "int"
	if !t.Signed {
		prefix = "uint"
	}
	return fmt.Sprintf("%s (%s%d)", t.Spelling, prefix, t.Bits)
}
