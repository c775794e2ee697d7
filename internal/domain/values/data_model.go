package values

import (
	"fmt"
	"strings"
)

// DataModel is the C data model of the target: the widths of int, long and
// pointers.
type DataModel string

const (
	// DataModelUnset means the model is inferred from pointer width and toolchain.
	DataModelUnset DataModel = ""
	// ILP32 has 32-bit int, long and pointers.
	ILP32 DataModel = "ilp32"
	// LP64 has 32-bit int and 64-bit long and pointers (Unix-like 64-bit).
	LP64 DataModel = "lp64"
	// LLP64 has 32-bit int and long with 64-bit pointers (Windows 64-bit).
	LLP64 DataModel = "llp64"
)

// NewDataModel parses a data model name. The empty string is accepted and
// means "infer".
func NewDataModel(s string) (DataModel, error) {
	switch dm := DataModel(strings.ToLower(strings.TrimSpace(s))); dm {
	case DataModelUnset, ILP32, LP64, LLP64:
		return dm, nil
	default:
		return DataModelUnset, fmt.Errorf("invalid data model: %s (valid: ilp32, lp64, llp64)", s)
	}
}

// PointerBits returns the pointer width implied by the model, or 0 if unset.
func (d DataModel) PointerBits() int {
	switch d {
	case ILP32:
		return 32
	case LP64, LLP64:
		return 64
	default:
		return 0
	}
}

// IntBits returns the width of C int. All supported models use 32 bits.
func (d DataModel) IntBits() int {
	if d == DataModelUnset {
		return 0
	}
	return 32
}

// LongBits returns the width of C long.
func (d DataModel) LongBits() int {
	switch d {
	case LP64:
		return 64
	case ILP32, LLP64:
		return 32
	default:
		return 0
	}
}

// String returns the string representation
func (d DataModel) String() string {
	return string(d)
}
