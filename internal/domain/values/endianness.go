package values

// Endianness is the byte order of the target.
type Endianness int

const (
	// LittleEndian stores the least significant byte first.
	LittleEndian Endianness = iota
	// BigEndian stores the most significant byte first.
	BigEndian
)

// String returns the string representation
func (e Endianness) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// MarshalText implements encoding.TextMarshaler
func (e Endianness) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}
