package values

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewDataModel(t *testing.T) {
	tests := []struct {
		input   string
		want    DataModel
		wantErr bool
	}{
		{"", DataModelUnset, false},
		{"ilp32", ILP32, false},
		{"LP64", LP64, false},
		{" llp64 ", LLP64, false},
		{"ilp64", DataModelUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dm, err := NewDataModel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, dm)
		})
	}
}

func Test_DataModel_Widths(t *testing.T) {
	tests := []struct {
		model   DataModel
		pointer int
		integer int
		long    int
	}{
		{ILP32, 32, 32, 32},
		{LP64, 64, 32, 64},
		{LLP64, 64, 32, 32},
		{DataModelUnset, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.model), func(t *testing.T) {
			assert.Equal(t, tt.pointer, tt.model.PointerBits())
			assert.Equal(t, tt.integer, tt.model.IntBits())
			assert.Equal(t, tt.long, tt.model.LongBits())
		})
	}
}

func Test_IntType(t *testing.T) {
	i32 := MustNewIntType("int", 32, true)
	assert.Equal(t, int64(math.MaxInt32), i32.MaxSigned())
	assert.Equal(t, "int (int32)", i32.String())

	i64 := MustNewIntType("__int64", 64, true)
	assert.Equal(t, int64(math.MaxInt64), i64.MaxSigned())

	u64 := i64.Unsigned("unsigned __int64")
	assert.False(t, u64.Signed)
	assert.Equal(t, 64, u64.Bits)
	assert.Equal(t, "unsigned __int64 (uint64)", u64.String())

	_, err := NewIntType("weird", 24, true)
	assert.Error(t, err)
}

func Test_Endianness_Text(t *testing.T) {
	tests := []struct {
		e    Endianness
		want string
	}{
		{LittleEndian, "little"},
		{BigEndian, "big"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.e.String())
			text, err := tt.e.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(text))
		})
	}
}
