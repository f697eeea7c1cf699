package core_test

import (
	"testing"

	"github.com/scigolib/kbin/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_BytesRoundTrip_Scalar(t *testing.T) {
	tag := "s32"
	typ, err := core.ByTag(tag)
	require.NoError(t, err)

	v, err := core.FromBytes(typ, false, []byte{0xFF, 0xFF, 0xFF, 0xFB}, core.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "-5", v.ToString())

	out, err := v.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFB}, out)
}

func TestValue_BytesRoundTrip_Array(t *testing.T) {
	typ, err := core.ByTag("u16")
	require.NoError(t, err)

	data := []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03}
	v, err := core.FromBytes(typ, true, data, core.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())

	out, err := v.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestValue_BytesRoundTrip_Tuple(t *testing.T) {
	typ, err := core.ByTag("3f")
	require.NoError(t, err)

	v := mustFromString(t, typ, false, 0, "1.500000 -2.250000 0.000000")
	bytes1, err := v.ToBytes()
	require.NoError(t, err)

	v2, err := core.FromBytes(typ, false, bytes1, core.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "1.500000 -2.250000 0.000000", v2.ToString())
}

func mustFromString(t *testing.T, typ *core.Type, isArray bool, count int, text string) *core.Value {
	t.Helper()
	v, err := core.FromString(typ, isArray, count, text)
	require.NoError(t, err)
	return v
}

func TestValue_FromString_ToString_RoundTrip(t *testing.T) {
	cases := []struct {
		tag  string
		text string
	}{
		{"s8", "-12"},
		{"u32", "4000000000"},
		{"bool", "1"},
		{"float", "3.140000"},
		{"ip4", "192.168.1.1"},
	}
	for _, tt := range cases {
		t.Run(tt.tag, func(t *testing.T) {
			typ, err := core.ByTag(tt.tag)
			require.NoError(t, err)

			v, err := core.FromString(typ, false, 0, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.text, v.ToString())
		})
	}
}

func TestValue_FromString_HexPrefix(t *testing.T) {
	typ, err := core.ByTag("u32")
	require.NoError(t, err)

	v, err := core.FromString(typ, false, 0, "0xFF")
	require.NoError(t, err)
	assert.Equal(t, "255", v.ToString())
}

func TestValue_FromString_ArrayCountMismatch(t *testing.T) {
	typ, err := core.ByTag("u8")
	require.NoError(t, err)

	_, err = core.FromString(typ, true, 3, "1 2")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTextParse)
}

func TestValue_Binary_RoundTrip(t *testing.T) {
	v := core.NewBinary([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	assert.Equal(t, "deadbeef", v.ToString())

	typ, err := core.ByTag("bin")
	require.NoError(t, err)
	v2, err := core.FromString(typ, false, 0, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, v2.Binary())
}

func TestValue_FromBytes_RejectsBadSize(t *testing.T) {
	typ, err := core.ByTag("s32")
	require.NoError(t, err)

	_, err = core.FromBytes(typ, false, []byte{0x01, 0x02}, core.EncodingUTF8)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSizeMismatch)
}
