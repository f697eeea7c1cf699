package core_test

import (
	"testing"

	"github.com/scigolib/kbin/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoding_ByteRoundTrip(t *testing.T) {
	encodings := []core.Encoding{
		core.EncodingNone, core.EncodingASCII, core.EncodingISO88591,
		core.EncodingEUCJP, core.EncodingShiftJIS, core.EncodingUTF8,
	}
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			got, err := core.EncodingFromByte(enc.Byte())
			require.NoError(t, err)
			assert.Equal(t, enc, got)
		})
	}
}

func TestEncoding_FromByte_Rejects(t *testing.T) {
	_, err := core.EncodingFromByte(0x99)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrHeaderInvalid)
}

func TestEncoding_EncodeAppendsTrailingNUL(t *testing.T) {
	out, err := core.EncodingUTF8.Encode("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc\x00"), out)
}

func TestEncoding_DecodeEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		enc  core.Encoding
		text string
	}{
		{core.EncodingUTF8, "hello world"},
		{core.EncodingASCII, "plain_key"},
		{core.EncodingShiftJIS, "stage01"},
	}
	for _, tt := range cases {
		t.Run(tt.enc.String(), func(t *testing.T) {
			encoded, err := tt.enc.Encode(tt.text)
			require.NoError(t, err)

			decoded, err := tt.enc.Decode(core.StripTrailingNULs(encoded))
			require.NoError(t, err)
			assert.Equal(t, tt.text, decoded)
		})
	}
}

func TestEncoding_ASCII_RejectsHighBytes(t *testing.T) {
	_, err := core.EncodingASCII.Encode("café")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEncodingFailure)
}

func TestStripTrailingNULs(t *testing.T) {
	assert.Equal(t, []byte("abc"), core.StripTrailingNULs([]byte("abc\x00")))
	assert.Equal(t, []byte("abc"), core.StripTrailingNULs([]byte("abc\x00\x00\x00")))
	assert.Equal(t, []byte{}, core.StripTrailingNULs([]byte{0x00}))
	assert.Equal(t, []byte{}, core.StripTrailingNULs([]byte{}))
}

func TestEncodingFromLabel(t *testing.T) {
	cases := map[string]core.Encoding{
		"":           core.EncodingNone,
		"UTF-8":      core.EncodingUTF8,
		"utf8":       core.EncodingUTF8,
		"SHIFT-JIS":  core.EncodingShiftJIS,
		"EUC-JP":     core.EncodingEUCJP,
		"ISO-8859-1": core.EncodingISO88591,
		"ASCII":      core.EncodingASCII,
	}
	for label, want := range cases {
		got, err := core.EncodingFromLabel(label)
		require.NoError(t, err)
		assert.Equal(t, want, got, "label %q", label)
	}

	_, err := core.EncodingFromLabel("bogus")
	require.Error(t, err)
}
