package kbin_test

import (
	"testing"

	"github.com/scigolib/kbin"
	"github.com/scigolib/kbin/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleTree(t *testing.T) *kbin.Node {
	t.Helper()

	root := kbin.NewNode("stage")
	root.SetAttr("version", "2")

	s32, err := core.ByTag("s32")
	require.NoError(t, err)
	v, err := core.FromString(s32, false, 0, "42")
	require.NoError(t, err)

	child := kbin.NewValueNode("level", v)
	root.AppendChild(child)

	str := kbin.NewValueNode("name", core.NewString("hello"))
	root.AppendChild(str)

	return root
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	root := buildSampleTree(t)

	for _, opts := range []kbin.Options{
		{Compression: core.Compressed, Encoding: core.EncodingShiftJIS},
		{Compression: core.Uncompressed, Encoding: core.EncodingUTF8},
	} {
		t.Run(opts.Encoding.String(), func(t *testing.T) {
			data, err := kbin.Encode(root, opts)
			require.NoError(t, err)
			assert.Equal(t, core.Signature, data[0])

			decoded, err := kbin.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, "stage", decoded.Key())

			version, ok := decoded.Attr("version")
			require.True(t, ok)
			assert.Equal(t, "2", version)

			level := decoded.GetChild("level")
			require.NotNil(t, level)
			assert.Equal(t, "42", level.Value().ToString())

			name := decoded.GetChild("name")
			require.NotNil(t, name)
			assert.Equal(t, "hello", name.Value().Text())

			reencoded, err := kbin.Encode(decoded, opts)
			require.NoError(t, err)
			assert.Equal(t, data, reencoded)
		})
	}
}

func TestNode_Pointer(t *testing.T) {
	root := buildSampleTree(t)
	assert.Same(t, root.GetChild("level"), root.Pointer([]string{"level"}))
	assert.Same(t, root.GetChild("level"), root.Pointer([]string{"0"}))
	assert.Nil(t, root.Pointer([]string{"nope"}))
}

func TestDecode_RejectsTruncatedInput(t *testing.T) {
	_, err := kbin.Decode([]byte{core.Signature, 0x42})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrHeaderInvalid)
}
