package core_test

import (
	"io"
	"testing"

	"github.com/scigolib/kbin/internal/core"
	kbintesting "github.com/scigolib/kbin/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewReader_TruncatedSource exercises the reader against a source that
// stops mid-stream, the way a short network read or a half-written file
// would, without needing a real truncated fixture on disk.
func TestNewReader_TruncatedSource(t *testing.T) {
	full := []byte{
		core.Signature, 0x42, 0x80, 0x7F,
		0, 0, 0, 4,
		core.IDNodeEnd | core.ArrayMask, core.IDFileEnd | core.ArrayMask, 0, 0,
		0, 0, 0, 0,
	}

	truncated, readErr := io.ReadAll(kbintesting.NewTruncatingReader(full, 6))
	require.ErrorIs(t, readErr, io.ErrUnexpectedEOF)

	_, err := core.NewReader(truncated)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrHeaderInvalid)
}

func TestTruncatingReader_StopsAtLimit(t *testing.T) {
	r := kbintesting.NewTruncatingReader([]byte("hello world"), 5)
	data, err := io.ReadAll(r)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, []byte("hello"), data)
}

func TestErrReader_AlwaysFails(t *testing.T) {
	_, err := io.ReadAll(kbintesting.ErrReader{})
	require.Error(t, err)
}
