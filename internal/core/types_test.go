package core_test

import (
	"testing"

	"github.com/scigolib/kbin/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByTag_ResolvesAliases(t *testing.T) {
	cases := []struct {
		alias    string
		wantTag  string
		wantKind core.Kind
	}{
		{"f", "float", core.KindFloat},
		{"d", "double", core.KindDouble},
		{"b", "bool", core.KindBool},
		{"string", "str", core.KindString},
		{"binary", "bin", core.KindBinary},
		{"vs32", "4s32", core.KindS32},
		{"vu32", "4u32", core.KindU32},
		{"vf", "4f", core.KindFloat},
	}
	for _, tt := range cases {
		t.Run(tt.alias, func(t *testing.T) {
			typ, err := core.ByTag(tt.alias)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, typ.Tag)
			assert.Equal(t, tt.wantKind, typ.Kind)
		})
	}
}

func TestByID_RoundTripsWithByTag(t *testing.T) {
	byTag, err := core.ByTag("u32")
	require.NoError(t, err)

	byID, err := core.ByID(byTag.ID)
	require.NoError(t, err)

	assert.Same(t, byTag, byID)
}

func TestByID_RejectsUnknown(t *testing.T) {
	_, err := core.ByID(47)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTypeUnknown)
}

func TestType_PayloadSize(t *testing.T) {
	u32, err := core.ByTag("u32")
	require.NoError(t, err)
	assert.Equal(t, 4, u32.PayloadSize())

	vs8, err := core.ByTag("vs8")
	require.NoError(t, err)
	assert.Equal(t, 16, vs8.PayloadSize())
}

func TestType_String(t *testing.T) {
	u8, err := core.ByTag("u8")
	require.NoError(t, err)
	assert.Contains(t, u8.String(), "u8")
}
