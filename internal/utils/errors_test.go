package utils_test

import (
	"errors"
	"testing"

	"github.com/scigolib/kbin/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesErrorsIs(t *testing.T) {
	sentinel := errors.New("boom")
	wrapped := utils.Wrap("decode: read root node", sentinel)

	assert.ErrorIs(t, wrapped, sentinel)
	assert.Contains(t, wrapped.Error(), "decode: read root node")
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestWrap_NilCauseReturnsNil(t *testing.T) {
	assert.NoError(t, utils.Wrap("anything", nil))
}
