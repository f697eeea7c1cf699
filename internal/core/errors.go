package core

import "errors"

// Sentinel error kinds identifying the category of a decode/encode
// failure. Callers match against these with errors.Is; the top-level
// package wraps them with utils.Wrap to attach the phase that failed.
var (
	ErrHeaderInvalid     = errors.New("header invalid")
	ErrTruncated         = errors.New("truncated buffer")
	ErrAlignment         = errors.New("alignment failure")
	ErrTypeUnknown       = errors.New("unknown type")
	ErrSizeMismatch      = errors.New("size mismatch")
	ErrEncodingFailure   = errors.New("encoding failure")
	ErrSixbitCharInvalid = errors.New("invalid sixbit character")
	ErrTextParse         = errors.New("text parse failure")
	ErrHexParse          = errors.New("invalid hex text")
	ErrStateInvalid      = errors.New("invalid node definition state")
	ErrIoFailure         = errors.New("i/o failure")
)
