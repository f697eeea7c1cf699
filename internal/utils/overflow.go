package utils

import (
	"fmt"
	"math"
)

// CheckMultiplyOverflow reports whether a*b would overflow a uint64.
func CheckMultiplyOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}
	if a > math.MaxUint64/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds uint64 max", a, b)
	}
	return nil
}

// SafeMultiply multiplies two uint64 values, erroring instead of wrapping on overflow.
func SafeMultiply(a, b uint64) (uint64, error) {
	if err := CheckMultiplyOverflow(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// ValidateBufferSize reports an error if size exceeds maxSize (zero is
// accepted); used to bound byte lengths read from an untrusted length
// prefix before reading or allocating for them.
func ValidateBufferSize(size, maxSize uint64, description string) error {
	if size > maxSize {
		return fmt.Errorf("%s: size %d exceeds maximum %d", description, size, maxSize)
	}
	return nil
}

// MaxPayloadSize bounds any single length-prefixed payload (string,
// attribute, binary or array) read from the data buffer. kbin files are
// small arcade-game configuration trees; this is generous headroom against
// a corrupt or adversarial length prefix causing a huge allocation.
const MaxPayloadSize = 256 * 1024 * 1024
