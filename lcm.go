package pulsesim

import (
	"math/bits"

	"github.com/pkg/errors"
)

// ErrOverflow is returned when a result does not fit in 64 bits.
//
var ErrOverflow = errors.New("uint64 overflow")

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errors.Wrapf(ErrOverflow, "%d * %d", a, b)
	}
	return lo, nil
}

// LCM returns the least common multiple of a and b. LCM(0, x) is 0.
//
func LCM(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	return mul(a/gcd(a, b), b)
}
