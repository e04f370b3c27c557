package field

import "errors"

var ErrNotInvertible = errors.New("value is not invertible modulo m")

// InverseMod returns a^-1 (mod m) using the extended Euclidean algorithm.
// Unlike PrimeField.Inverse it does not need m to be prime, only gcd(a, m) = 1.
func InverseMod(a, m uint64) (uint64, error) {
	if m == 0 {
		return 0, ErrNotInvertible
	}

	if m == 1 {
		return 0, nil
	}

	// Invariants:
	//   r0 = s0*a (mod m)
	//   r1 = s1*a (mod m)
	// the coefficients are kept reduced mod m, so no signed arithmetic is needed.
	r0, r1 := m, a%m
	s0, s1 := uint64(0), uint64(1)
	for r1 != 0 {
		q := r0 / r1
		r0, r1 = r1, r0-q*r1
		s0, s1 = s1, SubMod(s0, MulMod(q%m, s1, m), m)
	}

	if r0 != 1 {
		return 0, ErrNotInvertible
	}

	return s0, nil
}
