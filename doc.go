/*
Package ntt implements the number-theoretic transform over prime fields of up to
63 bits, and fast exact convolution built on it.

A Plan holds the twiddle and bit-reversal tables for one size 2^log and one
prime p = 1 (mod 2^log), plus a scratch buffer. Convolving a and b is

	plan.Forward(fa, fa)
	plan.Forward(fb, fb)
	plan.PointwiseMul(fa, fa, fb)
	plan.Inverse(fa, fa)

with fa and fb zero-padded to the plan size. Convolver does this for
arbitrary lengths, and PlanCache shares tables between sizes and goroutines.
*/
package ntt
