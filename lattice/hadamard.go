package lattice

import (
	"math"
	"math/big"
)

// FloatPrec is the big.Float precision, in bits, used for row norms.
const FloatPrec = 256

// HadamardRatio measures how orthogonal the rows of basis are:
//
//	(det(B) / ∏ ||b_i||)^(1/n)
//
// Values close to 1 mean a nearly orthogonal basis, values close to 0 a
// heavily skewed one. The determinant is exact; norms are taken in big.Float.
//
// The signed determinant is used, not its absolute value. When the quotient is
// negative the ratio is reported as 0 rather than taking a fractional power of
// a negative number. A singular basis also scores 0.
func HadamardRatio(basis Matrix) (float64, error) {
	if !basis.IsSquare() {
		return 0, ErrNotSquare
	}
	n := len(basis)
	if n == 0 {
		return 0, ErrDimensionMismatch
	}

	det, err := Determinant(basis)
	if err != nil {
		return 0, err
	}
	if det.Sign() == 0 {
		return 0, nil
	}

	mult := new(big.Float).SetPrec(FloatPrec).SetInt64(1)
	sumSq := new(big.Int)
	sq := new(big.Int)
	for _, row := range basis {
		sumSq.SetInt64(0)
		for _, v := range row {
			sq.Mul(v, v)
			sumSq.Add(sumSq, sq)
		}
		norm := new(big.Float).SetPrec(FloatPrec).SetInt(sumSq)
		norm.Sqrt(norm)
		mult.Mul(mult, norm)
	}

	quotient := new(big.Float).SetPrec(FloatPrec).SetInt(det)
	quotient.Quo(quotient, mult)

	// cannot take the n-th root of a negative quotient
	if quotient.Sign() < 0 {
		return 0, nil
	}

	return nthRoot(quotient, n), nil
}

// nthRoot returns x^(1/n) for x > 0. x is split as mant * 2^exp so that
// quotients far outside the float64 range keep their magnitude.
func nthRoot(x *big.Float, n int) float64 {
	mant := new(big.Float)
	exp := x.MantExp(mant)
	m, _ := mant.Float64()
	log2 := math.Log2(m) + float64(exp)
	return math.Exp2(log2 / float64(n))
}
