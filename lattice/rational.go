package lattice

import "math/big"

// RatMatrix is a dense row-major matrix of exact rationals.
type RatMatrix [][]*big.Rat

// RatVector is a row vector of exact rationals.
type RatVector []*big.Rat

// ToRatVector lifts an integer vector into the rationals.
func ToRatVector(v Vector) RatVector {
	out := make(RatVector, len(v))
	for i, x := range v {
		out[i] = new(big.Rat).SetInt(x)
	}
	return out
}

// Inverse computes the exact inverse of m by Gauss-Jordan elimination over Q.
// It returns ErrSingular when m has no inverse.
func Inverse(m Matrix) (RatMatrix, error) {
	if !m.IsSquare() {
		return nil, ErrNotSquare
	}
	n := len(m)

	// Augmented [m | I]
	aug := make(RatMatrix, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]*big.Rat, 2*n)
		for j := 0; j < n; j++ {
			aug[i][j] = new(big.Rat).SetInt(m[i][j])
			aug[i][n+j] = new(big.Rat)
		}
		aug[i][n+i].SetInt64(1)
	}

	tmp := new(big.Rat)
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if aug[r][col].Sign() != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, ErrSingular
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		inv := new(big.Rat).Inv(aug[col][col])
		for j := col; j < 2*n; j++ {
			aug[col][j].Mul(aug[col][j], inv)
		}

		for r := 0; r < n; r++ {
			if r == col || aug[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(aug[r][col])
			for j := col; j < 2*n; j++ {
				tmp.Mul(factor, aug[col][j])
				aug[r][j].Sub(aug[r][j], tmp)
			}
		}
	}

	result := make(RatMatrix, n)
	for i := 0; i < n; i++ {
		result[i] = aug[i][n:]
	}
	return result, nil
}

// RatVecMul computes the row-vector product v * m over Q.
func RatVecMul(v RatVector, m RatMatrix) (RatVector, error) {
	if len(v) != len(m) {
		return nil, ErrDimensionMismatch
	}
	cols := 0
	if len(m) > 0 {
		cols = len(m[0])
	}
	result := make(RatVector, cols)
	for j := range result {
		result[j] = new(big.Rat)
	}

	tmp := new(big.Rat)
	for i, vi := range v {
		if len(m[i]) != cols {
			return nil, ErrDimensionMismatch
		}
		if vi.Sign() == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			tmp.Mul(vi, m[i][j])
			result[j].Add(result[j], tmp)
		}
	}
	return result, nil
}

// IntegerVector converts v back to integers, failing with ErrNonIntegral
// if any coordinate is not a whole number.
func IntegerVector(v RatVector) (Vector, error) {
	out := make(Vector, len(v))
	for i, x := range v {
		if !x.IsInt() {
			return nil, ErrNonIntegral
		}
		out[i] = new(big.Int).Set(x.Num())
	}
	return out, nil
}
