package lattice

import (
	"errors"
	"fmt"
	"io"

	"github.com/BackendStack21/ggh-go/utils"
)

// SampleUnimodular draws a random n x n integer matrix with determinant +1 or -1.
//
// The matrix is the product Tu * Tl of an upper-triangular and a
// lower-triangular matrix that share the same random ±1 diagonal. Off-diagonal
// entries of both factors are uniform in [-bound, bound]. Since
// det(Tu) = det(Tl) = ∏ diag, the product is unimodular by construction and no
// determinant is evaluated here.
func SampleUnimodular(n int, bound int64, rng io.Reader) (Matrix, error) {
	upper, lower, err := SampleTriangularPair(n, bound, rng)
	if err != nil {
		return nil, err
	}
	return Mul(upper, lower)
}

// SampleTriangularPair returns the two triangular factors used by SampleUnimodular.
func SampleTriangularPair(n int, bound int64, rng io.Reader) (upper, lower Matrix, err error) {
	if n < 1 {
		return nil, nil, errors.New("dimension must be positive")
	}
	if bound < 0 {
		return nil, nil, errors.New("entry bound must be non-negative")
	}

	upper = NewMatrix(n, n)
	lower = NewMatrix(n, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case j > i:
				v, err := utils.UniformInt64(rng, -bound, bound)
				if err != nil {
					return nil, nil, fmt.Errorf("sample upper entry: %w", err)
				}
				upper[i][j].SetInt64(v)
			case j == i:
				d, err := utils.RandomSign(rng)
				if err != nil {
					return nil, nil, fmt.Errorf("sample diagonal: %w", err)
				}
				upper[i][j].SetInt64(d)
				lower[i][j].SetInt64(d)
			default:
				v, err := utils.UniformInt64(rng, -bound, bound)
				if err != nil {
					return nil, nil, fmt.Errorf("sample lower entry: %w", err)
				}
				lower[i][j].SetInt64(v)
			}
		}
	}
	return upper, lower, nil
}
