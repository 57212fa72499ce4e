package lattice

import "math/big"

// Determinant computes det(m) exactly using Bareiss fraction-free elimination.
// Every intermediate division is exact, so no rationals are needed.
// The empty matrix has determinant 1.
func Determinant(m Matrix) (*big.Int, error) {
	if !m.IsSquare() {
		return nil, ErrNotSquare
	}
	n := len(m)
	if n == 0 {
		return big.NewInt(1), nil
	}

	a := m.Clone()
	negate := false
	prev := big.NewInt(1)
	t1 := new(big.Int)
	t2 := new(big.Int)

	for k := 0; k < n-1; k++ {
		if a[k][k].Sign() == 0 {
			pivot := -1
			for i := k + 1; i < n; i++ {
				if a[i][k].Sign() != 0 {
					pivot = i
					break
				}
			}
			if pivot < 0 {
				return new(big.Int), nil
			}
			a[k], a[pivot] = a[pivot], a[k]
			negate = !negate
		}

		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				t1.Mul(a[i][j], a[k][k])
				t2.Mul(a[i][k], a[k][j])
				t1.Sub(t1, t2)
				a[i][j].Quo(t1, prev)
			}
		}
		prev = a[k][k]
	}

	det := new(big.Int).Set(a[n-1][n-1])
	if negate {
		det.Neg(det)
	}
	return det, nil
}

// IsUnimodular reports whether m is square with determinant exactly +1 or -1.
func IsUnimodular(m Matrix) bool {
	det, err := Determinant(m)
	if err != nil {
		return false
	}
	return det.CmpAbs(big.NewInt(1)) == 0
}
