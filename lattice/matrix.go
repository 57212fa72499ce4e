// Package lattice implements the exact integer linear algebra behind GGH:
// big.Int matrices and vectors, determinants, rational inverses, unimodular
// sampling and the Hadamard ratio quality metric.
package lattice

import (
	"errors"
	"math/big"
)

var (
	// ErrDimensionMismatch indicates that operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotSquare indicates that an operation requires a square matrix.
	ErrNotSquare = errors.New("matrix is not square")

	// ErrSingular indicates that a matrix has determinant zero.
	ErrSingular = errors.New("matrix is singular")

	// ErrNonIntegral indicates that a rational vector has a non-integer coordinate.
	ErrNonIntegral = errors.New("vector has non-integral coordinates")
)

// Matrix is a dense row-major matrix of arbitrary-precision integers.
// Each row is a basis vector when the matrix is used as a lattice basis.
type Matrix [][]*big.Int

// Vector is a row vector of arbitrary-precision integers.
type Vector []*big.Int

// NewMatrix allocates a rows x cols zero matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]*big.Int, cols)
		for j := range m[i] {
			m[i][j] = new(big.Int)
		}
	}
	return m
}

// NewVector allocates a zero vector of length n.
func NewVector(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = new(big.Int)
	}
	return v
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m[i][i].SetInt64(1)
	}
	return m
}

// MatrixFromInt64 builds a Matrix from a rectangular int64 grid.
func MatrixFromInt64(rows [][]int64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, ErrDimensionMismatch
		}
		for j, v := range row {
			m[i][j].SetInt64(v)
		}
	}
	return m, nil
}

// VectorFromBytes maps each byte to one coordinate holding its unsigned value.
func VectorFromBytes(data []byte) Vector {
	v := make(Vector, len(data))
	for i, b := range data {
		v[i] = new(big.Int).SetUint64(uint64(b))
	}
	return v
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns, 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// IsSquare reports whether m is n x n with every row of length n.
func (m Matrix) IsSquare() bool {
	for _, row := range m {
		if len(row) != len(m) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]*big.Int, len(row))
		for j, v := range row {
			out[i][j] = new(big.Int).Set(v)
		}
	}
	return out
}

// Equal reports whether m and other have the same shape and entries.
func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(other[i]) {
			return false
		}
		for j := range m[i] {
			if m[i][j].Cmp(other[i][j]) != 0 {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = new(big.Int).Set(x)
	}
	return out
}

// Equal reports whether v and other have the same length and coordinates.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i].Cmp(other[i]) != 0 {
			return false
		}
	}
	return true
}

// Mul computes the matrix product a * b.
func Mul(a, b Matrix) (Matrix, error) {
	inner := a.Cols()
	if inner != b.Rows() {
		return nil, ErrDimensionMismatch
	}
	rows, cols := a.Rows(), b.Cols()
	result := NewMatrix(rows, cols)

	tmp := new(big.Int)
	for i := 0; i < rows; i++ {
		for k := 0; k < inner; k++ {
			aik := a[i][k]
			if aik.Sign() == 0 {
				continue
			}
			for j := 0; j < cols; j++ {
				tmp.Mul(aik, b[k][j])
				result[i][j].Add(result[i][j], tmp)
			}
		}
	}
	return result, nil
}

// VecMul computes the row-vector product v * m.
func VecMul(v Vector, m Matrix) (Vector, error) {
	if len(v) != m.Rows() {
		return nil, ErrDimensionMismatch
	}
	result := NewVector(m.Cols())

	tmp := new(big.Int)
	for i, vi := range v {
		if vi.Sign() == 0 {
			continue
		}
		for j := range result {
			tmp.Mul(vi, m[i][j])
			result[j].Add(result[j], tmp)
		}
	}
	return result, nil
}

// MaxBitLen returns the largest bit length of any entry's absolute value.
func (m Matrix) MaxBitLen() int {
	max := 0
	for _, row := range m {
		for _, v := range row {
			if l := v.BitLen(); l > max {
				max = l
			}
		}
	}
	return max
}
