package matrix

import (
	"math"

	"github.com/milosgajdos/go-lpt/fault"
)

// SmallNumber is the relative pivot magnitude below which a matrix is treated as singular.
const SmallNumber = 1e-8

// Method is a matrix inversion strategy.
type Method int

const (
	// Gauss inverts by Gaussian elimination with scaled partial pivoting.
	Gauss Method = iota
	// Det inverts a 3x3 matrix in closed form via adjugate and determinant.
	Det
)

// String implements the Stringer interface.
func (m Method) String() string {
	switch m {
	case Gauss:
		return "gauss"
	case Det:
		return "det"
	default:
		return "unknown"
	}
}

// Inverse computes the inverse of square matrix a using the given method and returns it.
// It returns error if either of the following conditions is met:
//   - a is integer-valued: inversion is undefined over integers (fault.ErrType)
//   - a is not square, or method is Det and a is not 3x3 (fault.ErrSize)
//   - a is singular (fault.ErrDiv0)
func Inverse[T Number](a *Dense[T], method Method) (*Dense[T], error) {
	if a.IsEmpty() {
		return nil, fault.New("matrix.Inverse", fault.ErrSpace, "matrix is not allocated")
	}

	if isInteger[T]() {
		return nil, fault.New("matrix.Inverse", fault.ErrType, "not supported for integer elements")
	}

	if a.rows != a.cols {
		return nil, fault.New("matrix.Inverse", fault.ErrSize, "not a square matrix: [%d x %d]", a.rows, a.cols)
	}

	switch method {
	case Gauss:
		return gaussInverse(a)
	case Det:
		return detInverse(a)
	default:
		return nil, fault.New("matrix.Inverse", fault.ErrType, "unsupported method: %d", method)
	}
}

// Solve returns x such that a * x = b, computed as inverse(a, method) * b.
func Solve[T Number](a, b *Dense[T], method Method) (*Dense[T], error) {
	inv, err := Inverse(a, method)
	if err != nil {
		return nil, err
	}

	return inv.Mul(b)
}

func gaussInverse[T Number](a *Dense[T]) (*Dense[T], error) {
	n := a.rows
	order := make([]int, n)

	u := a.Clone()
	if err := gaussForward(u, order); err != nil {
		return nil, err
	}

	b, err := Eye[T](n)
	if err != nil {
		return nil, err
	}

	return gaussBackward(b, u, order), nil
}

// gaussForward reduces u to upper triangular form in place.
// Rows are never swapped physically: order[k] holds the physical row acting as the k-th
// pivot row. The elimination multipliers overwrite the eliminated lower triangular slots.
func gaussForward[T Number](u *Dense[T], order []int) error {
	n := u.rows
	d := u.data

	// scale[i] is the largest absolute entry of physical row i
	scale := make([]T, n)
	for i := 0; i < n; i++ {
		order[i] = i
		for j := 0; j < n; j++ {
			if v := abs(d[i*n+j]); v > scale[i] {
				scale[i] = v
			}
		}
		if scale[i] == 0 {
			return fault.New("matrix.Inverse", fault.ErrDiv0, "singular matrix: row %d is zero", i)
		}
	}

	for k := 0; k < n-1; k++ {
		var maxPivot T
		t := k
		for i := k; i < n; i++ {
			if p := abs(d[order[i]*n+k]) / scale[order[i]]; p > maxPivot {
				maxPivot = p
				t = i
			}
		}
		if float64(maxPivot) < SmallNumber {
			return fault.New("matrix.Inverse", fault.ErrDiv0, "singular matrix: zero pivot in column %d", k)
		}
		order[t], order[k] = order[k], order[t]

		pk := order[k] * n
		for i := k + 1; i < n; i++ {
			pi := order[i] * n
			f := d[pi+k] / d[pk+k]
			d[pi+k] = f
			for j := k + 1; j < n; j++ {
				d[pi+j] -= f * d[pk+j]
			}
		}
	}

	last := order[n-1]
	if float64(abs(d[last*n+n-1])/scale[last]) < SmallNumber {
		return fault.New("matrix.Inverse", fault.ErrDiv0, "singular matrix: zero pivot in column %d", n-1)
	}

	return nil
}

// gaussBackward solves u * x = L^-1 * b for every column of b, where L^-1 is encoded
// by the multipliers stored in u and the pivot order.
func gaussBackward[T Number](b, u *Dense[T], order []int) *Dense[T] {
	n := u.rows
	m := b.cols
	res := &Dense[T]{rows: n, cols: m, data: make([]T, n*m)}

	for c := 0; c < m; c++ {
		for k := 0; k < n-1; k++ {
			for i := k + 1; i < n; i++ {
				b.data[order[i]*m+c] -= u.data[order[i]*n+k] * b.data[order[k]*m+c]
			}
		}

		res.data[(n-1)*m+c] = b.data[order[n-1]*m+c] / u.data[order[n-1]*n+n-1]
		for i := n - 2; i >= 0; i-- {
			z := b.data[order[i]*m+c]
			for j := i + 1; j < n; j++ {
				z -= u.data[order[i]*n+j] * res.data[j*m+c]
			}
			res.data[i*m+c] = z / u.data[order[i]*n+i]
		}
	}

	return res
}

func detInverse[T Number](a *Dense[T]) (*Dense[T], error) {
	if a.rows != 3 {
		return nil, fault.New("matrix.Inverse", fault.ErrSize, "det method requires 3x3 matrix, got [%d x %d]", a.rows, a.cols)
	}

	m := a.data
	det := m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
	// determinant relative to the product of the row magnitudes
	bound := 1.0
	for i := 0; i < 3; i++ {
		bound *= max(math.Abs(float64(m[3*i])), math.Abs(float64(m[3*i+1])), math.Abs(float64(m[3*i+2])))
	}
	if math.Abs(float64(det)) <= SmallNumber*bound {
		return nil, fault.New("matrix.Inverse", fault.ErrDiv0, "singular matrix: determinant %g", float64(det))
	}

	res := make([]T, 9)
	res[0] = (m[4]*m[8] - m[5]*m[7]) / det
	res[3] = -(m[3]*m[8] - m[5]*m[6]) / det
	res[6] = (m[3]*m[7] - m[4]*m[6]) / det

	res[1] = -(m[1]*m[8] - m[2]*m[7]) / det
	res[4] = (m[0]*m[8] - m[2]*m[6]) / det
	res[7] = -(m[0]*m[7] - m[1]*m[6]) / det

	res[2] = (m[1]*m[5] - m[2]*m[4]) / det
	res[5] = -(m[0]*m[5] - m[2]*m[3]) / det
	res[8] = (m[0]*m[4] - m[1]*m[3]) / det

	return &Dense[T]{rows: 3, cols: 3, data: res}, nil
}
