// Package matrix implements a small generic dense matrix kernel.
//
// Dense stores rows*cols elements contiguously in row-major order: element (i, j)
// lives at flat index i*cols + j. Every operation returning a matrix returns a
// fresh, exclusively owned value; matrices never alias each other's storage.
package matrix

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-lpt/fault"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"
)

// Number is a matrix element type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Dense is a dense row-major matrix
type Dense[T Number] struct {
	rows int
	cols int
	data []T
}

// New creates a new rows x cols matrix filled with val and returns it.
// It returns error if either of the dimensions is non-positive.
func New[T Number](rows, cols int, val T) (*Dense[T], error) {
	if rows <= 0 || cols <= 0 {
		return nil, fault.New("matrix.New", fault.ErrSize, "invalid dimensions: [%d x %d]", rows, cols)
	}

	data := make([]T, rows*cols)
	if val != 0 {
		for i := range data {
			data[i] = val
		}
	}

	return &Dense[T]{rows: rows, cols: cols, data: data}, nil
}

// NewFromRows creates a new matrix from the nested row literal rows and returns it.
// It returns error if rows is empty or if the rows have different lengths.
func NewFromRows[T Number](rows [][]T) (*Dense[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fault.New("matrix.NewFromRows", fault.ErrSize, "empty literal")
	}

	r, c := len(rows), len(rows[0])
	data := make([]T, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fault.New("matrix.NewFromRows", fault.ErrSize, "row %d has %d elements, want %d", i, len(row), c)
		}
		data = append(data, row...)
	}

	return &Dense[T]{rows: r, cols: c, data: data}, nil
}

// NewFromData creates a new rows x cols matrix from a copy of the row-major data.
// It returns error if the length of data does not match the dimensions.
func NewFromData[T Number](rows, cols int, data []T) (*Dense[T], error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, fault.New("matrix.NewFromData", fault.ErrSize, "%d elements for [%d x %d]", len(data), rows, cols)
	}

	d := make([]T, len(data))
	copy(d, data)

	return &Dense[T]{rows: rows, cols: cols, data: d}, nil
}

// Eye returns n x n identity matrix.
func Eye[T Number](n int) (*Dense[T], error) {
	m, err := New[T](n, n, 0)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m, nil
}

// Convert returns a copy of m with its elements converted to type U.
func Convert[U, T Number](m *Dense[T]) *Dense[U] {
	data := make([]U, len(m.data))
	for i, v := range m.data {
		data[i] = U(v)
	}

	return &Dense[U]{rows: m.rows, cols: m.cols, data: data}
}

// Clone returns a deep copy of m.
func (m *Dense[T]) Clone() *Dense[T] {
	data := make([]T, len(m.data))
	copy(data, m.data)

	return &Dense[T]{rows: m.rows, cols: m.cols, data: data}
}

// Dims returns the number of rows and columns of m.
func (m *Dense[T]) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// Len returns the total number of elements of m.
func (m *Dense[T]) Len() int {
	return len(m.data)
}

// IsEmpty returns true if m has no storage allocated, i.e. it is a zero value.
func (m *Dense[T]) IsEmpty() bool {
	return m == nil || m.rows == 0 || m.cols == 0
}

// RawData returns a copy of the row-major element buffer.
func (m *Dense[T]) RawData() []T {
	data := make([]T, len(m.data))
	copy(data, m.data)

	return data
}

// At returns the element at row i and column j.
// It panics with an error wrapping fault.ErrRange if the indices are out of bounds.
func (m *Dense[T]) At(i, j int) T {
	return m.data[m.index(i, j)]
}

// Set sets the element at row i and column j to v.
// It panics with an error wrapping fault.ErrRange if the indices are out of bounds.
func (m *Dense[T]) Set(i, j int, v T) {
	m.data[m.index(i, j)] = v
}

// AtFlat returns the element at row-major flat index i.
func (m *Dense[T]) AtFlat(i int) T {
	if i < 0 || i >= len(m.data) {
		panic(fault.New("matrix.AtFlat", fault.ErrRange, "index %d out of [0, %d)", i, len(m.data)))
	}

	return m.data[i]
}

// SetFlat sets the element at row-major flat index i to v.
func (m *Dense[T]) SetFlat(i int, v T) {
	if i < 0 || i >= len(m.data) {
		panic(fault.New("matrix.SetFlat", fault.ErrRange, "index %d out of [0, %d)", i, len(m.data)))
	}

	m.data[i] = v
}

func (m *Dense[T]) index(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fault.New("matrix.At", fault.ErrRange, "(%d,%d) out of [%d x %d]", i, j, m.rows, m.cols))
	}

	return i*m.cols + j
}

// Row returns a copy of the i-th row of m.
func (m *Dense[T]) Row(i int) ([]T, error) {
	if i < 0 || i >= m.rows {
		return nil, fault.New("matrix.Row", fault.ErrRange, "row %d out of [0, %d)", i, m.rows)
	}

	row := make([]T, m.cols)
	copy(row, m.data[i*m.cols:(i+1)*m.cols])

	return row, nil
}

// Col returns a copy of the j-th column of m.
func (m *Dense[T]) Col(j int) ([]T, error) {
	if j < 0 || j >= m.cols {
		return nil, fault.New("matrix.Col", fault.ErrRange, "col %d out of [0, %d)", j, m.cols)
	}

	col := make([]T, m.rows)
	for i := range col {
		col[i] = m.data[i*m.cols+j]
	}

	return col, nil
}

// Equal returns true if a and b have the same shape and exactly equal elements.
func (m *Dense[T]) Equal(b *Dense[T]) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}

	for i := range m.data {
		if m.data[i] != b.data[i] {
			return false
		}
	}

	return true
}

// EqualApprox returns true if a and b have the same shape and their elements
// differ by at most tol.
func (m *Dense[T]) EqualApprox(b *Dense[T], tol float64) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}

	for i := range m.data {
		if math.Abs(float64(m.data[i])-float64(b.data[i])) > tol {
			return false
		}
	}

	return true
}

func (m *Dense[T]) sameShape(op string, b *Dense[T]) error {
	if m.IsEmpty() || b.IsEmpty() {
		return fault.New(op, fault.ErrSpace, "operand is not allocated")
	}

	if m.rows != b.rows || m.cols != b.cols {
		return fault.New(op, fault.ErrSize, "[%d x %d] vs [%d x %d]", m.rows, m.cols, b.rows, b.cols)
	}

	return nil
}

// Add returns element-wise sum m + b.
func (m *Dense[T]) Add(b *Dense[T]) (*Dense[T], error) {
	if err := m.sameShape("matrix.Add", b); err != nil {
		return nil, err
	}

	res := m.Clone()
	for i, v := range b.data {
		res.data[i] += v
	}

	return res, nil
}

// Sub returns element-wise difference m - b.
func (m *Dense[T]) Sub(b *Dense[T]) (*Dense[T], error) {
	if err := m.sameShape("matrix.Sub", b); err != nil {
		return nil, err
	}

	res := m.Clone()
	for i, v := range b.data {
		res.data[i] -= v
	}

	return res, nil
}

// MulElem returns element-wise (piecewise) product of m and b.
func (m *Dense[T]) MulElem(b *Dense[T]) (*Dense[T], error) {
	if err := m.sameShape("matrix.MulElem", b); err != nil {
		return nil, err
	}

	res := m.Clone()
	for i, v := range b.data {
		res.data[i] *= v
	}

	return res, nil
}

// AddScalar returns m with v added to every element.
func (m *Dense[T]) AddScalar(v T) *Dense[T] {
	res := m.Clone()
	for i := range res.data {
		res.data[i] += v
	}

	return res
}

// SubScalar returns m with v subtracted from every element.
func (m *Dense[T]) SubScalar(v T) *Dense[T] {
	return m.AddScalar(-v)
}

// Scale returns m with every element multiplied by f.
func (m *Dense[T]) Scale(f T) *Dense[T] {
	res := m.Clone()
	for i := range res.data {
		res.data[i] *= f
	}

	return res
}

// Div returns m with every element divided by f.
// It returns error if f is zero.
func (m *Dense[T]) Div(f T) (*Dense[T], error) {
	if f == 0 {
		return nil, fault.New("matrix.Div", fault.ErrDiv0, "division of [%d x %d] by zero", m.rows, m.cols)
	}

	res := m.Clone()
	for i := range res.data {
		res.data[i] /= f
	}

	return res, nil
}

// Mul returns the matrix product m * b.
// It returns error if the inner dimensions do not match.
func (m *Dense[T]) Mul(b *Dense[T]) (*Dense[T], error) {
	if m.IsEmpty() || b.IsEmpty() {
		return nil, fault.New("matrix.Mul", fault.ErrSpace, "operand is not allocated")
	}

	if m.cols != b.rows {
		return nil, fault.New("matrix.Mul", fault.ErrSize, "[%d x %d] * [%d x %d]", m.rows, m.cols, b.rows, b.cols)
	}

	res := &Dense[T]{rows: m.rows, cols: b.cols, data: make([]T, m.rows*b.cols)}
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			for j := 0; j < b.cols; j++ {
				res.data[i*b.cols+j] += a * b.data[k*b.cols+j]
			}
		}
	}

	return res, nil
}

// T returns transpose of m.
func (m *Dense[T]) T() *Dense[T] {
	res := &Dense[T]{rows: m.cols, cols: m.rows, data: make([]T, len(m.data))}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			res.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}

	return res
}

// Norm returns sqrt(sum(x_i^2)) over all elements of m.
func (m *Dense[T]) Norm() float64 {
	var sum float64
	for _, v := range m.data {
		sum += float64(v) * float64(v)
	}

	return math.Sqrt(sum)
}

// Trace returns the sum of the diagonal elements of square matrix m.
func (m *Dense[T]) Trace() (T, error) {
	if m.rows != m.cols {
		return 0, fault.New("matrix.Trace", fault.ErrSize, "not a square matrix: [%d x %d]", m.rows, m.cols)
	}

	var tr T
	for i := 0; i < m.rows; i++ {
		tr += m.data[i*m.cols+i]
	}

	return tr, nil
}

// String implements the Stringer interface.
func (m *Dense[T]) String() string {
	if m.IsEmpty() {
		return "Dense{}"
	}

	return fmt.Sprintf("%v", mat.Formatted(m.Mat(), mat.Prefix(""), mat.Squeeze()))
}

// isInteger reports whether T is an integer type: integer division truncates 1/2 to zero.
func isInteger[T Number]() bool {
	var one T = 1
	return one/2 == 0
}

func abs[T Number](v T) T {
	if v < 0 {
		return -v
	}

	return v
}
