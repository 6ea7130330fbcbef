package matrix

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Mat returns a copy of m as a gonum float64 matrix.
func (m *Dense[T]) Mat() *mat.Dense {
	data := make([]float64, len(m.data))
	for i, v := range m.data {
		data[i] = float64(v)
	}

	return mat.NewDense(m.rows, m.cols, data)
}

// FromMat returns a copy of gonum matrix a.
// It panics if a is empty.
func FromMat(a mat.Matrix) *Dense[float64] {
	r, c := a.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, a.At(i, j))
		}
	}

	return &Dense[float64]{rows: r, cols: c, data: data}
}

// RowSums returns a slice containing m row sums.
// It panics if m is nil.
func RowSums[T Number](m *Dense[T]) []float64 {
	sum := make([]float64, m.rows)
	row := make([]float64, m.cols)

	for i := 0; i < m.rows; i++ {
		for j := range row {
			row[j] = float64(m.data[i*m.cols+j])
		}
		sum[i] = floats.Sum(row)
	}

	return sum
}

// ColSums returns a slice containing m column sums.
// It panics if m is nil.
func ColSums[T Number](m *Dense[T]) []float64 {
	a := m.Mat()
	sum := make([]float64, m.cols)

	for j := 0; j < m.cols; j++ {
		sum[j] = mat.Sum(a.ColView(j))
	}

	return sum
}
