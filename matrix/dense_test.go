package matrix

import (
	"errors"
	"os"
	"testing"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

var (
	a3 *Dense[float64]
	b3 *Dense[float64]
)

func setup() {
	fault.SetLogger(nil)

	a3, _ = NewFromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 10},
	})
	b3, _ = NewFromRows([][]float64{
		{1, 0, 0},
		{0, 2, 0},
		{0, 0, 3},
	})
}

func TestMain(m *testing.M) {
	setup()
	os.Exit(m.Run())
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	m, err := New(2, 3, 1.5)
	assert.NotNil(m)
	assert.NoError(err)
	r, c := m.Dims()
	assert.Equal(2, r)
	assert.Equal(3, c)
	assert.Equal(6, m.Len())
	for _, v := range m.RawData() {
		assert.Equal(1.5, v)
	}

	// invalid dimensions
	m, err = New(0, 3, 1.0)
	assert.Nil(m)
	assert.True(errors.Is(err, fault.ErrSize))

	m, err = New(3, -1, 1.0)
	assert.Nil(m)
	assert.True(errors.Is(err, fault.ErrSize))
}

func TestNewFromRows(t *testing.T) {
	assert := assert.New(t)

	m, err := NewFromRows([][]int{{1, 2}, {3, 4}, {5, 6}})
	assert.NoError(err)
	r, c := m.Dims()
	assert.Equal(3, r)
	assert.Equal(2, c)
	assert.Equal([]int{1, 2, 3, 4, 5, 6}, m.RawData())

	_, err = NewFromRows([][]int{{1, 2}, {3}})
	assert.True(errors.Is(err, fault.ErrSize))

	_, err = NewFromRows([][]int{})
	assert.True(errors.Is(err, fault.ErrSize))
}

func TestNewFromData(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1, 2, 3, 4}
	m, err := NewFromData(2, 2, data)
	assert.NoError(err)

	// no aliasing with the source slice
	data[0] = 100
	assert.Equal(1.0, m.At(0, 0))

	_, err = NewFromData(3, 2, data)
	assert.True(errors.Is(err, fault.ErrSize))
}

func TestAtSet(t *testing.T) {
	assert := assert.New(t)

	m := a3.Clone()
	assert.Equal(6.0, m.At(1, 2))
	assert.Equal(6.0, m.AtFlat(5))

	m.Set(1, 2, -1)
	assert.Equal(-1.0, m.At(1, 2))
	assert.Equal(6.0, a3.At(1, 2))

	m.SetFlat(0, 42)
	assert.Equal(42.0, m.At(0, 0))

	assert.Panics(func() { m.At(3, 0) })
	assert.Panics(func() { m.At(0, -1) })
	assert.Panics(func() { m.Set(0, 3, 1) })
	assert.Panics(func() { m.AtFlat(9) })

	defer func() {
		r := recover()
		err, ok := r.(error)
		assert.True(ok)
		assert.True(errors.Is(err, fault.ErrRange))
	}()
	m.At(10, 10)
}

func TestRowCol(t *testing.T) {
	assert := assert.New(t)

	row, err := a3.Row(2)
	assert.NoError(err)
	assert.Equal([]float64{7, 8, 10}, row)

	col, err := a3.Col(1)
	assert.NoError(err)
	assert.Equal([]float64{2, 5, 8}, col)

	// returned slices are copies
	row[0] = 0
	assert.Equal(7.0, a3.At(2, 0))

	_, err = a3.Row(3)
	assert.True(errors.Is(err, fault.ErrRange))
	_, err = a3.Col(-1)
	assert.True(errors.Is(err, fault.ErrRange))
}

func TestEqual(t *testing.T) {
	assert := assert.New(t)

	assert.True(a3.Equal(a3.Clone()))
	assert.False(a3.Equal(b3))

	c := a3.Clone()
	c.Set(0, 0, 1+1e-12)
	assert.False(a3.Equal(c))
	assert.True(a3.EqualApprox(c, 1e-9))

	d, _ := New(3, 2, 0.0)
	assert.False(a3.Equal(d))
	assert.False(a3.EqualApprox(d, 1))
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)

	sum, err := a3.Add(b3)
	assert.NoError(err)
	assert.Equal([]float64{2, 2, 3, 4, 7, 6, 7, 8, 13}, sum.RawData())

	diff, err := sum.Sub(b3)
	assert.NoError(err)
	assert.True(diff.Equal(a3))

	prod, err := a3.MulElem(b3)
	assert.NoError(err)
	assert.Equal([]float64{1, 0, 0, 0, 10, 0, 0, 0, 30}, prod.RawData())

	assert.Equal([]float64{2, 3, 4, 5, 6, 7, 8, 9, 11}, a3.AddScalar(1).RawData())
	assert.Equal([]float64{0, 1, 2, 3, 4, 5, 6, 7, 9}, a3.SubScalar(1).RawData())
	assert.Equal([]float64{2, 4, 6, 8, 10, 12, 14, 16, 20}, a3.Scale(2).RawData())

	half, err := a3.Div(2)
	assert.NoError(err)
	assert.Equal([]float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 5}, half.RawData())

	_, err = a3.Div(0)
	assert.True(errors.Is(err, fault.ErrDiv0))

	d, _ := New(2, 3, 1.0)
	_, err = a3.Add(d)
	assert.True(errors.Is(err, fault.ErrSize))
	_, err = a3.Sub(&Dense[float64]{})
	assert.True(errors.Is(err, fault.ErrSpace))

	// operands stay untouched
	assert.Equal([]float64{1, 2, 3, 4, 5, 6, 7, 8, 10}, a3.RawData())
}

func TestMul(t *testing.T) {
	assert := assert.New(t)

	x, _ := NewFromRows([][]int{{1, 2, 3}, {4, 5, 6}})
	y, _ := NewFromRows([][]int{{7, 8}, {9, 10}, {11, 12}})

	xy, err := x.Mul(y)
	assert.NoError(err)
	r, c := xy.Dims()
	assert.Equal(2, r)
	assert.Equal(2, c)
	assert.Equal([]int{58, 64, 139, 154}, xy.RawData())

	_, err = x.Mul(x)
	assert.True(errors.Is(err, fault.ErrSize))

	_, err = x.Mul(nil)
	assert.True(errors.Is(err, fault.ErrSpace))

	// agrees with gonum
	var want mat.Dense
	want.Mul(a3.Mat(), b3.Mat())
	got, err := a3.Mul(b3)
	assert.NoError(err)
	assert.True(mat.EqualApprox(&want, got.Mat(), 1e-12))
}

func TestTransposeNormTrace(t *testing.T) {
	assert := assert.New(t)

	x, _ := NewFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	xt := x.T()
	r, c := xt.Dims()
	assert.Equal(3, r)
	assert.Equal(2, c)
	assert.Equal([]float64{1, 4, 2, 5, 3, 6}, xt.RawData())
	assert.True(xt.T().Equal(x))

	v, _ := NewFromRows([][]float64{{3}, {4}})
	assert.InDelta(5.0, v.Norm(), 1e-12)
	assert.InDelta(mat.Norm(a3.Mat(), 2), a3.Norm(), 1e-12)

	tr, err := a3.Trace()
	assert.NoError(err)
	assert.Equal(16.0, tr)

	_, err = x.Trace()
	assert.True(errors.Is(err, fault.ErrSize))
}

func TestEyeConvert(t *testing.T) {
	assert := assert.New(t)

	eye, err := Eye[int](3)
	assert.NoError(err)
	assert.Equal([]int{1, 0, 0, 0, 1, 0, 0, 0, 1}, eye.RawData())

	_, err = Eye[int](0)
	assert.True(errors.Is(err, fault.ErrSize))

	f := Convert[float32](eye)
	assert.Equal([]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, f.RawData())

	i := Convert[int](a3.Scale(0.5))
	assert.Equal([]int{0, 1, 1, 2, 2, 3, 3, 4, 5}, i.RawData())
}

func TestRowColSums(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1.2, 3.4, 4.5, 6.7, 8.9, 10.0}
	rowSums := []float64{4.6, 11.2, 18.9}
	colSums := []float64{14.6, 20.1}
	delta := 0.001

	m, err := NewFromData(3, 2, data)
	assert.NoError(err)

	resRows := RowSums(m)
	assert.NotNil(resRows)
	assert.InDeltaSlice(rowSums, resRows, delta)

	resCols := ColSums(m)
	assert.NotNil(resCols)
	assert.InDeltaSlice(colSums, resCols, delta)

	// should panic
	assert.Panics(func() { RowSums[float64](nil) })
	assert.Panics(func() { ColSums[float64](nil) })
}

func TestGonumInterop(t *testing.T) {
	assert := assert.New(t)

	g := a3.Mat()
	assert.Equal(10.0, g.At(2, 2))

	// no aliasing
	g.Set(0, 0, 100)
	assert.Equal(1.0, a3.At(0, 0))

	back := FromMat(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	assert.Equal([]float64{1, 2, 3, 4}, back.RawData())

	assert.Contains(b3.String(), "3")
	assert.Equal("Dense{}", (&Dense[int]{}).String())
}
