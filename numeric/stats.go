// Package numeric implements the scalar numerical helpers shared by the engine:
// spacing, robust statistics, polynomial fitting and peak interpolation.
package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/matrix"
)

// MADScale converts median absolute deviation to standard deviation of a normal distribution.
const MADScale = 1.4826022185056018

// Linspace returns n evenly spaced values covering [min, max], both ends included.
// It returns error if n is less than 2.
func Linspace(min, max float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fault.New("numeric.Linspace", fault.ErrSize, "need at least 2 points, got %d", n)
	}

	return floats.Span(make([]float64, n), min, max), nil
}

// SortID returns the indices which sort nums in ascending order.
// nums is not modified.
func SortID(nums []float64) []int {
	sorted := make([]float64, len(nums))
	copy(sorted, nums)

	idx := make([]int, len(nums))
	floats.Argsort(sorted, idx)

	return idx
}

// Median returns the median of nums.
// It returns error if nums is empty.
func Median(nums []float64) (float64, error) {
	n := len(nums)
	if n == 0 {
		return 0, fault.New("numeric.Median", fault.ErrSize, "empty input")
	}

	idx := SortID(nums)
	if n%2 == 1 {
		return nums[idx[n/2]], nil
	}

	return (nums[idx[n/2-1]] + nums[idx[n/2]]) / 2, nil
}

// IsOutlier flags the values of nums which lie further than 3 scaled median
// absolute deviations from the median.
func IsOutlier(nums []float64) ([]bool, error) {
	med, err := Median(nums)
	if err != nil {
		return nil, err
	}

	dev := make([]float64, len(nums))
	for i, v := range nums {
		dev[i] = math.Abs(v - med)
	}

	mad, err := Median(dev)
	if err != nil {
		return nil, err
	}
	amad := MADScale * mad
	lb, rb := med-3*amad, med+3*amad

	judge := make([]bool, len(nums))
	for i, v := range nums {
		judge[i] = v < lb || v > rb
	}

	return judge, nil
}

// Polyfit returns the least squares polynomial coefficients of the given order
// fitted to points (x, y), lowest power first.
// It returns error if either of the following conditions is met:
//   - x and y have different lengths
//   - order is less than 1
//   - there are not enough distinct points to determine the polynomial
func Polyfit(x, y []float64, order int) ([]float64, error) {
	if len(x) != len(y) || len(x) == 0 {
		return nil, fault.New("numeric.Polyfit", fault.ErrSize, "x has %d values, y has %d", len(x), len(y))
	}

	if order < 1 {
		return nil, fault.New("numeric.Polyfit", fault.ErrSize, "invalid polynomial order: %d", order)
	}

	n, m := len(x), order+1
	vx, err := matrix.New(n, m, 0.0)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			vx.Set(i, j, math.Pow(x[i], float64(j)))
		}
	}

	vy, err := matrix.NewFromData(n, 1, y)
	if err != nil {
		return nil, err
	}

	// normal equations: (X'X) a = X'y
	xt := vx.T()
	xtx, err := xt.Mul(vx)
	if err != nil {
		return nil, err
	}
	xty, err := xt.Mul(vy)
	if err != nil {
		return nil, err
	}

	a, err := matrix.Solve(xtx, xty, matrix.Gauss)
	if err != nil {
		return nil, err
	}

	return a.RawData(), nil
}
