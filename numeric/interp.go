package numeric

import (
	"math"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

// LogFloor is the smallest value whose logarithm is taken by LogGaussPeak.
const LogFloor = 1e-8

// Corner returns the index of the cell corner (ix, iy, iz) in the value array
// passed to TriLinearInterp, where every index is 0 for the min and 1 for the max bound.
func Corner(ix, iy, iz int) int {
	return ix<<2 | iy<<1 | iz
}

// TriLinearInterp interpolates the corner values of the cell bounded by limit at pt.
// Corner values are ordered by Corner: c000, c001, c010, c011, c100, c101, c110, c111.
// It returns error if pt lies outside of limit.
func TriLinearInterp(limit geom.AxisLimit, c [8]float64, pt geom.Point3D) (float64, error) {
	xd := (pt[0] - limit.XMin) / (limit.XMax - limit.XMin)
	yd := (pt[1] - limit.YMin) / (limit.YMax - limit.YMin)
	zd := (pt[2] - limit.ZMin) / (limit.ZMax - limit.ZMin)

	// NaN fails every comparison
	if !(xd >= 0 && xd <= 1 && yd >= 0 && yd <= 1 && zd >= 0 && zd <= 1) {
		return 0, fault.New("numeric.TriLinearInterp", fault.ErrRange, "point %v out of %+v", pt, limit)
	}

	c00 := c[0]*(1-xd) + c[4]*xd
	c01 := c[1]*(1-xd) + c[5]*xd
	c10 := c[2]*(1-xd) + c[6]*xd
	c11 := c[3]*(1-xd) + c[7]*xd

	c0 := c00*(1-yd) + c10*yd
	c1 := c01*(1-yd) + c11*yd

	return c0*(1-zd) + c1*zd, nil
}

// LogGaussPeak returns the vertex of the parabola passing through (x_i, ln z_i),
// which is the exact center of a gaussian profile sampled at three points.
// It returns false if the vertex is not finite.
func LogGaussPeak(x1, z1, x2, z2, x3, z3 float64) (float64, bool) {
	l1, l2, l3 := logFloor(z1), logFloor(z2), logFloor(z3)

	num := l1*(x2*x2-x3*x3) - l2*(x1*x1-x3*x3) + l3*(x1*x1-x2*x2)
	den := l1*(x3-x2) - l3*(x1-x2) + l2*(x1-x3)
	xc := -0.5 * num / den

	if math.IsNaN(xc) || math.IsInf(xc, 0) {
		return 0, false
	}

	return xc, true
}

func logFloor(z float64) float64 {
	if z < LogFloor {
		return math.Log(LogFloor)
	}

	return math.Log(z)
}

// Sampler provides scalar values on an integer 2D lattice.
type Sampler interface {
	// At returns the value at row and col.
	At(row, col int) float64
}

// IsLocalMax returns true if the value at (row, col) is strictly greater than
// all of its 8 neighbours. The caller guarantees the neighbourhood is in bounds.
func IsLocalMax(s Sampler, row, col int) bool {
	v := s.At(row, col)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if s.At(row+dr, col+dc) >= v {
				return false
			}
		}
	}

	return true
}
