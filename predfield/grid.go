package predfield

import (
	"math"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
	"github.com/milosgajdos/go-lpt/matrix"
	"github.com/milosgajdos/go-lpt/numeric"
)

// Grid is a regular 3D lattice of points covering an axis aligned box.
// Grid point (ix, iy, iz) has index ix*ny*nz + iy*nz + iz.
type Grid struct {
	limit geom.AxisLimit
	n     [3]int
	d     [3]float64
	axes  [3][]float64
}

// NewGrid creates new grid over limit with n points along each axis and returns it.
// It returns error if any of the counts is less than 2 or limit is not a valid box.
func NewGrid(limit geom.AxisLimit, n [3]int) (*Grid, error) {
	if n[0] < 2 || n[1] < 2 || n[2] < 2 {
		return nil, fault.New("predfield.NewGrid", fault.ErrSize, "need at least 2 grid points per axis, got %v", n)
	}

	if !limit.IsValid() {
		return nil, fault.New("predfield.NewGrid", fault.ErrRange, "invalid limit: %+v", limit)
	}

	g := &Grid{limit: limit, n: n}

	lo, hi := limit.Min(), limit.Max()
	for k := 0; k < 3; k++ {
		axis, err := numeric.Linspace(lo[k], hi[k], n[k])
		if err != nil {
			return nil, err
		}
		g.axes[k] = axis
		g.d[k] = (hi[k] - lo[k]) / float64(n[k]-1)
	}

	return g, nil
}

// Limit returns the box covered by the grid.
func (g *Grid) Limit() geom.AxisLimit {
	return g.limit
}

// Counts returns the number of grid points along each axis.
func (g *Grid) Counts() [3]int {
	return g.n
}

// Spacing returns the grid spacing along each axis.
func (g *Grid) Spacing() [3]float64 {
	return g.d
}

// Len returns the total number of grid points.
func (g *Grid) Len() int {
	return g.n[0] * g.n[1] * g.n[2]
}

// Index returns the index of grid point (ix, iy, iz).
func (g *Grid) Index(ix, iy, iz int) int {
	return ix*g.n[1]*g.n[2] + iy*g.n[2] + iz
}

// Point returns the position of the grid point with index i.
func (g *Grid) Point(i int) geom.Point3D {
	ix := i / (g.n[1] * g.n[2])
	iy := (i / g.n[2]) % g.n[1]
	iz := i % g.n[2]

	return geom.Pt3(g.axes[0][ix], g.axes[1][iy], g.axes[2][iz])
}

// Matrix returns grid points stored in the columns of a 3 x Len matrix.
func (g *Grid) Matrix() *matrix.Dense[float64] {
	m, _ := matrix.New(3, g.Len(), 0.0)
	for i := 0; i < g.Len(); i++ {
		p := g.Point(i)
		for k := 0; k < 3; k++ {
			m.Set(k, i, p[k])
		}
	}

	return m
}

// Cell returns the indices of the minimum corner of the grid cell containing pt
// and the box of the cell.
// It returns error if pt lies outside of the grid.
func (g *Grid) Cell(pt geom.Point3D) ([3]int, geom.AxisLimit, error) {
	if !g.limit.Contains(pt) {
		return [3]int{}, geom.AxisLimit{}, fault.New("predfield.Cell", fault.ErrRange, "point %v out of %+v", pt, g.limit)
	}

	lo := g.limit.Min()
	var idx [3]int
	for k := 0; k < 3; k++ {
		i := int(math.Floor((pt[k] - lo[k]) / g.d[k]))
		// the max boundary belongs to the last cell
		i = min(max(i, 0), g.n[k]-2)
		switch {
		case pt[k] < g.axes[k][i] && i > 0:
			i--
		case pt[k] > g.axes[k][i+1] && i < g.n[k]-2:
			i++
		}
		idx[k] = i
	}

	cell := geom.AxisLimit{
		XMin: g.axes[0][idx[0]], XMax: g.axes[0][idx[0]+1],
		YMin: g.axes[1][idx[1]], YMax: g.axes[1][idx[1]+1],
		ZMin: g.axes[2][idx[2]], ZMax: g.axes[2][idx[2]+1],
	}

	return idx, cell, nil
}
