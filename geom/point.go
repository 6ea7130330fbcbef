// Package geom provides the fixed-size geometric primitives of the tracking engine:
// 2D and 3D points, lines of sight, bounding boxes, distances and triangulation.
package geom

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/matrix"
)

const (
	// SmallNumber is the threshold below which a denominator is treated as zero.
	SmallNumber = 1e-8
	// Tolerance is the band of negative squared distances clamped to zero.
	Tolerance = 1e-4
)

// Point3D is a point (or vector) in 3D space.
type Point3D [3]float64

// Pt3 returns a new 3D point.
func Pt3(x, y, z float64) Point3D {
	return Point3D{x, y, z}
}

// Point3DFromVec returns the point with the coordinates of v.
func Point3DFromVec(v r3.Vector) Point3D {
	return Point3D{v.X, v.Y, v.Z}
}

// Point3DFromMatrix converts a 3x1 column matrix to Point3D.
func Point3DFromMatrix(m *matrix.Dense[float64]) (Point3D, error) {
	if r, c := m.Dims(); r != 3 || c != 1 {
		return Point3D{}, fault.New("geom.Point3DFromMatrix", fault.ErrSize, "invalid dimensions: [%d x %d]", r, c)
	}

	return Point3D{m.AtFlat(0), m.AtFlat(1), m.AtFlat(2)}, nil
}

// Vec returns p as r3.Vector.
func (p Point3D) Vec() r3.Vector {
	return r3.Vector{X: p[0], Y: p[1], Z: p[2]}
}

// Matrix returns p as a 3x1 column matrix.
func (p Point3D) Matrix() *matrix.Dense[float64] {
	m, _ := matrix.NewFromData(3, 1, p[:])
	return m
}

// Add returns p + q.
func (p Point3D) Add(q Point3D) Point3D {
	return Point3DFromVec(p.Vec().Add(q.Vec()))
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3DFromVec(p.Vec().Sub(q.Vec()))
}

// Scale returns p scaled by f.
func (p Point3D) Scale(f float64) Point3D {
	return Point3DFromVec(p.Vec().Mul(f))
}

// Dot returns the dot product of p and q.
func (p Point3D) Dot(q Point3D) float64 {
	return p.Vec().Dot(q.Vec())
}

// Cross returns the cross product of p and q.
func (p Point3D) Cross(q Point3D) Point3D {
	return Point3DFromVec(p.Vec().Cross(q.Vec()))
}

// Norm returns the euclidean norm of p.
func (p Point3D) Norm() float64 {
	return p.Vec().Norm()
}

// Distance returns the euclidean distance between p and q.
func (p Point3D) Distance(q Point3D) float64 {
	return p.Vec().Distance(q.Vec())
}

// Point2D is a point (or vector) in the image plane.
type Point2D [2]float64

// Pt2 returns a new 2D point.
func Pt2(x, y float64) Point2D {
	return Point2D{x, y}
}

// Point2DFromVec returns the point with the coordinates of v.
func Point2DFromVec(v r2.Point) Point2D {
	return Point2D{v.X, v.Y}
}

// Point2DFromMatrix converts a 2x1 column matrix to Point2D.
func Point2DFromMatrix(m *matrix.Dense[float64]) (Point2D, error) {
	if r, c := m.Dims(); r != 2 || c != 1 {
		return Point2D{}, fault.New("geom.Point2DFromMatrix", fault.ErrSize, "invalid dimensions: [%d x %d]", r, c)
	}

	return Point2D{m.AtFlat(0), m.AtFlat(1)}, nil
}

// Vec returns p as r2.Point.
func (p Point2D) Vec() r2.Point {
	return r2.Point{X: p[0], Y: p[1]}
}

// Matrix returns p as a 2x1 column matrix.
func (p Point2D) Matrix() *matrix.Dense[float64] {
	m, _ := matrix.NewFromData(2, 1, p[:])
	return m
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2DFromVec(p.Vec().Add(q.Vec()))
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2DFromVec(p.Vec().Sub(q.Vec()))
}

// Scale returns p scaled by f.
func (p Point2D) Scale(f float64) Point2D {
	return Point2DFromVec(p.Vec().Mul(f))
}

// Dot returns the dot product of p and q.
func (p Point2D) Dot(q Point2D) float64 {
	return p.Vec().Dot(q.Vec())
}

// Norm returns the euclidean norm of p.
func (p Point2D) Norm() float64 {
	return p.Vec().Norm()
}

// Distance returns the euclidean distance between p and q.
func (p Point2D) Distance(q Point2D) float64 {
	return p.Vec().Sub(q.Vec()).Norm()
}
