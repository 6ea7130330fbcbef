package geom

import (
	"math"

	"github.com/milosgajdos/go-lpt/fault"
)

// Line3D is a 3D line given by a point and a unit direction vector.
// Dir is not normalized automatically.
type Line3D struct {
	Pt  Point3D
	Dir Point3D
}

// Line2D is a 2D line given by a point and a unit direction vector.
// Dir is not normalized automatically.
type Line2D struct {
	Pt  Point2D
	Dir Point2D
}

// NewLine3D returns the line passing through p1 and p2, directed from p1 to p2.
func NewLine3D(p1, p2 Point3D) (Line3D, error) {
	dir, err := UnitVector3D(p1, p2)
	if err != nil {
		return Line3D{}, err
	}

	return Line3D{Pt: p1, Dir: dir}, nil
}

// NewLine2D returns the line passing through p1 and p2, directed from p1 to p2.
func NewLine2D(p1, p2 Point2D) (Line2D, error) {
	dir, err := UnitVector2D(p1, p2)
	if err != nil {
		return Line2D{}, err
	}

	return Line2D{Pt: p1, Dir: dir}, nil
}

// UnitVector3D returns the unit vector pointing from p1 to p2.
// It returns error if the points coincide.
func UnitVector3D(p1, p2 Point3D) (Point3D, error) {
	d := p2.Sub(p1)
	n := d.Norm()
	if n < SmallNumber {
		return Point3D{}, fault.New("geom.UnitVector3D", fault.ErrDiv0, "coincident points %v, %v", p1, p2)
	}

	return d.Scale(1 / n), nil
}

// UnitVector2D returns the unit vector pointing from p1 to p2.
// It returns error if the points coincide.
func UnitVector2D(p1, p2 Point2D) (Point2D, error) {
	d := p2.Sub(p1)
	n := d.Norm()
	if n < SmallNumber {
		return Point2D{}, fault.New("geom.UnitVector2D", fault.ErrDiv0, "coincident points %v, %v", p1, p2)
	}

	return d.Scale(1 / n), nil
}

// DistToLine3D returns the perpendicular distance of pt from line l.
// It returns error if the squared distance is more negative than Tolerance,
// which means l.Dir is not a unit vector.
func DistToLine3D(pt Point3D, l Line3D) (float64, error) {
	diff := pt.Sub(l.Pt)
	proj := diff.Dot(l.Dir)

	return clampSqrt("geom.DistToLine3D", diff.Dot(diff)-proj*proj)
}

// DistToLine2D returns the perpendicular distance of pt from line l.
// It returns error if the squared distance is more negative than Tolerance,
// which means l.Dir is not a unit vector.
func DistToLine2D(pt Point2D, l Line2D) (float64, error) {
	diff := pt.Sub(l.Pt)
	proj := diff.Dot(l.Dir)

	return clampSqrt("geom.DistToLine2D", diff.Dot(diff)-proj*proj)
}

func clampSqrt(op string, d2 float64) (float64, error) {
	switch {
	case d2 >= 0:
		return math.Sqrt(d2), nil
	case d2 > -Tolerance:
		return 0, nil
	default:
		return 0, fault.New(op, fault.ErrRange, "negative squared distance: %g", d2)
	}
}

// CrossPoint returns the intersection of two 2D lines.
// It returns error wrapping both fault.ErrRange and fault.ErrParallel if the lines are parallel.
func CrossPoint(l1, l2 Line2D) (Point2D, error) {
	den := l1.Dir[0]*l2.Dir[1] - l1.Dir[1]*l2.Dir[0]
	if math.Abs(den) < SmallNumber {
		return Point2D{}, fault.Wrap("geom.CrossPoint", fault.ErrRange, fault.ErrParallel)
	}

	num := l2.Dir[1]*(l2.Pt[0]-l1.Pt[0]) - l2.Dir[0]*(l2.Pt[1]-l1.Pt[1])

	return l1.Pt.Add(l1.Dir.Scale(num / den)), nil
}
