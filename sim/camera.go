package sim

import (
	"github.com/golang/geo/r3"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

// Pinhole is an ideal distortion free pinhole camera.
// Image x grows with the camera right axis, image y with the camera down axis.
type Pinhole struct {
	pos geom.Point3D
	// rows of the world to camera rotation
	right, down, fwd r3.Vector
	focal            float64
	cx, cy           float64
}

// NewPinhole creates a camera located at pos looking at target and returns it.
// focal is the focal length in pixels and (cx, cy) the principal point.
// It returns error if focal is not positive, pos coincides with target or the
// camera looks along the world z axis.
func NewPinhole(pos, target geom.Point3D, focal, cx, cy float64) (*Pinhole, error) {
	if focal <= 0 {
		return nil, fault.New("sim.NewPinhole", fault.ErrRange, "invalid focal length: %g", focal)
	}

	fwd, err := geom.UnitVector3D(pos, target)
	if err != nil {
		return nil, err
	}

	up := r3.Vector{Z: 1}
	right := fwd.Vec().Cross(up)
	if right.Norm() < geom.SmallNumber {
		return nil, fault.New("sim.NewPinhole", fault.ErrParallel, "view direction %v is parallel to up axis", fwd)
	}
	right = right.Normalize()
	down := fwd.Vec().Cross(right)

	return &Pinhole{
		pos:   pos,
		right: right,
		down:  down,
		fwd:   fwd.Vec(),
		focal: focal,
		cx:    cx,
		cy:    cy,
	}, nil
}

// Pos returns camera center.
func (c *Pinhole) Pos() geom.Point3D {
	return c.pos
}

// Project projects pt onto the image plane.
// It returns error if pt is not in front of the camera.
func (c *Pinhole) Project(pt geom.Point3D) (geom.Point2D, error) {
	d := pt.Sub(c.pos).Vec()

	z := d.Dot(c.fwd)
	if z < geom.SmallNumber {
		return geom.Point2D{}, fault.New("sim.Project", fault.ErrRange, "point %v is behind the camera", pt)
	}

	return geom.Pt2(c.cx+c.focal*d.Dot(c.right)/z, c.cy+c.focal*d.Dot(c.down)/z), nil
}

// LineOfSight returns the world ray from the camera center through image point pt.
func (c *Pinhole) LineOfSight(pt geom.Point2D) (geom.Line3D, error) {
	x := (pt[0] - c.cx) / c.focal
	y := (pt[1] - c.cy) / c.focal

	dir := c.right.Mul(x).Add(c.down.Mul(y)).Add(c.fwd)

	return geom.Line3D{Pt: c.pos, Dir: geom.Point3DFromVec(dir.Normalize())}, nil
}
