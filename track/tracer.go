package track

import (
	"strconv"

	lpt "github.com/milosgajdos/go-lpt"
	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

// Object is a tracked 3D object.
type Object[T any] interface {
	// Center returns object position
	Center() geom.Point3D
	// Moved returns a copy of the object placed at the given position
	Moved(geom.Point3D) T
	// Record returns object specific fields appended to its saved position
	Record() []string
}

// Tracer3D is a tracer reconstructed in 3D.
type Tracer3D struct {
	// Pt is tracer center
	Pt geom.Point3D
	// RadiusPx is tracer image radius in pixels
	RadiusPx float64
	// Error is the triangulation error
	Error float64
	// Matches are tracer image centers, one per camera
	Matches []geom.Point2D
}

// NewTracer3D triangulates tracer images matched across cameras and returns the tracer.
// matches[i] is the tracer image center seen by cams[i].
// It returns error if either of the following conditions is met:
//   - cams and matches have different lengths
//   - fewer than 2 cameras are supplied
//   - a line of sight can't be computed or triangulation fails
func NewTracer3D(cams []lpt.Camera, matches []geom.Point2D, radiusPx float64) (Tracer3D, error) {
	if len(cams) != len(matches) {
		return Tracer3D{}, fault.New("track.NewTracer3D", fault.ErrSize, "%d cameras, %d matches", len(cams), len(matches))
	}

	lines := make([]geom.Line3D, len(cams))
	for i := range cams {
		l, err := cams[i].LineOfSight(matches[i])
		if err != nil {
			return Tracer3D{}, err
		}
		lines[i] = l
	}

	pt, e, err := geom.Triangulate(lines)
	if err != nil {
		return Tracer3D{}, err
	}

	return Tracer3D{
		Pt:       pt,
		RadiusPx: radiusPx,
		Error:    e,
		Matches:  append([]geom.Point2D(nil), matches...),
	}, nil
}

// Center returns tracer center.
func (t Tracer3D) Center() geom.Point3D {
	return t.Pt
}

// Moved returns a tracer of the same size at pt.
// The copy carries no camera matches and no triangulation error.
func (t Tracer3D) Moved(pt geom.Point3D) Tracer3D {
	return Tracer3D{Pt: pt, RadiusPx: t.RadiusPx}
}

// Record returns tracer radius and triangulation error.
func (t Tracer3D) Record() []string {
	return []string{
		strconv.FormatFloat(t.RadiusPx, 'g', -1, 64),
		strconv.FormatFloat(t.Error, 'g', -1, 64),
	}
}

// Project projects tracer center into every camera.
func (t Tracer3D) Project(cams []lpt.Camera) ([]geom.Point2D, error) {
	pts := make([]geom.Point2D, len(cams))
	for i := range cams {
		p, err := cams[i].Project(t.Pt)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}

	return pts, nil
}
