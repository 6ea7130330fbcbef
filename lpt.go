// Package lpt defines the capabilities shared by the particle tracking engine packages.
package lpt

import "github.com/milosgajdos/go-lpt/geom"

// Camera is a calibrated camera model
type Camera interface {
	// Project projects a world point onto the image plane
	Project(geom.Point3D) (geom.Point2D, error)
	// LineOfSight returns the world line of sight of an image point
	LineOfSight(geom.Point2D) (geom.Line3D, error)
}

// Image is a single channel intensity image
type Image interface {
	// Dims returns the number of image rows and columns
	Dims() (rows, cols int)
	// At returns the intensity of the pixel at row and col
	At(row, col int) float64
}

// Localizer finds tracer centers in camera images
type Localizer interface {
	// Locate returns sub-pixel centers of tracers found in the image
	Locate(Image) ([]geom.Point2D, error)
}

// Field is a spatial field of displacement vectors
type Field interface {
	// Interp returns the displacement at the given world point
	Interp(geom.Point3D) (geom.Point3D, error)
}

// Predictor extrapolates the motion of a tracked object
type Predictor interface {
	// NextPos returns the predicted position at the next frame
	NextPos() (geom.Point3D, error)
}
