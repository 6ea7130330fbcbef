// Package locate finds tracer images in camera frames with sub-pixel accuracy.
package locate

import (
	lpt "github.com/milosgajdos/go-lpt"
	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
	"github.com/milosgajdos/go-lpt/numeric"
)

// Config configures tracer detection.
type Config struct {
	// MaxIntensity is the saturation level: brighter pixels are an error
	MaxIntensity float64 `yaml:"max_intensity"`
	// MinIntensity is the detection threshold
	MinIntensity float64 `yaml:"min_intensity"`
	// RadiusPx is the tracer image radius in pixels
	RadiusPx float64 `yaml:"radius_px"`
}

// Validate returns error if the config is not usable.
func (c Config) Validate() error {
	if c.MinIntensity < 0 || c.MaxIntensity <= c.MinIntensity {
		return fault.New("locate.Config", fault.ErrRange, "invalid intensity range: [%g, %g]", c.MinIntensity, c.MaxIntensity)
	}

	if c.RadiusPx <= 0 {
		return fault.New("locate.Config", fault.ErrRange, "invalid tracer radius: %g", c.RadiusPx)
	}

	return nil
}

// Tracer2D is a tracer image.
type Tracer2D struct {
	// Center is the sub-pixel center: x is the column, y is the row
	Center geom.Point2D
	// RadiusPx is the tracer image radius in pixels
	RadiusPx float64
}

// Finder locates tracers in images.
type Finder struct {
	cfg Config
}

// NewFinder creates new tracer finder and returns it.
// It returns error if cfg is invalid.
func NewFinder(cfg Config) (*Finder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Finder{cfg: cfg}, nil
}

// Config returns finder configuration.
func (f *Finder) Config() Config {
	return f.cfg
}

// Find returns tracers found anywhere in img except its outer border.
func (f *Finder) Find(img lpt.Image) ([]Tracer2D, error) {
	rows, cols := img.Dims()

	return f.FindIn(img, geom.PixelRange{RowMax: rows, ColMax: cols})
}

// FindIn returns tracers found in the region of img, skipping the region border.
// Every pixel whose intensity is within the configured range and which is a strict
// local maximum is refined to sub-pixel accuracy by fitting a gaussian profile along
// its row and column. Candidates whose fit fails are dropped.
// It returns error if either of the following conditions is met:
//   - region is not inside img
//   - a scanned pixel is brighter than the configured maximum intensity
func (f *Finder) FindIn(img lpt.Image, region geom.PixelRange) ([]Tracer2D, error) {
	rows, cols := img.Dims()
	if region.RowMin < 0 || region.ColMin < 0 || region.RowMax > rows || region.ColMax > cols {
		return nil, fault.New("locate.FindIn", fault.ErrRange, "region %+v out of image [%d x %d]", region, rows, cols)
	}

	var tracers []Tracer2D
	for row := region.RowMin + 1; row < region.RowMax-1; row++ {
		for col := region.ColMin + 1; col < region.ColMax-1; col++ {
			v := img.At(row, col)
			if v > f.cfg.MaxIntensity {
				return nil, fault.New("locate.FindIn", fault.ErrRange, "intensity %g at (%d,%d) exceeds %g", v, row, col, f.cfg.MaxIntensity)
			}

			if v < f.cfg.MinIntensity || !numeric.IsLocalMax(img, row, col) {
				continue
			}

			x, y := float64(col), float64(row)
			xc, ok := numeric.LogGaussPeak(x-1, img.At(row, col-1), x, v, x+1, img.At(row, col+1))
			if !ok {
				continue
			}
			yc, ok := numeric.LogGaussPeak(y-1, img.At(row-1, col), y, v, y+1, img.At(row+1, col))
			if !ok {
				continue
			}

			tracers = append(tracers, Tracer2D{Center: geom.Pt2(xc, yc), RadiusPx: f.cfg.RadiusPx})
		}
	}

	return tracers, nil
}

// Locate returns the centers of tracers found in img.
func (f *Finder) Locate(img lpt.Image) ([]geom.Point2D, error) {
	tracers, err := f.Find(img)
	if err != nil {
		return nil, err
	}

	pts := make([]geom.Point2D, len(tracers))
	for i := range tracers {
		pts[i] = tracers[i].Center
	}

	return pts, nil
}
