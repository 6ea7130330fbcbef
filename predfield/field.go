// Package predfield estimates the bulk displacement field between two unlabelled
// tracer point clouds on a regular grid.
//
// Every candidate displacement adds a gaussian weighted vote (sigma of one bin) to the
// 5x5x5 displacement map bins around it rather than a unit count to a single bin.
package predfield

import (
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
	"github.com/milosgajdos/go-lpt/matrix"
	"github.com/milosgajdos/go-lpt/numeric"
)

// DefaultResolution is the default number of displacement map bins per unit radius.
const DefaultResolution = 10

// Config configures predictive field.
type Config struct {
	// Limit is the box covered by the field grid
	Limit geom.AxisLimit `yaml:"limit"`
	// N is the number of grid points along each axis
	N [3]int `yaml:"n"`
	// Radius is the radius of the interrogation sphere around each grid point
	Radius float64 `yaml:"radius"`
	// Resolution is the number of displacement map bins per unit radius
	Resolution int `yaml:"resolution"`
	// Workers limits the number of grid cells processed in parallel
	Workers int `yaml:"workers"`
}

// Validate returns error if the config is not usable.
func (c Config) Validate() error {
	if c.Radius <= 0 {
		return fault.New("predfield.Config", fault.ErrRange, "invalid interrogation radius: %g", c.Radius)
	}

	if c.Resolution < 0 {
		return fault.New("predfield.Config", fault.ErrRange, "invalid resolution: %d", c.Resolution)
	}

	return nil
}

func (c Config) resolution() int {
	if c.Resolution == 0 {
		return DefaultResolution
	}

	return c.Resolution
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return c.Workers
}

// Field is a predictive displacement field.
type Field struct {
	cfg  Config
	grid *Grid
	// disp stores one displacement per grid point in its columns
	disp *matrix.Dense[float64]
	prev []geom.Point3D
	curr []geom.Point3D
}

func newField(cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewGrid(cfg.Limit, cfg.N)
	if err != nil {
		return nil, err
	}

	disp, err := matrix.New(3, grid.Len(), 0.0)
	if err != nil {
		return nil, err
	}

	return &Field{cfg: cfg, grid: grid, disp: disp}, nil
}

// New estimates the displacement field between the prev and curr point clouds and returns it.
// Every grid point collects the points of both clouds within the interrogation radius and
// votes all their pairwise displacements into a displacement map. The field value is the
// refined position of the highest map peak. Grid points with no candidate pairs get zero
// displacement. Grid points are processed in parallel.
// It returns error if cfg is invalid.
func New(cfg Config, prev, curr []geom.Point3D) (*Field, error) {
	f, err := newField(cfg)
	if err != nil {
		return nil, err
	}

	f.prev = append([]geom.Point3D(nil), prev...)
	f.curr = append([]geom.Point3D(nil), curr...)

	prevCloud, currCloud := newCloud(f.prev), newCloud(f.curr)

	var g errgroup.Group
	g.SetLimit(cfg.workers())

	for i := 0; i < f.grid.Len(); i++ {
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			center := f.grid.Point(i)

			ps := prevCloud.within(center, cfg.Radius)
			cs := currCloud.within(center, cfg.Radius)
			if len(ps) == 0 || len(cs) == 0 {
				return nil
			}

			dm := newDispMap(cfg.Radius, cfg.resolution())
			for _, p := range ps {
				for _, c := range cs {
					dm.vote(c.Sub(p))
				}
			}

			if d, ok := dm.peak(); ok {
				// every cell owns its column
				for k := 0; k < 3; k++ {
					f.disp.Set(k, i, d[k])
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return f, nil
}

// Read reads a saved displacement field for the grid described by cfg from r.
// It returns error if the field can't be read or its shape does not match the grid.
func Read(cfg Config, r io.Reader) (*Field, error) {
	f, err := newField(cfg)
	if err != nil {
		return nil, err
	}

	disp, err := matrix.Read[float64](r)
	if err != nil {
		return nil, err
	}

	if rows, cols := disp.Dims(); rows != 3 || cols != f.grid.Len() {
		return nil, fault.New("predfield.Read", fault.ErrSize, "field shape [%d x %d], want [3 x %d]", rows, cols, f.grid.Len())
	}
	f.disp = disp

	return f, nil
}

// Load loads a displacement field for the grid described by cfg from the file at path.
func Load(cfg Config, path string) (*Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap("predfield.Load", fault.ErrIO, err)
	}
	defer file.Close()

	return Read(cfg, file)
}

// Save saves the displacement field into the file at path.
func (f *Field) Save(path string) error {
	return f.disp.WriteFile(path)
}

// Write writes the displacement field to w.
func (f *Field) Write(w io.Writer) error {
	return f.disp.Write(w)
}

// Config returns field configuration.
func (f *Field) Config() Config {
	return f.cfg
}

// Grid returns field grid.
func (f *Field) Grid() *Grid {
	return f.grid
}

// Field returns a copy of the displacement field: column i holds the displacement of grid point i.
func (f *Field) Field() *matrix.Dense[float64] {
	return f.disp.Clone()
}

// At returns the displacement at grid point i.
func (f *Field) At(i int) geom.Point3D {
	return geom.Pt3(f.disp.At(0, i), f.disp.At(1, i), f.disp.At(2, i))
}

// Prev returns a copy of the previous frame point cloud.
// It is empty for loaded fields.
func (f *Field) Prev() []geom.Point3D {
	return append([]geom.Point3D(nil), f.prev...)
}

// Curr returns a copy of the current frame point cloud.
// It is empty for loaded fields.
func (f *Field) Curr() []geom.Point3D {
	return append([]geom.Point3D(nil), f.curr...)
}

// Mean returns the mean displacement over all grid points.
func (f *Field) Mean() geom.Point3D {
	var mean geom.Point3D
	for k := 0; k < 3; k++ {
		row, _ := f.disp.Row(k)
		mean[k] = stat.Mean(row, nil)
	}

	return mean
}

// Interp returns the displacement at pt interpolated trilinearly from the
// corners of the grid cell containing it.
// It returns error if pt lies outside of the grid.
func (f *Field) Interp(pt geom.Point3D) (geom.Point3D, error) {
	idx, cell, err := f.grid.Cell(pt)
	if err != nil {
		return geom.Point3D{}, err
	}

	var d geom.Point3D
	for k := 0; k < 3; k++ {
		var c [8]float64
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				for e := 0; e < 2; e++ {
					c[numeric.Corner(a, b, e)] = f.disp.At(k, f.grid.Index(idx[0]+a, idx[1]+b, idx[2]+e))
				}
			}
		}

		if d[k], err = numeric.TriLinearInterp(cell, c, pt); err != nil {
			return geom.Point3D{}, err
		}
	}

	return d, nil
}
