package sim

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

// Cloud returns n points drawn uniformly from the box limit.
// It returns error if n is not positive or limit is not a valid box.
func Cloud(limit geom.AxisLimit, n int, seed uint64) ([]geom.Point3D, error) {
	if n <= 0 {
		return nil, fault.New("sim.Cloud", fault.ErrSize, "invalid number of points: %d", n)
	}

	if !limit.IsValid() {
		return nil, fault.New("sim.Cloud", fault.ErrRange, "invalid limit: %+v", limit)
	}

	src := rand.NewSource(seed)
	axes := []distuv.Uniform{
		{Min: limit.XMin, Max: limit.XMax, Src: src},
		{Min: limit.YMin, Max: limit.YMax, Src: src},
		{Min: limit.ZMin, Max: limit.ZMax, Src: src},
	}

	pts := make([]geom.Point3D, n)
	for i := range pts {
		for j := range axes {
			pts[i][j] = axes[j].Rand()
		}
	}

	return pts, nil
}

// Translate returns a copy of pts moved by d.
func Translate(pts []geom.Point3D, d geom.Point3D) []geom.Point3D {
	res := make([]geom.Point3D, len(pts))
	for i := range pts {
		res[i] = pts[i].Add(d)
	}

	return res
}

// Noise is isotropic zero mean gaussian position noise.
type Noise struct {
	dist  *distmv.Normal
	sigma float64
}

// NewNoise creates new position noise with standard deviation sigma and returns it.
// It returns error if sigma is not positive.
func NewNoise(sigma float64, seed uint64) (*Noise, error) {
	if sigma <= 0 {
		return nil, fault.New("sim.NewNoise", fault.ErrRange, "invalid standard deviation: %g", sigma)
	}

	cov := mat.NewSymDense(3, []float64{
		sigma * sigma, 0, 0,
		0, sigma * sigma, 0,
		0, 0, sigma * sigma,
	})

	dist, ok := distmv.NewNormal(make([]float64, 3), cov, rand.New(rand.NewSource(seed)))
	if !ok {
		return nil, fault.New("sim.NewNoise", fault.ErrRange, "covariance is not positive definite")
	}

	return &Noise{dist: dist, sigma: sigma}, nil
}

// Sigma returns the noise standard deviation.
func (n *Noise) Sigma() float64 {
	return n.sigma
}

// Sample returns a random displacement.
func (n *Noise) Sample() geom.Point3D {
	var p geom.Point3D
	n.dist.Rand(p[:])

	return p
}

// Jitter returns a copy of pts with noise added to every point.
func (n *Noise) Jitter(pts []geom.Point3D) []geom.Point3D {
	res := make([]geom.Point3D, len(pts))
	for i := range pts {
		res[i] = pts[i].Add(n.Sample())
	}

	return res
}
