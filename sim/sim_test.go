package sim

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	lpt "github.com/milosgajdos/go-lpt"
	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

var _ lpt.Camera = (*Pinhole)(nil)

var (
	limit geom.AxisLimit
	cams  []*Pinhole
)

func setup() {
	fault.SetLogger(nil)

	limit = geom.AxisLimit{XMin: -20, XMax: 20, YMin: -20, YMax: 20, ZMin: -20, ZMax: 20}

	target := geom.Pt3(0, 0, 0)
	for _, pos := range []geom.Point3D{
		geom.Pt3(0, -300, 40),
		geom.Pt3(300, 0, -40),
		geom.Pt3(-200, -200, 60),
		geom.Pt3(-200, 200, 0),
	} {
		c, err := NewPinhole(pos, target, 1000, 512, 512)
		if err != nil {
			panic(err)
		}
		cams = append(cams, c)
	}
}

func TestMain(m *testing.M) {
	setup()
	os.Exit(m.Run())
}

func TestCloud(t *testing.T) {
	assert := assert.New(t)

	pts, err := Cloud(limit, 500, 7)
	assert.NoError(err)
	assert.Len(pts, 500)
	for _, p := range pts {
		assert.True(limit.Contains(p))
	}

	// same seed, same cloud
	again, err := Cloud(limit, 500, 7)
	assert.NoError(err)
	assert.Equal(pts, again)

	_, err = Cloud(limit, 0, 7)
	assert.True(errors.Is(err, fault.ErrSize))
	_, err = Cloud(geom.AxisLimit{}, 10, 7)
	assert.True(errors.Is(err, fault.ErrRange))

	moved := Translate(pts, geom.Pt3(1, -1, 0.5))
	assert.Equal(pts[3].Add(geom.Pt3(1, -1, 0.5)), moved[3])
}

func TestNoise(t *testing.T) {
	assert := assert.New(t)

	n, err := NewNoise(0.5, 11)
	assert.NoError(err)
	assert.Equal(0.5, n.Sigma())

	zeros := make([]geom.Point3D, 4000)
	jit := n.Jitter(zeros)

	xs := make([]float64, len(jit))
	for i := range jit {
		xs[i] = jit[i][0]
	}
	assert.InDelta(0.0, stat.Mean(xs, nil), 0.05)
	assert.InDelta(0.5, stat.StdDev(xs, nil), 0.05)

	_, err = NewNoise(0, 1)
	assert.True(errors.Is(err, fault.ErrRange))
}

func TestMotion(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMotion(0.5)
	assert.NoError(err)
	assert.Equal(0.5, m.Dt())

	traj, err := m.Trajectory(geom.Pt3(1, 2, 3), geom.Pt3(2, 0, -1), nil, 5)
	assert.NoError(err)
	assert.Len(traj, 5)
	for i, p := range traj {
		want := geom.Pt3(1+float64(i), 2, 3-0.5*float64(i))
		assert.InDeltaSlice(want[:], p[:], 1e-12)
	}

	// constant acceleration
	g := func(geom.Point3D) geom.Point3D { return geom.Pt3(0, 0, -2) }
	traj, err = m.Trajectory(geom.Pt3(0, 0, 0), geom.Pt3(0, 0, 0), g, 3)
	assert.NoError(err)
	assert.InDelta(-0.25, traj[1][2], 1e-12)
	assert.InDelta(-1.0, traj[2][2], 1e-12)

	// vortex keeps the tracer near its orbit
	omega := 0.1
	m, _ = NewMotion(0.01)
	traj, err = m.Trajectory(geom.Pt3(5, 0, 0), geom.Pt3(0, 5*omega, 0), Vortex(geom.Pt3(0, 0, 0), omega), 1000)
	assert.NoError(err)
	for _, p := range traj {
		assert.InDelta(5.0, math.Hypot(p[0], p[1]), 0.05)
	}

	_, err = m.Propagate(mat.NewVecDense(3, nil), nil)
	assert.True(errors.Is(err, fault.ErrSize))
	_, err = m.Propagate(mat.NewVecDense(6, nil), mat.NewVecDense(2, nil))
	assert.True(errors.Is(err, fault.ErrSize))

	_, err = NewMotion(0)
	assert.True(errors.Is(err, fault.ErrRange))
	_, err = m.Trajectory(geom.Pt3(0, 0, 0), geom.Pt3(0, 0, 0), nil, 0)
	assert.True(errors.Is(err, fault.ErrSize))
}

func TestGaussianBlobs(t *testing.T) {
	assert := assert.New(t)

	img, err := GaussianBlobs(32, 48, []geom.Point2D{geom.Pt2(10.3, 20.6)}, 1000, 1.2)
	assert.NoError(err)
	rows, cols := img.Dims()
	assert.Equal(32, rows)
	assert.Equal(48, cols)

	// brightest pixel is the one nearest to the center
	var best float64
	br, bc := -1, -1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if v := img.At(r, c); v > best {
				best, br, bc = v, r, c
			}
		}
	}
	assert.Equal(21, br)
	assert.Equal(10, bc)
	assert.Equal(0.0, img.At(0, 47))

	g16 := Gray16(img)
	assert.Equal(uint16(math.Round(img.At(21, 10))), g16.Gray16At(10, 21).Y)

	_, err = GaussianBlobs(10, 10, nil, 1, 0)
	assert.True(errors.Is(err, fault.ErrRange))
	_, err = GaussianBlobs(0, 10, nil, 1, 1)
	assert.True(errors.Is(err, fault.ErrSize))
}

func TestPinhole(t *testing.T) {
	assert := assert.New(t)

	c := cams[0]
	assert.Equal(geom.Pt3(0, -300, 40), c.Pos())

	// target projects onto the principal point
	pt, err := c.Project(geom.Pt3(0, 0, 0))
	assert.NoError(err)
	assert.InDeltaSlice([]float64{512, 512}, pt[:], 1e-9)

	pts, err := Cloud(limit, 50, 3)
	require.NoError(t, err)
	for _, p := range pts {
		img, err := c.Project(p)
		assert.NoError(err)

		los, err := c.LineOfSight(img)
		assert.NoError(err)
		assert.InDelta(1.0, los.Dir.Norm(), 1e-12)

		d, err := geom.DistToLine3D(p, los)
		assert.NoError(err)
		assert.InDelta(0.0, d, 1e-4)
	}

	_, err = c.Project(geom.Pt3(0, -400, 0))
	assert.True(errors.Is(err, fault.ErrRange))

	_, err = NewPinhole(geom.Pt3(0, 0, 10), geom.Pt3(0, 0, 0), 1000, 0, 0)
	assert.True(errors.Is(err, fault.ErrParallel))
	_, err = NewPinhole(geom.Pt3(0, 10, 0), geom.Pt3(0, 0, 0), 0, 0, 0)
	assert.True(errors.Is(err, fault.ErrRange))
}

func TestTriangulateViews(t *testing.T) {
	assert := assert.New(t)

	pts, err := Cloud(limit, 100, 5)
	require.NoError(t, err)

	for _, p := range pts {
		lines := make([]geom.Line3D, len(cams))
		for i, c := range cams {
			img, err := c.Project(p)
			require.NoError(t, err)
			lines[i], err = c.LineOfSight(img)
			require.NoError(t, err)
		}

		got, e, err := geom.Triangulate(lines)
		assert.NoError(err)
		assert.InDeltaSlice(p[:], got[:], 1e-6)
		assert.InDelta(0.0, e, 1e-4)
	}
}
