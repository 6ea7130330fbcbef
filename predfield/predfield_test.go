package predfield

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lpt "github.com/milosgajdos/go-lpt"
	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
	"github.com/milosgajdos/go-lpt/sim"
)

var _ lpt.Field = (*Field)(nil)

var (
	cfg     Config
	cluster []geom.Point3D
)

func setup() {
	fault.SetLogger(nil)

	cfg = Config{
		Limit:  geom.AxisLimit{XMin: 0, XMax: 10, YMin: 0, YMax: 10, ZMin: 0, ZMax: 10},
		N:      [3]int{2, 2, 2},
		Radius: 3,
	}

	// three well separated points around every grid corner
	offsets := []geom.Point3D{
		geom.Pt3(0.5, 0.2, 0.1),
		geom.Pt3(-0.4, 0.6, -0.3),
		geom.Pt3(0.1, -0.7, 0.6),
	}
	for _, x := range []float64{0, 10} {
		for _, y := range []float64{0, 10} {
			for _, z := range []float64{0, 10} {
				for _, o := range offsets {
					cluster = append(cluster, geom.Pt3(x, y, z).Add(o))
				}
			}
		}
	}
}

func TestMain(m *testing.M) {
	setup()
	os.Exit(m.Run())
}

func TestGrid(t *testing.T) {
	assert := assert.New(t)

	lim := geom.AxisLimit{XMin: -1, XMax: 1, YMin: 0, YMax: 4, ZMin: 0, ZMax: 1}
	g, err := NewGrid(lim, [3]int{3, 5, 2})
	assert.NoError(err)
	assert.Equal(30, g.Len())
	assert.Equal([3]int{3, 5, 2}, g.Counts())
	assert.Equal([3]float64{1, 1, 1}, g.Spacing())
	assert.Equal(lim, g.Limit())

	i := g.Index(2, 3, 1)
	assert.Equal(2*5*2+3*2+1, i)
	assert.Equal(geom.Pt3(1, 3, 1), g.Point(i))
	assert.Equal(geom.Pt3(-1, 0, 0), g.Point(0))

	m := g.Matrix()
	r, c := m.Dims()
	assert.Equal(3, r)
	assert.Equal(30, c)
	assert.Equal(3.0, m.At(1, i))

	idx, cell, err := g.Cell(geom.Pt3(0.5, 3.2, 1))
	assert.NoError(err)
	assert.Equal([3]int{1, 3, 0}, idx)
	assert.Equal(geom.AxisLimit{XMin: 0, XMax: 1, YMin: 3, YMax: 4, ZMin: 0, ZMax: 1}, cell)

	// max boundary belongs to the last cell
	idx, _, err = g.Cell(geom.Pt3(1, 4, 1))
	assert.NoError(err)
	assert.Equal([3]int{1, 3, 0}, idx)

	_, _, err = g.Cell(geom.Pt3(1.1, 0, 0))
	assert.True(errors.Is(err, fault.ErrRange))

	_, err = NewGrid(lim, [3]int{1, 2, 2})
	assert.True(errors.Is(err, fault.ErrSize))
	_, err = NewGrid(geom.AxisLimit{}, [3]int{2, 2, 2})
	assert.True(errors.Is(err, fault.ErrRange))
}

func TestDispMap(t *testing.T) {
	assert := assert.New(t)

	dm := newDispMap(3, 10)
	assert.Equal(121, dm.size)
	assert.Equal(10.0, dm.m)
	assert.Equal(60.0, dm.c)

	_, ok := dm.peak()
	assert.False(ok)

	d := geom.Pt3(0.43, -1.27, 2.05)
	dm.vote(d)
	dm.vote(d)
	got, ok := dm.peak()
	assert.True(ok)
	assert.InDeltaSlice(d[:], got[:], 1e-9)

	// out of map displacements are ignored
	dm = newDispMap(3, 10)
	dm.vote(geom.Pt3(6.5, 0, 0))
	assert.Empty(dm.votes)

	// one vote spreads over the kernel neighbourhood, heaviest at the nearest bin
	dm.vote(geom.Pt3(0.02, 0, 0))
	assert.Len(dm.votes, 125)
	assert.Equal(dm.votes[dm.key([3]int{60, 60, 60})], func() float64 {
		best := 0.0
		for _, v := range dm.votes {
			best = max(best, v)
		}
		return best
	}())

	// key and bin are inverse
	b := [3]int{7, 0, 120}
	assert.Equal(b, dm.bin(dm.key(b)))
}

func TestIdentical(t *testing.T) {
	assert := assert.New(t)

	f, err := New(cfg, cluster, cluster)
	require.NoError(t, err)

	for i := 0; i < f.Grid().Len(); i++ {
		d := f.At(i)
		assert.InDeltaSlice([]float64{0, 0, 0}, d[:], 1e-6)
	}

	d, err := f.Interp(geom.Pt3(3, 7, 5))
	assert.NoError(err)
	assert.InDeltaSlice([]float64{0, 0, 0}, d[:], 1e-6)

	pts, err := sim.Cloud(cfg.Limit, 400, 1)
	require.NoError(t, err)
	f, err = New(Config{Limit: cfg.Limit, N: [3]int{3, 3, 3}, Radius: 2, Workers: 2}, pts, pts)
	require.NoError(t, err)
	for i := 0; i < f.Grid().Len(); i++ {
		d := f.At(i)
		assert.InDeltaSlice([]float64{0, 0, 0}, d[:], 1e-6)
	}
}

func TestTranslation(t *testing.T) {
	assert := assert.New(t)

	shift := geom.Pt3(0.3, -0.2, 0.1)
	f, err := New(cfg, cluster, sim.Translate(cluster, shift))
	require.NoError(t, err)

	for i := 0; i < f.Grid().Len(); i++ {
		d := f.At(i)
		assert.InDeltaSlice(shift[:], d[:], 1e-6)
	}

	for _, p := range []geom.Point3D{geom.Pt3(0, 0, 0), geom.Pt3(10, 10, 10), geom.Pt3(2.5, 9, 4)} {
		d, err := f.Interp(p)
		assert.NoError(err)
		assert.InDeltaSlice(shift[:], d[:], 1e-6)
	}

	mean := f.Mean()
	assert.InDeltaSlice(shift[:], mean[:], 1e-6)

	_, err = f.Interp(geom.Pt3(-0.1, 5, 5))
	assert.True(errors.Is(err, fault.ErrRange))

	// the point clouds are kept as copies
	assert.Equal(cluster, f.Prev())
	assert.Equal(sim.Translate(cluster, shift), f.Curr())
}

func TestRandomCloud(t *testing.T) {
	assert := assert.New(t)

	// the cloud overfills the grid so every interrogation sphere is full
	prev, err := sim.Cloud(geom.AxisLimit{XMin: -3, XMax: 13, YMin: -3, YMax: 13, ZMin: -3, ZMax: 13}, 3000, 42)
	require.NoError(t, err)

	noise, err := sim.NewNoise(0.01, 43)
	require.NoError(t, err)

	shift := geom.Pt3(-0.5, 0.25, 0.8)
	curr := noise.Jitter(sim.Translate(prev, shift))

	f, err := New(Config{Limit: cfg.Limit, N: [3]int{3, 3, 3}, Radius: 2}, prev, curr)
	require.NoError(t, err)

	for i := 0; i < f.Grid().Len(); i++ {
		d := f.At(i)
		assert.InDeltaSlice(shift[:], d[:], 0.1)
	}
}

func TestEmptyCells(t *testing.T) {
	assert := assert.New(t)

	// only the cluster at the origin
	f, err := New(cfg, cluster[:3], sim.Translate(cluster[:3], geom.Pt3(0.2, 0, 0)))
	require.NoError(t, err)

	d := f.At(0)
	assert.InDeltaSlice([]float64{0.2, 0, 0}, d[:], 1e-6)
	for i := 1; i < f.Grid().Len(); i++ {
		assert.Equal(geom.Point3D{}, f.At(i))
	}

	f, err = New(cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(geom.Point3D{}, f.Mean())
}

func TestSaveLoad(t *testing.T) {
	assert := assert.New(t)

	f, err := New(cfg, cluster, sim.Translate(cluster, geom.Pt3(0.3, -0.2, 0.1)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "field.csv")
	require.NoError(t, f.Save(path))

	loaded, err := Load(cfg, path)
	assert.NoError(err)
	assert.True(f.Field().Equal(loaded.Field()))
	assert.Empty(loaded.Prev())
	assert.Equal(cfg, loaded.Config())

	d1, err := f.Interp(geom.Pt3(1, 2, 3))
	assert.NoError(err)
	d2, err := loaded.Interp(geom.Pt3(1, 2, 3))
	assert.NoError(err)
	assert.Equal(d1, d2)

	// shape must match the grid
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	_, err = Read(Config{Limit: cfg.Limit, N: [3]int{3, 2, 2}, Radius: 3}, &buf)
	assert.True(errors.Is(err, fault.ErrSize))

	_, err = Read(cfg, strings.NewReader("1,2\n3,4\n"))
	assert.True(errors.Is(err, fault.ErrSize))

	_, err = Load(cfg, filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(errors.Is(err, fault.ErrIO))
}

func TestConfig(t *testing.T) {
	assert := assert.New(t)

	_, err := New(Config{Limit: cfg.Limit, N: cfg.N, Radius: 0}, nil, nil)
	assert.True(errors.Is(err, fault.ErrRange))

	_, err = New(Config{Limit: cfg.Limit, N: cfg.N, Radius: 1, Resolution: -1}, nil, nil)
	assert.True(errors.Is(err, fault.ErrRange))

	_, err = New(Config{Limit: cfg.Limit, N: [3]int{2, 0, 2}, Radius: 1}, nil, nil)
	assert.True(errors.Is(err, fault.ErrSize))

	assert.Equal(DefaultResolution, Config{}.resolution())
	assert.Equal(5, Config{Resolution: 5}.resolution())
	assert.Equal(3, Config{Workers: 3}.workers())
	assert.True(Config{}.workers() > 0)
}
