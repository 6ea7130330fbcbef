package predfield

import (
	"math"

	"github.com/milosgajdos/go-lpt/geom"
	"github.com/milosgajdos/go-lpt/numeric"
)

// dispMap is a sparse 3D histogram of candidate displacements.
// A displacement component d maps to the continuous bin coordinate m*d + c.
type dispMap struct {
	size  int
	m, c  float64
	votes map[int]float64
}

func newDispMap(radius float64, res int) *dispMap {
	size := 2*int(math.Round(2*float64(res)*radius)) + 1

	return &dispMap{
		size:  size,
		m:     float64(size-1) / (4 * radius),
		c:     float64(size-1) / 2,
		votes: make(map[int]float64),
	}
}

func (dm *dispMap) key(b [3]int) int {
	return (b[0]*dm.size+b[1])*dm.size + b[2]
}

func (dm *dispMap) bin(key int) [3]int {
	return [3]int{key / (dm.size * dm.size), (key / dm.size) % dm.size, key % dm.size}
}

func (dm *dispMap) at(b [3]int) float64 {
	for k := 0; k < 3; k++ {
		if b[k] < 0 || b[k] >= dm.size {
			return 0
		}
	}

	return dm.votes[dm.key(b)]
}

// kernel is the half width of the vote kernel in bins
const kernel = 2

// vote deposits a unit gaussian kernel (sigma of one bin) centered at displacement d
// over the 5x5x5 bins around it. Displacements outside the map are ignored.
func (dm *dispMap) vote(d geom.Point3D) {
	var u [3]float64
	var r [3]int
	var w [3][2*kernel + 1]float64

	for k := 0; k < 3; k++ {
		u[k] = dm.m*d[k] + dm.c
		if u[k] < 0 || u[k] > float64(dm.size-1) {
			return
		}
		r[k] = int(math.Round(u[k]))
		for j := range w[k] {
			x := float64(r[k]+j-kernel) - u[k]
			w[k][j] = math.Exp(-0.5 * x * x)
		}
	}

	var b [3]int
	for i := range w[0] {
		if b[0] = r[0] + i - kernel; b[0] < 0 || b[0] >= dm.size {
			continue
		}
		for j := range w[1] {
			if b[1] = r[1] + j - kernel; b[1] < 0 || b[1] >= dm.size {
				continue
			}
			for l := range w[2] {
				if b[2] = r[2] + l - kernel; b[2] < 0 || b[2] >= dm.size {
					continue
				}
				dm.votes[dm.key(b)] += w[0][i] * w[1][j] * w[2][l]
			}
		}
	}
}

// peak returns the displacement at the highest vote refined to sub-bin accuracy
// along each axis. It returns false if the map holds no votes.
func (dm *dispMap) peak() (geom.Point3D, bool) {
	best, bestKey := 0.0, -1
	for key, v := range dm.votes {
		if v > best || (v == best && key < bestKey) {
			best, bestKey = v, key
		}
	}

	if bestKey < 0 {
		return geom.Point3D{}, false
	}

	b := dm.bin(bestKey)

	var d geom.Point3D
	for k := 0; k < 3; k++ {
		pos := float64(b[k])
		if b[k] > 0 && b[k] < dm.size-1 {
			lo, hi := b, b
			lo[k]--
			hi[k]++
			if off, ok := numeric.LogGaussPeak(-1, dm.at(lo), 0, best, 1, dm.at(hi)); ok && math.Abs(off) <= 1 {
				pos += off
			}
		}
		d[k] = (pos - dm.c) / dm.m
	}

	return d, true
}
