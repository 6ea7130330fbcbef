package predfield

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/milosgajdos/go-lpt/geom"
)

// point implements kdtree.Comparable
type point geom.Point3D

// Compare implements the kdtree.Comparable interface
func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	return p[d] - q[d]
}

// Dims returns the number of dimensions for the KD-tree
func (p point) Dims() int { return 3 }

// Distance returns the squared euclidean distance between two points
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx, dy, dz := p[0]-q[0], p[1]-q[1], p[2]-q[2]

	return dx*dx + dy*dy + dz*dz
}

// points is a collection of point that satisfies kdtree.Interface
type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p points) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{points: p, Dim: d}, kdtree.MedianOfRandoms(plane{points: p, Dim: d}, 100))
}

// plane implements sort.Interface and kdtree.SortSlicer for points
type plane struct {
	points
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.points[i][p.Dim] < p.points[j][p.Dim]
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{points: p.points[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

// cloud answers radius queries over a point cloud
type cloud struct {
	tree *kdtree.Tree
}

func newCloud(pts []geom.Point3D) *cloud {
	if len(pts) == 0 {
		return &cloud{}
	}

	ps := make(points, len(pts))
	for i := range pts {
		ps[i] = point(pts[i])
	}

	return &cloud{tree: kdtree.New(ps, false)}
}

// within returns all points within radius r of q.
func (c *cloud) within(q geom.Point3D, r float64) []geom.Point3D {
	if c.tree == nil {
		return nil
	}

	keeper := kdtree.NewDistKeeper(r * r)
	c.tree.NearestSet(keeper, point(q))

	var res []geom.Point3D
	for _, item := range keeper.Heap {
		// the keeper is seeded with a sentinel carrying no point
		if item.Comparable == nil {
			continue
		}
		res = append(res, geom.Point3D(item.Comparable.(point)))
	}

	return res
}
