package geom

import (
	mx "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/matrix"
)

// Triangulate returns the least squares intersection of lines and the mean
// perpendicular distance of the point from them.
// Every line must have a unit direction vector.
// It returns error if either of the following conditions is met:
//   - fewer than 2 lines are supplied
//   - the lines are all parallel
//   - the residual distance of any line is negative beyond Tolerance
func Triangulate(lines []Line3D) (Point3D, float64, error) {
	if len(lines) < 2 {
		return Point3D{}, 0, fault.New("geom.Triangulate", fault.ErrSize, "need at least 2 lines of sight, got %d", len(lines))
	}

	sumM := mat.NewDense(3, 3, nil)
	sumB := mat.NewVecDense(3, nil)

	for i := range lines {
		eye, err := mx.NewDenseValIdentity(3, 1.0)
		if err != nil {
			return Point3D{}, 0, err
		}

		// projector onto the plane orthogonal to the line direction: I - n*n'
		n := mat.NewVecDense(3, lines[i].Dir[:])
		nn := new(mat.Dense)
		nn.Outer(1.0, n, n)
		proj := new(mat.Dense)
		proj.Sub(eye, nn)
		sumM.Add(sumM, proj)

		b := new(mat.VecDense)
		b.MulVec(proj, mat.NewVecDense(3, lines[i].Pt[:]))
		sumB.AddVec(sumB, b)
	}

	x, err := matrix.Solve(matrix.FromMat(sumM), matrix.FromMat(sumB), matrix.Gauss)
	if err != nil {
		return Point3D{}, 0, err
	}

	pt, err := Point3DFromMatrix(x)
	if err != nil {
		return Point3D{}, 0, err
	}

	dist := make([]float64, len(lines))
	for i := range lines {
		if dist[i], err = DistToLine3D(pt, lines[i]); err != nil {
			return Point3D{}, 0, err
		}
	}

	return pt, stat.Mean(dist, nil), nil
}
