// Package sim generates synthetic tracer data: point clouds, trajectories,
// camera images and views, and plots them.
package sim

import (
	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

// Accel returns tracer acceleration at the given position.
type Accel func(geom.Point3D) geom.Point3D

// Motion is a linear, discrete-time model of tracer motion with state
// x = [position, velocity] driven by acceleration input u:
//
//	x[n+1] = A*x[n] + B*u[n]
type Motion struct {
	// A is the state propagation matrix
	A *mat.Dense
	// B is the input matrix
	B *mat.Dense
	dt float64
}

// NewMotion creates new motion model advanced by timestep dt and returns it.
// It returns error if dt is not positive.
func NewMotion(dt float64) (*Motion, error) {
	if dt <= 0 {
		return nil, fault.New("sim.NewMotion", fault.ErrRange, "invalid time step: %g", dt)
	}

	eye, err := matrix.NewDenseValIdentity(3, 1.0)
	if err != nil {
		return nil, err
	}

	A := mat.NewDense(6, 6, nil)
	A.Slice(0, 3, 0, 3).(*mat.Dense).Copy(eye)
	A.Slice(3, 6, 3, 6).(*mat.Dense).Copy(eye)
	A.Slice(0, 3, 3, 6).(*mat.Dense).Scale(dt, eye)

	B := mat.NewDense(6, 3, nil)
	B.Slice(0, 3, 0, 3).(*mat.Dense).Scale(0.5*dt*dt, eye)
	B.Slice(3, 6, 0, 3).(*mat.Dense).Scale(dt, eye)

	return &Motion{A: A, B: B, dt: dt}, nil
}

// Dt returns the model time step.
func (m *Motion) Dt() float64 {
	return m.dt
}

// Propagate returns the next state of the model given state x and input u.
// It returns error if x or u have invalid dimensions.
func (m *Motion) Propagate(x, u mat.Vector) (mat.Vector, error) {
	if x.Len() != 6 {
		return nil, fault.New("sim.Propagate", fault.ErrSize, "invalid state vector length: %d", x.Len())
	}

	out := new(mat.VecDense)
	out.MulVec(m.A, x)

	if u != nil {
		if u.Len() != 3 {
			return nil, fault.New("sim.Propagate", fault.ErrSize, "invalid input vector length: %d", u.Len())
		}
		outU := new(mat.VecDense)
		outU.MulVec(m.B, u)
		out.AddVec(out, outU)
	}

	return out, nil
}

// Trajectory returns n positions of a tracer starting at pos with velocity vel.
// accel may be nil in which case the tracer moves with constant velocity.
func (m *Motion) Trajectory(pos, vel geom.Point3D, accel Accel, n int) ([]geom.Point3D, error) {
	if n <= 0 {
		return nil, fault.New("sim.Trajectory", fault.ErrSize, "invalid number of steps: %d", n)
	}

	x := mat.NewVecDense(6, []float64{pos[0], pos[1], pos[2], vel[0], vel[1], vel[2]})
	traj := make([]geom.Point3D, 0, n)
	traj = append(traj, pos)

	for i := 1; i < n; i++ {
		var u mat.Vector
		if accel != nil {
			a := accel(traj[i-1])
			u = mat.NewVecDense(3, a[:])
		}

		next, err := m.Propagate(x, u)
		if err != nil {
			return nil, err
		}
		x = next.(*mat.VecDense)
		traj = append(traj, geom.Pt3(x.AtVec(0), x.AtVec(1), x.AtVec(2)))
	}

	return traj, nil
}

// Vortex returns the centripetal acceleration of a solid body rotation about
// the z axis through center with angular velocity omega.
func Vortex(center geom.Point3D, omega float64) Accel {
	return func(p geom.Point3D) geom.Point3D {
		d := p.Sub(center)
		return geom.Pt3(-omega*omega*d[0], -omega*omega*d[1], 0)
	}
}
