// Package track links reconstructed objects into trajectories and predicts
// their motion.
package track

import (
	"encoding/csv"
	"math"
	"strconv"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

const (
	// MinHistory is the minimum track length required by prediction.
	MinHistory = 3
	// MaxOrder is the maximum order of the prediction filter.
	MaxOrder = 5
	// MaxIter caps the number of filter adaptation steps.
	MaxIter = 100
	// Tol is the filter adaptation error tolerance.
	Tol = 1e-8
	// Shift is added to coordinates with magnitude below 1 before filtering.
	Shift = 10.0
)

// Track is an ordered history of one object observed across frames.
type Track[T Object[T]] struct {
	objs   []T
	frames []int
	active bool
}

// New creates new active track starting with obj observed at frame and returns it.
func New[T Object[T]](obj T, frame int) *Track[T] {
	return &Track[T]{
		objs:   []T{obj},
		frames: []int{frame},
		active: true,
	}
}

// AddNext appends obj observed at frame.
func (t *Track[T]) AddNext(obj T, frame int) {
	t.objs = append(t.objs, obj)
	t.frames = append(t.frames, frame)
}

// Merge appends the whole history of o.
func (t *Track[T]) Merge(o *Track[T]) {
	t.objs = append(t.objs, o.objs...)
	t.frames = append(t.frames, o.frames...)
}

// Len returns track length.
func (t *Track[T]) Len() int {
	return len(t.objs)
}

// Active returns true if the track is still being extended.
func (t *Track[T]) Active() bool {
	return t.active
}

// Deactivate marks the track as terminated. Inactive tracks are never reactivated.
func (t *Track[T]) Deactivate() {
	t.active = false
}

// Last returns the most recent object and its frame.
func (t *Track[T]) Last() (T, int) {
	n := len(t.objs) - 1
	return t.objs[n], t.frames[n]
}

// Objects returns a copy of the track objects.
func (t *Track[T]) Objects() []T {
	return append([]T(nil), t.objs...)
}

// Frames returns a copy of the track frame indices.
func (t *Track[T]) Frames() []int {
	return append([]int(nil), t.frames...)
}

// Predict returns the last object moved to the predicted position at the next frame.
// It returns error if the track is shorter than MinHistory.
func (t *Track[T]) Predict() (T, error) {
	pt, err := t.NextPos()
	if err != nil {
		var zero T
		return zero, err
	}

	last, _ := t.Last()

	return last.Moved(pt), nil
}

// NextPos returns the position predicted at the next frame.
// Every axis is extrapolated independently by a normalized LMS filter adapted
// to the most recent min(Len-1, MaxOrder)+1 positions.
// It returns error if the track is shorter than MinHistory.
func (t *Track[T]) NextPos() (geom.Point3D, error) {
	n := len(t.objs)
	if n < MinHistory {
		return geom.Point3D{}, fault.New("track.NextPos", fault.ErrSize, "not enough points to predict: %d < %d", n, MinHistory)
	}

	order := min(n-1, MaxOrder)
	series := make([]float64, order+1)

	var pt geom.Point3D
	for k := 0; k < 3; k++ {
		for j := range series {
			series[j] = t.objs[n-1-order+j].Center()[k]
		}
		pt[k] = lmsPredict(series)
	}

	return pt, nil
}

// lmsPredict adapts filter taps predicting the last sample of series from the
// preceding ones and returns the one step ahead extrapolation.
func lmsPredict(series []float64) float64 {
	order := len(series) - 1

	var shift float64
	if math.Abs(series[order]) < 1 {
		shift = Shift
	}

	s := make([]float64, len(series))
	var sum float64
	for j := range series {
		s[j] = series[j] + shift
		if j < order {
			sum += s[j] * s[j]
		}
	}
	if sum < Tol {
		// nothing to adapt to: hold the last position
		return series[order]
	}
	step := 1 / sum

	taps := make([]float64, order)
	e := s[order]
	for iter := 0; math.Abs(e) > Tol && iter < MaxIter; iter++ {
		var pred float64
		for j := range taps {
			taps[j] += step * s[j] * e
			pred += taps[j] * s[j]
		}
		e = s[order] - pred
	}

	var pred float64
	for j := range taps {
		pred += taps[j] * s[j+1]
	}

	return pred - shift
}

// WriteCSV writes one record per track object to w:
// id, time, x, y, z followed by the object record, where time is frame / fps.
func (t *Track[T]) WriteCSV(w *csv.Writer, id int, fps float64) error {
	if fps <= 0 {
		return fault.New("track.WriteCSV", fault.ErrRange, "invalid frame rate: %g", fps)
	}

	for i, obj := range t.objs {
		c := obj.Center()
		rec := []string{
			strconv.Itoa(id),
			strconv.FormatFloat(float64(t.frames[i])/fps, 'g', -1, 64),
			strconv.FormatFloat(c[0], 'g', -1, 64),
			strconv.FormatFloat(c[1], 'g', -1, 64),
			strconv.FormatFloat(c[2], 'g', -1, 64),
		}
		if err := w.Write(append(rec, obj.Record()...)); err != nil {
			return fault.Wrap("track.WriteCSV", fault.ErrIO, err)
		}
	}

	return nil
}
