package track

import (
	"encoding/csv"
	"io"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	lpt "github.com/milosgajdos/go-lpt"
	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

type entry[T Object[T]] struct {
	track  *Track[T]
	misses int
}

// Set owns all tracks of a tracking run and indexes them by stable IDs.
// Set is not safe for concurrent use; PredictActive parallelizes internally.
type Set[T Object[T]] struct {
	tracks    map[int]*entry[T]
	nextID    int
	maxMisses int
}

// NewSet creates new empty track set and returns it.
// Active tracks are deactivated once they miss more than maxMisses consecutive frames.
// It returns error if maxMisses is negative.
func NewSet[T Object[T]](maxMisses int) (*Set[T], error) {
	if maxMisses < 0 {
		return nil, fault.New("track.NewSet", fault.ErrRange, "invalid max misses: %d", maxMisses)
	}

	return &Set[T]{
		tracks:    make(map[int]*entry[T]),
		maxMisses: maxMisses,
	}, nil
}

// MaxMisses returns the number of consecutive misses tolerated by active tracks.
func (s *Set[T]) MaxMisses() int {
	return s.maxMisses
}

// Add adds track t to the set and returns its ID.
func (s *Set[T]) Add(t *Track[T]) int {
	id := s.nextID
	s.nextID++
	s.tracks[id] = &entry[T]{track: t}

	return id
}

// Start starts a new track with obj observed at frame and returns its ID.
func (s *Set[T]) Start(obj T, frame int) int {
	return s.Add(New(obj, frame))
}

// Get returns the track with the given ID.
func (s *Set[T]) Get(id int) (*Track[T], bool) {
	e, ok := s.tracks[id]
	if !ok {
		return nil, false
	}

	return e.track, true
}

// Len returns the number of tracks in the set.
func (s *Set[T]) Len() int {
	return len(s.tracks)
}

// IDs returns sorted IDs of all tracks.
func (s *Set[T]) IDs() []int {
	ids := make([]int, 0, len(s.tracks))
	for id := range s.tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

// Active returns sorted IDs of active tracks.
func (s *Set[T]) Active() []int {
	var ids []int
	for _, id := range s.IDs() {
		if s.tracks[id].track.Active() {
			ids = append(ids, id)
		}
	}

	return ids
}

func (s *Set[T]) active(op string, id int) (*entry[T], error) {
	e, ok := s.tracks[id]
	if !ok {
		return nil, fault.New(op, fault.ErrRange, "unknown track: %d", id)
	}

	if !e.track.Active() {
		return nil, fault.New(op, fault.ErrRange, "track %d is not active", id)
	}

	return e, nil
}

// Hit extends active track id with obj observed at frame and resets its miss count.
// It returns error if the track does not exist or is not active.
func (s *Set[T]) Hit(id int, obj T, frame int) error {
	e, err := s.active("track.Hit", id)
	if err != nil {
		return err
	}

	e.track.AddNext(obj, frame)
	e.misses = 0

	return nil
}

// Miss records that active track id was not matched in the current frame.
// It returns true if the track remains active.
// It returns error if the track does not exist or is not active.
func (s *Set[T]) Miss(id int) (bool, error) {
	e, err := s.active("track.Miss", id)
	if err != nil {
		return false, err
	}

	e.misses++
	if e.misses > s.maxMisses {
		e.track.Deactivate()
	}

	return e.track.Active(), nil
}

// Deactivate terminates track id.
func (s *Set[T]) Deactivate(id int) error {
	e, ok := s.tracks[id]
	if !ok {
		return fault.New("track.Deactivate", fault.ErrRange, "unknown track: %d", id)
	}
	e.track.Deactivate()

	return nil
}

// PredictActive returns the predicted next object of every active track keyed by track ID.
// Tracks long enough are extrapolated by their own filter. Shorter tracks are moved
// by field at their last position; they stay in place if field is nil or does not cover them.
// Tracks are processed in parallel by at most workers goroutines; non-positive
// workers uses all available CPUs.
func (s *Set[T]) PredictActive(field lpt.Field, workers int) (map[int]T, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ids := s.Active()
	preds := make([]T, len(ids))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, id := range ids {
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		t := s.tracks[id].track
		g.Go(func() error {
			if t.Len() >= MinHistory {
				p, err := t.Predict()
				if err != nil {
					return err
				}
				preds[i] = p
				return nil
			}

			last, _ := t.Last()
			preds[i] = last.Moved(last.Center())
			if field != nil {
				if d, err := field.Interp(last.Center()); err == nil {
					preds[i] = last.Moved(last.Center().Add(d))
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[int]T, len(ids))
	for i, id := range ids {
		res[id] = preds[i]
	}

	return res, nil
}

// Save writes all tracks to w as CSV in ascending ID order, one record per object.
// It returns error if fps is not positive or writing fails.
func (s *Set[T]) Save(w io.Writer, fps float64) error {
	if fps <= 0 {
		return fault.New("track.Save", fault.ErrRange, "invalid frame rate: %g", fps)
	}

	cw := csv.NewWriter(w)
	for _, id := range s.IDs() {
		if err := s.tracks[id].track.WriteCSV(cw, id, fps); err != nil {
			return err
		}
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		return fault.Wrap("track.Save", fault.ErrIO, err)
	}

	return nil
}

// SaveFile writes all tracks into the file at path.
func (s *Set[T]) SaveFile(path string, fps float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap("track.SaveFile", fault.ErrIO, err)
	}

	if err := s.Save(f, fps); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fault.Wrap("track.SaveFile", fault.ErrIO, err)
	}

	return nil
}

// Centers returns the centers of objs.
func Centers[T Object[T]](objs []T) []geom.Point3D {
	pts := make([]geom.Point3D, len(objs))
	for i := range objs {
		pts[i] = objs[i].Center()
	}

	return pts
}
