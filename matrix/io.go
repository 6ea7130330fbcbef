package matrix

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"github.com/milosgajdos/go-lpt/fault"
)

// Read reads a comma separated matrix from r and returns it.
// Every line holds one matrix row; all rows must have the same number of columns.
// It returns error wrapping fault.ErrIO if the input can't be read or parsed.
func Read[T Number](r io.Reader) (*Dense[T], error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 0

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fault.Wrap("matrix.Read", fault.ErrIO, err)
	}

	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fault.New("matrix.Read", fault.ErrIO, "no data")
	}

	rows, cols := len(records), len(records[0])
	data := make([]T, 0, rows*cols)
	for i, rec := range records {
		for j, field := range rec {
			v, err := parse[T](strings.TrimSpace(field))
			if err != nil {
				return nil, fault.New("matrix.Read", fault.ErrIO, "element (%d,%d): %v", i, j, err)
			}
			data = append(data, v)
		}
	}

	return &Dense[T]{rows: rows, cols: cols, data: data}, nil
}

// ReadFile reads a comma separated matrix from the file at path and returns it.
func ReadFile[T Number](path string) (*Dense[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap("matrix.ReadFile", fault.ErrIO, err)
	}
	defer f.Close()

	return Read[T](f)
}

// Write writes m to w as comma separated rows, one row per line.
// Floating point elements are written in their shortest exact representation
// so that Read returns an identical matrix.
func (m *Dense[T]) Write(w io.Writer) error {
	if m.IsEmpty() {
		return fault.New("matrix.Write", fault.ErrSpace, "matrix is not allocated")
	}

	cw := csv.NewWriter(w)
	rec := make([]string, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			rec[j] = format(m.data[i*m.cols+j])
		}
		if err := cw.Write(rec); err != nil {
			return fault.Wrap("matrix.Write", fault.ErrIO, err)
		}
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		return fault.Wrap("matrix.Write", fault.ErrIO, err)
	}

	return nil
}

// WriteFile writes m into the file at path, truncating it if it exists.
func (m *Dense[T]) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap("matrix.WriteFile", fault.ErrIO, err)
	}

	if err := m.Write(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fault.Wrap("matrix.WriteFile", fault.ErrIO, err)
	}

	return nil
}

func parse[T Number](s string) (T, error) {
	if isInteger[T]() {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		return T(v), nil
	}

	var zero T
	v, err := strconv.ParseFloat(s, int(unsafe.Sizeof(zero))*8)
	if err != nil {
		return 0, err
	}

	return T(v), nil
}

func format[T Number](v T) string {
	if isInteger[T]() {
		return fmt.Sprint(v)
	}

	return strconv.FormatFloat(float64(v), 'g', -1, int(unsafe.Sizeof(v))*8)
}
