package sim

import (
	"image"
	"image/color"
	"math"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
	"github.com/milosgajdos/go-lpt/matrix"
)

// GaussianBlobs renders isotropic gaussian tracer images of peak intensity amp
// and width sigma centered at centers into a rows x cols image.
// Centers are given as (x, y) = (column, row). Overlapping blobs add up.
func GaussianBlobs(rows, cols int, centers []geom.Point2D, amp, sigma float64) (*matrix.Dense[float64], error) {
	if sigma <= 0 {
		return nil, fault.New("sim.GaussianBlobs", fault.ErrRange, "invalid blob width: %g", sigma)
	}

	img, err := matrix.New(rows, cols, 0.0)
	if err != nil {
		return nil, err
	}

	// pixels further than 4 sigma receive no intensity
	reach := int(math.Ceil(4 * sigma))
	for _, c := range centers {
		r0, c0 := int(math.Round(c[1])), int(math.Round(c[0]))
		for row := max(r0-reach, 0); row <= min(r0+reach, rows-1); row++ {
			for col := max(c0-reach, 0); col <= min(c0+reach, cols-1); col++ {
				dx, dy := float64(col)-c[0], float64(row)-c[1]
				v := amp * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
				img.Set(row, col, img.At(row, col)+v)
			}
		}
	}

	return img, nil
}

// Gray16 converts intensity matrix m to a 16 bit grayscale image, clamping
// values into the [0, 65535] range.
func Gray16(m *matrix.Dense[float64]) *image.Gray16 {
	rows, cols := m.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v := math.Round(math.Min(math.Max(m.At(row, col), 0), math.MaxUint16))
			img.SetGray16(col, row, color.Gray16{Y: uint16(v)})
		}
	}

	return img
}
