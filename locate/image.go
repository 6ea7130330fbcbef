package locate

import (
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/tiff"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/matrix"
)

// Image is an intensity image backed by a dense matrix: rows are image rows.
type Image struct {
	m *matrix.Dense[float64]
}

// NewImage returns the image backed by a copy of m.
// It returns error if m is empty.
func NewImage(m *matrix.Dense[float64]) (*Image, error) {
	if m.IsEmpty() {
		return nil, fault.New("locate.NewImage", fault.ErrSpace, "matrix is not allocated")
	}

	return &Image{m: m.Clone()}, nil
}

// FromImage converts img to an intensity image.
// Gray and Gray16 images keep their native intensity scale, other color
// models are converted to 8 bit luminance.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	m, _ := matrix.New(max(b.Dy(), 1), max(b.Dx(), 1), 0.0)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var v float64
			switch g := img.(type) {
			case *image.Gray:
				v = float64(g.GrayAt(x, y).Y)
			case *image.Gray16:
				v = float64(g.Gray16At(x, y).Y)
			default:
				v = float64(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			}
			m.Set(y-b.Min.Y, x-b.Min.X, v)
		}
	}

	return &Image{m: m}
}

// ReadTIFF decodes a TIFF image from r.
func ReadTIFF(r io.Reader) (*Image, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fault.Wrap("locate.ReadTIFF", fault.ErrIO, err)
	}

	return FromImage(img), nil
}

// ReadTIFFFile decodes the TIFF image stored in the file at path.
func ReadTIFFFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap("locate.ReadTIFFFile", fault.ErrIO, err)
	}
	defer f.Close()

	return ReadTIFF(f)
}

// Dims returns the number of image rows and columns.
func (img *Image) Dims() (rows, cols int) {
	return img.m.Dims()
}

// At returns the intensity at row and col.
func (img *Image) At(row, col int) float64 {
	return img.m.At(row, col)
}

// Matrix returns a copy of image data.
func (img *Image) Matrix() *matrix.Dense[float64] {
	return img.m.Clone()
}
