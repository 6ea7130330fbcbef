package geom

// AxisLimit is an axis aligned bounding box.
type AxisLimit struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
	ZMin float64 `yaml:"z_min"`
	ZMax float64 `yaml:"z_max"`
}

// Contains returns true if pt lies inside the box, boundary included.
func (a AxisLimit) Contains(pt Point3D) bool {
	return pt[0] >= a.XMin && pt[0] <= a.XMax &&
		pt[1] >= a.YMin && pt[1] <= a.YMax &&
		pt[2] >= a.ZMin && pt[2] <= a.ZMax
}

// Min returns the minimum corner of the box.
func (a AxisLimit) Min() Point3D {
	return Point3D{a.XMin, a.YMin, a.ZMin}
}

// Max returns the maximum corner of the box.
func (a AxisLimit) Max() Point3D {
	return Point3D{a.XMax, a.YMax, a.ZMax}
}

// IsValid returns true if every axis has min < max.
func (a AxisLimit) IsValid() bool {
	return a.XMin < a.XMax && a.YMin < a.YMax && a.ZMin < a.ZMax
}

// PixelRange is a rectangular image region, half open: [min, max).
type PixelRange struct {
	RowMin int
	RowMax int
	ColMin int
	ColMax int
}

// SetRowRange grows r so that it includes row.
func (r *PixelRange) SetRowRange(row int) {
	if row >= r.RowMax {
		r.RowMax = row + 1
	} else if row < r.RowMin {
		r.RowMin = row
	}
}

// SetColRange grows r so that it includes col.
func (r *PixelRange) SetColRange(col int) {
	if col >= r.ColMax {
		r.ColMax = col + 1
	} else if col < r.ColMin {
		r.ColMin = col
	}
}

// SetRange grows r so that it includes pixel (row, col).
func (r *PixelRange) SetRange(row, col int) {
	r.SetRowRange(row)
	r.SetColRange(col)
}

// NumRows returns the number of rows covered by r.
func (r PixelRange) NumRows() int {
	return r.RowMax - r.RowMin
}

// NumCols returns the number of columns covered by r.
func (r PixelRange) NumCols() int {
	return r.ColMax - r.ColMin
}
