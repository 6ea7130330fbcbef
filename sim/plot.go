package sim

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
)

// Axis is a world coordinate axis.
type Axis int

const (
	// X is world x axis
	X Axis = iota
	// Y is world y axis
	Y
	// Z is world z axis
	Z
)

// String implements the Stringer interface.
func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "?"
	}
}

// New2DPlot creates new plot of a tracked trajectory from three data sources
// projected onto the h, v axes plane:
// truth:     true tracer positions
// observed:  reconstructed positions
// predicted: positions predicted by the tracker
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * either of the supplied data sets has fewer than 2 points
// * either of the axes is invalid
// * gonum plot fails to be created
func New2DPlot(truth, observed, predicted []geom.Point3D, h, v Axis) (*plot.Plot, error) {
	if len(truth) < 2 || len(observed) < 2 || len(predicted) < 2 {
		return nil, fault.New("sim.New2DPlot", fault.ErrSize, "need at least 2 points per data set")
	}

	if h < X || h > Z || v < X || v > Z {
		return nil, fault.New("sim.New2DPlot", fault.ErrRange, "invalid axes: %d, %d", h, v)
	}

	p := plot.New()

	p.Title.Text = "Trajectory"
	p.X.Label.Text = h.String()
	p.Y.Label.Text = v.String()

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	// Make a scatter plotter for true positions
	truthScatter, err := plotter.NewScatter(makePoints(truth, h, v))
	if err != nil {
		return nil, fault.Wrap("sim.New2DPlot", fault.ErrRange, err)
	}
	truthScatter.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	truthScatter.Shape = draw.PyramidGlyph{}
	truthScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(truthScatter)
	p.Legend.Add("truth", truthScatter)

	// Make a scatter plotter for reconstructed positions
	obsScatter, err := plotter.NewScatter(makePoints(observed, h, v))
	if err != nil {
		return nil, fault.Wrap("sim.New2DPlot", fault.ErrRange, err)
	}
	obsScatter.GlyphStyle.Color = color.RGBA{G: 255, A: 128}
	obsScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(obsScatter)
	p.Legend.Add("observed", obsScatter)

	// Make a scatter plotter for predicted positions
	predScatter, err := plotter.NewScatter(makePoints(predicted, h, v))
	if err != nil {
		return nil, fault.Wrap("sim.New2DPlot", fault.ErrRange, err)
	}
	predScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169}
	predScatter.Shape = draw.CrossGlyph{}
	predScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(predScatter)
	p.Legend.Add("predicted", predScatter)

	return p, nil
}

func makePoints(pts []geom.Point3D, h, v Axis) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i := range pts {
		xys[i].X = pts[i][h]
		xys[i].Y = pts[i][v]
	}

	return xys
}
