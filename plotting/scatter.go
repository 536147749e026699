package plotting

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// classPalette cycles through a fixed set of distinguishable colors.
var classPalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

// SaveClassScatter plots two feature columns of X colored by class
// label and writes the chart to path. xCol and yCol pick the feature
// columns to show.
func SaveClassScatter(X, y mat.Matrix, xCol, yCol int, title, path string) error {
	if X == nil || y == nil {
		return errors.NewValueError("SaveClassScatter", "nil input")
	}
	n, c := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return errors.NewValueError("SaveClassScatter", "empty input")
	}
	if yr != n {
		return errors.NewDimensionError("SaveClassScatter", n, yr, 0)
	}
	if xCol < 0 || xCol >= c || yCol < 0 || yCol >= c {
		return errors.NewValidationError("columns", "feature column out of range",
			fmt.Sprintf("xCol=%d yCol=%d nFeatures=%d", xCol, yCol, c))
	}

	byClass := map[int]plotter.XYs{}
	var classes []int
	for i := 0; i < n; i++ {
		class := int(y.At(i, 0))
		if _, ok := byClass[class]; !ok {
			classes = append(classes, class)
		}
		byClass[class] = append(byClass[class], plotter.XY{
			X: X.At(i, xCol),
			Y: X.At(i, yCol),
		})
	}
	sort.Ints(classes)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("feature %d", xCol)
	p.Y.Label.Text = fmt.Sprintf("feature %d", yCol)

	for i, class := range classes {
		s, err := plotter.NewScatter(byClass[class])
		if err != nil {
			return errors.Wrap(err, "SaveClassScatter: failed to build scatter")
		}
		s.GlyphStyle.Color = classPalette[i%len(classPalette)]
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("class %d", class), s)
	}

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "SaveClassScatter: failed to save plot")
	}
	return nil
}
