// Package plotting renders evaluation charts (ROC curves, class
// scatter plots) to image files with gonum/plot.
package plotting

import (
	"image/color"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// ROCPoint is one operating point of a binary classifier: the false
// and true positive rates at some score threshold.
type ROCPoint struct {
	FPR float64
	TPR float64
}

// ROCCurve computes the ROC operating points of binary labels against
// scores, sweeping the threshold from high to low. The curve always
// starts at (0,0) and ends at (1,1).
func ROCCurve(yTrue, yScore *mat.VecDense) ([]ROCPoint, error) {
	if yTrue == nil || yScore == nil {
		return nil, errors.NewValueError("ROCCurve", "nil input")
	}
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ROCCurve", "empty input")
	}
	if yScore.Len() != n {
		return nil, errors.NewDimensionError("ROCCurve", n, yScore.Len(), 0)
	}

	var nPos, nNeg float64
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return nil, errors.NewValueError("ROCCurve", "labels must be 0 or 1")
		}
	}
	if nPos == 0 || nNeg == 0 {
		return nil, errors.NewValueError("ROCCurve", "both classes must be present")
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return yScore.AtVec(order[a]) > yScore.AtVec(order[b])
	})

	points := []ROCPoint{{FPR: 0, TPR: 0}}
	var tp, fp float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(order[i]) == 1 {
			tp++
		} else {
			fp++
		}
		// Emit a point only once all samples sharing this score are
		// consumed, so ties form a single diagonal segment.
		if i+1 < n && yScore.AtVec(order[i+1]) == yScore.AtVec(order[i]) {
			continue
		}
		points = append(points, ROCPoint{FPR: fp / nNeg, TPR: tp / nPos})
	}
	return points, nil
}

// SaveROCCurve computes the ROC curve and writes it as a chart to path.
// The file format follows the extension (.png, .svg, .pdf).
func SaveROCCurve(yTrue, yScore *mat.VecDense, title, path string) error {
	points, err := ROCCurve(yTrue, yScore)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	curve := make(plotter.XYs, len(points))
	for i, pt := range points {
		curve[i].X = pt.FPR
		curve[i].Y = pt.TPR
	}
	line, err := plotter.NewLine(curve)
	if err != nil {
		return errors.Wrap(err, "SaveROCCurve: failed to build curve")
	}
	line.Color = color.RGBA{B: 255, A: 255}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("model", line)

	// Chance diagonal for reference.
	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return errors.Wrap(err, "SaveROCCurve: failed to build diagonal")
	}
	diag.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	diag.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diag)
	p.Legend.Add("chance", diag)

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "SaveROCCurve: failed to save plot")
	}
	return nil
}
