// Package preprocessing provides feature scaling transformers.
//
// Distance-based models care about the scale of their inputs: a feature
// measured in the hundreds will dominate one measured near 1. The
// scalers here learn per-column statistics in Fit and apply them in
// Transform, never leaking information from data they were not fitted
// on.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/core/model"
	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// StandardScaler standardizes features to zero mean and unit variance.
type StandardScaler struct {
	model.BaseEstimator

	// Mean holds the per-feature mean computed by Fit.
	Mean []float64
	// Scale holds the per-feature standard deviation computed by Fit.
	// Near-constant features get a scale of 1 to avoid division by zero.
	Scale []float64

	nFeatures int
	withMean  bool
	withStd   bool
}

// StandardScalerOption configures a StandardScaler.
type StandardScalerOption func(*StandardScaler)

// WithMean controls whether Transform centers features on the fitted
// mean. Default true.
func WithMean(center bool) StandardScalerOption {
	return func(s *StandardScaler) { s.withMean = center }
}

// WithStd controls whether Transform divides features by the fitted
// standard deviation. Default true.
func WithStd(scale bool) StandardScalerOption {
	return func(s *StandardScaler) { s.withStd = scale }
}

// NewStandardScaler creates a StandardScaler. By default it both
// centers and scales.
func NewStandardScaler(opts ...StandardScalerOption) *StandardScaler {
	s := &StandardScaler{withMean: true, withStd: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit computes the per-feature mean and standard deviation of X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.nFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		if s.withMean {
			var sum float64
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			s.Mean[j] = sum / float64(r)
		}

		s.Scale[j] = 1.0
		if s.withStd {
			var sumSq float64
			for i := 0; i < r; i++ {
				diff := X.At(i, j) - s.Mean[j]
				sumSq += diff * diff
			}
			std := math.Sqrt(sumSq / float64(r))
			if std > 1e-8 {
				s.Scale[j] = std
			}
		}
	}

	s.SetFitted()
	return nil
}

// Transform standardizes X using the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.nFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return out, nil
}

// FitTransform fits the scaler on X and returns the transformed data.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.nFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return out, nil
}

// MinMaxScaler rescales features to a fixed range, [0, 1] by default.
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin and DataMax hold the per-feature minimum and maximum
	// observed by Fit.
	DataMin []float64
	DataMax []float64

	nFeatures int
	rangeMin  float64
	rangeMax  float64
}

// MinMaxScalerOption configures a MinMaxScaler.
type MinMaxScalerOption func(*MinMaxScaler)

// WithFeatureRange sets the output range. Default [0, 1].
func WithFeatureRange(min, max float64) MinMaxScalerOption {
	return func(s *MinMaxScaler) {
		s.rangeMin = min
		s.rangeMax = max
	}
}

// NewMinMaxScaler creates a MinMaxScaler with the given options.
func NewMinMaxScaler(opts ...MinMaxScalerOption) *MinMaxScaler {
	s := &MinMaxScaler{rangeMin: 0, rangeMax: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit records the per-feature minimum and maximum of X.
func (s *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if s.rangeMin >= s.rangeMax {
		return errors.NewValueError("MinMaxScaler.Fit", "feature range min must be below max")
	}

	s.nFeatures = c
	s.DataMin = make([]float64, c)
	s.DataMax = make([]float64, c)

	for j := 0; j < c; j++ {
		min, max := X.At(0, j), X.At(0, j)
		for i := 1; i < r; i++ {
			v := X.At(i, j)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		s.DataMin[j] = min
		s.DataMax[j] = max
	}

	s.SetFitted()
	return nil
}

// Transform rescales X into the configured range using the fitted
// minima and maxima. Constant features map to the range minimum.
func (s *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", s.nFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		span := s.DataMax[j] - s.DataMin[j]
		for i := 0; i < r; i++ {
			if span == 0 {
				out.Set(i, j, s.rangeMin)
				continue
			}
			scaled := (X.At(i, j) - s.DataMin[j]) / span
			out.Set(i, j, s.rangeMin+scaled*(s.rangeMax-s.rangeMin))
		}
	}
	return out, nil
}

// FitTransform fits the scaler on X and returns the transformed data.
func (s *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps scaled data back to the original range.
func (s *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}
	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", s.nFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		span := s.DataMax[j] - s.DataMin[j]
		for i := 0; i < r; i++ {
			unit := (X.At(i, j) - s.rangeMin) / (s.rangeMax - s.rangeMin)
			out.Set(i, j, s.DataMin[j]+unit*span)
		}
	}
	return out, nil
}
