// Package datasets provides the toy datasets used throughout the lessons:
// the bundled iris and wine tables plus deterministic synthetic generators.
package datasets

import (
	"gonum.org/v1/gonum/mat"
)

// Dataset bundles a feature matrix with its targets and human-readable
// metadata. Loaders return fresh copies, so callers may mutate freely.
type Dataset struct {
	// Data is the n_samples × n_features feature matrix.
	Data *mat.Dense

	// Target is the n_samples × 1 label (or response) vector.
	Target *mat.Dense

	// FeatureNames holds one name per column of Data.
	FeatureNames []string

	// TargetNames maps class index to class name for classification data.
	TargetNames []string

	// Description is a short, human-readable summary of the dataset.
	Description string
}

// X returns the feature matrix.
func (d *Dataset) X() *mat.Dense { return d.Data }

// Y returns the target column vector.
func (d *Dataset) Y() *mat.Dense { return d.Target }

// NSamples returns the number of rows in the dataset.
func (d *Dataset) NSamples() int {
	r, _ := d.Data.Dims()
	return r
}

// NFeatures returns the number of feature columns.
func (d *Dataset) NFeatures() int {
	_, c := d.Data.Dims()
	return c
}

// NClasses returns the number of distinct labels in Target.
func (d *Dataset) NClasses() int {
	r, _ := d.Target.Dims()
	seen := make(map[float64]struct{}, 4)
	for i := 0; i < r; i++ {
		seen[d.Target.At(i, 0)] = struct{}{}
	}
	return len(seen)
}

// ClassCounts returns the number of samples per class label.
func (d *Dataset) ClassCounts() map[int]int {
	r, _ := d.Target.Dims()
	counts := make(map[int]int, 4)
	for i := 0; i < r; i++ {
		counts[int(d.Target.At(i, 0))]++
	}
	return counts
}
