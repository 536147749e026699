// Package resample provides class rebalancing for imbalanced
// classification datasets: random over- and under-sampling and SMOTE.
package resample

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// Sampler rebalances a labeled dataset and returns the new X and y.
type Sampler interface {
	FitResample(X, y mat.Matrix) (mat.Matrix, mat.Matrix, error)
}

// classSplit groups row indices by integer label, classes sorted.
type classSplit struct {
	classes []int
	rows    map[int][]int
}

func splitByClass(op string, X, y mat.Matrix) (*classSplit, int, error) {
	if X == nil || y == nil {
		return nil, 0, errors.NewValueError(op, "nil input")
	}
	n, _ := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return nil, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if yr != n {
		return nil, 0, errors.NewDimensionError(op, n, yr, 0)
	}

	split := &classSplit{rows: map[int][]int{}}
	for i := 0; i < n; i++ {
		class := int(y.At(i, 0))
		if _, ok := split.rows[class]; !ok {
			split.classes = append(split.classes, class)
		}
		split.rows[class] = append(split.rows[class], i)
	}
	sort.Ints(split.classes)
	if len(split.classes) < 2 {
		return nil, 0, errors.NewValueError(op, "need at least 2 classes to resample")
	}
	return split, n, nil
}

func (s *classSplit) maxCount() int {
	m := 0
	for _, rows := range s.rows {
		if len(rows) > m {
			m = len(rows)
		}
	}
	return m
}

func (s *classSplit) minCount() int {
	m := -1
	for _, rows := range s.rows {
		if m < 0 || len(rows) < m {
			m = len(rows)
		}
	}
	return m
}

// assemble builds the resampled matrices from (row, class) picks.
type pick struct {
	row   []float64
	label int
}

func assemble(picks []pick, nFeatures int) (mat.Matrix, mat.Matrix) {
	X := mat.NewDense(len(picks), nFeatures, nil)
	y := mat.NewDense(len(picks), 1, nil)
	for i, p := range picks {
		X.SetRow(i, p.row)
		y.Set(i, 0, float64(p.label))
	}
	return X, y
}

func rowOf(X mat.Matrix, i, nFeatures int) []float64 {
	row := make([]float64, nFeatures)
	for j := 0; j < nFeatures; j++ {
		row[j] = X.At(i, j)
	}
	return row
}

// RandomOverSampler duplicates minority-class samples at random until
// every class matches the majority count.
type RandomOverSampler struct {
	seed int
}

// NewRandomOverSampler creates an over-sampler with the given seed.
func NewRandomOverSampler(seed int) *RandomOverSampler {
	return &RandomOverSampler{seed: seed}
}

// FitResample returns X and y with every class grown to the majority
// size. Original samples always survive; the duplicates are drawn with
// replacement.
func (ros *RandomOverSampler) FitResample(X, y mat.Matrix) (mat.Matrix, mat.Matrix, error) {
	split, _, err := splitByClass("RandomOverSampler.FitResample", X, y)
	if err != nil {
		return nil, nil, err
	}
	_, nFeatures := X.Dims()
	rng := rand.New(rand.NewPCG(uint64(ros.seed), uint64(ros.seed)))

	target := split.maxCount()
	var picks []pick
	for _, class := range split.classes {
		rows := split.rows[class]
		for _, r := range rows {
			picks = append(picks, pick{row: rowOf(X, r, nFeatures), label: class})
		}
		for extra := target - len(rows); extra > 0; extra-- {
			r := rows[rng.IntN(len(rows))]
			picks = append(picks, pick{row: rowOf(X, r, nFeatures), label: class})
		}
	}

	Xr, yr := assemble(picks, nFeatures)
	return Xr, yr, nil
}

// RandomUnderSampler drops majority-class samples at random until every
// class matches the minority count.
type RandomUnderSampler struct {
	seed int
}

// NewRandomUnderSampler creates an under-sampler with the given seed.
func NewRandomUnderSampler(seed int) *RandomUnderSampler {
	return &RandomUnderSampler{seed: seed}
}

// FitResample returns X and y with every class cut to the minority
// size. Rows are kept in their original order within each class.
func (rus *RandomUnderSampler) FitResample(X, y mat.Matrix) (mat.Matrix, mat.Matrix, error) {
	split, _, err := splitByClass("RandomUnderSampler.FitResample", X, y)
	if err != nil {
		return nil, nil, err
	}
	_, nFeatures := X.Dims()
	rng := rand.New(rand.NewPCG(uint64(rus.seed), uint64(rus.seed)))

	target := split.minCount()
	var picks []pick
	for _, class := range split.classes {
		rows := append([]int(nil), split.rows[class]...)
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		kept := rows[:target]
		sort.Ints(kept)
		for _, r := range kept {
			picks = append(picks, pick{row: rowOf(X, r, nFeatures), label: class})
		}
	}

	Xr, yr := assemble(picks, nFeatures)
	return Xr, yr, nil
}

// SMOTE grows minority classes with synthetic samples interpolated
// between a minority point and one of its k nearest minority neighbors.
type SMOTE struct {
	kNeighbors int
	seed       int
}

// SMOTEOption configures a SMOTE sampler.
type SMOTEOption func(*SMOTE)

// WithKNeighbors sets the number of minority neighbors interpolation
// candidates are drawn from. Default 5.
func WithKNeighbors(k int) SMOTEOption {
	return func(s *SMOTE) { s.kNeighbors = k }
}

// WithSMOTESeed sets the random seed.
func WithSMOTESeed(seed int) SMOTEOption {
	return func(s *SMOTE) { s.seed = seed }
}

// NewSMOTE creates a SMOTE sampler.
func NewSMOTE(opts ...SMOTEOption) *SMOTE {
	s := &SMOTE{kNeighbors: 5}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FitResample returns X and y with every minority class grown to the
// majority size by synthetic interpolation. Classes with fewer than two
// samples cannot be interpolated and produce an error.
func (s *SMOTE) FitResample(X, y mat.Matrix) (mat.Matrix, mat.Matrix, error) {
	split, _, err := splitByClass("SMOTE.FitResample", X, y)
	if err != nil {
		return nil, nil, err
	}
	if s.kNeighbors < 1 {
		return nil, nil, errors.NewValidationError("k_neighbors", "must be at least 1", s.kNeighbors)
	}
	_, nFeatures := X.Dims()
	rng := rand.New(rand.NewPCG(uint64(s.seed), uint64(s.seed)))

	target := split.maxCount()
	var picks []pick
	for _, class := range split.classes {
		rows := split.rows[class]
		for _, r := range rows {
			picks = append(picks, pick{row: rowOf(X, r, nFeatures), label: class})
		}
		need := target - len(rows)
		if need == 0 {
			continue
		}
		if len(rows) < 2 {
			return nil, nil, errors.NewValueError("SMOTE.FitResample",
				"minority class needs at least 2 samples for interpolation")
		}

		k := s.kNeighbors
		if k > len(rows)-1 {
			k = len(rows) - 1
		}
		for g := 0; g < need; g++ {
			base := rows[rng.IntN(len(rows))]
			nb := s.nearestWithin(X, rows, base, k, nFeatures)[rng.IntN(k)]
			gap := rng.Float64()
			row := make([]float64, nFeatures)
			for j := 0; j < nFeatures; j++ {
				bj := X.At(base, j)
				row[j] = bj + gap*(X.At(nb, j)-bj)
			}
			picks = append(picks, pick{row: row, label: class})
		}
	}

	Xr, yr := assemble(picks, nFeatures)
	return Xr, yr, nil
}

// nearestWithin returns the k rows of the same class closest to base,
// excluding base itself.
func (s *SMOTE) nearestWithin(X mat.Matrix, rows []int, base, k, nFeatures int) []int {
	type cand struct {
		row  int
		dist float64
	}
	cands := make([]cand, 0, len(rows)-1)
	for _, r := range rows {
		if r == base {
			continue
		}
		var d2 float64
		for j := 0; j < nFeatures; j++ {
			diff := X.At(base, j) - X.At(r, j)
			d2 += diff * diff
		}
		cands = append(cands, cand{row: r, dist: d2})
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = cands[i].row
	}
	return out
}
