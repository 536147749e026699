// Package model_selection provides train/test splitting and k-fold
// cross-validation utilities.
package model_selection

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// Split holds the result of TrainTestSplit.
type Split struct {
	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain *mat.Dense
	YTest  *mat.Dense
}

// SplitOption configures TrainTestSplit.
type SplitOption func(*splitConfig)

type splitConfig struct {
	testSize float64
	seed     int
	shuffle  bool
	stratify bool
}

// WithTestSize sets the fraction of samples held out for testing.
// Default 0.25.
func WithTestSize(size float64) SplitOption {
	return func(c *splitConfig) { c.testSize = size }
}

// WithSeed sets the random seed used for shuffling.
func WithSeed(seed int) SplitOption {
	return func(c *splitConfig) { c.seed = seed }
}

// WithShuffle controls whether samples are shuffled before splitting.
// Default true.
func WithShuffle(shuffle bool) SplitOption {
	return func(c *splitConfig) { c.shuffle = shuffle }
}

// WithStratify preserves the class proportions of y in both halves of
// the split. Requires every class to have at least two samples.
func WithStratify(stratify bool) SplitOption {
	return func(c *splitConfig) { c.stratify = stratify }
}

// TrainTestSplit partitions X and y into train and test sets.
func TrainTestSplit(X, y mat.Matrix, opts ...SplitOption) (*Split, error) {
	cfg := splitConfig{testSize: 0.25, shuffle: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if X == nil || y == nil {
		return nil, errors.NewValueError("TrainTestSplit", "nil input")
	}
	n, _ := X.Dims()
	yr, _ := y.Dims()
	if n == 0 {
		return nil, errors.NewValueError("TrainTestSplit", "empty input")
	}
	if yr != n {
		return nil, errors.NewDimensionError("TrainTestSplit", n, yr, 0)
	}
	if cfg.testSize <= 0 || cfg.testSize >= 1 {
		return nil, errors.NewValidationError("test_size", "must be in (0, 1)", cfg.testSize)
	}

	var testIdx, trainIdx []int
	var err error
	if cfg.stratify {
		testIdx, trainIdx, err = stratifiedIndices(y, n, cfg)
	} else {
		testIdx, trainIdx, err = plainIndices(n, cfg)
	}
	if err != nil {
		return nil, err
	}
	if len(testIdx) == 0 || len(trainIdx) == 0 {
		return nil, errors.NewValueError("TrainTestSplit", "split leaves one side empty; adjust test_size")
	}

	return &Split{
		XTrain: takeRows(X, trainIdx),
		XTest:  takeRows(X, testIdx),
		YTrain: takeRows(y, trainIdx),
		YTest:  takeRows(y, testIdx),
	}, nil
}

func plainIndices(n int, cfg splitConfig) (test, train []int, err error) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if cfg.shuffle {
		r := rand.New(rand.NewPCG(uint64(cfg.seed), uint64(cfg.seed)))
		r.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	nTest := int(math.Round(float64(n) * cfg.testSize))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	return indices[:nTest], indices[nTest:], nil
}

func stratifiedIndices(y mat.Matrix, n int, cfg splitConfig) (test, train []int, err error) {
	classIndices := make(map[float64][]int)
	for i := 0; i < n; i++ {
		label := y.At(i, 0)
		classIndices[label] = append(classIndices[label], i)
	}

	// Iterate classes in a fixed order so the split is deterministic.
	labels := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	r := rand.New(rand.NewPCG(uint64(cfg.seed), uint64(cfg.seed)))
	for _, label := range labels {
		idx := classIndices[label]
		if len(idx) < 2 {
			return nil, nil, errors.NewValueError("TrainTestSplit",
				"stratified split requires at least 2 samples per class")
		}
		if cfg.shuffle {
			r.Shuffle(len(idx), func(i, j int) {
				idx[i], idx[j] = idx[j], idx[i]
			})
		}

		nt := int(math.Round(float64(len(idx)) * cfg.testSize))
		if nt < 1 {
			nt = 1
		}
		if nt >= len(idx) {
			nt = len(idx) - 1
		}
		test = append(test, idx[:nt]...)
		train = append(train, idx[nt:]...)
	}
	return test, train, nil
}

// takeRows copies the given rows of m into a new dense matrix.
func takeRows(m mat.Matrix, rows []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, src := range rows {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(src, j))
		}
	}
	return out
}
