package model_selection

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Splitter generates train/test index pairs for cross-validation.
type Splitter interface {
	Split(X, y mat.Matrix) []Fold
	NSplits() int
}

// Fold is a single train/test partition of the sample indices.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold splits samples into k consecutive folds, optionally shuffled.
type KFold struct {
	nSplits int
	shuffle bool
	seed    int
}

// NewKFold creates a k-fold splitter. nSplits below 2 falls back to 5.
func NewKFold(nSplits int, shuffle bool, seed int) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{nSplits: nSplits, shuffle: shuffle, seed: seed}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int { return kf.nSplits }

// Split generates the train/test indices for each fold.
func (kf *KFold) Split(X, _ mat.Matrix) []Fold {
	n, _ := X.Dims()

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.seed), uint64(kf.seed)))
		r.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.nSplits)
	foldSize := n / kf.nSplits
	remainder := n % kf.nSplits

	start := 0
	for i := 0; i < kf.nSplits; i++ {
		size := foldSize
		if i < remainder {
			size++
		}

		test := make([]int, size)
		copy(test, indices[start:start+size])

		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[start+size:]...)

		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		start += size
	}
	return folds
}

// StratifiedKFold splits samples into k folds that each preserve the
// class proportions of y.
type StratifiedKFold struct {
	nSplits int
	shuffle bool
	seed    int
}

// NewStratifiedKFold creates a stratified k-fold splitter. nSplits
// below 2 falls back to 5.
func NewStratifiedKFold(nSplits int, shuffle bool, seed int) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{nSplits: nSplits, shuffle: shuffle, seed: seed}
}

// NSplits returns the number of folds.
func (skf *StratifiedKFold) NSplits() int { return skf.nSplits }

// Split generates stratified train/test indices for each fold.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) []Fold {
	n, _ := X.Dims()

	classIndices := make(map[float64][]int)
	for i := 0; i < n; i++ {
		label := y.At(i, 0)
		classIndices[label] = append(classIndices[label], i)
	}
	labels := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	if skf.shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.seed), uint64(skf.seed)))
		for _, label := range labels {
			idx := classIndices[label]
			r.Shuffle(len(idx), func(i, j int) {
				idx[i], idx[j] = idx[j], idx[i]
			})
		}
	}

	folds := make([]Fold, skf.nSplits)

	// Deal each class across the folds round-robin by block.
	for _, label := range labels {
		idx := classIndices[label]
		foldSize := len(idx) / skf.nSplits
		remainder := len(idx) % skf.nSplits

		pos := 0
		for i := 0; i < skf.nSplits; i++ {
			size := foldSize
			if i < remainder {
				size++
			}
			folds[i].TestIndices = append(folds[i].TestIndices, idx[pos:pos+size]...)
			pos += size
		}
	}

	for i := range folds {
		inTest := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			inTest[idx] = true
		}
		for j := 0; j < n; j++ {
			if !inTest[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}
	return folds
}
