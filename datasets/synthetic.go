package datasets

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// SyntheticOption configures the synthetic data generators.
type SyntheticOption func(*syntheticConfig)

type syntheticConfig struct {
	nSamples         int
	nFeatures        int
	nClasses         int
	classSep         float64
	noise            float64
	minorityFraction float64
	seed             int64
}

func defaultSyntheticConfig() syntheticConfig {
	return syntheticConfig{
		nSamples:         100,
		nFeatures:        2,
		nClasses:         2,
		classSep:         2.0,
		noise:            1.0,
		minorityFraction: 0.1,
		seed:             0,
	}
}

// WithNSamples sets the total number of generated samples.
func WithNSamples(n int) SyntheticOption {
	return func(c *syntheticConfig) { c.nSamples = n }
}

// WithNFeatures sets the number of generated feature columns.
func WithNFeatures(n int) SyntheticOption {
	return func(c *syntheticConfig) { c.nFeatures = n }
}

// WithNClasses sets the number of classes for MakeClassification.
func WithNClasses(n int) SyntheticOption {
	return func(c *syntheticConfig) { c.nClasses = n }
}

// WithClassSep sets the distance between class centers. Larger values make
// the classification problem easier.
func WithClassSep(sep float64) SyntheticOption {
	return func(c *syntheticConfig) { c.classSep = sep }
}

// WithNoise sets the standard deviation of the Gaussian noise.
func WithNoise(noise float64) SyntheticOption {
	return func(c *syntheticConfig) { c.noise = noise }
}

// WithMinorityFraction sets the minority class share for MakeImbalanced.
func WithMinorityFraction(f float64) SyntheticOption {
	return func(c *syntheticConfig) { c.minorityFraction = f }
}

// WithSyntheticSeed sets the random seed; the generators are fully
// deterministic for a fixed seed.
func WithSyntheticSeed(seed int64) SyntheticOption {
	return func(c *syntheticConfig) { c.seed = seed }
}

// MakeClassification generates a classification problem as isotropic
// Gaussian clusters, one cluster per class, with centers spaced classSep
// apart along a diagonal. Samples are distributed as evenly as possible
// across classes.
func MakeClassification(opts ...SyntheticOption) (*mat.Dense, *mat.Dense, error) {
	c := defaultSyntheticConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.nSamples < c.nClasses {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least n_classes", c.nSamples)
	}
	if c.nFeatures < 1 {
		return nil, nil, errors.NewValidationError("n_features", "must be positive", c.nFeatures)
	}
	if c.nClasses < 2 {
		return nil, nil, errors.NewValidationError("n_classes", "must be at least 2", c.nClasses)
	}

	rng := rand.New(rand.NewSource(c.seed))
	X := mat.NewDense(c.nSamples, c.nFeatures, nil)
	y := mat.NewDense(c.nSamples, 1, nil)

	for i := 0; i < c.nSamples; i++ {
		class := i % c.nClasses
		center := float64(class) * c.classSep
		for j := 0; j < c.nFeatures; j++ {
			X.Set(i, j, center+rng.NormFloat64()*c.noise)
		}
		y.Set(i, 0, float64(class))
	}

	shuffleRows(rng, X, y)
	return X, y, nil
}

// MakeImbalanced generates a binary classification problem where the
// positive class makes up roughly minorityFraction of the samples. The
// majority class is centered at the origin, the minority at classSep on
// every axis. At least two minority samples are always generated so that
// resamplers have something to interpolate between.
func MakeImbalanced(opts ...SyntheticOption) (*mat.Dense, *mat.Dense, error) {
	c := defaultSyntheticConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.minorityFraction <= 0 || c.minorityFraction >= 0.5 {
		return nil, nil, errors.NewValidationError("minority_fraction", "must be in (0, 0.5)", c.minorityFraction)
	}
	if c.nSamples < 4 {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least 4", c.nSamples)
	}

	nMinority := int(float64(c.nSamples) * c.minorityFraction)
	if nMinority < 2 {
		nMinority = 2
	}

	rng := rand.New(rand.NewSource(c.seed))
	X := mat.NewDense(c.nSamples, c.nFeatures, nil)
	y := mat.NewDense(c.nSamples, 1, nil)

	for i := 0; i < c.nSamples; i++ {
		center := 0.0
		label := 0.0
		if i < nMinority {
			center = c.classSep
			label = 1.0
		}
		for j := 0; j < c.nFeatures; j++ {
			X.Set(i, j, center+rng.NormFloat64()*c.noise)
		}
		y.Set(i, 0, label)
	}

	shuffleRows(rng, X, y)
	return X, y, nil
}

// MakeRegression generates a linear regression problem y = Xw + b + noise
// with random coefficients drawn once per call from the seeded generator.
func MakeRegression(opts ...SyntheticOption) (*mat.Dense, *mat.Dense, error) {
	c := defaultSyntheticConfig()
	c.nFeatures = 1
	for _, opt := range opts {
		opt(&c)
	}
	if c.nSamples < 2 {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least 2", c.nSamples)
	}
	if c.nFeatures < 1 {
		return nil, nil, errors.NewValidationError("n_features", "must be positive", c.nFeatures)
	}

	rng := rand.New(rand.NewSource(c.seed))

	coef := make([]float64, c.nFeatures)
	for j := range coef {
		coef[j] = rng.NormFloat64() * 10
	}
	intercept := rng.NormFloat64() * 5

	X := mat.NewDense(c.nSamples, c.nFeatures, nil)
	y := mat.NewDense(c.nSamples, 1, nil)
	for i := 0; i < c.nSamples; i++ {
		target := intercept
		for j := 0; j < c.nFeatures; j++ {
			v := rng.NormFloat64()
			X.Set(i, j, v)
			target += v * coef[j]
		}
		y.Set(i, 0, target+rng.NormFloat64()*c.noise)
	}
	return X, y, nil
}

// shuffleRows permutes the rows of X and y in unison.
func shuffleRows(rng *rand.Rand, X, y *mat.Dense) {
	n, cols := X.Dims()
	perm := rng.Perm(n)

	xData := make([]float64, n*cols)
	yData := make([]float64, n)
	for i, src := range perm {
		for j := 0; j < cols; j++ {
			xData[i*cols+j] = X.At(src, j)
		}
		yData[i] = y.At(src, 0)
	}
	X.SetRawMatrix(mat.NewDense(n, cols, xData).RawMatrix())
	y.SetRawMatrix(mat.NewDense(n, 1, yData).RawMatrix())
}
