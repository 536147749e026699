// Standard attribute keys for machine learning operations. Using these keys
// keeps log output consistent and filterable across packages. The keys follow
// a hierarchical naming convention (e.g. "model.name", "data.samples").
package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "LogisticRegression", "DecisionTreeClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_resample", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "tree", "neighbors", "resample", "metrics"
	ComponentKey = "ml.component"

	// LessonKey identifies the lesson chapter emitting the record.
	LessonKey = "lesson.name"
)

// Data shape and characteristics.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct class labels.
	ClassesKey = "data.classes"

	// MinorityFractionKey records the minority class share of a dataset,
	// relevant for the imbalance lesson and resamplers.
	MinorityFractionKey = "data.minority_fraction"
)

// Performance and evaluation.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy, in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// LossKey records a loss value during training or evaluation.
	LossKey = "metrics.loss"

	// IterationKey records the iteration number of an iterative solver.
	IterationKey = "training.iteration"
)

// Configuration.
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants for common operations.
const (
	OperationFit         = "fit"
	OperationPredict     = "predict"
	OperationTransform   = "transform"
	OperationFitResample = "fit_resample"
	OperationScore       = "score"
	OperationPartialFit  = "partial_fit"
)
