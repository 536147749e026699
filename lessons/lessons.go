// Package lessons walks through the classifier concepts this module
// teaches, one function per chapter. Every chapter is a pure function
// of its options and writes its narrative to the supplied writer, so
// the output is deterministic under a fixed seed.
package lessons

import (
	"fmt"
	"io"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/classgo/datasets"
	"github.com/YuminosukeSato/classgo/metrics"
	"github.com/YuminosukeSato/classgo/model_selection"
	"github.com/YuminosukeSato/classgo/pkg/errors"
	"github.com/YuminosukeSato/classgo/plotting"
	"github.com/YuminosukeSato/classgo/preprocessing"
	"github.com/YuminosukeSato/classgo/resample"
	"github.com/YuminosukeSato/classgo/sklearn/linear_model"
	"github.com/YuminosukeSato/classgo/sklearn/naive_bayes"
	"github.com/YuminosukeSato/classgo/sklearn/neighbors"
	"github.com/YuminosukeSato/classgo/sklearn/tree"
)

// Options configures a lesson run.
type Options struct {
	// Seed drives every random choice a lesson makes.
	Seed int64

	// PlotDir receives rendered charts. Empty disables chart output.
	PlotDir string
}

// Lesson is one chapter of the walkthrough.
type Lesson struct {
	Name  string
	Title string
	Run   func(w io.Writer, opts Options) error
}

// All returns the chapters in reading order.
func All() []Lesson {
	return []Lesson{
		{"basics", "Classification vs regression", ClassificationVsRegression},
		{"multiclass", "Binary vs multiclass", BinaryVsMulticlass},
		{"neighbors", "Instance-based vs model-based", InstanceVsModel},
		{"metrics", "Evaluation metrics", EvaluationMetrics},
		{"imbalance", "Class imbalance", ClassImbalance},
		{"scaling", "Feature scaling", FeatureScaling},
		{"price", "Price bands", PriceBands},
	}
}

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "\n== %s ==\n\n", title)
}

// colVec copies the first column of m into a vector, the shape the
// metric functions take.
func colVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}

// ClassificationVsRegression contrasts a discrete-label task with a
// continuous-target task using the same Fit/Predict shape.
func ClassificationVsRegression(w io.Writer, opts Options) error {
	header(w, "Classification vs regression")

	iris := datasets.LoadIris()
	split, err := model_selection.TrainTestSplit(iris.X(), iris.Y(),
		model_selection.WithTestSize(0.3),
		model_selection.WithSeed(int(opts.Seed)),
		model_selection.WithStratify(true))
	if err != nil {
		return err
	}

	clf := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(3))
	if err := clf.Fit(split.XTrain, split.YTrain); err != nil {
		return err
	}
	fmt.Fprintf(w, "A classifier predicts a category. Decision tree on iris:\n")
	fmt.Fprintf(w, "  test accuracy: %.3f\n", clf.Score(split.XTest, split.YTest))

	X, y, err := datasets.MakeRegression(
		datasets.WithNSamples(120),
		datasets.WithNFeatures(3),
		datasets.WithNoise(0.5),
		datasets.WithSyntheticSeed(opts.Seed))
	if err != nil {
		return err
	}
	reg := linear_model.NewLinearRegression()
	if err := reg.Fit(X, y); err != nil {
		return err
	}
	r2, err := reg.Score(X, y)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "A regressor predicts a number. Linear model on synthetic data:\n")
	fmt.Fprintf(w, "  R²: %.3f\n", r2)
	return nil
}

// BinaryVsMulticlass shows the same dataset posed as a two-class and a
// three-class problem.
func BinaryVsMulticlass(w io.Writer, opts Options) error {
	header(w, "Binary vs multiclass")

	iris := datasets.LoadIris()

	// Collapse iris to virginica vs not-virginica for the binary view.
	n, _ := iris.Y().Dims()
	yBinary := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if iris.Y().At(i, 0) == 2 {
			yBinary.Set(i, 0, 1)
		}
	}

	split, err := model_selection.TrainTestSplit(iris.X(), yBinary,
		model_selection.WithTestSize(0.3),
		model_selection.WithSeed(int(opts.Seed)),
		model_selection.WithStratify(true))
	if err != nil {
		return err
	}
	binary := linear_model.NewLogisticRegression(linear_model.WithLRMaxIter(300))
	if err := binary.Fit(split.XTrain, split.YTrain); err != nil {
		return err
	}
	fmt.Fprintf(w, "Binary: is this flower virginica? (2 labels)\n")
	fmt.Fprintf(w, "  logistic regression accuracy: %.3f\n", binary.Score(split.XTest, split.YTest))

	split3, err := model_selection.TrainTestSplit(iris.X(), iris.Y(),
		model_selection.WithTestSize(0.3),
		model_selection.WithSeed(int(opts.Seed)),
		model_selection.WithStratify(true))
	if err != nil {
		return err
	}
	multi := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(4))
	if err := multi.Fit(split3.XTrain, split3.YTrain); err != nil {
		return err
	}
	fmt.Fprintf(w, "Multiclass: which of the 3 species? (one prediction, 3 labels)\n")
	fmt.Fprintf(w, "  decision tree accuracy: %.3f\n", multi.Score(split3.XTest, split3.YTest))
	return nil
}

// InstanceVsModel contrasts a model that memorizes the training set
// with one that compresses it into parameters.
func InstanceVsModel(w io.Writer, opts Options) error {
	header(w, "Instance-based vs model-based")

	iris := datasets.LoadIris()
	split, err := model_selection.TrainTestSplit(iris.X(), iris.Y(),
		model_selection.WithTestSize(0.3),
		model_selection.WithSeed(int(opts.Seed)),
		model_selection.WithStratify(true))
	if err != nil {
		return err
	}

	knn := neighbors.NewKNeighborsClassifier(neighbors.WithNNeighbors(5))
	if err := knn.Fit(split.XTrain, split.YTrain); err != nil {
		return err
	}
	knnAcc, err := knn.Score(split.XTest, split.YTest)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Instance-based: k-nearest neighbors keeps every training row\n")
	fmt.Fprintf(w, "and votes among the closest ones at prediction time.\n")
	fmt.Fprintf(w, "  kNN (k=5) accuracy: %.3f\n", knnAcc)

	logit := linear_model.NewLogisticRegression(linear_model.WithLRMaxIter(300))
	if err := logit.Fit(split.XTrain, split.YTrain); err != nil {
		return err
	}
	fmt.Fprintf(w, "Model-based: logistic regression distills the data into one\n")
	fmt.Fprintf(w, "weight vector per class and discards the rows.\n")
	fmt.Fprintf(w, "  logistic regression accuracy: %.3f\n", logit.Score(split.XTest, split.YTest))

	gnb := naive_bayes.NewGaussianNB()
	if err := gnb.Fit(split.XTrain, split.YTrain); err != nil {
		return err
	}
	gnbAcc, err := gnb.Score(split.XTest, split.YTest)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Gaussian naive Bayes is also model-based: it keeps only a\n")
	fmt.Fprintf(w, "mean and variance per feature per class.\n")
	fmt.Fprintf(w, "  Gaussian NB accuracy: %.3f\n", gnbAcc)
	return nil
}

// EvaluationMetrics walks through the confusion matrix, the per-class
// report and the ROC curve on a synthetic binary problem.
func EvaluationMetrics(w io.Writer, opts Options) error {
	header(w, "Evaluation metrics")

	X, y, err := datasets.MakeClassification(
		datasets.WithNSamples(200),
		datasets.WithNFeatures(4),
		datasets.WithNClasses(2),
		datasets.WithSyntheticSeed(opts.Seed))
	if err != nil {
		return err
	}
	split, err := model_selection.TrainTestSplit(X, y,
		model_selection.WithTestSize(0.3),
		model_selection.WithSeed(int(opts.Seed)),
		model_selection.WithStratify(true))
	if err != nil {
		return err
	}

	clf := linear_model.NewLogisticRegression(linear_model.WithLRMaxIter(300))
	if err := clf.Fit(split.XTrain, split.YTrain); err != nil {
		return err
	}
	pred, err := clf.Predict(split.XTest)
	if err != nil {
		return err
	}

	yTest := colVec(split.YTest)
	yPred := colVec(pred)

	cm, labels, err := metrics.ConfusionMatrix(yTest, yPred)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Confusion matrix (rows = truth, columns = prediction):\n")
	fmt.Fprintf(w, "  labels: %v\n", labels)
	r, c := cm.Dims()
	for i := 0; i < r; i++ {
		fmt.Fprintf(w, "  ")
		for j := 0; j < c; j++ {
			fmt.Fprintf(w, "%5.0f", cm.At(i, j))
		}
		fmt.Fprintf(w, "\n")
	}

	report, err := metrics.ClassificationReport(yTest, yPred, []string{"negative", "positive"})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", report)

	proba, err := clf.PredictProba(split.XTest)
	if err != nil {
		return err
	}
	nTest, _ := proba.Dims()
	scores := mat.NewVecDense(nTest, nil)
	for i := 0; i < nTest; i++ {
		scores.SetVec(i, proba.At(i, 1))
	}
	auc, err := metrics.AUC(yTest, scores)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "AUC (threshold-free ranking quality): %.3f\n", auc)

	if opts.PlotDir != "" {
		path := filepath.Join(opts.PlotDir, "roc.png")
		if err := plotting.SaveROCCurve(yTest, scores, "ROC curve", path); err != nil {
			return errors.Wrap(err, "metrics lesson: failed to render ROC curve")
		}
		fmt.Fprintf(w, "ROC curve written to %s\n", path)
	}
	return nil
}

// ClassImbalance demonstrates the accuracy trap on a skewed dataset and
// how resampling changes the picture.
func ClassImbalance(w io.Writer, opts Options) error {
	header(w, "Class imbalance")

	X, y, err := datasets.MakeImbalanced(
		datasets.WithNSamples(300),
		datasets.WithNFeatures(4),
		datasets.WithMinorityFraction(0.1),
		datasets.WithSyntheticSeed(opts.Seed))
	if err != nil {
		return err
	}
	split, err := model_selection.TrainTestSplit(X, y,
		model_selection.WithTestSize(0.3),
		model_selection.WithSeed(int(opts.Seed)),
		model_selection.WithStratify(true))
	if err != nil {
		return err
	}

	counts := map[int]int{}
	n, _ := y.Dims()
	for i := 0; i < n; i++ {
		counts[int(y.At(i, 0))]++
	}
	fmt.Fprintf(w, "Class counts: %v — predicting the majority class alone\n", counts)
	fmt.Fprintf(w, "already scores high accuracy while missing every minority case.\n\n")

	evaluate := func(name string, XTrain, yTrain mat.Matrix) error {
		clf := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(4))
		if err := clf.Fit(XTrain, yTrain); err != nil {
			return err
		}
		pred, err := clf.Predict(split.XTest)
		if err != nil {
			return err
		}
		acc, err := metrics.Accuracy(colVec(split.YTest), colVec(pred))
		if err != nil {
			return err
		}
		bal, err := metrics.BalancedAccuracy(colVec(split.YTest), colVec(pred))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-28s accuracy %.3f  balanced accuracy %.3f\n", name, acc, bal)
		return nil
	}

	if err := evaluate("raw (imbalanced) data:", split.XTrain, split.YTrain); err != nil {
		return err
	}

	samplers := []struct {
		name string
		s    resample.Sampler
	}{
		{"random over-sampling:", resample.NewRandomOverSampler(int(opts.Seed))},
		{"random under-sampling:", resample.NewRandomUnderSampler(int(opts.Seed))},
		{"SMOTE:", resample.NewSMOTE(
			resample.WithKNeighbors(5),
			resample.WithSMOTESeed(int(opts.Seed)))},
	}
	for _, sampler := range samplers {
		Xr, yr, err := sampler.s.FitResample(split.XTrain, split.YTrain)
		if err != nil {
			return err
		}
		if err := evaluate(sampler.name, Xr, yr); err != nil {
			return err
		}
	}

	if opts.PlotDir != "" {
		path := filepath.Join(opts.PlotDir, "imbalance.png")
		if err := plotting.SaveClassScatter(X, y, 0, 1, "Imbalanced classes", path); err != nil {
			return errors.Wrap(err, "imbalance lesson: failed to render scatter")
		}
		fmt.Fprintf(w, "Class scatter written to %s\n", path)
	}
	return nil
}

// FeatureScaling shows how a distance-based model reacts to
// standardizing features with very different ranges.
func FeatureScaling(w io.Writer, opts Options) error {
	header(w, "Feature scaling")

	wine := datasets.LoadWine()
	split, err := model_selection.TrainTestSplit(wine.X(), wine.Y(),
		model_selection.WithTestSize(0.3),
		model_selection.WithSeed(int(opts.Seed)),
		model_selection.WithStratify(true))
	if err != nil {
		return err
	}

	raw := neighbors.NewKNeighborsClassifier(neighbors.WithNNeighbors(5))
	if err := raw.Fit(split.XTrain, split.YTrain); err != nil {
		return err
	}
	rawAcc, err := raw.Score(split.XTest, split.YTest)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wine features span wildly different ranges, so Euclidean\n")
	fmt.Fprintf(w, "distance is dominated by the biggest column.\n")
	fmt.Fprintf(w, "  kNN accuracy, raw features:    %.3f\n", rawAcc)

	scaler := preprocessing.NewStandardScaler()
	XTrainScaled, err := scaler.FitTransform(split.XTrain)
	if err != nil {
		return err
	}
	XTestScaled, err := scaler.Transform(split.XTest)
	if err != nil {
		return err
	}

	scaled := neighbors.NewKNeighborsClassifier(neighbors.WithNNeighbors(5))
	if err := scaled.Fit(XTrainScaled, split.YTrain); err != nil {
		return err
	}
	scaledAcc, err := scaled.Score(XTestScaled, split.YTest)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  kNN accuracy, scaled features: %.3f\n", scaledAcc)
	fmt.Fprintf(w, "The scaler is fitted on the training split only; leaking test\n")
	fmt.Fprintf(w, "statistics into it would inflate the score.\n")
	return nil
}

// PriceBands walks through the three-way threshold classifier.
func PriceBands(w io.Writer, _ Options) error {
	header(w, "Price bands")

	fmt.Fprintf(w, "Not every classifier is learned. A fixed rule is still a\n")
	fmt.Fprintf(w, "classifier: price < 80 is low, price < 140 is medium,\n")
	fmt.Fprintf(w, "everything else is high.\n\n")

	prices := []float64{25, 79.99, 80, 110, 139.99, 140, 250}
	labels := make([]string, len(prices))
	for i, p := range prices {
		labels[i] = PriceBand(p)
		fmt.Fprintf(w, "  %8.2f -> %s\n", p, labels[i])
	}

	fmt.Fprintf(w, "\nPredictions, wrapped for display:\n%s\n", FormatPredictions(labels, 30))
	return nil
}
