// Package classgo is an educational classification library for Go.
//
// It teaches the core concepts of classification through working code:
// classification vs regression, binary vs multiclass problems,
// instance-based vs model-based learning, evaluation metrics, class
// imbalance, and feature scaling. Every concept has a runnable lesson
// and a scikit-learn style estimator behind it.
//
// # Quick start
//
//	iris := datasets.LoadIris()
//	split, err := model_selection.TrainTestSplit(iris.X(), iris.Y(),
//		model_selection.WithTestSize(0.3),
//		model_selection.WithSeed(42),
//		model_selection.WithStratify(true))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	clf := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(3))
//	if err := clf.Fit(split.XTrain, split.YTrain); err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("accuracy: %.3f\n", clf.Score(split.XTest, split.YTest))
//
// # Packages
//
//   - datasets: bundled iris and wine tables plus synthetic generators
//   - sklearn/linear_model: logistic regression and linear regression
//   - sklearn/tree: decision tree classifier and regressor
//   - sklearn/neighbors: k-nearest neighbors classifier and regressor
//   - sklearn/naive_bayes: multinomial and Gaussian naive Bayes
//   - metrics: accuracy, precision/recall/F1, AUC, log loss, regression
//     and ranking metrics
//   - preprocessing: standard and min-max feature scaling
//   - resample: random over/under sampling and SMOTE for class imbalance
//   - model_selection: train/test split, k-fold cross validation
//   - plotting: ROC curves and scatter plots rendered to PNG
//   - lessons: the guided walkthrough behind the classgo-lessons CLI
//
// # Lessons CLI
//
// The classgo-lessons binary walks through the concepts chapter by
// chapter:
//
//	classgo-lessons basics      # classification vs regression
//	classgo-lessons multiclass  # binary vs multiclass on iris
//	classgo-lessons neighbors   # instance-based vs model-based
//	classgo-lessons metrics     # beyond accuracy
//	classgo-lessons imbalance   # when accuracy lies
//	classgo-lessons scaling     # why distances need scaled features
//	classgo-lessons price       # a threshold "classifier" by hand
//	classgo-lessons all         # everything in order
//
// All estimators follow the same contract: construct with functional
// options, Fit on a feature matrix and target vector, then Predict.
// Models return errors instead of panicking, and blocking operations
// are safe for concurrent Predict calls after Fit returns.
package classgo
