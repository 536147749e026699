package model

import "gonum.org/v1/gonum/mat"

// Fitter は教師あり学習が可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は学習状態を公開する学習可能なモデルのインターフェース
type Estimator interface {
	Fitter

	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
}
