package model

// BaseEstimator はモデルの学習済み状態を管理する埋め込み用の基底構造体。
// Fit が成功した後に SetFitted を呼び、Predict 側は IsFitted で検査する。
type BaseEstimator struct {
	fitted bool
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.fitted = true
}

// Reset はモデルを未学習状態に戻す
func (e *BaseEstimator) Reset() {
	e.fitted = false
}
