// Package linear は産出量予測に使用する線形回帰モデルを提供します。
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/petrofore/wellrisk/core/model"
	"github.com/petrofore/wellrisk/core/parallel"
	"github.com/petrofore/wellrisk/metrics"
	"github.com/petrofore/wellrisk/pkg/errors"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// LinearRegression は最小二乗法による線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator
	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit はモデルを訓練データで学習させる。
// 正規方程式の明示的な逆行列計算ではなくQR分解で解く（特異に近い行列でも安定）。
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	coef, intercept, nFeatures, err := solveLeastSquares("LinearRegression.Fit", X, y, 0)
	if err != nil {
		return err
	}

	lr.Weights = coef
	lr.Intercept = intercept
	lr.NFeatures = nFeatures
	lr.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	return predictLinear("LinearRegression.Predict", X, lr.Weights, lr.Intercept, lr.NFeatures)
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return scoreR2("LinearRegression.Score", pred, y)
}

// RidgeRegression はL2正則化付きの線形回帰モデル。
// 正則化項 alpha により相関の強い特徴量でも係数が安定する。
type RidgeRegression struct {
	model.BaseEstimator
	Alpha     float64
	Weights   *mat.VecDense
	Intercept float64
	NFeatures int
}

// NewRidgeRegression は正則化係数alphaを持つリッジ回帰モデルを作成する
func NewRidgeRegression(alpha float64) *RidgeRegression {
	return &RidgeRegression{Alpha: alpha}
}

// Fit はモデルを訓練データで学習させる
func (rr *RidgeRegression) Fit(X, y mat.Matrix) error {
	if rr.Alpha < 0 {
		return errors.NewConfigurationError("RidgeRegression.Fit", "alpha", "must be non-negative", rr.Alpha)
	}

	coef, intercept, nFeatures, err := solveLeastSquares("RidgeRegression.Fit", X, y, rr.Alpha)
	if err != nil {
		return err
	}

	rr.Weights = coef
	rr.Intercept = intercept
	rr.NFeatures = nFeatures
	rr.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (rr *RidgeRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rr.IsFitted() {
		return nil, errors.NewNotFittedError("RidgeRegression", "Predict")
	}
	return predictLinear("RidgeRegression.Predict", X, rr.Weights, rr.Intercept, rr.NFeatures)
}

// Score はモデルの決定係数（R²）を計算する
func (rr *RidgeRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rr.Predict(X)
	if err != nil {
		return 0, err
	}
	return scoreR2("RidgeRegression.Score", pred, y)
}

// solveLeastSquares は切片項を付加した計画行列で (正則化付き) 最小二乗問題を解く。
// alpha == 0 のときはQR分解、alpha > 0 のときは正規方程式
// (XᵀX + αI)w = Xᵀy をCholesky分解で解く。切片は正則化しない。
func solveLeastSquares(op string, X, y mat.Matrix, alpha float64) (*mat.VecDense, float64, int, error) {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return nil, 0, 0, errors.NewValueError(op, "empty training data")
	}
	if ry != r {
		return nil, 0, 0, errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return nil, 0, 0, errors.NewValueError(op, "y must be a column vector")
	}

	// 計画行列に切片項（1の列）を追加する
	design := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			design.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				design.Set(i, j+1, X.At(i, j))
			}
		}
	})

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	solution := mat.NewVecDense(c+1, nil)

	if alpha == 0 {
		var qr mat.QR
		qr.Factorize(design)

		var sol mat.Dense
		if err := qr.SolveTo(&sol, false, yVec); err != nil {
			return nil, 0, 0, errors.NewValueError(op, "design matrix is rank deficient")
		}
		for i := 0; i <= c; i++ {
			solution.SetVec(i, sol.At(i, 0))
		}
	} else {
		var dt mat.Dense
		dt.CloneFrom(design.T())

		var gram mat.Dense
		gram.Mul(&dt, design)
		// 切片（先頭）を除く対角成分に正則化項を加える
		for j := 1; j <= c; j++ {
			gram.Set(j, j, gram.At(j, j)+alpha)
		}

		var rhs mat.VecDense
		rhs.MulVec(&dt, yVec)

		var chol mat.Cholesky
		sym := mat.NewSymDense(c+1, nil)
		for i := 0; i <= c; i++ {
			for j := i; j <= c; j++ {
				sym.SetSym(i, j, gram.At(i, j))
			}
		}
		if ok := chol.Factorize(sym); !ok {
			return nil, 0, 0, errors.NewValueError(op, "regularized gram matrix is not positive definite")
		}
		if err := chol.SolveVecTo(solution, &rhs); err != nil {
			return nil, 0, 0, errors.NewValueError(op, "failed to solve regularized system")
		}
	}

	coef := mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		coef.SetVec(i, solution.AtVec(i+1))
	}
	return coef, solution.AtVec(0), c, nil
}

// predictLinear は y = Xw + b を計算する
func predictLinear(op string, X mat.Matrix, weights *mat.VecDense, intercept float64, nFeatures int) (mat.Matrix, error) {
	r, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError(op, nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := intercept
			for j := 0; j < c; j++ {
				pred += X.At(i, j) * weights.AtVec(j)
			}
			predictions.Set(i, 0, pred)
		}
	})

	return predictions, nil
}

func scoreR2(op string, pred mat.Matrix, y mat.Matrix) (float64, error) {
	r, _ := y.Dims()
	yTrue := mat.NewVecDense(r, nil)
	yPred := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, pred.At(i, 0))
	}

	score, err := metrics.R2(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	return score, nil
}
