package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/petrofore/wellrisk/pkg/errors"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE は二乗平均平方根誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2 は決定係数（coefficient of determination）を計算する
// R² = 1 - SS_res / SS_tot
func R2(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2", n, yPred.Len(), 0)
	}

	var meanTrue float64
	for i := 0; i < n; i++ {
		meanTrue += yTrue.AtVec(i)
	}
	meanTrue /= float64(n)

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		ssRes += diff * diff
		dev := yTrue.AtVec(i) - meanTrue
		ssTot += dev * dev
	}

	if ssTot == 0 {
		// 真値が定数の場合、決定係数は定義できない
		return 0, errors.NewValueError("R2", "constant target has no variance")
	}
	return 1 - ssRes/ssTot, nil
}

// SMAPE は対称平均絶対パーセント誤差（Symmetric Mean Absolute Percentage Error）を計算する
//
//	sMAPE = (100/n) * Σ 2|y - ŷ| / (|y| + |ŷ|)
//
// 真値と予測値がともに0の項は0として扱う（0/0の回避）。
// 結果は [0, 200] の範囲のパーセント値。
func SMAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("SMAPE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("SMAPE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		yp := yPred.AtVec(i)
		denom := math.Abs(yt) + math.Abs(yp)
		sum += errors.SafeDivide(2*math.Abs(yt-yp), denom)
	}
	return 100 * sum / float64(n), nil
}
