package ensemble

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/petrofore/wellrisk/linear"
	"github.com/petrofore/wellrisk/pkg/errors"
)

// constantModel predicts a fixed value for every row.
type constantModel struct {
	value  float64
	fitted bool
}

func (c *constantModel) Fit(X, y mat.Matrix) error {
	c.fitted = true
	return nil
}

func (c *constantModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, c.value)
	}
	return out, nil
}

func TestWeightedRegressorAveragesPredictions(t *testing.T) {
	wr, err := NewWeightedRegressor([]Member{
		{Name: "low", Model: &constantModel{value: 10}, Weight: 1},
		{Name: "high", Model: &constantModel{value: 30}, Weight: 3},
	})
	if err != nil {
		t.Fatalf("NewWeightedRegressor() error = %v", err)
	}

	X := mat.NewDense(2, 1, []float64{0, 0})
	if err := wr.Fit(X, mat.NewDense(2, 1, []float64{0, 0})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := wr.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// (1*10 + 3*30) / 4 = 25
	for i := 0; i < 2; i++ {
		if math.Abs(pred.At(i, 0)-25.0) > 1e-10 {
			t.Errorf("prediction[%d] = %v, want 25", i, pred.At(i, 0))
		}
	}
}

func TestWeightedRegressorWithLinearMembers(t *testing.T) {
	// Noiseless linear data: every member recovers the target, so the
	// weighted average must too.
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{2, 4, 6, 8, 10})

	wr, err := NewWeightedRegressor([]Member{
		{Name: "ols", Model: linear.NewLinearRegression(), Weight: 0.5},
		{Name: "ridge-a", Model: linear.NewRidgeRegression(1e-8), Weight: 0.3},
		{Name: "ridge-b", Model: linear.NewRidgeRegression(1e-6), Weight: 0.2},
	})
	if err != nil {
		t.Fatalf("NewWeightedRegressor() error = %v", err)
	}
	if err := wr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := wr.Predict(mat.NewDense(1, 1, []float64{6}))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if math.Abs(pred.At(0, 0)-12.0) > 1e-4 {
		t.Errorf("prediction = %v, want 12", pred.At(0, 0))
	}
}

func TestWeightedRegressorConstruction(t *testing.T) {
	tests := []struct {
		name    string
		members []Member
	}{
		{name: "no members", members: nil},
		{name: "nil model", members: []Member{{Name: "x", Model: nil, Weight: 1}}},
		{name: "negative weight", members: []Member{{Name: "x", Model: &constantModel{}, Weight: -1}}},
		{name: "all zero weights", members: []Member{{Name: "x", Model: &constantModel{}, Weight: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWeightedRegressor(tt.members)
			var cfgErr *errors.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error = %v, want ConfigurationError", err)
			}
		})
	}
}

func TestWeightedRegressorNotFitted(t *testing.T) {
	wr, err := NewWeightedRegressor([]Member{
		{Name: "c", Model: &constantModel{value: 1}, Weight: 1},
	})
	if err != nil {
		t.Fatalf("NewWeightedRegressor() error = %v", err)
	}

	_, err = wr.Predict(mat.NewDense(1, 1, []float64{0}))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Errorf("Predict() error = %v, want NotFittedError", err)
	}
}
