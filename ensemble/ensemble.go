// Package ensemble combines regression models by a fixed weighted average.
//
// Members are polymorphic over the {Fit, Predict} capability set only; the
// ensemble neither inspects nor tunes them. Weights are fixed at
// construction and normalized to sum to one.
package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/petrofore/wellrisk/core/model"
	"github.com/petrofore/wellrisk/pkg/errors"
)

// Member is one weighted regressor of the ensemble.
type Member struct {
	Name   string
	Model  model.Regressor
	Weight float64
}

// WeightedRegressor averages member predictions with fixed weights.
type WeightedRegressor struct {
	model.BaseEstimator
	members []Member
	weights []float64 // normalized at construction
}

// NewWeightedRegressor validates the members and normalizes their weights.
// At least one member is required; weights must be non-negative with a
// positive sum.
func NewWeightedRegressor(members []Member) (*WeightedRegressor, error) {
	const op = "ensemble.NewWeightedRegressor"

	if len(members) == 0 {
		return nil, errors.NewConfigurationError(op, "members", "at least one member is required", 0)
	}

	var total float64
	for _, m := range members {
		if m.Model == nil {
			return nil, errors.NewConfigurationError(op, "members", "member model must not be nil", m.Name)
		}
		if m.Weight < 0 {
			return nil, errors.NewConfigurationError(op, "weight", "must be non-negative", m.Weight)
		}
		total += m.Weight
	}
	if total == 0 {
		return nil, errors.NewConfigurationError(op, "weight", "weights must not all be zero", total)
	}

	weights := make([]float64, len(members))
	for i, m := range members {
		weights[i] = m.Weight / total
	}

	return &WeightedRegressor{members: members, weights: weights}, nil
}

// Fit trains every member on the same data.
func (wr *WeightedRegressor) Fit(X, y mat.Matrix) error {
	for _, m := range wr.members {
		if err := m.Model.Fit(X, y); err != nil {
			return errors.Wrapf(err, "ensemble member %s", m.Name)
		}
	}
	wr.SetFitted()
	return nil
}

// Predict returns the weighted average of the member predictions.
func (wr *WeightedRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !wr.IsFitted() {
		return nil, errors.NewNotFittedError("WeightedRegressor", "Predict")
	}

	r, _ := X.Dims()
	combined := mat.NewDense(r, 1, nil)

	for i, m := range wr.members {
		pred, err := m.Model.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "ensemble member %s", m.Name)
		}
		pr, pc := pred.Dims()
		if pr != r || pc != 1 {
			return nil, errors.NewDimensionError("WeightedRegressor.Predict", r, pr, 0)
		}
		for row := 0; row < r; row++ {
			combined.Set(row, 0, combined.At(row, 0)+wr.weights[i]*pred.At(row, 0))
		}
	}

	return combined, nil
}

// Members returns the member names in ensemble order.
func (wr *WeightedRegressor) Members() []string {
	names := make([]string, len(wr.members))
	for i, m := range wr.members {
		names[i] = m.Name
	}
	return names
}
