// Package risk implements the bootstrap profit-risk estimator for oil-well
// development planning.
//
// Given paired predicted and actual reserve volumes for one region's
// validation wells, the estimator repeatedly resamples the wells with
// replacement, selects the top-K by predicted volume, prices the realized
// production of the selection, and summarizes the resulting profit
// distribution (mean, percentile confidence interval, loss probability).
//
// The estimation is a pure function of (dataset, config): the same inputs,
// including the seed, produce a bit-identical distribution regardless of how
// many workers execute the rounds. Each round derives its own random
// sub-stream from the root seed, so no mutable state is shared between
// rounds beyond the read-only dataset.
package risk

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/petrofore/wellrisk/core/parallel"
	"github.com/petrofore/wellrisk/pkg/errors"
)

// WellRecord pairs the model-predicted reserve volume of one candidate well
// with the volume it actually produced. Records are immutable once loaded.
type WellRecord struct {
	Predicted float64
	Actual    float64
}

// Dataset is an ordered, read-only sequence of candidate wells for one
// geological region. It is never mutated during estimation.
type Dataset []WellRecord

// NewDataset builds a Dataset from equal-length predicted and actual volume
// sequences, the contract the surrounding pipeline supplies.
func NewDataset(predicted, actual []float64) (Dataset, error) {
	if len(predicted) != len(actual) {
		return nil, errors.NewDimensionError("risk.NewDataset", len(predicted), len(actual), 0)
	}

	ds := make(Dataset, len(predicted))
	for i := range predicted {
		ds[i] = WellRecord{Predicted: predicted[i], Actual: actual[i]}
	}
	return ds, nil
}

// Config holds the fixed parameters of one estimation run.
type Config struct {
	// Iterations is the number of bootstrap rounds.
	Iterations int `yaml:"iterations" json:"iterations"`

	// SampleSize is the number of wells drawn (with replacement) per round.
	// Zero means "use the full dataset size", the usual bootstrap setup.
	SampleSize int `yaml:"sample_size" json:"sample_size"`

	// WellsToSelect is the development budget K: the top-K wells by
	// predicted volume are developed. Must not exceed SampleSize.
	WellsToSelect int `yaml:"wells_to_select" json:"wells_to_select"`

	// CostPerWell is the fixed development cost of a single well.
	CostPerWell float64 `yaml:"cost_per_well" json:"cost_per_well"`

	// RevenuePerUnit is the revenue per unit of actual volume.
	RevenuePerUnit float64 `yaml:"revenue_per_unit" json:"revenue_per_unit"`

	// ConfidenceLevel is the width of the reported empirical interval,
	// e.g. 0.95 for a 95% interval. Must lie in (0, 1).
	ConfidenceLevel float64 `yaml:"confidence_level" json:"confidence_level"`

	// Seed is the root seed of the run's random source. Every bootstrap
	// round derives an independent sub-stream from it.
	Seed int64 `yaml:"seed" json:"seed"`
}

// Distribution is the ordered sequence of per-round profit outcomes.
// Index i always holds the outcome of round i, whatever the execution order.
type Distribution []float64

// Summary is the terminal artifact of a run, consumed by the reporting and
// serving layers.
type Summary struct {
	Mean            float64 `json:"mean"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	LossProbability float64 `json:"loss_probability"`
}

// Rounds below this run sequentially; the goroutine fan-out costs more than
// the sampling itself for tiny runs.
const parallelThreshold = 64

// Run executes the bootstrap rounds and returns the profit distribution.
//
// Per round: SampleSize indices are drawn uniformly with replacement from the
// dataset using the round's own sub-stream, the drawn records are ranked by
// predicted volume (descending, ties broken by original index ascending so
// the ordering is identical across platforms), the top WellsToSelect are
// developed, and profit = sum(actual) x RevenuePerUnit - K x CostPerWell.
func Run(dataset Dataset, cfg Config) (Distribution, error) {
	if cfg.SampleSize == 0 {
		cfg.SampleSize = len(dataset)
	}
	if err := validate(dataset, cfg); err != nil {
		return nil, err
	}

	dist := make(Distribution, cfg.Iterations)
	n := len(dataset)

	parallel.ParallelizeWithThreshold(cfg.Iterations, parallelThreshold, func(start, end int) {
		drawn := make([]int, cfg.SampleSize)
		for round := start; round < end; round++ {
			rng := rand.New(rand.NewSource(subSeed(cfg.Seed, round)))
			for j := range drawn {
				drawn[j] = rng.Intn(n)
			}
			dist[round] = profitForSample(dataset, drawn, cfg.WellsToSelect, cfg.CostPerWell, cfg.RevenuePerUnit)
		}
	})

	return dist, nil
}

// Summarize reduces a profit distribution to its reporting summary. Bounds
// are the alpha/2 and 1-alpha/2 empirical percentiles with linear
// interpolation between order statistics.
func Summarize(dist Distribution, confidenceLevel float64) (Summary, error) {
	if len(dist) == 0 {
		return Summary{}, errors.NewConfigurationError("risk.Summarize", "distribution", "must not be empty", len(dist))
	}
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return Summary{}, errors.NewConfigurationError("risk.Summarize", "confidence_level", "must be in (0, 1)", confidenceLevel)
	}

	sorted := make([]float64, len(dist))
	copy(sorted, dist)
	sort.Float64s(sorted)

	alpha := 1 - confidenceLevel
	losses := 0
	for _, p := range dist {
		if p < 0 {
			losses++
		}
	}

	return Summary{
		Mean:            stat.Mean(sorted, nil),
		LowerBound:      stat.Quantile(alpha/2, stat.LinInterp, sorted, nil),
		UpperBound:      stat.Quantile(1-alpha/2, stat.LinInterp, sorted, nil),
		LossProbability: float64(losses) / float64(len(dist)),
	}, nil
}

// profitForSample develops the top-K wells of one drawn sample and prices
// the realized production. drawn holds dataset indices and is not modified.
func profitForSample(dataset Dataset, drawn []int, wellsToSelect int, costPerWell, revenuePerUnit float64) float64 {
	order := make([]int, len(drawn))
	copy(order, drawn)

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if dataset[a].Predicted != dataset[b].Predicted {
			return dataset[a].Predicted > dataset[b].Predicted
		}
		return a < b
	})

	var total float64
	for _, idx := range order[:wellsToSelect] {
		total += dataset[idx].Actual
	}
	return total*revenuePerUnit - float64(wellsToSelect)*costPerWell
}

func validate(dataset Dataset, cfg Config) error {
	const op = "risk.Run"

	if len(dataset) == 0 {
		// Documented choice: an empty region is a configuration error, not a
		// data error. The caller selected a region with no validation rows.
		return errors.NewConfigurationError(op, "dataset", "must not be empty", 0)
	}
	if cfg.Iterations <= 0 {
		return errors.NewConfigurationError(op, "iterations", "must be positive", cfg.Iterations)
	}
	if cfg.SampleSize <= 0 {
		return errors.NewConfigurationError(op, "sample_size", "must be positive", cfg.SampleSize)
	}
	if cfg.WellsToSelect <= 0 {
		return errors.NewConfigurationError(op, "wells_to_select", "must be positive", cfg.WellsToSelect)
	}
	if cfg.WellsToSelect > cfg.SampleSize {
		return errors.NewConfigurationError(op, "wells_to_select", "must not exceed sample_size", cfg.WellsToSelect)
	}
	if cfg.CostPerWell < 0 {
		return errors.NewConfigurationError(op, "cost_per_well", "must be non-negative", cfg.CostPerWell)
	}
	if cfg.RevenuePerUnit < 0 {
		return errors.NewConfigurationError(op, "revenue_per_unit", "must be non-negative", cfg.RevenuePerUnit)
	}
	if cfg.ConfidenceLevel <= 0 || cfg.ConfidenceLevel >= 1 {
		return errors.NewConfigurationError(op, "confidence_level", "must be in (0, 1)", cfg.ConfidenceLevel)
	}

	for i, r := range dataset {
		if math.IsNaN(r.Predicted) || math.IsInf(r.Predicted, 0) ||
			math.IsNaN(r.Actual) || math.IsInf(r.Actual, 0) {
			return errors.NewDataError(op, i, "volume is NaN or Inf")
		}
		if r.Predicted < 0 || r.Actual < 0 {
			return errors.NewDataError(op, i, "negative volume")
		}
	}
	return nil
}

// subSeed derives the sub-stream seed of one bootstrap round from the root
// seed with a SplitMix64 step. Rounds get decorrelated generators without
// sharing any random state, so chunk boundaries cannot affect the draw.
func subSeed(seed int64, round int) int64 {
	z := uint64(seed) + uint64(round+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}
