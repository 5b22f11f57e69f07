// Package log defines standard attribute keys for risk evaluation operations.
//
// Using these predefined keys keeps log records consistent across the CLI,
// the serving layer, and the estimation library, which makes per-region runs
// easy to filter and compare.

package log

// Region and Operation Context
const (
	// RegionKey identifies the geological region being evaluated.
	// Examples: "region_0", "region_1", "region_2"
	RegionKey = "region.name"

	// OperationKey specifies the pipeline operation being performed.
	// Standard values: "load", "fit", "predict", "bootstrap", "summarize"
	OperationKey = "risk.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "dataset", "ensemble", "risk", "drift"
	ComponentKey = "risk.component"

	// ModelNameKey identifies the regression model producing the predictions.
	// Examples: "LinearRegression", "RidgeRegression", "WeightedRegressor"
	ModelNameKey = "model.name"
)

// Data Shape and Sampling
const (
	// WellsKey indicates the number of candidate wells in the dataset.
	WellsKey = "data.wells"

	// FeaturesKey indicates the number of feature columns in the dataset.
	FeaturesKey = "data.features"

	// IterationsKey records the number of bootstrap rounds for a run.
	IterationsKey = "bootstrap.iterations"

	// SampleSizeKey records the per-round resample size.
	SampleSizeKey = "bootstrap.sample_size"

	// SeedKey records the root seed of the run's random source.
	// Logged for every estimation so reported figures can be reproduced.
	SeedKey = "bootstrap.seed"
)

// Result Metrics
const (
	// MeanProfitKey records the mean of the simulated profit distribution.
	MeanProfitKey = "result.mean_profit"

	// LossProbabilityKey records the fraction of simulated outcomes below zero.
	LossProbabilityKey = "result.loss_probability"

	// RMSEKey records the root-mean-square error of a fitted model.
	RMSEKey = "metrics.rmse"

	// SMAPEKey records the symmetric mean absolute percentage error.
	SMAPEKey = "metrics.smape"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
