// Package wellrisk estimates the profit risk of oil-well development
// programs with bootstrap resampling.
//
// Given paired predicted and measured reserve volumes for a region's
// candidate wells, the estimator repeatedly resamples the wells, picks the
// top candidates by predicted volume and prices the selection at the
// measured volumes. The resulting profit distribution yields the mean
// expected profit, an empirical confidence interval and the probability of
// operating at a loss.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/petrofore/wellrisk/risk"
//	)
//
//	func main() {
//	    predicted := []float64{120.5, 80.2, 95.7, 110.1}
//	    actual := []float64{118.0, 75.4, 99.9, 104.2}
//
//	    ds, err := risk.NewDataset(predicted, actual)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    dist, err := risk.Run(ds, risk.Config{
//	        Iterations:      1000,
//	        WellsToSelect:   2,
//	        CostPerWell:     50,
//	        RevenuePerUnit:  4.5,
//	        ConfidenceLevel: 0.95,
//	        Seed:            42,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    summary, err := risk.Summarize(dist, 0.95)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("mean profit: %.2f (loss probability %.3f)\n",
//	        summary.Mean, summary.LossProbability)
//	}
//
// # Packages
//
// - risk: the bootstrap profit-risk estimator
// - dataset: per-region CSV loading, cleaning and train/validation splits
// - linear: ordinary and ridge least-squares volume models
// - ensemble: fixed-weight model averaging
// - metrics: regression quality metrics (RMSE, sMAPE, R², ...)
// - drift: DDM-style monitoring of deployed model residuals
// - pkg/errors: the error taxonomy shared by every package
// - pkg/log: structured logging setup
//
// The cmd/wellrisk binary ties the packages together: it trains a volume
// model per region, evaluates it on held-out wells and reports each
// region's profit summary and accept/reject decision.
package wellrisk
