// Package drift monitors deployed reserve-volume models for concept drift.
//
// The detector follows the DDM scheme (J. Gama, P. Medas, G. Castillo,
// P. Rodrigues, 2004, "Learning with Drift Detection"): it tracks the rate
// of "bad" predictions and compares the current rate plus its binomial
// standard deviation against the best level seen since the last reset. For
// regression models a prediction counts as bad when its absolute residual
// exceeds a caller-chosen tolerance.
package drift

import (
	"math"
	"sync"

	"github.com/petrofore/wellrisk/pkg/errors"
)

// Detector is a DDM-style drift detector over a stream of prediction
// outcomes. Safe for concurrent use.
type Detector struct {
	minObservations int
	warningLevel    float64
	driftLevel      float64

	observations int
	bad          int
	errorRate    float64
	stdDev       float64

	// best level observed since the last reset
	minErrorRate float64
	minStdDev    float64

	mu sync.Mutex
}

// Result reports the detector state after one update.
type Result struct {
	Warning   bool
	Drift     bool
	ErrorRate float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithMinObservations sets how many observations are required before the
// detector starts judging. Defaults to 30.
func WithMinObservations(n int) Option {
	return func(d *Detector) { d.minObservations = n }
}

// WithWarningLevel sets the warning threshold in standard deviations above
// the best observed level. Defaults to 2.
func WithWarningLevel(level float64) Option {
	return func(d *Detector) { d.warningLevel = level }
}

// WithDriftLevel sets the drift threshold in standard deviations above the
// best observed level. Defaults to 3.
func WithDriftLevel(level float64) Option {
	return func(d *Detector) { d.driftLevel = level }
}

// NewDetector creates a Detector with the given options.
func NewDetector(options ...Option) *Detector {
	d := &Detector{
		minObservations: 30,
		warningLevel:    2.0,
		driftLevel:      3.0,
		minErrorRate:    math.Inf(1),
		minStdDev:       math.Inf(1),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Update feeds one prediction outcome into the detector.
func (d *Detector) Update(bad bool) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observations++
	if bad {
		d.bad++
	}

	if d.observations < d.minObservations {
		return Result{}
	}

	d.errorRate = float64(d.bad) / float64(d.observations)
	d.stdDev = math.Sqrt(d.errorRate * (1 - d.errorRate) / float64(d.observations))

	level := d.errorRate + d.stdDev
	if level < d.minErrorRate+d.minStdDev {
		d.minErrorRate = d.errorRate
		d.minStdDev = d.stdDev
	}

	result := Result{ErrorRate: d.errorRate}

	if level > d.minErrorRate+d.warningLevel*d.minStdDev {
		result.Warning = true
	}
	if level > d.minErrorRate+d.driftLevel*d.minStdDev {
		result.Drift = true
		errors.Warn(errors.NewModelDriftWarning("DDM", level, d.minErrorRate+d.driftLevel*d.minStdDev, "retrain model"))
		d.resetLocked()
	}

	return result
}

// UpdateWithResidual feeds one regression residual into the detector. The
// prediction counts as bad when |residual| exceeds tolerance.
func (d *Detector) UpdateWithResidual(residual, tolerance float64) Result {
	return d.Update(math.Abs(residual) > tolerance)
}

// Reset clears the detector back to its initial state.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

func (d *Detector) resetLocked() {
	d.observations = 0
	d.bad = 0
	d.errorRate = 0
	d.stdDev = 0
	d.minErrorRate = math.Inf(1)
	d.minStdDev = math.Inf(1)
}

// Stats returns the current observation counts and error rate.
func (d *Detector) Stats() (observations, bad int, errorRate float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.observations, d.bad, d.errorRate
}
