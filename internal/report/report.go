// Package report renders per-region evaluation results for the console and
// saves profit-distribution histograms.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/petrofore/wellrisk/pkg/errors"
	"github.com/petrofore/wellrisk/risk"
)

// RegionResult is one region's evaluation outcome.
type RegionResult struct {
	Region   string
	Summary  risk.Summary
	Accepted bool
}

// Decide applies the rejection rule: a region is accepted when its loss
// probability does not exceed maxLossProbability.
func Decide(summary risk.Summary, maxLossProbability float64) bool {
	return summary.LossProbability <= maxLossProbability
}

// Render writes the region comparison table to w.
func Render(w io.Writer, results []RegionResult) {
	table := tablewriter.NewWriter(w)
	table.Header("Region", "Mean Profit", "CI Lower", "CI Upper", "Loss Prob", "Decision")

	for _, r := range results {
		decision := "reject"
		if r.Accepted {
			decision = "accept"
		}
		table.Append(
			r.Region,
			fmt.Sprintf("%.2f", r.Summary.Mean),
			fmt.Sprintf("%.2f", r.Summary.LowerBound),
			fmt.Sprintf("%.2f", r.Summary.UpperBound),
			fmt.Sprintf("%.4f", r.Summary.LossProbability),
			decision,
		)
	}
	table.Render()
}

// SaveHistogram writes a histogram of the profit distribution to path.
// The file format follows the extension (png, svg, pdf).
func SaveHistogram(path, region string, dist risk.Distribution) error {
	const op = "report.SaveHistogram"

	if len(dist) == 0 {
		return errors.NewConfigurationError(op, "distribution", "must not be empty", len(dist))
	}

	p := plot.New()
	p.Title.Text = "Profit distribution: " + region
	p.X.Label.Text = "profit"
	p.Y.Label.Text = "rounds"

	h, err := plotter.NewHist(plotter.Values(dist), 40)
	if err != nil {
		return errors.Wrap(err, op)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}
