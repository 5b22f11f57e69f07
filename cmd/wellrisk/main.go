// Package main provides the wellrisk command line interface.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/petrofore/wellrisk/dataset"
	"github.com/petrofore/wellrisk/drift"
	"github.com/petrofore/wellrisk/ensemble"
	"github.com/petrofore/wellrisk/internal/config"
	"github.com/petrofore/wellrisk/internal/report"
	"github.com/petrofore/wellrisk/internal/server"
	"github.com/petrofore/wellrisk/linear"
	"github.com/petrofore/wellrisk/metrics"
	applog "github.com/petrofore/wellrisk/pkg/log"
	"github.com/petrofore/wellrisk/risk"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	seedFlag   int64
	histDir    string
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "Root seed override (0 uses SEED env or the default)")
	evaluateCmd.Flags().StringVar(&histDir, "hist-dir", "", "Directory for profit histogram images (omit to skip)")
}

var rootCmd = &cobra.Command{
	Use:   "wellrisk",
	Short: "Oil-well profit-risk evaluation",
	Long: `wellrisk trains reserve-volume models per region, bootstraps the
profit distribution of the top-K development picks, and reports mean profit,
confidence interval and loss probability for each region.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		applog.SetupLogger(cfg.Log.Level)
		cfg.Risk.Seed = config.ResolveSeed(seedFlag)
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate every configured region",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluate()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the estimator over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		return server.New(logger).ListenAndServe(cfg.Server.Addr)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil // version needs no configuration
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wellrisk %s (%s)\n", Version, GitCommit)
	},
}

func main() {
	rootCmd.AddCommand(evaluateCmd, serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runEvaluate() error {
	results := make([]report.RegionResult, 0, len(cfg.Data.Regions))

	for _, regionFile := range cfg.Data.Regions {
		region := strings.TrimSuffix(regionFile, filepath.Ext(regionFile))

		result, dist, err := evaluateRegion(region, filepath.Join(cfg.Data.Dir, regionFile))
		if err != nil {
			return err
		}
		results = append(results, result)

		if histDir != "" {
			path := filepath.Join(histDir, region+".png")
			if err := report.SaveHistogram(path, region, dist); err != nil {
				return err
			}
		}
	}

	report.Render(os.Stdout, results)
	return nil
}

func evaluateRegion(region, path string) (report.RegionResult, risk.Distribution, error) {
	logger := slog.Default().With(applog.RegionKey, region)

	table, err := dataset.LoadFile(path)
	if err != nil {
		return report.RegionResult{}, nil, err
	}
	clean := table.CleanDeduplicate()
	logger.Info("region loaded", applog.WellsKey, clean.Len())

	train, valid, err := clean.Split(cfg.Data.ValidationFraction, cfg.Risk.Seed)
	if err != nil {
		return report.RegionResult{}, nil, err
	}

	predicted, actual, err := fitAndPredict(logger, train, valid)
	if err != nil {
		return report.RegionResult{}, nil, err
	}

	ds, err := risk.NewDataset(predicted, actual)
	if err != nil {
		return report.RegionResult{}, nil, err
	}

	dist, err := risk.Run(ds, cfg.Risk)
	if err != nil {
		return report.RegionResult{}, nil, err
	}
	summary, err := risk.Summarize(dist, cfg.Risk.ConfidenceLevel)
	if err != nil {
		return report.RegionResult{}, nil, err
	}

	logger.Info("region evaluated",
		applog.OperationKey, "bootstrap",
		applog.IterationsKey, cfg.Risk.Iterations,
		applog.SeedKey, cfg.Risk.Seed,
		applog.MeanProfitKey, summary.Mean,
		applog.LossProbabilityKey, summary.LossProbability,
	)

	return report.RegionResult{
		Region:   region,
		Summary:  summary,
		Accepted: report.Decide(summary, cfg.MaxLossProbability),
	}, dist, nil
}

// fitAndPredict trains the region's ensemble on the training rows and
// returns the predicted and actual volumes of the validation rows.
func fitAndPredict(logger *slog.Logger, train, valid *dataset.Table) ([]float64, []float64, error) {
	XTrain, yTrain, err := train.FeaturesTarget()
	if err != nil {
		return nil, nil, err
	}
	XValid, yValid, err := valid.FeaturesTarget()
	if err != nil {
		return nil, nil, err
	}

	model, err := ensemble.NewWeightedRegressor([]ensemble.Member{
		{Name: "ols", Model: linear.NewLinearRegression(), Weight: 0.5},
		{Name: "ridge-weak", Model: linear.NewRidgeRegression(0.1), Weight: 0.3},
		{Name: "ridge-strong", Model: linear.NewRidgeRegression(1.0), Weight: 0.2},
	})
	if err != nil {
		return nil, nil, err
	}
	if err := model.Fit(XTrain, yTrain); err != nil {
		return nil, nil, err
	}

	pred, err := model.Predict(XValid)
	if err != nil {
		return nil, nil, err
	}

	n := valid.Len()
	predVec := mat.NewVecDense(n, nil)
	predicted := make([]float64, n)
	for i := 0; i < n; i++ {
		predVec.SetVec(i, pred.At(i, 0))
		// Linear members can extrapolate below zero on held-out rows; the
		// estimator rejects negative volumes, so floor the caller's input.
		predicted[i] = pred.At(i, 0)
		if predicted[i] < 0 {
			predicted[i] = 0
		}
	}

	rmse, err := metrics.RMSE(yValid, predVec)
	if err != nil {
		return nil, nil, err
	}
	smape, err := metrics.SMAPE(yValid, predVec)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("ensemble validated",
		applog.ModelNameKey, "WeightedRegressor",
		applog.RMSEKey, rmse,
		applog.SMAPEKey, smape,
	)

	// Monitoring hook: the residual stream feeds the drift detector the
	// same way production predictions would.
	detector := drift.NewDetector()
	for i := 0; i < n; i++ {
		detector.UpdateWithResidual(yValid.AtVec(i)-predVec.AtVec(i), 2*rmse)
	}

	return predicted, valid.Target, nil
}
