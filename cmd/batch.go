package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/batch"
)

var (
	batchInput       string
	batchOutput      string
	batchConcurrency int
	batchRefresh     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate reports for a list of cities",
	Long: `Reads cities from a .csv or .xlsx file (columns city, state and optional
county) and writes one summary row per city to an .xlsx workbook. A city that
fails is recorded in the workbook and does not stop the batch.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		keys, err := batch.ReadCities(batchInput)
		if err != nil {
			return eris.Wrap(err, "batch: read input")
		}
		if len(keys) == 0 {
			return eris.Errorf("batch: no cities in %s", batchInput)
		}
		zap.L().Info("batch: cities loaded", zap.Int("cities", len(keys)), zap.String("input", batchInput))

		if batchConcurrency > 0 {
			cfg.Batch.MaxConcurrentCities = batchConcurrency
		}

		env, err := initEnv(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		sum := batch.NewRunner(env.Service, cfg.Batch.MaxConcurrentCities, batchRefresh).Run(ctx, keys)

		if err := batch.WriteWorkbook(batchOutput, sum); err != nil {
			return err
		}
		zap.L().Info("batch: workbook written",
			zap.String("run_id", sum.RunID),
			zap.String("path", batchOutput),
		)

		if sum.Succeeded == 0 {
			return eris.Errorf("batch: all %d cities failed", sum.Failed)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "cities file, .csv or .xlsx (required)")
	batchCmd.Flags().StringVar(&batchOutput, "out", "demographics-report.xlsx", "summary workbook path")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "cities processed at once (default from config)")
	batchCmd.Flags().BoolVar(&batchRefresh, "refresh", false, "bypass cached reports")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
