package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/demographics-cli/internal/model"
)

var (
	reportCounty  string
	reportFormat  string
	reportRefresh bool
)

var reportCmd = &cobra.Command{
	Use:   "report <city> <state>",
	Short: "Generate the demographic report for one city",
	Example: `  demographics-cli report Austin TX
  demographics-cli report "San Antonio" TX --county 029 --format yaml
  demographics-cli report Seattle WA --county 42660 --refresh`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportFormat != "json" && reportFormat != "yaml" {
			return eris.Errorf("report: unknown format %q (want json or yaml)", reportFormat)
		}

		ctx := cmd.Context()
		env, err := initEnv(ctx, "report")
		if err != nil {
			return err
		}
		defer env.Close()

		key := model.CityKey{CityName: args[0], StateCode: args[1], CountyCode: reportCounty}
		report, err := env.Service.Report(ctx, key, reportRefresh)
		if err != nil {
			return eris.Wrap(err, "report")
		}

		if report.DataQuality.Limited() {
			zap.L().Warn("report built on limited data",
				zap.Stringer("city", key),
				zap.Int("confidence", report.DataQuality.Confidence),
				zap.Strings("estimated", report.DataQuality.Estimated),
			)
		}

		return writeReport(os.Stdout, report, reportFormat)
	},
}

// writeReport encodes report as indented JSON or as YAML with the same keys.
func writeReport(w io.Writer, report *model.DemographicReport, format string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal")
	}
	if format != "yaml" {
		data = append(data, '\n')
		_, err = w.Write(data)
		return eris.Wrap(err, "report: write")
	}

	// JSON is valid YAML, so decoding it into a node keeps the JSON key names
	// and field order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return eris.Wrap(err, "report: convert to yaml")
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	return eris.Wrap(enc.Close(), "report: encode yaml")
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func init() {
	reportCmd.Flags().StringVar(&reportCounty, "county", "", "3-digit county FIPS or 5-digit CBSA code")
	reportCmd.Flags().StringVar(&reportFormat, "format", "json", "output format: json or yaml")
	reportCmd.Flags().BoolVar(&reportRefresh, "refresh", false, "bypass the cached report")
	rootCmd.AddCommand(reportCmd)
}
