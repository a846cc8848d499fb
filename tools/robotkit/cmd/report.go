package cmd

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elainajones/robotkit/internal/report"
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate an xlsx report from Robot Framework xUnit results",
	Long: `Report reads the xUnit result files under one or more result
directories, consolidates repeated runs of the same test case with a
preference for passing runs, joins them with the suite index for IDs
and tags, and writes a single-sheet xlsx workbook.`,
	Run: func(cmd *cobra.Command, args []string) {
		_, tcs := loadIndexes(viper.GetString("report.robot-dir"))

		var results []report.Result
		for _, dir := range viper.GetStringSlice("report.input") {
			results = append(results, report.ReadResults(report.ResultFiles(dir))...)
		}
		if len(results) == 0 {
			glog.Exitf("No results found in %v", viper.GetStringSlice("report.input"))
		}

		runs := report.Consolidate(results)
		rows := report.Rows(tcs, runs, viper.GetString("report.link"))

		out := viper.GetString("report.output")
		if out == "" {
			out = report.ReportPath(".")
		}
		if err := report.WriteXLSX(out, rows); err != nil {
			glog.Exitf("Cannot write report: %v", err)
		}
		fmt.Println("Report saved to " + out)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("robot-dir", ".", "Directory tree to scan for .robot suite files.")
	reportCmd.Flags().StringSliceP("input", "i", []string{"."}, "Result directory to scan for xUnit xml files; repeatable.")
	reportCmd.Flags().StringP("output", "o", "", "Workbook output path. Defaults to the next free robot_report name.")
	reportCmd.Flags().StringP("link", "l", "", "Link recorded on every report row, such as the run log URL.")
	viper.BindPFlag("report.robot-dir", reportCmd.Flags().Lookup("robot-dir"))
	viper.BindPFlag("report.input", reportCmd.Flags().Lookup("input"))
	viper.BindPFlag("report.output", reportCmd.Flags().Lookup("output"))
	viper.BindPFlag("report.link", reportCmd.Flags().Lookup("link"))
}
