package cmd

import (
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elainajones/robotkit/internal/retag"
)

// retagCmd represents the retag command.
var retagCmd = &cobra.Command{
	Use:   "retag",
	Short: "Bulk update test case tags from a CSV plan",
	Long: `Retag rewrites the [Tags] lines of the test cases named in a CSV
plan.  Each plan row names a test case, the tags to add, and the tags
to remove; the test case ID tag is always preserved.  Suite files are
rewritten in place through a temp file.`,
	Run: func(cmd *cobra.Command, args []string) {
		_, tcs := loadIndexes(viper.GetString("retag.input"))

		planPath := viper.GetString("retag.plan")
		f, err := os.Open(planPath)
		if err != nil {
			glog.Exitf("Cannot open plan: %v", err)
		}
		plan, err := retag.ReadPlan(f)
		f.Close()
		if err != nil {
			glog.Exitf("Cannot read plan %s: %v", planPath, err)
		}

		if err := retag.Apply(tcs, plan); err != nil {
			glog.Exitf("Retag failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(retagCmd)

	retagCmd.Flags().StringP("input", "i", ".", "Directory tree or suite file to scan for .robot files.")
	retagCmd.Flags().String("plan", "retag.csv", "CSV plan of tag changes.")
	viper.BindPFlag("retag.input", retagCmd.Flags().Lookup("input"))
	viper.BindPFlag("retag.plan", retagCmd.Flags().Lookup("plan"))
}
