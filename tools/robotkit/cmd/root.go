// Package cmd implements the robotkit subcommands.
package cmd

import (
	goflag "flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elainajones/robotkit/internal/inventory"
	"github.com/elainajones/robotkit/internal/robot"
)

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "robotkit",
	Short: "Helpers for maintaining Robot Framework test trees",
	Long: `Robotkit bundles the test engineering helpers for Robot Framework
labs: impact analysis for keyword changes, bulk retagging, xlsx run
reports, SSH command execution, Redfish power control, and a
throwaway HTTP file server for firmware pushes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog checks flag.Parsed before logging.
		goflag.CommandLine.Parse(nil)
	},
}

// Execute runs the root command.
func Execute() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// glog registers its flags on the standard flag set.
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
}

// loadIndexes scans root for suite files and builds the keyword and
// test case indexes.
func loadIndexes(root string) (robot.Keywords, robot.TestCases) {
	files := robot.Files(root)
	if len(files) == 0 {
		glog.Exitf("No .robot files found under %s", root)
	}
	return robot.ReadKeywords(files), robot.ReadTestCases(files)
}

// lookupHost resolves the --inventory and --host flags of the given
// command section to a lab host.
func lookupHost(section string) inventory.Host {
	inv, err := inventory.Load(viper.GetString(section + ".inventory"))
	if err != nil {
		glog.Exitf("Cannot load inventory: %v", err)
	}
	host, err := inv.Host(viper.GetString(section + ".host"))
	if err != nil {
		glog.Exitf("%v", err)
	}
	return host
}
