package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elainajones/robotkit/internal/sshclient"
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run -- <command>",
	Short: "Run a shell command on a lab host over SSH",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		host := lookupHost("run")
		client, err := sshclient.Dial(sshclient.Config{
			Addr:       host.Addr,
			Port:       host.SSH.Port,
			User:       host.SSH.User,
			Password:   host.SSH.Password,
			KeyFile:    host.SSH.KeyFile,
			SkipVerify: viper.GetBool("run.insecure"),
		})
		if err != nil {
			glog.Exitf("Cannot dial %s: %v", host.Name, err)
		}
		defer client.Close()

		out, err := client.Run(context.Background(), strings.Join(args, " "))
		fmt.Print(out)
		if err != nil {
			glog.Exitf("Command failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("inventory", "hosts.yaml", "Lab host inventory file.")
	runCmd.Flags().String("host", "", "Inventory name of the target host.")
	runCmd.Flags().Bool("insecure", false, "Skip host key verification.")
	runCmd.MarkFlagRequired("host")
	viper.BindPFlag("run.inventory", runCmd.Flags().Lookup("inventory"))
	viper.BindPFlag("run.host", runCmd.Flags().Lookup("host"))
	viper.BindPFlag("run.insecure", runCmd.Flags().Lookup("insecure"))
}
