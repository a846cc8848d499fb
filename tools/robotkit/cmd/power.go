package cmd

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elainajones/robotkit/internal/redfish"
)

// powerCmd represents the power command.
var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Change a lab host's power state over Redfish",
	Long: `Power issues a ComputerSystem.Reset to the host's BMC.  Without
--action, the reset types the system supports are printed instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		host := lookupHost("power")
		client := redfish.New(host.BMC.Addr, host.BMC.User, host.BMC.Password, host.BMC.Port)

		system := viper.GetString("power.system")
		if system == "" {
			systems, err := client.Systems()
			if err != nil {
				glog.Exitf("Cannot list systems on %s: %v", host.Name, err)
			}
			if len(systems) == 0 {
				glog.Exitf("BMC on %s reports no systems", host.Name)
			}
			system = systems[0]
		}

		action := viper.GetString("power.action")
		if action == "" {
			types, err := client.ResetTypes(system)
			if err != nil {
				glog.Exitf("Cannot list reset types: %v", err)
			}
			fmt.Println(strings.Join(types, "\n"))
			return
		}

		ok, err := client.Reset(system, action)
		if err != nil {
			glog.Exitf("Reset failed: %v", err)
		}
		if !ok {
			glog.Exitf("BMC rejected reset %s on %s", action, system)
		}
		fmt.Printf("Reset %s accepted for %s\n", action, system)
	},
}

func init() {
	rootCmd.AddCommand(powerCmd)

	powerCmd.Flags().String("inventory", "hosts.yaml", "Lab host inventory file.")
	powerCmd.Flags().String("host", "", "Inventory name of the target host.")
	powerCmd.Flags().String("system", "", "Redfish system Id. Defaults to the first system the BMC reports.")
	powerCmd.Flags().StringP("action", "a", "", "Reset type, such as On, ForceOff, or GracefulRestart.")
	powerCmd.MarkFlagRequired("host")
	viper.BindPFlag("power.inventory", powerCmd.Flags().Lookup("inventory"))
	viper.BindPFlag("power.host", powerCmd.Flags().Lookup("host"))
	viper.BindPFlag("power.system", powerCmd.Flags().Lookup("system"))
	viper.BindPFlag("power.action", powerCmd.Flags().Lookup("action"))
}
