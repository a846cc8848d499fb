package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elainajones/robotkit/internal/fileserver"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a directory over HTTP until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		srv, err := fileserver.New(viper.GetString("serve.dir"), viper.GetInt("serve.port"))
		if err != nil {
			glog.Exitf("Cannot serve: %v", err)
		}
		if err := srv.Start(); err != nil {
			glog.Exitf("Cannot start server: %v", err)
		}
		fmt.Printf("Serving %s at %s\n", srv.Path(), srv.URL())

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		if err := srv.Stop(); err != nil {
			glog.Exitf("Shutdown failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("dir", "d", "", "Directory to host. A file path hosts its parent directory.")
	serveCmd.Flags().IntP("port", "p", 8080, "Listen port.")
	viper.BindPFlag("serve.dir", serveCmd.Flags().Lookup("dir"))
	viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}
