package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/icetrail/coolerd/cmd/coolerctl/monitor"
	"github.com/icetrail/coolerd/cmd/coolerctl/screen"
	"github.com/icetrail/coolerd/vertex"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	serial string
)

func main() {
	cmd := &cobra.Command{
		Use:   "coolerctl",
		Short: "A ctl use to interact with coolerd and Vertex coolers",
		Long: "A ctl use to interact with coolerd and Vertex coolers.\n\n" +
			"Commands other than monitor open the device directly. The cooler handles\n" +
			"one master at a time, stop coolerd before using them.",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.NoArgs,
	}
	cmd.PersistentFlags().StringVarP(&serial, "serial", "s", "", "Select the cooler by serial number")

	cmd.AddCommand(monitor.Command())
	cmd.AddCommand(screen.Command(openCooler))
	cmd.AddCommand(listCommand())
	cmd.AddCommand(statusCommand())
	cmd.AddCommand(firmwareCommand())
	cmd.AddCommand(speedCommand())
	cmd.AddCommand(colorCommand())
	cmd.AddCommand(brightnessCommand())
	cmd.AddCommand(dimmCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for coolerctl",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cmd.Version)
		},
	})

	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func openCooler() (*vertex.Controller, error) {
	if serial != "" {
		return vertex.Open(serial)
	}

	return vertex.OpenAuto()
}
