// Command hotspotctl finds hotspots, walks them through add-gateway and
// update-gateway provisioning, and manages the local wallet link.
//
// Usage:
//
//	hotspotctl scan
//	hotspotctl add <device-id>
//	hotspotctl update <device-id>
//	hotspotctl networks <device-id>
//	hotspotctl link url|callback|show|clear
//	hotspotctl history
//	hotspotctl log view|export|filter|stats <file.plog>
//	hotspotctl directory serve
//	hotspotctl shell
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/NebraLtd/maker-starter-app/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "hotspotctl",
	Short:         "Provision hotspots over BLE, mDNS or TCP",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig  string
	flagRadio   string
	flagAddr string
	flagVerbose bool
)

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file overriding $"+config.EnvConfig)
	rootCmd.PersistentFlags().StringVar(&flagRadio, "radio", "", "Radio backend (ble, mdns, tcp) overriding $"+config.EnvRadio)
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "", "host:port for the tcp backend overriding $"+config.EnvLinkAddr)
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.AddCommand(
		newScanCmd(),
		newAddCmd(),
		newUpdateCmd(),
		newNetworksCmd(),
		newLinkCmd(),
		newHistoryCmd(),
		newLogCmd(),
		newDirectoryCmd(),
		newShellCmd(),
	)
	_ = config.EnsureEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("hotspotctl command failed")
	}
}
