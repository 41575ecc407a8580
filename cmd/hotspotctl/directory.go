package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/NebraLtd/maker-starter-app/pkg/directory/stub"
)

func newDirectoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Local directory service tools",
	}
	cmd.AddCommand(newDirectoryServeCmd())
	return cmd
}

func newDirectoryServeCmd() *cobra.Command {
	var flagFixture, flagListen, flagMinFirmware string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the directory API from a YAML fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fixture *stub.Fixture
			if flagFixture != "" {
				f, err := stub.LoadFixture(flagFixture)
				if err != nil {
					return err
				}
				fixture = f
			}
			srv := stub.NewServer(fixture, log.Logger)
			if flagMinFirmware != "" {
				srv.SetMinimumFirmware(flagMinFirmware)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, flagListen, nil)
		},
	}
	cmd.Flags().StringVar(&flagFixture, "fixture", "", "YAML fixture with hotspots and minimum firmware")
	cmd.Flags().StringVar(&flagListen, "listen", "127.0.0.1:8686", "Listen address")
	cmd.Flags().StringVar(&flagMinFirmware, "min-firmware", "", "Minimum firmware overriding the fixture")
	return cmd
}
