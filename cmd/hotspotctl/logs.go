package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NebraLtd/maker-starter-app/cmd/hotspotctl/trace"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Read provisioning trace files (.plog)",
	}
	cmd.AddCommand(newLogViewCmd(), newLogExportCmd(), newLogFilterCmd(), newLogStatsCmd())
	return cmd
}

func newLogViewCmd() *cobra.Command {
	var layer, direction, category, session string

	cmd := &cobra.Command{
		Use:   "view <file.plog>",
		Short: "View a trace in human-readable form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := trace.ViewFilter{SessionID: session}
			if layer != "" {
				l, err := trace.ParseLayer(layer)
				if err != nil {
					return err
				}
				filter.Layer = &l
			}
			if direction != "" {
				d, err := trace.ParseDirection(direction)
				if err != nil {
					return err
				}
				filter.Direction = &d
			}
			if category != "" {
				c, err := trace.ParseCategory(category)
				if err != nil {
					return err
				}
				filter.Category = &c
			}
			return trace.RunView(args[0], filter, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&layer, "layer", "", "Filter by layer (frame, message, coordinator)")
	cmd.Flags().StringVar(&direction, "direction", "", "Filter by direction (in, out)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category (message, state, outcome, error)")
	cmd.Flags().StringVar(&session, "session", "", "Filter by session id")
	return cmd
}

func newLogExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <file.plog>",
		Short: "Export a trace to jsonl or csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return trace.RunExport(args[0], format, output)
		},
	}
	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newLogFilterCmd() *cobra.Command {
	var opts trace.FilterOptions

	cmd := &cobra.Command{
		Use:   "filter <file.plog>",
		Short: "Write the matching events of a trace to a new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := trace.RunFilter(args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filtered %d events to %s\n", n, opts.Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (required)")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "Filter by session id")
	cmd.Flags().StringVar(&opts.DeviceID, "device-id", "", "Filter by radio device id")
	cmd.Flags().StringVar(&opts.DeviceAddress, "address", "", "Filter by hotspot address")
	cmd.Flags().StringVar(&opts.TimeStart, "time-start", "", "Events at or after (RFC3339)")
	cmd.Flags().StringVar(&opts.TimeEnd, "time-end", "", "Events before (RFC3339)")
	cmd.Flags().StringVar(&opts.Layer, "layer", "", "Filter by layer")
	cmd.Flags().StringVar(&opts.Direction, "direction", "", "Filter by direction")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Filter by category")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newLogStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file.plog>",
		Short: "Summarize a trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return trace.RunStats(args[0], cmd.OutOrStdout())
		},
	}
}
