package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/NebraLtd/maker-starter-app/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var opts history.ListOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past provisioning attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			j, err := a.Journal()
			if err != nil {
				return err
			}
			entries, err := j.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", history.DefaultLimit, "Maximum entries")
	cmd.Flags().StringVar(&opts.DeviceAddress, "address", "", "Only this hotspot address")
	return cmd
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No attempts recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tACTION\tDEVICE\tADDRESS\tOUTCOME\tTOOK\tDETAIL")
	for _, e := range entries {
		detail := e.Detail
		if e.Error != "" {
			detail = e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			e.Action, dash(e.DeviceID), dash(e.DeviceAddress), dash(e.Outcome),
			e.Duration().Round(time.Millisecond), detail)
	}
	tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
