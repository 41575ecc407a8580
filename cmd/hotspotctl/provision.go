package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/NebraLtd/maker-starter-app/internal/config"
	"github.com/NebraLtd/maker-starter-app/internal/history"
	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

func newScanCmd() *cobra.Command {
	var flagDuration time.Duration

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List nearby hotspots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if flagDuration > 0 {
				a.cfg.Scan.Duration = flagDuration
			}

			devices, err := a.Scan(cmd.Context(), func(err error) {
				a.logger.Warn().Err(err).Msg("scan")
			})
			if err != nil {
				return err
			}
			printDevices(cmd.OutOrStdout(), devices)
			return nil
		},
	}
	cmd.Flags().DurationVar(&flagDuration, "duration", 0, "Scan window overriding $HOTSPOT_SCAN_DURATION")
	return cmd
}

func newAddCmd() *cobra.Command {
	return newProvisionCmd("add <device-id>", "Check a hotspot and create its add-gateway transaction", history.ActionAdd)
}

func newUpdateCmd() *cobra.Command {
	return newProvisionCmd("update <device-id>", "Check a hotspot before updating its location", history.ActionUpdate)
}

func newProvisionCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.provision(cmd.Context(), action, hotspot.Device{ID: args[0]})
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out)
			if f, ok := out.(provisioning.Failed); ok {
				return f.Err
			}
			return nil
		},
	}
}

func newNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks <device-id>",
		Short: "Connect to a hotspot and list the Wi-Fi networks it sees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			// Update stops after network discovery and leaves the link open.
			out, err := a.provision(cmd.Context(), history.ActionUpdate, hotspot.Device{ID: args[0]})
			if err != nil {
				return err
			}
			if _, ok := out.(provisioning.ReadyForLocation); !ok {
				printOutcome(cmd.OutOrStdout(), out)
				if f, ok := out.(provisioning.Failed); ok {
					return f.Err
				}
				return nil
			}
			return a.rescan(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// provision runs one attempt and journals it. Journal failures are logged,
// never returned.
func (a *app) provision(ctx context.Context, action string, device hotspot.Device) (provisioning.Outcome, error) {
	coord, err := a.Coordinator()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	var out provisioning.Outcome
	switch action {
	case history.ActionUpdate:
		out = coord.BeginUpdateGateway(ctx, device)
	default:
		out = coord.BeginAddGateway(ctx, device)
	}
	a.record(ctx, history.FromOutcome(action, device, out, started, time.Now()))
	return out, nil
}

// rescan re-reads the network lists over the open link.
func (a *app) rescan(ctx context.Context, w io.Writer) error {
	coord, err := a.Coordinator()
	if err != nil {
		return err
	}
	started := time.Now()
	networks, connected, err := coord.RescanNetworks(ctx)

	e := history.Entry{
		DeviceID:      coord.ConnectedDevice(),
		DeviceAddress: coord.DeviceAddress(),
		Action:        history.ActionRescan,
		Outcome:       "ok",
		Detail:        fmt.Sprintf("%d networks, %d connected", len(networks), len(connected)),
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
	if err != nil {
		e.Outcome, e.Detail, e.Error = "error", "", err.Error()
	}
	a.record(ctx, e)
	if err != nil {
		return err
	}
	printNetworks(w, networks, connected)
	return nil
}

func (a *app) record(ctx context.Context, e history.Entry) {
	j, err := a.Journal()
	if err != nil {
		a.logger.Warn().Err(err).Msg("history unavailable")
		return
	}
	if _, err := j.Record(ctx, e); err != nil {
		a.logger.Warn().Err(err).Msg("history record failed")
	}
}

func printDevices(w io.Writer, devices []hotspot.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No hotspots found")
		return
	}
	fmt.Fprintf(w, "Found %d hotspot(s):\n", len(devices))
	for i, d := range devices {
		fmt.Fprintf(w, "  %d. %s", i+1, d.ID)
		if d.Name != "" {
			fmt.Fprintf(w, "  %q", d.Name)
		}
		if d.RSSI != 0 {
			fmt.Fprintf(w, "  rssi %d", d.RSSI)
		}
		fmt.Fprintln(w)
	}
}

func printNetworks(w io.Writer, networks, connected []string) {
	joined := make(map[string]bool, len(connected))
	for _, n := range connected {
		joined[n] = true
	}
	if len(networks) == 0 && len(connected) == 0 {
		fmt.Fprintln(w, "No networks visible")
		return
	}
	fmt.Fprintln(w, "Networks:")
	for _, n := range networks {
		mark := " "
		if joined[n] {
			mark = "*"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, n)
	}
	for _, n := range connected {
		if !slices.Contains(networks, n) {
			fmt.Fprintf(w, "  * %s\n", n)
		}
	}
}

// outcomePrinter renders an outcome for the terminal.
type outcomePrinter struct {
	w io.Writer
}

func printOutcome(w io.Writer, o provisioning.Outcome) {
	o.Accept(outcomePrinter{w: w})
}

func (p outcomePrinter) VisitNeedsFirmwareUpdate(o provisioning.NeedsFirmwareUpdate) {
	fmt.Fprintf(p.w, "Firmware update required: device runs %s", o.Firmware.DeviceVersion)
	if o.Minimum != "" {
		fmt.Fprintf(p.w, ", minimum is %s", o.Minimum)
	}
	fmt.Fprintln(p.w)
}

func (p outcomePrinter) VisitReadyForWifi(o provisioning.ReadyForWifi) {
	fmt.Fprintf(p.w, "Ready for Wi-Fi setup\n  Address: %s\n  Payer:   %s\n", o.DeviceAddress, o.Payer)
	printNetworks(p.w, o.Networks, o.ConnectedNetworks)
	fmt.Fprintf(p.w, "Transaction (%d bytes):\n  %s\n", len(o.Transaction), base64.StdEncoding.EncodeToString(o.Transaction))
}

func (p outcomePrinter) VisitReadyForLocation(o provisioning.ReadyForLocation) {
	fmt.Fprintf(p.w, "Ready for location update\n  Address: %s\n", o.DeviceAddress)
	printNetworks(p.w, o.Networks, o.ConnectedNetworks)
}

func (p outcomePrinter) VisitAlreadyOwnedByCaller(o provisioning.AlreadyOwnedByCaller) {
	fmt.Fprintf(p.w, "Hotspot %s is already yours (%s)\n", o.DeviceAddress, o.Reason)
}

func (p outcomePrinter) VisitOwnedByOther(o provisioning.OwnedByOther) {
	fmt.Fprintf(p.w, "Hotspot %s belongs to %s\n", o.DeviceAddress, o.Owner)
}

func (p outcomePrinter) VisitFailed(o provisioning.Failed) {
	msg := "unknown error"
	if o.Err != nil {
		msg = o.Err.Error()
	}
	fmt.Fprintf(p.w, "Provisioning failed: %s\n", msg)
	if kind, ok := provisioning.KindOf(o.Err); ok {
		fmt.Fprintf(p.w, "  Kind: %s\n", kind)
	}
	if hint := failureHint(o.Err); hint != "" {
		fmt.Fprintf(p.w, "  %s\n", hint)
	}
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, provisioning.ErrDeviceWait):
		return "The hotspot is busy. Try again in a minute."
	case errors.Is(err, provisioning.ErrLinkBusy):
		return "Another hotspot is still connected. Release it first."
	case errors.Is(err, provisioning.ErrMalformedCredential):
		return "Link a wallet first: hotspotctl link url"
	case errors.Is(err, provisioning.ErrNoPayer):
		return "Set a fallback payer ($" + config.EnvFallbackPayer + ")."
	case errors.Is(err, provisioning.ErrDirectoryUnavailable):
		return "Check the directory URL ($" + config.EnvDirectoryURL + ")."
	}
	return ""
}
