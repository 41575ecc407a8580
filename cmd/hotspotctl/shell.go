package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/NebraLtd/maker-starter-app/internal/history"
	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive provisioning session that keeps the link open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			sh, err := newShell(a)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer cancel()
			sh.Run(ctx, cancel)
			return nil
		},
	}
}

// shell is the interactive command loop.
type shell struct {
	app     *app
	rl      *readline.Instance
	devices []hotspot.Device
}

func newShell(a *app) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "hotspot> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	// Route logs through readline so they do not garble the prompt.
	a.logger = a.logger.Output(zerolog.ConsoleWriter{Out: rl.Stderr()})
	return &shell{app: a, rl: rl}, nil
}

func (s *shell) out() io.Writer { return s.rl.Stdout() }

// Run reads commands until quit, EOF or ctx ends.
func (s *shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()
		case "scan", "s":
			s.cmdScan(ctx)
		case "devices", "ls":
			printDevices(s.out(), s.devices)
		case "add":
			s.cmdProvision(ctx, history.ActionAdd, args)
		case "update":
			s.cmdProvision(ctx, history.ActionUpdate, args)
		case "rescan", "networks":
			if err := s.app.rescan(ctx, s.out()); err != nil {
				fmt.Fprintf(s.out(), "Rescan failed: %v\n", err)
			}
		case "status":
			s.cmdStatus()
		case "release", "disconnect":
			s.cmdRelease()
		case "history", "h":
			s.cmdHistory(ctx)
		case "quit", "exit", "q":
			fmt.Fprintln(s.out(), "Exiting...")
			cancel()
			return
		default:
			fmt.Fprintf(s.out(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out(), `
Hotspot Commands:
  Discovery:
    scan               - Scan for nearby hotspots
    devices            - List hotspots from the last scan

  Provisioning:
    add <n|id>         - Add-gateway check and transaction
    update <n|id>      - Update-gateway check (location)
    rescan             - Re-read Wi-Fi networks over the open link
    release            - Disconnect the current hotspot

  General:
    status             - Show link and attempt state
    history            - Show recent attempts
    help               - Show this help
    quit               - Exit`)
}

func (s *shell) cmdScan(ctx context.Context) {
	fmt.Fprintf(s.out(), "Scanning for %s...\n", s.app.cfg.Scan.Duration)
	devices, err := s.app.Scan(ctx, func(err error) {
		fmt.Fprintf(s.out(), "  radio: %v\n", err)
	})
	if err != nil {
		fmt.Fprintf(s.out(), "Scan failed: %v\n", err)
		return
	}
	s.devices = devices
	printDevices(s.out(), devices)
}

// resolve accepts a 1-based index into the last scan or a raw device id.
func (s *shell) resolve(arg string) hotspot.Device {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(s.devices) {
		return s.devices[n-1]
	}
	for _, d := range s.devices {
		if d.ID == arg {
			return d
		}
	}
	return hotspot.Device{ID: arg}
}

func (s *shell) cmdProvision(ctx context.Context, action string, args []string) {
	if len(args) < 1 {
		fmt.Fprintf(s.out(), "Usage: %s <n|id>\n", action)
		return
	}
	out, err := s.app.provision(ctx, action, s.resolve(args[0]))
	if err != nil {
		fmt.Fprintf(s.out(), "Error: %v\n", err)
		return
	}
	printOutcome(s.out(), out)
}

func (s *shell) cmdStatus() {
	coord, err := s.app.Coordinator()
	if err != nil {
		fmt.Fprintf(s.out(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out(), "State:   %s\n", coord.State())
	fmt.Fprintf(s.out(), "Device:  %s\n", dash(coord.ConnectedDevice()))
	fmt.Fprintf(s.out(), "Address: %s\n", dash(coord.DeviceAddress()))
	if s.app.client != nil {
		ok, _ := s.app.client.IsConnected(context.Background())
		fmt.Fprintf(s.out(), "Link:    %s\n", map[bool]string{true: "connected", false: "idle"}[ok])
	}
}

func (s *shell) cmdRelease() {
	coord, err := s.app.Coordinator()
	if err != nil {
		fmt.Fprintf(s.out(), "Error: %v\n", err)
		return
	}
	if err := coord.Release(); err != nil {
		fmt.Fprintf(s.out(), "Release failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out(), "Released")
}

func (s *shell) cmdHistory(ctx context.Context) {
	j, err := s.app.Journal()
	if err != nil {
		fmt.Fprintf(s.out(), "Error: %v\n", err)
		return
	}
	entries, err := j.List(ctx, history.ListOptions{Limit: 10})
	if err != nil {
		fmt.Fprintf(s.out(), "Error: %v\n", err)
		return
	}
	printHistory(s.out(), entries)
}

var _ provisioning.OutcomeVisitor = outcomePrinter{}
