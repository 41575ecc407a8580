// Command hotspot-sim runs a simulated hotspot for end-to-end runs without
// hardware: the provisioning link over TCP, advertised over mDNS, with an
// optional local directory service that knows about it.
//
// Usage:
//
//	hotspot-sim [flags]
//
// Examples:
//
//	# Hotspot on :8585 plus a directory on :8686
//	hotspot-sim --directory 127.0.0.1:8686
//
//	# Firmware below the directory minimum
//	hotspot-sim --firmware v0.9.0 --min-firmware v1.0.0 --directory :8686
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/NebraLtd/maker-starter-app/internal/config"
	"github.com/NebraLtd/maker-starter-app/internal/sim"
	"github.com/NebraLtd/maker-starter-app/pkg/directory/stub"
	"github.com/NebraLtd/maker-starter-app/pkg/discovery"
	"github.com/NebraLtd/maker-starter-app/pkg/link"
	plog "github.com/NebraLtd/maker-starter-app/pkg/log"
)

type options struct {
	configPath  string
	listen      string
	id          string
	name        string
	iface       string
	noAdvertise bool
	seed        string
	sim         sim.Config

	directory   string
	fixture     string
	minFirmware string
	maker       string
	payer       string
	owner       string

	eventLog string
	verbose  bool
}

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	_ = config.EnsureEnv()

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("hotspot-sim failed")
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "hotspot-sim",
		Short:         "Run a simulated hotspot",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML file with the simulated hotspot settings")
	f.StringVar(&opts.listen, "listen", ":"+strconv.Itoa(discovery.DefaultPort), "Link listen address")
	f.StringVar(&opts.id, "id", "", "Hotspot id advertised over mDNS (default: derived from the address)")
	f.StringVar(&opts.name, "name", "Simulated Hotspot", "Advertised name")
	f.StringVar(&opts.iface, "interface", "", "Advertise on this interface only")
	f.BoolVar(&opts.noAdvertise, "no-advertise", false, "Do not advertise over mDNS")
	f.StringVar(&opts.seed, "seed", "", "Hex ed25519 seed for a stable identity")
	f.StringVar(&opts.sim.Firmware, "firmware", "", "Reported firmware version")
	f.BoolVar(&opts.sim.Outdated, "outdated", false, "Report out-of-date firmware when no minimum is sent")
	f.StringSliceVar(&opts.sim.Networks, "networks", []string{"HomeWiFi", "Office"}, "Visible Wi-Fi networks")
	f.StringSliceVar(&opts.sim.Connected, "connected", nil, "Joined Wi-Fi networks")
	f.IntVar(&opts.sim.WaitCount, "wait", 0, "Answer the first N add-gateway requests with wait")
	f.BoolVar(&opts.sim.Placeholder, "placeholder", false, "Answer add-gateway with a placeholder payload")

	f.StringVar(&opts.directory, "directory", "", "Also serve a directory stub on this address")
	f.StringVar(&opts.fixture, "fixture", "", "Directory fixture YAML")
	f.StringVar(&opts.minFirmware, "min-firmware", "", "Directory minimum firmware")
	f.StringVar(&opts.maker, "maker", "", "Register the hotspot in the directory with this maker")
	f.StringVar(&opts.payer, "payer", "", "Payer for the directory registration")
	f.StringVar(&opts.owner, "owner", "", "Owner for the directory registration")

	f.StringVar(&opts.eventLog, "event-log", "", "Write a trace of served link traffic")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	return cmd
}

func run(ctx context.Context, opts options) error {
	logger := log.Logger.Level(zerolog.InfoLevel)
	if opts.verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	cfg, err := loadSimConfig(opts)
	if err != nil {
		return err
	}
	hotspot, err := sim.New(cfg, logger.With().Str("component", "sim").Logger())
	if err != nil {
		return err
	}
	id := opts.id
	if id == "" {
		id = shortID(hotspot.HotspotAddress())
	}
	logger.Info().Str("address", hotspot.HotspotAddress()).Str("id", id).
		Str("firmware", hotspot.FirmwareVersion()).Msg("simulated hotspot")

	var events plog.Logger = plog.NoopLogger{}
	if opts.eventLog != "" {
		fl, err := plog.NewFileLogger(opts.eventLog)
		if err != nil {
			return errors.Wrap(err, "open event log")
		}
		defer fl.Close()
		events = fl
	}

	var dir *stub.Server
	if opts.directory != "" {
		if dir, err = directoryStub(opts, hotspot, logger.With().Str("component", "directory").Logger()); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", opts.listen)
	if err != nil {
		return errors.Wrapf(err, "listen %s", opts.listen)
	}
	agent := link.NewAgent(hotspot,
		link.WithAgentLogger(logger.With().Str("component", "agent").Logger()),
		link.WithAgentEventLogger(events),
		link.WithDeviceID(id))

	if !opts.noAdvertise {
		adv := discovery.NewAdvertiser(discovery.AdvertiserConfig{Interface: opts.iface})
		info := &discovery.Info{
			ID:       id,
			Name:     opts.name,
			Firmware: hotspot.FirmwareVersion(),
			Port:     uint16(ln.Addr().(*net.TCPAddr).Port),
		}
		if err := adv.Advertise(ctx, info); err != nil {
			ln.Close()
			return err
		}
		defer adv.Stop()
		logger.Info().Str("service", discovery.ServiceType).Str("instance", id).Msg("advertising")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Msg("link listening")
		return agent.ServeListener(ctx, ln)
	})

	if dir != nil {
		g.Go(func() error { return dir.ListenAndServe(ctx, opts.directory, nil) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadSimConfig(opts options) (sim.Config, error) {
	cfg := opts.sim
	if opts.configPath != "" {
		data, err := os.ReadFile(opts.configPath)
		if err != nil {
			return cfg, errors.Wrap(err, "read sim config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", opts.configPath)
		}
	}
	if opts.seed != "" {
		seed, err := hex.DecodeString(opts.seed)
		if err != nil {
			return cfg, errors.Wrap(err, "seed")
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

func directoryStub(opts options, h *sim.Hotspot, logger zerolog.Logger) (*stub.Server, error) {
	var fixture *stub.Fixture
	if opts.fixture != "" {
		f, err := stub.LoadFixture(opts.fixture)
		if err != nil {
			return nil, err
		}
		fixture = f
	}
	srv := stub.NewServer(fixture, logger)
	if opts.minFirmware != "" {
		srv.SetMinimumFirmware(opts.minFirmware)
	}
	if opts.maker != "" || opts.owner != "" || opts.payer != "" {
		srv.SetHotspot(h.HotspotAddress(), stub.Hotspot{Maker: opts.maker, Payer: opts.payer, Owner: opts.owner})
	}
	return srv, nil
}

// shortID derives an mDNS-safe instance id from the hotspot address.
func shortID(address string) string {
	if len(address) > 12 {
		address = address[len(address)-12:]
	}
	return fmt.Sprintf("hotspot-%s", address)
}
