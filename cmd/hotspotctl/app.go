package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/NebraLtd/maker-starter-app/internal/config"
	"github.com/NebraLtd/maker-starter-app/internal/history"
	"github.com/NebraLtd/maker-starter-app/pkg/bluez"
	"github.com/NebraLtd/maker-starter-app/pkg/credstore"
	"github.com/NebraLtd/maker-starter-app/pkg/directory"
	"github.com/NebraLtd/maker-starter-app/pkg/discovery"
	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	"github.com/NebraLtd/maker-starter-app/pkg/link"
	plog "github.com/NebraLtd/maker-starter-app/pkg/log"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
	"github.com/NebraLtd/maker-starter-app/pkg/scan"
)

// app holds the wired components for one command run. Components are built
// lazily so commands only touch what they use.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	events plog.Logger

	radio   scan.Radio
	dialer  link.Dialer
	client  *link.Client
	coord   *provisioning.Coordinator
	store   credstore.Store
	journal *history.Journal

	closers []func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagRadio != "" {
		cfg.Radio.Backend = flagRadio
	}
	if flagAddr != "" {
		cfg.Radio.Address = flagAddr
		if flagRadio == "" {
			cfg.Radio.Backend = config.RadioTCP
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	a := &app{cfg: cfg, logger: log.Logger.Level(level), events: plog.NoopLogger{}}

	if cfg.EventLog != "" {
		fl, err := plog.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, errors.Wrap(err, "open event log")
		}
		a.closers = append(a.closers, fl.Close)
		a.events = fl
		if flagVerbose {
			a.events = plog.NewMultiLogger(fl, plog.NewZerologAdapter(a.logger))
		}
	} else if flagVerbose {
		a.events = plog.NewZerologAdapter(a.logger)
	}
	return a, nil
}

// Close releases everything opened by the app, last opened first.
func (a *app) Close() {
	if a.coord != nil {
		_ = a.coord.Release()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Debug().Err(err).Msg("close")
		}
	}
	a.closers = nil
}

// Radio returns the configured discovery backend and the matching dialer.
func (a *app) Radio() (scan.Radio, link.Dialer, error) {
	if a.radio != nil {
		return a.radio, a.dialer, nil
	}
	rc := a.cfg.Radio
	switch rc.Backend {
	case config.RadioBLE:
		bus, err := bluez.NewSystemBus()
		if err != nil {
			return nil, nil, err
		}
		bc := bluez.Config{Adapter: dbus.ObjectPath(rc.Adapter)}
		a.radio = bluez.NewScanner(bus, bc, a.logger.With().Str("radio", "ble").Logger())
		a.dialer = bluez.NewDialer(bus, bluez.DialerConfig{Config: bc}, a.logger.With().Str("radio", "ble").Logger())
	case config.RadioMDNS:
		bc := discovery.DefaultBrowserConfig()
		bc.Interface = rc.Interface
		b := discovery.NewBrowser(bc, a.logger.With().Str("radio", "mdns").Logger())
		a.radio, a.dialer = b, b
	case config.RadioTCP:
		a.radio = staticRadio{device: hotspot.Device{ID: rc.Address, Name: rc.Address}}
		a.dialer = link.TCPDialer{Address: rc.Address, Timeout: rc.RequestTimeout}
	default:
		return nil, nil, errors.Errorf("unknown radio backend %q", rc.Backend)
	}
	return a.radio, a.dialer, nil
}

// Scan runs one scan window.
func (a *app) Scan(ctx context.Context, onError func(error)) ([]hotspot.Device, error) {
	radio, _, err := a.Radio()
	if err != nil {
		return nil, err
	}
	session := scan.NewSession(radio,
		scan.WithDuration(a.cfg.Scan.Duration),
		scan.WithLogger(a.logger),
		scan.WithEventLogger(a.events))
	return session.Run(ctx, onError)
}

// Store opens the credential store.
func (a *app) Store() (credstore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := credstore.NewFileStore(a.cfg.Credentials.Path, a.cfg.Credentials.Passphrase)
	if err != nil {
		return nil, errors.Wrapf(err, "credential store (set $%s)", config.EnvCredPassphrase)
	}
	a.store = s
	return s, nil
}

// Journal opens the attempt history.
func (a *app) Journal() (*history.Journal, error) {
	if a.journal != nil {
		return a.journal, nil
	}
	j, err := history.Open(a.cfg.HistoryDB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, j.Close)
	a.journal = j
	return j, nil
}

// Coordinator wires the link client, directory client and credential
// store into a provisioning coordinator.
func (a *app) Coordinator() (*provisioning.Coordinator, error) {
	if a.coord != nil {
		return a.coord, nil
	}
	_, dialer, err := a.Radio()
	if err != nil {
		return nil, err
	}
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	dir, err := directory.NewClient(a.cfg.Directory.URL,
		&http.Client{Timeout: a.cfg.Directory.Timeout},
		a.logger.With().Str("component", "directory").Logger())
	if err != nil {
		return nil, err
	}
	a.client = link.NewClient(dialer,
		link.WithRequestTimeout(a.cfg.Radio.RequestTimeout),
		link.WithLogger(a.logger.With().Str("component", "link").Logger()),
		link.WithEventLogger(a.events))

	coord, err := provisioning.NewCoordinator(a.client, dir, store, a.cfg.Provisioning,
		provisioning.WithLogger(a.logger.With().Str("component", "coordinator").Logger()),
		provisioning.WithEventLogger(a.events))
	if err != nil {
		return nil, err
	}
	a.coord = coord
	return coord, nil
}

// staticRadio reports one fixed device, used by the tcp backend.
type staticRadio struct {
	device hotspot.Device
}

func (r staticRadio) StartScan(_ context.Context, found func(hotspot.Device), _ func(error)) error {
	found(r.device)
	return nil
}

func (staticRadio) StopScan() error { return nil }
