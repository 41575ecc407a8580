package main

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NebraLtd/maker-starter-app/internal/config"
	"github.com/NebraLtd/maker-starter-app/internal/history"
	"github.com/NebraLtd/maker-starter-app/internal/sim"
	"github.com/NebraLtd/maker-starter-app/pkg/credstore"
	"github.com/NebraLtd/maker-starter-app/pkg/directory/stub"
	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	"github.com/NebraLtd/maker-starter-app/pkg/link"
	plog "github.com/NebraLtd/maker-starter-app/pkg/log"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
	"github.com/NebraLtd/maker-starter-app/pkg/walletlink"
)

// fixture is a simulated hotspot on loopback TCP plus a directory stub.
type fixture struct {
	app   *app
	sim   *sim.Hotspot
	dir   *stub.Server
	addr  string
	owner string
}

func newFixture(t *testing.T, cfg sim.Config) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h, err := sim.New(cfg, zerolog.Nop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = link.NewAgent(h).ServeListener(ctx, ln) }()

	dir := stub.NewServer(nil, zerolog.Nop())
	dir.SetMinimumFirmware("v1.0.0")
	dir.SetHotspot(h.HotspotAddress(), stub.Hotspot{Maker: "maker1"})
	ts := httptest.NewServer(dir.Handler())
	t.Cleanup(ts.Close)

	c := config.Default()
	c.Radio.Backend = config.RadioTCP
	c.Radio.Address = ln.Addr().String()
	c.Radio.RequestTimeout = 2 * time.Second
	c.Directory.URL = ts.URL
	c.HistoryDB = filepath.Join(t.TempDir(), "history.db")

	a := &app{cfg: c, logger: zerolog.Nop(), events: plog.NoopLogger{}}
	a.store = credstore.NewMemoryStore()
	t.Cleanup(a.Close)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	tok, err := walletlink.Sign(priv, "com.nebra.hotspot", "wallet", time.Now())
	require.NoError(t, err)
	raw, err := tok.Encode()
	require.NoError(t, err)
	require.NoError(t, credstore.SaveLink(context.Background(), a.store, raw, tok.Address))

	return &fixture{app: a, sim: h, dir: dir, addr: ln.Addr().String(), owner: tok.Address}
}

func TestProvisionAddGateway(t *testing.T) {
	f := newFixture(t, sim.Config{Networks: []string{"HomeWiFi", "Office"}, Connected: []string{"HomeWiFi"}})
	ctx := context.Background()

	out, err := f.app.provision(ctx, history.ActionAdd, hotspot.Device{ID: f.addr})
	require.NoError(t, err)

	ready, ok := out.(provisioning.ReadyForWifi)
	require.True(t, ok, "got %T: %s", out, provisioning.Describe(out))
	assert.Equal(t, f.sim.HotspotAddress(), ready.DeviceAddress)
	assert.Equal(t, "maker1", ready.Payer)
	assert.ElementsMatch(t, []string{"HomeWiFi", "Office"}, ready.Networks)

	txn, err := sim.DecodeTransaction(ready.Transaction)
	require.NoError(t, err)
	assert.NoError(t, sim.VerifyTransaction(txn))
	assert.Equal(t, f.owner, txn.Owner)
	assert.Equal(t, "maker1", txn.Payer)

	var buf bytes.Buffer
	printOutcome(&buf, out)
	assert.Contains(t, buf.String(), "Ready for Wi-Fi setup")
	assert.Contains(t, buf.String(), "* HomeWiFi")

	j, err := f.app.Journal()
	require.NoError(t, err)
	entries, err := j.List(ctx, history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ReadyForWifi", entries[0].Outcome)
	assert.Equal(t, f.sim.HotspotAddress(), entries[0].DeviceAddress)
}

func TestProvisionOwnedByOther(t *testing.T) {
	f := newFixture(t, sim.Config{})
	f.dir.SetHotspot(f.sim.HotspotAddress(), stub.Hotspot{Maker: "maker1", Owner: "someone-else"})

	out, err := f.app.provision(context.Background(), history.ActionAdd, hotspot.Device{ID: f.addr})
	require.NoError(t, err)
	other, ok := out.(provisioning.OwnedByOther)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "someone-else", other.Owner)
}

func TestProvisionFirmwareTooOld(t *testing.T) {
	f := newFixture(t, sim.Config{Firmware: "v0.9.0"})
	f.dir.SetMinimumFirmware("v9.0.0")

	out, err := f.app.provision(context.Background(), history.ActionAdd, hotspot.Device{ID: f.addr})
	require.NoError(t, err)
	_, ok := out.(provisioning.NeedsFirmwareUpdate)
	assert.True(t, ok, "got %T: %s", out, provisioning.Describe(out))
}

func TestProvisionDeviceWait(t *testing.T) {
	f := newFixture(t, sim.Config{WaitCount: 1})

	out, err := f.app.provision(context.Background(), history.ActionAdd, hotspot.Device{ID: f.addr})
	require.NoError(t, err)
	failed, ok := out.(provisioning.Failed)
	require.True(t, ok, "got %T", out)
	assert.ErrorIs(t, failed.Err, provisioning.ErrDeviceWait)

	var buf bytes.Buffer
	printOutcome(&buf, out)
	assert.Contains(t, buf.String(), "Try again in a minute")
}

func TestUpdateThenRescan(t *testing.T) {
	f := newFixture(t, sim.Config{Networks: []string{"a", "b", "a"}, Connected: []string{"c"}})
	ctx := context.Background()

	out, err := f.app.provision(ctx, history.ActionUpdate, hotspot.Device{ID: f.addr})
	require.NoError(t, err)
	_, ok := out.(provisioning.ReadyForLocation)
	require.True(t, ok, "got %T: %s", out, provisioning.Describe(out))

	var buf bytes.Buffer
	require.NoError(t, f.app.rescan(ctx, &buf))
	output := buf.String()
	assert.Equal(t, 1, strings.Count(output, "  a\n"), output)
	assert.Contains(t, output, "* c")

	j, err := f.app.Journal()
	require.NoError(t, err)
	entries, err := j.List(ctx, history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, history.ActionRescan, entries[0].Action)
}

func TestScanStaticRadio(t *testing.T) {
	c := config.Default()
	c.Radio.Backend = config.RadioTCP
	c.Radio.Address = "127.0.0.1:1"
	c.Scan.Duration = 10 * time.Millisecond
	a := &app{cfg: c, logger: zerolog.Nop(), events: plog.NoopLogger{}}
	defer a.Close()

	devices, err := a.Scan(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "127.0.0.1:1", devices[0].ID)

	var buf bytes.Buffer
	printDevices(&buf, devices)
	assert.Contains(t, buf.String(), "Found 1 hotspot(s)")
}

func TestLinkFromCallback(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	tok, err := walletlink.Sign(priv, "app", "wallet", time.Unix(1700000000, 0))
	require.NoError(t, err)
	raw, err := tok.Encode()
	require.NoError(t, err)

	callback := fmt.Sprintf("%s?status=success&token=%s", walletlink.DefaultCallbackURL, url.QueryEscape(raw))
	gotRaw, got, err := linkFromCallback(callback, true)
	require.NoError(t, err)
	assert.Equal(t, raw, gotRaw)
	assert.Equal(t, tok.Address, got.Address)

	tok.Time++
	forged, err := tok.Encode()
	require.NoError(t, err)
	_, _, err = linkFromCallback(walletlink.DefaultCallbackURL+"?token="+url.QueryEscape(forged), true)
	assert.ErrorIs(t, err, walletlink.ErrBadSignature)

	_, _, err = linkFromCallback(walletlink.DefaultCallbackURL+"?token="+url.QueryEscape(forged), false)
	assert.NoError(t, err)
}

func TestFailureHint(t *testing.T) {
	assert.Contains(t, failureHint(fmt.Errorf("x: %w", provisioning.ErrNoPayer)), config.EnvFallbackPayer)
	assert.Contains(t, failureHint(provisioning.ErrMalformedCredential), "hotspotctl link")
	assert.Empty(t, failureHint(errors.New("other")))
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	assert.Contains(t, buf.String(), "No attempts recorded")

	buf.Reset()
	start := time.Now()
	printHistory(&buf, []history.Entry{{
		Action: history.ActionAdd, DeviceID: "d", Outcome: "Failed", Error: "boom",
		StartedAt: start, FinishedAt: start.Add(time.Second),
	}})
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "1s")
}
