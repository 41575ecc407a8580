package discovery

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

func TestTXTRoundTrip(t *testing.T) {
	info := &Info{ID: "hs-1", Name: "Nebra Indoor", Firmware: "v1.2.3"}
	strs := TXTRecordsToStrings(EncodeTXT(info))
	assert.Equal(t, []string{"fw=v1.2.3", "id=hs-1", "name=Nebra Indoor"}, strs)

	got, err := DecodeTXT(StringsToTXTRecords(strs))
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestDecodeTXT_MissingID(t *testing.T) {
	_, err := DecodeTXT(TXTRecordMap{TXTKeyName: "x"})
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, ValidateTXT(EncodeTXT(&Info{ID: "a"})))
	assert.ErrorIs(t, ValidateTXT(TXTRecordMap{"name": strings.Repeat("x", MaxTXTRecordSize)}), ErrInvalidTXTRecord)

	assert.NoError(t, ValidateInstanceName("hs-1"))
	assert.ErrorIs(t, ValidateInstanceName(""), ErrInvalidInstanceName)
	assert.ErrorIs(t, ValidateInstanceName(strings.Repeat("x", MaxInstanceNameLen+1)), ErrInvalidInstanceName)
}

func newEntry(instance string, port int, txt []string, ips ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, ServiceType, Domain)
	e.HostName = instance + ".local."
	e.Port = port
	e.Text = txt
	for _, ip := range ips {
		parsed := net.ParseIP(ip)
		if parsed.To4() != nil {
			e.AddrIPv4 = append(e.AddrIPv4, parsed)
		} else {
			e.AddrIPv6 = append(e.AddrIPv6, parsed)
		}
	}
	return e
}

// fakeBrowse feeds entries to the browser and then blocks until ctx ends.
func fakeBrowse(entries ...*zeroconf.ServiceEntry) func(context.Context, chan *zeroconf.ServiceEntry, chan *zeroconf.ServiceEntry) error {
	return func(ctx context.Context, out, _ chan *zeroconf.ServiceEntry) error {
		for _, e := range entries {
			select {
			case out <- e:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		<-ctx.Done()
		return nil
	}
}

func TestBrowse_Aggregates(t *testing.T) {
	b := NewBrowser(DefaultBrowserConfig(), zerolog.Nop())
	b.browse = fakeBrowse(
		newEntry("hs-1", 8585, []string{"id=hs-1", "name=One"}, "192.168.1.10"),
		newEntry("junk", 8585, []string{"name=no-id"}, "192.168.1.11"),
		newEntry("hs-1", 8585, []string{"id=hs-1", "name=One"}, "fe80::1"),
		newEntry("hs-2", 9000, []string{"id=hs-2"}, "192.168.1.12"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got []string
	for svc := range b.Browse(ctx, nil) {
		got = append(got, svc.InstanceName)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"hs-1", "hs-2"}, got)

	require.Eventually(t, func() bool {
		svc, ok := b.Lookup("hs-1")
		return ok && len(svc.Addresses) == 2
	}, time.Second, 5*time.Millisecond)

	_, ok := b.Lookup("junk")
	assert.False(t, ok)
}

func TestBrowser_ScanRadio(t *testing.T) {
	b := NewBrowser(DefaultBrowserConfig(), zerolog.Nop())
	b.browse = fakeBrowse(newEntry("hs-1", 8585, []string{"id=hs-1", "name=One"}, "10.0.0.1"))

	var mu sync.Mutex
	var found []hotspot.Device
	require.NoError(t, b.StartScan(context.Background(), func(d hotspot.Device) {
		mu.Lock()
		found = append(found, d)
		mu.Unlock()
	}, func(err error) { t.Errorf("unexpected error: %v", err) }))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(found) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, hotspot.Device{ID: "hs-1", Name: "One"}, found[0])
	require.NoError(t, b.StopScan())
	require.NoError(t, b.StopScan())
}

func TestBrowser_Dial(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte("hi"))
		_ = conn.Close()
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	b := NewBrowser(DefaultBrowserConfig(), zerolog.Nop())
	b.browse = fakeBrowse(newEntry("hs-1", port, []string{"id=hs-1"}, "127.0.0.1"))

	conn, err := b.Dial(context.Background(), hotspot.Device{ID: "hs-1"})
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 2)
	_, err = conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(buf))
}

func TestBrowser_DialUnknown(t *testing.T) {
	cfg := DefaultBrowserConfig()
	cfg.LookupTimeout = 30 * time.Millisecond
	b := NewBrowser(cfg, zerolog.Nop())
	b.browse = fakeBrowse()

	_, err := b.Dial(context.Background(), hotspot.Device{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}
