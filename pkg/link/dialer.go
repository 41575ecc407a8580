package link

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

// TCPDialer connects to a fixed TCP address regardless of the device,
// for simulators and bench setups where discovery is skipped.
type TCPDialer struct {
	Address string
	Timeout time.Duration
}

// Dial implements Dialer.
func (d TCPDialer) Dial(ctx context.Context, _ hotspot.Device) (io.ReadWriteCloser, error) {
	nd := net.Dialer{Timeout: d.Timeout}
	return nd.DialContext(ctx, "tcp", d.Address)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, device hotspot.Device) (io.ReadWriteCloser, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context, device hotspot.Device) (io.ReadWriteCloser, error) {
	return f(ctx, device)
}
