// Package discovery finds hotspots on the local network over mDNS/DNS-SD.
//
// Hotspots that expose the provisioning link over TCP (the simulator,
// bench units on Ethernet) advertise the _hotspot._tcp service. The
// instance name is the radio handle used for one scan session.
// TXT records carry:
//
//	id    hotspot ID (required)
//	name  advertised local name (optional)
//	fw    firmware version (optional)
//
// Browser implements both scan.Radio and link.Dialer, so a scan session
// and a link client can share one browser: devices seen during the scan
// are dialed at the host and port they advertised.
package discovery
