// Package discovery locates zone players on the local network using SSDP
// search-and-collect and resolves each responder into a typed descriptor by
// fetching its device description document.
package discovery

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// The search datagram is sent verbatim, CRLF line endings per SSDP.
const ssdpSearchRequest = "M-SEARCH * HTTP/1.1\r\n" +
	"HOST: 239.255.255.250:1900\r\n" +
	"MAN: ssdp:discover\r\n" +
	"MX: 1\r\n" +
	"ST: urn:schemas-upnp-org:device:ZonePlayer:1\r\n" +
	"\r\n"

// The same datagram goes to both the UPnP multicast group and the
// link-local broadcast address; some switches filter one but not the other.
var searchTargets = []string{
	"239.255.255.250:1900",
	"255.255.255.255:1900",
}

// Device is the descriptor built from one responder's description
// document. Identity is the address alone: two descriptors are the same
// device iff their addresses match, whatever the other fields say.
type Device struct {
	Addr         netip.Addr
	FriendlyName string
	RoomName     string
	UID          string
}

// Scanner performs SSDP discovery and description fetches. A zero-value
// Scanner is not usable; construct one with NewScanner. Scanners are safe
// to reuse across calls but a single Discover call runs one collection
// loop at a time.
type Scanner struct {
	client *http.Client
	log    zerolog.Logger
	port   int

	// describe is swapped out in tests.
	describe func(ctx context.Context, addr netip.Addr) (Device, error)
}

// NewScanner returns a Scanner using the given HTTP client for description
// fetches. A nil client gets a pooled default.
func NewScanner(client *http.Client, log zerolog.Logger) *Scanner {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	s := &Scanner{
		client: client,
		log:    log,
		port:   devicePort,
	}
	s.describe = s.Describe
	return s
}

// Discover runs one SSDP collection pass with a default Scanner.
func Discover(window, readTimeout time.Duration) ([]Device, error) {
	return NewScanner(nil, zerolog.Nop()).Discover(window, readTimeout)
}

// Discover broadcasts an SSDP search and collects responders until window
// has elapsed since the search was sent. Each distinct IPv4 responder is
// resolved through a description fetch; responders whose fetch or parse
// fails are skipped without failing the pass, and a later datagram from the
// same address gets a fresh fetch attempt. The result carries no duplicate
// addresses and is ordered by when each description resolved, not by
// datagram arrival.
//
// readTimeout bounds each single receive so the elapsed-time check stays
// responsive; a receive that times out is not an error. There is no other
// cancellation primitive for the collection loop: a caller cannot interrupt
// an in-flight receive before its timeout elapses.
func (s *Scanner) Discover(window, readTimeout time.Duration) ([]Device, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, errors.Wrap(err, "open discovery socket")
	}
	defer conn.Close()

	start := time.Now()
	for _, target := range searchTargets {
		raddr, err := net.ResolveUDPAddr("udp4", target)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve search target %s", target)
		}
		if _, err := conn.WriteToUDP([]byte(ssdpSearchRequest), raddr); err != nil {
			return nil, errors.Wrapf(err, "send search to %s", target)
		}
	}

	var found []Device
	resolved := make(map[netip.Addr]bool)
	buf := make([]byte, 1024)

	for time.Since(start) <= window {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return nil, errors.Wrap(err, "set read deadline")
		}
		_, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			// A timed-out or failed read just lets the window check run
			// again; UDP discovery is best-effort.
			continue
		}

		addr, ok := responderAddr(raddr)
		if !ok || resolved[addr] {
			continue
		}

		dev, err := s.describe(context.Background(), addr)
		if err != nil {
			s.log.Debug().Str("addr", addr.String()).Err(err).
				Msg("skipping responder: description unavailable")
			continue
		}
		resolved[addr] = true
		found = append(found, dev)
		s.log.Debug().Str("addr", addr.String()).Str("room", dev.RoomName).
			Msg("resolved device")
	}

	return found, nil
}

// responderAddr extracts the sender's IPv4 address. Non-IPv4 senders are
// ignored.
func responderAddr(raddr *net.UDPAddr) (netip.Addr, bool) {
	ip4 := raddr.IP.To4()
	if ip4 == nil {
		return netip.Addr{}, false
	}
	return netip.AddrFromSlice(ip4)
}
