package discovery

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeResponder is a UDP endpoint that answers the first search datagram it
// receives with the given number of replies.
func fakeResponder(t *testing.T, replies int) string {
	t.Helper()

	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen responder: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 2048)
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		n, sender, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}
		if !strings.HasPrefix(string(buf[:n]), "M-SEARCH * HTTP/1.1\r\n") {
			return
		}
		reply := []byte("HTTP/1.1 200 OK\r\nST: urn:schemas-upnp-org:device:ZonePlayer:1\r\n\r\n")
		for i := 0; i < replies; i++ {
			conn.WriteTo(reply, sender)
		}
	}()

	return conn.LocalAddr().String()
}

func swapSearchTargets(t *testing.T, targets ...string) {
	t.Helper()
	orig := searchTargets
	t.Cleanup(func() { searchTargets = orig })
	searchTargets = targets
}

func TestDiscover_ResolvesResponder(t *testing.T) {
	swapSearchTargets(t, fakeResponder(t, 1))

	s := NewScanner(nil, zerolog.Nop())
	describeCalls := 0
	s.describe = func(ctx context.Context, addr netip.Addr) (Device, error) {
		describeCalls++
		return Device{
			Addr:         addr,
			FriendlyName: "127.0.0.1 - Sonos One",
			RoomName:     "Kitchen",
			UID:          "RINCON_TEST01400",
		}, nil
	}

	found, err := s.Discover(600*time.Millisecond, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 device, got %d", len(found))
	}
	if describeCalls != 1 {
		t.Fatalf("expected 1 description fetch, got %d", describeCalls)
	}
	if found[0].RoomName != "Kitchen" || found[0].Addr != netip.MustParseAddr("127.0.0.1") {
		t.Fatalf("unexpected device %+v", found[0])
	}
}

func TestDiscover_DeduplicatesByAddress(t *testing.T) {
	swapSearchTargets(t, fakeResponder(t, 3))

	s := NewScanner(nil, zerolog.Nop())
	describeCalls := 0
	s.describe = func(ctx context.Context, addr netip.Addr) (Device, error) {
		describeCalls++
		return Device{Addr: addr, FriendlyName: "x", RoomName: "y", UID: "z"}, nil
	}

	found, err := s.Discover(600*time.Millisecond, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected duplicates collapsed to 1 device, got %d", len(found))
	}
	if describeCalls != 1 {
		t.Fatalf("expected resolved responders not to be re-fetched, got %d fetches", describeCalls)
	}
}

func TestDiscover_FailedFetchIsRetriedOnNextDatagram(t *testing.T) {
	swapSearchTargets(t, fakeResponder(t, 2))

	s := NewScanner(nil, zerolog.Nop())
	describeCalls := 0
	s.describe = func(ctx context.Context, addr netip.Addr) (Device, error) {
		describeCalls++
		if describeCalls == 1 {
			return Device{}, context.DeadlineExceeded
		}
		return Device{Addr: addr, FriendlyName: "x", RoomName: "y", UID: "z"}, nil
	}

	found, err := s.Discover(600*time.Millisecond, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected the second datagram to resolve the device, got %d devices", len(found))
	}
	if describeCalls != 2 {
		t.Fatalf("expected 2 fetch attempts, got %d", describeCalls)
	}
}

func TestDiscover_BadResponderDoesNotAbortPass(t *testing.T) {
	swapSearchTargets(t, fakeResponder(t, 1))

	s := NewScanner(nil, zerolog.Nop())
	s.describe = func(ctx context.Context, addr netip.Addr) (Device, error) {
		return Device{}, context.DeadlineExceeded
	}

	found, err := s.Discover(400*time.Millisecond, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("expected per-responder failure to be swallowed, got %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no devices, got %d", len(found))
	}
}

func TestDiscover_WindowBoundsTheCollection(t *testing.T) {
	// No responder at all: the loop must still return once the window
	// elapses, with read timeouts treated as non-errors.
	swapSearchTargets(t, "127.0.0.1:9") // discard port, nothing answers

	s := NewScanner(nil, zerolog.Nop())
	start := time.Now()
	found, err := s.Discover(300*time.Millisecond, 50*time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no devices, got %d", len(found))
	}
	if elapsed < 300*time.Millisecond {
		t.Fatalf("returned before the collection window elapsed: %s", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("collection loop overran the window badly: %s", elapsed)
	}
}

func TestSearchRequestFormat(t *testing.T) {
	lines := []string{
		"M-SEARCH * HTTP/1.1",
		"HOST: 239.255.255.250:1900",
		"MAN: ssdp:discover",
		"MX: 1",
		"ST: urn:schemas-upnp-org:device:ZonePlayer:1",
	}
	for _, line := range lines {
		if !strings.Contains(ssdpSearchRequest, line+"\r\n") {
			t.Fatalf("search request missing CRLF-terminated line %q", line)
		}
	}
	if !strings.HasSuffix(ssdpSearchRequest, "\r\n\r\n") {
		t.Fatalf("search request must end with a blank line")
	}
}
