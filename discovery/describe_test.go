package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"zonectl.app/zonectl/upnp"
)

const descriptionDocument = `<?xml version="1.0" encoding="utf-8"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <device>
    <deviceType>urn:schemas-upnp-org:device:ZonePlayer:1</deviceType>
    <friendlyName>192.168.1.45 - Sonos One</friendlyName>
    <modelName>Sonos One</modelName>
    <roomName>Living Room</roomName>
    <UDN>uuid:RINCON_48A6B8123ABC01400</UDN>
  </device>
</root>`

func TestParseDescription(t *testing.T) {
	addr := netip.MustParseAddr("192.168.1.45")
	dev, err := parseDescription(descriptionDocument, addr)
	if err != nil {
		t.Fatalf("parse description: %v", err)
	}

	if dev.Addr != addr {
		t.Fatalf("unexpected addr %v", dev.Addr)
	}
	if dev.FriendlyName != "192.168.1.45 - Sonos One" {
		t.Fatalf("unexpected friendly name %q", dev.FriendlyName)
	}
	if dev.RoomName != "Living Room" {
		t.Fatalf("unexpected room name %q", dev.RoomName)
	}
	if dev.UID != "RINCON_48A6B8123ABC01400" {
		t.Fatalf("expected uuid: prefix stripped, got %q", dev.UID)
	}
}

func TestParseDescription_MissingRequiredField(t *testing.T) {
	doc := `<root><device><friendlyName>x</friendlyName><UDN>uuid:y</UDN></device></root>`
	_, err := parseDescription(doc, netip.MustParseAddr("10.0.0.1"))
	if !errors.Is(err, upnp.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound for missing roomName, got %v", err)
	}
}

// testScanner points a Scanner's description fetches at a local test
// server instead of port 1400.
func testScanner(t *testing.T, handler http.Handler) *Scanner {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}

	s := NewScanner(srv.Client(), zerolog.Nop())
	s.port = port
	return s
}

func TestDescribe(t *testing.T) {
	var gotPath string
	s := testScanner(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, descriptionDocument)
	}))

	dev, err := s.Describe(context.Background(), netip.MustParseAddr("127.0.0.1"))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if gotPath != "/xml/device_description.xml" {
		t.Fatalf("unexpected description path %q", gotPath)
	}
	if dev.RoomName != "Living Room" {
		t.Fatalf("unexpected device %+v", dev)
	}
}

func TestDescribe_ErrorStatusDecodesErrorCode(t *testing.T) {
	s := testScanner(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body><s:Fault><detail><UPnPError><errorCode>701</errorCode></UPnPError></detail></s:Fault></s:Body></s:Envelope>`)
	}))

	_, err := s.Describe(context.Background(), netip.MustParseAddr("127.0.0.1"))
	if !errors.Is(err, upnp.ErrTransitionUnavailable) {
		t.Fatalf("expected device error decoded from body, got %v", err)
	}
}

func TestDescribe_ErrorStatusWithoutErrorCode(t *testing.T) {
	s := testScanner(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<html><body>not found</body></html>`)
	}))

	_, err := s.Describe(context.Background(), netip.MustParseAddr("127.0.0.1"))
	var decodeErr *upnp.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected decode failure, got %v", err)
	}
	if decodeErr.Status == "" {
		t.Fatalf("expected http status preserved on decode failure, got %v", err)
	}
}
