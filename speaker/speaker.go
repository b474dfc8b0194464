// Package speaker provides a control session for a single zone player:
// one device identity plus the HTTP plumbing to invoke SOAP actions
// against it. Sessions share nothing, so actions against different
// speakers may run concurrently.
package speaker

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"zonectl.app/zonectl/discovery"
	"zonectl.app/zonectl/upnp"
)

// ErrInvalidVolume rejects volume writes outside [0,100] before any
// request is sent.
var ErrInvalidVolume = stderrors.New("speaker: volume must be between 0 and 100")

const devicePort = 1400

// Speaker is a session with one zone player.
type Speaker struct {
	addr         netip.Addr
	port         int
	uid          string
	friendlyName string
	roomName     string
	client       *http.Client
	log          zerolog.Logger
}

// Connect builds a session with the device at addr, fetching its
// description document to establish identity.
func Connect(ctx context.Context, addr netip.Addr) (*Speaker, error) {
	return ConnectWith(ctx, addr, nil, zerolog.Nop())
}

// ConnectWith is Connect with an explicit HTTP client and logger. A nil
// client gets a pooled default.
func ConnectWith(ctx context.Context, addr netip.Addr, client *http.Client, log zerolog.Logger) (*Speaker, error) {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	dev, err := discovery.NewScanner(client, log).Describe(ctx, addr)
	if err != nil {
		return nil, err
	}
	return FromDevice(dev, client, log), nil
}

// FromDevice builds a session from an already-resolved descriptor, e.g.
// one returned by a discovery pass, without refetching the description.
func FromDevice(dev discovery.Device, client *http.Client, log zerolog.Logger) *Speaker {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	return &Speaker{
		addr:         dev.Addr,
		port:         devicePort,
		uid:          dev.UID,
		friendlyName: dev.FriendlyName,
		roomName:     dev.RoomName,
		client:       client,
		log:          log,
	}
}

// Addr returns the speaker's IPv4 address.
func (s *Speaker) Addr() netip.Addr { return s.addr }

// UID returns the speaker's unique ID (the UDN without its uuid: prefix).
func (s *Speaker) UID() string { return s.uid }

// FriendlyName returns the readable device name, usually "IP - Model".
func (s *Speaker) FriendlyName() string { return s.friendlyName }

// RoomName returns the name of the room containing the speaker.
func (s *Speaker) RoomName() string { return s.roomName }

// invoke posts one SOAP action and returns the raw response body. A non-OK
// status is translated through the fault decode path; transport failures
// are wrapped and propagated, never retried.
func (s *Speaker) invoke(ctx context.Context, svc upnp.Service, action string, args []upnp.Arg) (string, error) {
	body, err := upnp.BuildRequest(action, svc, args)
	if err != nil {
		return "", errors.Wrapf(err, "build %s request", action)
	}

	url := fmt.Sprintf("http://%s:%d%s", s.addr, s.port, svc.Endpoint())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrapf(err, "build %s request", action)
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("SOAPACTION", svc.URN()+"#"+action)

	s.log.Debug().Str("action", action).Str("service", svc.Type()).
		Str("addr", s.addr.String()).Msg("invoking action")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "post %s to %s", action, s.addr)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "read %s response", action)
	}
	if resp.StatusCode != http.StatusOK {
		return "", upnp.DecodeFault(resp.Status, string(raw))
	}
	return string(raw), nil
}
