package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"zonectl.app/zonectl/upnp"
)

const (
	// Zone players serve their control and description surface on a fixed
	// port.
	devicePort = 1400

	descriptionEndpoint = "/xml/device_description.xml"
)

// Describe fetches and parses the description document of the device at
// addr. A non-OK response body is run through the same errorCode
// extraction path as action faults, since devices use the same convention
// for both.
func (s *Scanner) Describe(ctx context.Context, addr netip.Addr) (Device, error) {
	url := fmt.Sprintf("http://%s:%d%s", addr, s.port, descriptionEndpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Device{}, errors.Wrap(err, "build description request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Device{}, errors.Wrapf(err, "fetch description from %s", addr)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Device{}, errors.Wrapf(err, "read description from %s", addr)
	}
	if resp.StatusCode != http.StatusOK {
		return Device{}, upnp.DecodeFault(resp.Status, string(raw))
	}
	return parseDescription(string(raw), addr)
}

// parseDescription pulls the descriptor fields out of a description
// document. Description XML carries no SOAP envelope, so it is parsed
// without sanitizing.
func parseDescription(raw string, addr netip.Addr) (Device, error) {
	doc, err := upnp.Parse(raw)
	if err != nil {
		return Device{}, err
	}
	root := doc.Root()

	friendlyName, err := locateText(root, "friendlyName")
	if err != nil {
		return Device{}, err
	}
	roomName, err := locateText(root, "roomName")
	if err != nil {
		return Device{}, err
	}
	udn, err := locateText(root, "UDN")
	if err != nil {
		return Device{}, err
	}

	return Device{
		Addr:         addr,
		FriendlyName: friendlyName,
		RoomName:     roomName,
		UID:          strings.TrimPrefix(udn, "uuid:"),
	}, nil
}

func locateText(root *etree.Element, name string) (string, error) {
	el, err := upnp.FindFirst(root, name)
	if err != nil {
		return "", err
	}
	return upnp.Text(el)
}
