package upnp

import (
	"errors"
	"strconv"

	"github.com/beevik/etree"
)

// parseResponse sanitizes a SOAP response body and parses the result.
func parseResponse(body string) (*etree.Document, error) {
	return Parse(Sanitize(body))
}

// requiredText locates name under scope and returns its text. Both the
// element and its text are required; either missing is a decode failure.
func requiredText(scope *etree.Element, name string) (string, error) {
	el, err := FindFirst(scope, name)
	if err != nil {
		return "", err
	}
	return Text(el)
}

// optionalText returns the text of name under scope, or "" when the element
// is absent or empty. Firmware omits metadata tags freely, so absence here
// is tolerated rather than failed.
func optionalText(scope *etree.Element, name string) string {
	el, err := FindFirst(scope, name)
	if err != nil {
		return ""
	}
	text, err := Text(el)
	if err != nil {
		return ""
	}
	return text
}

// DecodeTrackInfo decodes a GetPositionInfo response body.
func DecodeTrackInfo(body string) (TrackInfo, error) {
	doc, err := parseResponse(body)
	if err != nil {
		return TrackInfo{}, err
	}
	root := doc.Root()

	duration, err := requiredText(root, "TrackDuration")
	if err != nil {
		return TrackInfo{}, err
	}
	uri, err := requiredText(root, "TrackURI")
	if err != nil {
		return TrackInfo{}, err
	}
	position, err := requiredText(root, "RelTime")
	if err != nil {
		return TrackInfo{}, err
	}

	return TrackInfo{
		Position: position,
		Duration: duration,
		URI:      uri,
		Title:    optionalText(root, "title"),
		Artist:   optionalText(root, "creator"),
	}, nil
}

// DecodePlaybackStatus decodes a GetTransportInfo response body.
func DecodePlaybackStatus(body string) (PlaybackStatus, error) {
	doc, err := parseResponse(body)
	if err != nil {
		return PlaybackStatus{}, err
	}
	root := doc.Root()

	rawState, err := requiredText(root, "CurrentTransportState")
	if err != nil {
		return PlaybackStatus{}, err
	}
	state, err := ParsePlaybackState(rawState)
	if err != nil {
		return PlaybackStatus{}, err
	}
	status, err := requiredText(root, "CurrentTransportStatus")
	if err != nil {
		return PlaybackStatus{}, err
	}

	return PlaybackStatus{State: state, Status: status}, nil
}

// DecodeVolume decodes a GetVolume response body. The volume is an 8-bit
// quantity; non-numeric text or a value outside the u8 range fails decode.
func DecodeVolume(body string) (uint8, error) {
	doc, err := parseResponse(body)
	if err != nil {
		return 0, err
	}

	raw, err := requiredText(doc.Root(), "CurrentVolume")
	if err != nil {
		return 0, err
	}
	volume, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, &DecodeError{
			Element: "CurrentVolume",
			Detail:  "invalid volume " + strconv.Quote(raw),
			Err:     ErrUnexpectedValue,
		}
	}
	return uint8(volume), nil
}

// DecodeQueue decodes a ContentDirectory Browse response body into queue
// entries, one per DIDL-Lite item element. Field lookups are scoped to each
// item's subtree so metadata never bleeds between adjacent entries.
func DecodeQueue(body string) ([]QueueEntry, error) {
	doc, err := parseResponse(body)
	if err != nil {
		return nil, err
	}

	items := findAll(doc.Root(), "item")
	entries := make([]QueueEntry, 0, len(items))
	for _, item := range items {
		entry, err := decodeQueueItem(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeQueueItem(item *etree.Element) (QueueEntry, error) {
	res, err := FindFirst(item, "res")
	if err != nil {
		return QueueEntry{}, err
	}
	uri, err := Text(res)
	if err != nil {
		return QueueEntry{}, err
	}

	return QueueEntry{
		URI:      uri,
		Duration: res.SelectAttrValue("duration", ""),
		Title:    optionalText(item, "title"),
		Artist:   optionalText(item, "artist"),
	}, nil
}

// DecodeFault translates a non-OK response into an error. When the body
// carries a UPnP errorCode the result is a DeviceError; when it does not,
// the decode failure still reports the HTTP status so the caller keeps at
// least that much diagnostic context.
func DecodeFault(status, body string) error {
	code, err := decodeErrorCode(body)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Status = status
			return decodeErr
		}
		return err
	}
	return deviceErrorFromCode(code, status)
}

func decodeErrorCode(body string) (string, error) {
	doc, err := parseResponse(body)
	if err != nil {
		return "", err
	}
	return requiredText(doc.Root(), "errorCode")
}
