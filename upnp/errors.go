package upnp

import (
	"errors"
	"fmt"
)

// Decode failure kinds. A DecodeError wraps exactly one of these so callers
// can branch with errors.Is without parsing message text.
var (
	ErrMalformedXML    = errors.New("upnp: malformed xml")
	ErrElementNotFound = errors.New("upnp: element not found")
	ErrEmptyText       = errors.New("upnp: element has no text")
	ErrUnexpectedValue = errors.New("upnp: unexpected value")
)

// Device-reported error kinds for the closed UPnP error-code set.
var (
	// ErrTransitionUnavailable is reported as code 701, e.g. pausing a
	// speaker that is already paused.
	ErrTransitionUnavailable = errors.New("upnp: transition unavailable")
	// ErrInvalidSeekTarget is reported as code 711, e.g. seeking past the
	// end of the track or skipping outside the queue.
	ErrInvalidSeekTarget = errors.New("upnp: invalid seek target")
)

// DecodeError is a protocol-decode failure: a required element was missing
// or empty, a value could not be interpreted, or the document did not parse.
// Element names the offending tag where one is known. Status carries the
// HTTP status line when the failure happened while decoding an error body,
// so the caller is never left without diagnostics.
type DecodeError struct {
	Element string
	Detail  string
	Status  string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := e.Err.Error()
	if e.Element != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Element)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	if e.Status != "" {
		msg = fmt.Sprintf("%s [http status %s]", msg, e.Status)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DeviceError is an error reported by the device itself: a non-2xx HTTP
// response whose body carried a UPnP errorCode. Known codes wrap one of the
// sentinel kinds above; unknown codes keep Err nil and preserve the raw
// code and HTTP status for diagnostics.
type DeviceError struct {
	Code   string
	Status string
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (code %s, http status %s)", e.Err.Error(), e.Code, e.Status)
	}
	return fmt.Sprintf("upnp: device error code %s (http status %s)", e.Code, e.Status)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

func deviceErrorFromCode(code, status string) *DeviceError {
	err := &DeviceError{Code: code, Status: status}
	switch code {
	case "701":
		err.Err = ErrTransitionUnavailable
	case "711":
		err.Err = ErrInvalidSeekTarget
	}
	return err
}
