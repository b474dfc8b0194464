package upnp

// Service identifies one of the UPnP services exposed by a zone player.
// The set is closed: service types and control endpoints are fixed by the
// device firmware, not discovered at runtime.
type Service int

const (
	AVTransport Service = iota
	ContentDirectory
	RenderingControl
)

// Type returns the URN-local service type name, e.g. "AVTransport:1".
func (s Service) Type() string {
	switch s {
	case ContentDirectory:
		return "ContentDirectory:1"
	case RenderingControl:
		return "RenderingControl:1"
	default:
		return "AVTransport:1"
	}
}

// Endpoint returns the control URL path for the service.
func (s Service) Endpoint() string {
	switch s {
	case ContentDirectory:
		return "/MediaServer/ContentDirectory/Control"
	case RenderingControl:
		return "/MediaRenderer/RenderingControl/Control"
	default:
		return "/MediaRenderer/AVTransport/Control"
	}
}

// URN returns the fully qualified service type URN used in SOAP
// namespaces and SOAPACTION headers.
func (s Service) URN() string {
	return "urn:schemas-upnp-org:service:" + s.Type()
}

func (s Service) String() string {
	return s.Type()
}
