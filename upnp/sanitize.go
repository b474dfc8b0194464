package upnp

import "strings"

// Replacement order matters: entities are un-escaped before the metadata
// prefixes are stripped, so prefixes inside embedded (escaped) DIDL-Lite
// documents are stripped in the same pass. Re-running the whole chain on
// its own output changes nothing, which keeps Sanitize idempotent.
var sanitizeRules = [][2]string{
	{"<s:", "<"},
	{"</s:", "</"},
	{` xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"`, ""},
	{` s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/"`, ""},
	{"<u:", "<"},
	{"</u:", "</"},
	{"&quot;", `"`},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{` xmlns:dc="http://purl.org/dc/elements/1.1/"`, ""},
	{` xmlns:upnp="urn:schemas-upnp-org:metadata-1-0/upnp/"`, ""},
	{` xmlns:r="urn:schemas-rinconnetworks-com:metadata-1-0/"`, ""},
	{` xmlns="urn:schemas-upnp-org:metadata-1-0/DIDL-Lite/"`, ""},
	{"<dc:", "<"},
	{"<upnp:", "<"},
	{"<r:", "<"},
	{"</dc:", "</"},
	{"</upnp:", "</"},
	{"</r:", "</"},
}

// Sanitize strips SOAP, action, and DIDL-Lite namespace prefixes and
// declarations from raw response XML and un-escapes the entities the
// devices use to embed metadata documents inside element text. Firmware
// revisions disagree on which prefixes they emit, so lookups downstream
// work on bare local names instead of namespace-qualified ones.
//
// Sanitize is pure and idempotent.
func Sanitize(raw string) string {
	for _, rule := range sanitizeRules {
		raw = strings.ReplaceAll(raw, rule[0], rule[1])
	}
	return raw
}
