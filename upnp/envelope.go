package upnp

import "github.com/beevik/etree"

const (
	envelopeNS    = "http://schemas.xmlsoap.org/soap/envelope/"
	encodingStyle = "http://schemas.xmlsoap.org/soap/encoding/"
)

// Arg is one named SOAP action argument. Arguments are carried as an
// ordered slice rather than a map so the request body serializes children
// in the order the caller supplied them.
type Arg struct {
	Name  string
	Value string
}

// BuildRequest produces the SOAP 1.1 request body for invoking action on a
// service: an XML 1.1 document with an s:Envelope root, an s:Body, and a
// u:<action> element in the service's URN namespace holding one child per
// argument.
//
// Argument values receive only the serializer's standard escaping; callers
// must not pass control characters they do not want on the wire.
func BuildRequest(action string, svc Service, args []Arg) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.1" encoding="UTF-8"`)

	envelope := doc.CreateElement("s:Envelope")
	envelope.CreateAttr("xmlns:s", envelopeNS)
	envelope.CreateAttr("s:encodingStyle", encodingStyle)

	body := envelope.CreateElement("s:Body")

	actionEl := body.CreateElement("u:" + action)
	actionEl.CreateAttr("xmlns:u", svc.URN())

	for _, arg := range args {
		actionEl.CreateElement(arg.Name).SetText(arg.Value)
	}

	return doc.WriteToBytes()
}
