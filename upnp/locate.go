package upnp

import (
	"strings"

	"github.com/beevik/etree"
)

// Parse reads an XML document without sanitizing it first. Description
// documents carry no SOAP envelope and are parsed as-is; SOAP response
// bodies go through Sanitize before landing here.
func Parse(raw string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil, &DecodeError{Detail: err.Error(), Err: ErrMalformedXML}
	}
	if doc.Root() == nil {
		return nil, &DecodeError{Detail: "document has no root element", Err: ErrMalformedXML}
	}
	return doc, nil
}

// FindFirst returns the first element under scope (scope itself included)
// whose local tag name matches name. Traversal is depth-first, pre-order,
// document order.
//
// First-match lookup is a compatibility contract, not a precise one: when a
// document nests a device-level and a service-level tag with the same local
// name, whichever the firmware happens to serialize first wins. Callers
// parsing repeated structures must scope the search to the enclosing
// subtree (see DecodeQueue) rather than the whole document.
func FindFirst(scope *etree.Element, name string) (*etree.Element, error) {
	if el := findFirst(scope, name); el != nil {
		return el, nil
	}
	return nil, &DecodeError{Element: name, Err: ErrElementNotFound}
}

func findFirst(el *etree.Element, name string) *etree.Element {
	if el.Tag == name {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findFirst(child, name); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects every element under scope with the given local tag name,
// in document order. Matched elements are not descended into; a queue item
// never nests another item.
func findAll(el *etree.Element, name string) []*etree.Element {
	if el.Tag == name {
		return []*etree.Element{el}
	}
	var found []*etree.Element
	for _, child := range el.ChildElements() {
		found = append(found, findAll(child, name)...)
	}
	return found
}

// Text returns the text content of el. An element that is present but has
// no text (self-closing or empty) is an ErrEmptyText decode failure, which
// is deliberately distinct from the element being absent altogether.
func Text(el *etree.Element) (string, error) {
	text := el.Text()
	if strings.TrimSpace(text) == "" {
		return "", &DecodeError{Element: el.Tag, Err: ErrEmptyText}
	}
	return text, nil
}
