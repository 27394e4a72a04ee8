// Package akn builds Akoma Ntoso / LegalDocML document structures: element
// identifiers, the document skeleton with FRBR metadata, the
// activeModifications analysis block, editorial notes and serialization.
package akn

import (
	"strings"

	"github.com/beevik/etree"
)

// Namespace constants for the Akoma Ntoso 3.0 schema.
const (
	NS             = "http://docs.oasis-open.org/legaldocml/ns/akn/3.0"
	SchemaLocation = "http://docs.oasis-open.org/legaldocml/ns/akn/3.0 http://docs.oasis-open.org/legaldocml/akn-core/v1.0/cos01/part2-specs/schemas/akomantoso30.xsd"
	xsiNS          = "http://www.w3.org/2001/XMLSchema-instance"
)

// validEIDChar reports whether r may appear in an eId under AKN-NC v1.0:
// ASCII lowercase letters, digits, hyphen and underscore. Uppercase ASCII is
// accepted here and lowercased by the caller.
func validEIDChar(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '-' || r == '_'
}

// EIDSnippet generates a partial eId of the form "<label>_<num>".
//
// The AKN Naming Convention restricts eId values to ASCII lowercase letters,
// digits, underscore and hyphen; all other characters of num (parentheses,
// curly quotes, whitespace) are stripped and the rest lowercased.
func EIDSnippet(label, num string) string {
	var b strings.Builder
	b.WriteString(label)
	b.WriteByte('_')
	for _, r := range num {
		if !validEIDChar(r) {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ChildEID joins a parent eId with a local fragment. An empty child yields
// "", an empty parent yields the child unchanged.
func ChildEID(parent, child string) string {
	if child == "" {
		return ""
	}
	if parent == "" {
		return child
	}
	return parent + "_" + child
}

// MakeContainer creates a hierarchical element with optional heading and num
// children and string attributes. Empty attribute keys or values are skipped.
func MakeContainer(tag string, num, heading *etree.Element, attribs map[string]string) *etree.Element {
	el := etree.NewElement(tag)
	for k, v := range attribs {
		if k == "" || v == "" {
			continue
		}
		el.CreateAttr(k, v)
	}
	if heading != nil {
		el.AddChild(heading)
	}
	if num != nil {
		el.AddChild(num)
	}
	return el
}
