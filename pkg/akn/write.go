package akn

import (
	"fmt"

	"github.com/beevik/etree"
)

// PopStyles removes the style attribute from every element under root. The
// attributes are carried through parsing for heading recovery but are noise
// in the final document.
func PopStyles(root *etree.Element) {
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		el.RemoveAttr("style")
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(root)
}

// Write serializes the akomaNtoso root element to path as indented UTF-8
// XML with a declaration.
func Write(root *etree.Element, path string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.AddChild(root)
	doc.Indent(2)
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// String serializes the akomaNtoso root element to an indented XML string.
func String(root *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.AddChild(root)
	doc.Indent(2)
	return doc.WriteToString()
}
