package eisb

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/coolbeans/actsetl/pkg/akn"
)

// BuildHierarchy nests a flat, document-ordered provision list into the tree
// rooted at the first provision's element. Each structural provision becomes
// a child of the nearest preceding provision with a strictly shallower level;
// inline provisions (tables, text blocks, mods) join the current container's
// content element. Provisions without an element, such as quotation
// boundaries, are skipped.
func (p *Parser) BuildHierarchy(provs []Provision) *etree.Element {
	return buildHierarchy(provs, p.log)
}

type hierFrame struct {
	level int
	el    *etree.Element
}

func buildHierarchy(provs []Provision, log *zap.Logger) *etree.Element {
	if len(provs) == 0 || provs[0].XML == nil {
		return nil
	}
	root := provs[0].XML
	rootLevel := levelOf(provs[0].Kind)

	// The root carries a sentinel level so it can never be popped.
	stack := []hierFrame{{level: -1, el: root}}

	for _, prov := range provs[1:] {
		if prov.XML == nil {
			continue
		}

		if isInlineContainer(prov.Kind) {
			ensureContent(stack[len(stack)-1].el).AddChild(prov.XML)
			continue
		}

		lv := levelOf(prov.Kind)
		for len(stack) > 1 && stack[len(stack)-1].level >= lv {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 1 && lv <= rootLevel && rootLevel < len(levels) {
			log.Warn("provision has no shallower ancestor; attaching at root",
				zap.String("kind", string(prov.Kind)),
				zap.String("eId", prov.EID),
				zap.String("root", string(provs[0].Kind)))
		}

		parent := stack[len(stack)-1].el
		attachSubdivision(parent, prov)
		stack = append(stack, hierFrame{level: lv, el: prov.XML})
	}
	return root
}

// ensureContent returns parent's content child, creating it if absent.
func ensureContent(parent *etree.Element) *etree.Element {
	if c := parent.SelectElement("content"); c != nil {
		return c
	}
	return parent.CreateElement("content")
}

// attachSubdivision appends a structural provision under parent, prefixing
// its eId with the parent's. A content sibling immediately preceding a
// subdivision holds that container's leading text, so it is retagged intro.
func attachSubdivision(parent *etree.Element, prov Provision) {
	if prov.EID != "" {
		prov.XML.CreateAttr("eId", akn.ChildEID(parent.SelectAttrValue("eId", ""), prov.EID))
	}
	parent.AddChild(prov.XML)
	if prev := previousSiblingElement(prov.XML); prev != nil && prev.Tag == "content" {
		prev.Tag = "intro"
	}
}

// previousSiblingElement returns the element immediately before el under its
// parent, or nil.
func previousSiblingElement(el *etree.Element) *etree.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	var prev *etree.Element
	for _, c := range parent.ChildElements() {
		if c == el {
			return prev
		}
		prev = c
	}
	return nil
}
