package eisb

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/coolbeans/actsetl/pkg/eurlex"
)

// collectText flattens all character data under el, in document order.
func collectText(el *etree.Element) string {
	var b strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch c := tok.(type) {
			case *etree.CharData:
				b.WriteString(c.Data)
			case *etree.Element:
				walk(c)
			}
		}
	}
	walk(el)
	return b.String()
}

// tailOf returns the character data immediately following el inside its
// parent, and whether any exists.
func tailOf(el *etree.Element) (string, bool) {
	parent := el.Parent()
	if parent == nil {
		return "", false
	}
	idx := el.Index()
	if idx+1 >= len(parent.Child) {
		return "", false
	}
	if cd, ok := parent.Child[idx+1].(*etree.CharData); ok {
		return cd.Data, true
	}
	return "", false
}

// insertTextAt places character data at token index idx of parent.
func insertTextAt(parent *etree.Element, idx int, text string) {
	cd := parent.CreateText(text)
	parent.InsertChildAt(idx, cd)
}

// stripTags removes every descendant element whose tag is in tags, splicing
// its children (text included) into its place. Tail text is untouched.
func stripTags(el *etree.Element, tags ...string) {
	doomed := func(tag string) bool {
		for _, t := range tags {
			if t == tag {
				return true
			}
		}
		return false
	}
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			walk(child)
			if !doomed(child.Tag) {
				continue
			}
			idx := child.Index()
			for len(child.Child) > 0 {
				e.InsertChildAt(idx, child.Child[0])
				idx++
			}
			e.RemoveChild(child)
		}
	}
	walk(el)
}

// stripElements removes every descendant element whose tag is in tags,
// content and all. Tail text is untouched.
func stripElements(el *etree.Element, tags ...string) {
	doomed := func(tag string) bool {
		for _, t := range tags {
			if t == tag {
				return true
			}
		}
		return false
	}
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if doomed(child.Tag) {
				e.RemoveChild(child)
				continue
			}
			walk(child)
		}
	}
	walk(el)
}

// halfUnits converts a layout token to half its value for CSS-like styles,
// matching the source format's 2-units-per-character convention.
func halfUnits(tok string) string {
	if tok == "0" {
		return "0"
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return "0"
	}
	return strconv.FormatFloat(float64(v)/2, 'f', -1, 64)
}

// styleFromClass converts a six-token eISB class descriptor into an inline
// style string, or "" when the descriptor is malformed.
func styleFromClass(cls string) string {
	parts := strings.Fields(cls)
	if len(parts) != 6 {
		return ""
	}
	return "text-indent:" + halfUnits(parts[0]) +
		";margin-left:" + halfUnits(parts[1]) +
		";text-align:" + parts[3]
}

// parseP normalizes an eISB text paragraph into a LegalDocML p element, in
// place: presentational wrappers are dropped, footnotes become sup/ref
// links, graphics become img, inline unicode escapes are resolved, and all
// attributes except the derived style are removed.
func (p *Parser) parseP(node *etree.Element) *etree.Element {
	node.Tag = "p"
	stripTags(node, "font", "xref")

	if cls := node.SelectAttrValue("class", ""); cls != "" {
		node.RemoveAttr("class")
		if style := styleFromClass(cls); style != "" {
			node.CreateAttr("style", style)
		}
	}

	for _, child := range allElements(node) {
		switch child.Tag {
		case "fn":
			p.convertFootnote(node, child)
		case "graphic":
			child.Tag = "img"
			href := child.SelectAttrValue("href", "")
			child.RemoveAttr("href")
			child.RemoveAttr("quality")
			child.CreateAttr("src", "/images/"+href)
		case "sb", "su":
			child.Tag = strings.ToLower(child.Tag)
		case "unicode":
			resolveUnicode(child)
		}
	}

	for _, attr := range append([]etree.Attr(nil), node.Attr...) {
		if attr.Key != "style" {
			node.RemoveAttr(attr.Key)
		}
	}
	stripElements(node, "fn", "unicode")
	return node
}

// allElements returns every descendant element of el in document order.
func allElements(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			out = append(out, c)
			walk(c)
		}
	}
	walk(el)
	return out
}

// convertFootnote replaces an fn element with a sup/ref link. Footnotes that
// cite the Official Journal get a EUR-Lex href.
func (p *Parser) convertFootnote(parent, fn *etree.Element) {
	if fn.Parent() != parent {
		return
	}
	marker := ""
	if m := fn.FindElement("./marker/su"); m != nil {
		marker = m.Text()
	}
	target := ""
	if su := fn.FindElement("./p//su"); su != nil {
		if tail, ok := tailOf(su); ok {
			target = strings.TrimSpace(tail)
		}
	}
	href := ""
	if strings.HasPrefix(target, "OJ") {
		href = eurlex.URIFromCitation(p.patterns, target)
	}

	sup := etree.NewElement("sup")
	ref := sup.CreateElement("ref")
	ref.SetText(marker)
	ref.CreateAttr("title", target)
	ref.CreateAttr("href", href)
	parent.InsertChildAt(fn.Index(), sup)
}

// resolveUnicode replaces a unicode escape element with its literal rune,
// placed where the element was.
func resolveUnicode(u *etree.Element) {
	parent := u.Parent()
	if parent == nil {
		return
	}
	code, err := strconv.ParseInt(u.SelectAttrValue("ch", ""), 16, 32)
	if err != nil {
		return
	}
	insertTextAt(parent, u.Index(), string(rune(code)))
}
