package eisb

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// GenerateTOC fills the act's coverPage toc from the assembled body: one
// tocItem per part, chapter, division, section and schedule, in document
// order. Section items nest one level below their enclosing subdivision.
func GenerateTOC(act *etree.Element) {
	toc := act.FindElement("./coverPage/toc")
	body := act.SelectElement("body")
	if toc == nil || body == nil {
		return
	}

	var walk func(parent *etree.Element, level int)
	walk = func(parent *etree.Element, level int) {
		for _, el := range parent.ChildElements() {
			switch el.Tag {
			case "part", "chapter", "division":
				addTOCItem(toc, level, el.Tag, el)
				walk(el, level+1)
			case "section":
				addTOCItem(toc, level, "section", el)
			case "hcontainer":
				if el.SelectAttrValue("name", "") == "schedule" {
					addTOCItem(toc, 1, "schedule", el)
				}
			}
		}
	}
	walk(body, 1)
}

func addTOCItem(toc *etree.Element, level int, class string, el *etree.Element) {
	item := toc.CreateElement("tocItem")
	item.CreateAttr("level", strconv.Itoa(level))
	item.CreateAttr("class", class)
	item.CreateAttr("href", "#"+el.SelectAttrValue("eId", ""))

	num := item.CreateElement("inline")
	num.CreateAttr("name", "tocNum")
	if n := el.SelectElement("num"); n != nil {
		num.SetText(strings.TrimSpace(collectText(n)))
	}

	heading := item.CreateElement("inline")
	heading.CreateAttr("name", "tocHeading")
	if h := el.SelectElement("heading"); h != nil {
		heading.SetText(strings.TrimSpace(collectText(h)))
	}
}
