package eisb

import (
	"strings"

	"github.com/beevik/etree"
)

// FixHeadings repairs quoted parts, chapters and schedules whose heading was
// captured as a centered text paragraph instead of a heading element. For
// each such container directly inside a quotedStructure, the first centered p
// of the content (or intro) block following the num is promoted to a heading
// sibling of the num; the block is removed if that leaves it empty.
//
// The pass is idempotent: once promoted, the num is followed by the heading
// and the container no longer matches.
func FixHeadings(act *etree.Element) *etree.Element {
	for _, qs := range act.FindElements("./body//quotedStructure") {
		for _, sd := range qs.ChildElements() {
			if !isHeadedQuotedContainer(sd) {
				continue
			}
			num := sd.SelectElement("num")
			if num == nil {
				continue
			}
			block := nextSiblingElement(num)
			if block == nil || (block.Tag != "content" && block.Tag != "intro") {
				continue
			}
			para := block.SelectElement("p")
			if para == nil || !strings.Contains(para.SelectAttrValue("style", ""), "text-align:center") {
				continue
			}
			idx := block.Index()
			para.Tag = "heading"
			sd.InsertChildAt(idx, para)
			if len(block.ChildElements()) == 0 && strings.TrimSpace(block.Text()) == "" {
				sd.RemoveChild(block)
			}
		}
	}
	return act
}

func isHeadedQuotedContainer(el *etree.Element) bool {
	switch el.Tag {
	case "part", "chapter":
		return true
	case "hcontainer":
		return el.SelectAttrValue("name", "") == "schedule"
	}
	return false
}

// nextSiblingElement returns the element immediately after el under its
// parent, or nil.
func nextSiblingElement(el *etree.Element) *etree.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	var seen bool
	for _, c := range parent.ChildElements() {
		if seen {
			return c
		}
		if c == el {
			seen = true
		}
	}
	return nil
}
