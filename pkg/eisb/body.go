package eisb

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/actsetl/pkg/akn"
)

// sectResult carries one parsed section across the worker boundary.
type sectResult struct {
	el   *etree.Element
	mods []akn.AmendmentMetadata
	err  error
}

// ParseBody walks the structural children of an eISB container (the act root,
// or a part/chapter/division within it) and appends the converted elements to
// aknParent. Sibling sections are parsed concurrently when the Parser has
// more than one worker; results and amendment metadata keep source document
// order regardless. A malformed section is logged and skipped rather than
// failing the whole act.
func (p *Parser) ParseBody(eisbParent, aknParent *etree.Element) ([]akn.AmendmentMetadata, error) {
	children := eisbParent.ChildElements()
	results := make([]*sectResult, len(children))

	// Sections never share state: each gets its own amendment parser and
	// mutates only its own subtree, so siblings fan out safely.
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, child := range children {
		if child.Tag != "sect" {
			continue
		}
		res := &sectResult{}
		results[i] = res
		sect := child
		g.Go(func() error {
			provs, mods, err := p.ParseSection(sect)
			if err != nil {
				res.err = err
				return nil
			}
			res.el = buildHierarchy(provs, p.log)
			res.mods = mods
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []akn.AmendmentMetadata
	for i, child := range children {
		switch child.Tag {
		case "sect":
			res := results[i]
			if res.err != nil {
				p.log.Error("skipping malformed section", zap.Error(res.err))
				continue
			}
			if res.el != nil {
				aknParent.AddChild(res.el)
				all = append(all, res.mods...)
			}
		case "part", "chapter", "division":
			top, err := p.parseSubdivisionHead(child)
			if err != nil {
				p.log.Error("skipping malformed subdivision",
					zap.String("tag", child.Tag), zap.Error(err))
				continue
			}
			aknParent.AddChild(top)
			if child.Tag != "part" {
				top.CreateAttr("eId", akn.ChildEID(
					aknParent.SelectAttrValue("eId", ""),
					top.SelectAttrValue("eId", "")))
			}
			mods, err := p.ParseBody(child, top)
			if err != nil {
				return nil, err
			}
			all = append(all, mods...)
		}
	}
	return all, nil
}

// parseSubdivisionHead converts the title of a part, chapter or division into
// the corresponding container element with num and heading. The element's eId
// derives from the last word of the number line ("PART 4" -> "part_4").
func (p *Parser) parseSubdivisionHead(subdiv *etree.Element) (*etree.Element, error) {
	title := subdiv.SelectElement("title")
	if title == nil {
		return nil, fmt.Errorf("%s has no title element", subdiv.Tag)
	}
	tc := title.ChildElements()
	if len(tc) < 2 {
		return nil, fmt.Errorf("%s title has %d children, want number and heading", subdiv.Tag, len(tc))
	}

	number := strings.TrimSpace(collectText(tc[0]))
	heading := p.parseP(tc[1])
	heading.Tag = "heading"

	fields := strings.Fields(number)
	ordinal := ""
	if len(fields) > 0 {
		ordinal = fields[len(fields)-1]
	}

	el := etree.NewElement(subdiv.Tag)
	el.CreateAttr("eId", akn.EIDSnippet(subdiv.Tag, ordinal))
	el.CreateElement("num").SetText(number)
	el.AddChild(heading)
	return el, nil
}

// ParseSchedules converts the act's backmatter schedules into hcontainer
// elements appended to aknBody. Schedules carry flat content: paragraphs and
// tables, no provision hierarchy.
func (p *Parser) ParseSchedules(eisbRoot, aknBody *etree.Element) {
	for i, sched := range eisbRoot.FindElements("./backmatter/schedule") {
		hc := etree.NewElement("hcontainer")
		hc.CreateAttr("name", "schedule")
		hc.CreateAttr("eId", fmt.Sprintf("sched_%d", i+1))

		if title := sched.SelectElement("title"); title != nil {
			ps := title.SelectElements("p")
			if len(ps) > 0 {
				hc.CreateElement("num").SetText(strings.TrimSpace(collectText(ps[0])))
			}
			if len(ps) > 1 {
				hc.CreateElement("heading").SetText(strings.TrimSpace(collectText(ps[1])))
			}
		}

		content := hc.CreateElement("content")
		for _, child := range sched.ChildElements() {
			switch child.Tag {
			case "p":
				content.AddChild(p.parseP(child))
			case "table":
				content.AddChild(p.parseTable(child))
			}
		}
		aknBody.AddChild(hc)
	}
}
