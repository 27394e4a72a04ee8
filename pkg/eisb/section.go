package eisb

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/coolbeans/actsetl/pkg/akn"
)

// ParseSection converts one eISB sect element into the ordered provision
// list for the hierarchy builder, plus the amendment metadata the section's
// instructions produced. The section's number and title paragraph are hard
// anchors: a sect lacking either cannot be identified and is rejected.
func (p *Parser) ParseSection(sect *etree.Element) ([]Provision, []akn.AmendmentMetadata, error) {
	number := sect.SelectElement("number")
	if number == nil || strings.TrimSpace(number.Text()) == "" {
		return nil, nil, fmt.Errorf("sect has no number element")
	}
	snum := strings.TrimSpace(number.Text())

	headingP := sect.FindElement("./title/p")
	if headingP == nil {
		return nil, nil, fmt.Errorf("sect %s has no title paragraph", snum)
	}
	heading := p.parseP(headingP)
	heading.Tag = "heading"

	eid := akn.EIDSnippet("sect", snum)
	p.log.Debug("parsing section", zap.String("number", snum), zap.String("eId", eid))

	num := etree.NewElement("num")
	num.CreateElement("b").SetText(snum)
	sectXML := akn.MakeContainer("section", num, heading, map[string]string{"eId": eid})

	raw := p.extractRawProvisions(sect)
	am := NewAmendmentParser(eid, p.principalActURI, p.patterns, p.log)
	processed, mods := processAmendments(am, raw, p.log)

	provs := make([]Provision, 0, len(processed)+1)
	provs = append(provs, Provision{
		Kind:   KindSection,
		EID:    eid,
		Layout: Layout{Hanging: -3, Margin: 11, Align: "left"},
		XML:    sectXML,
		Index:  -1,
	})
	provs = append(provs, processed...)
	return provs, mods, nil
}
