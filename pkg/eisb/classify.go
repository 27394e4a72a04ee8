package eisb

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/coolbeans/actsetl/pkg/akn"
	"github.com/coolbeans/actsetl/pkg/pattern"
)

// parseLayout extracts the layout triple from a six-token class descriptor,
// degrading to defaults when the descriptor is absent or malformed.
func parseLayout(cls string) Layout {
	parts := strings.Fields(cls)
	if len(parts) != 6 {
		return defaultLayout
	}
	hang, err := strconv.Atoi(parts[0])
	if err != nil {
		return defaultLayout
	}
	margin, err := strconv.Atoi(parts[1])
	if err != nil {
		return defaultLayout
	}
	return Layout{Hanging: hang, Margin: margin, Align: parts[3]}
}

// makeNum wraps marker text in a num element.
func makeNum(text string) *etree.Element {
	num := etree.NewElement("num")
	num.SetText(text)
	return num
}

// paragraphOrSubparagraph disambiguates a letter marker between paragraph
// and subparagraph. Letters i, v and x are ambiguous: "(i)" may be the ninth
// paragraph of a subsection or the first roman-numeral subparagraph one
// level deeper. The margin decides where it can; otherwise a marker
// following paragraph (h), (u) or (w) is read as the continuation paragraph
// "(i)", "(v)" or "(x)".
//
// Known limitation, preserved from long observation of the source corpus:
// the previous-group flag cannot distinguish a genuine roman subparagraph
// nested inside a paragraph that is itself lettered h, u or w.
func paragraphOrSubparagraph(id string, margin int, prevHUW bool) Kind {
	if margin == paragraphMarginThreshold {
		return KindParagraph
	}
	if id != "" && strings.ContainsRune("ivx", rune(id[0])) && !prevHUW {
		return KindSubparagraph
	}
	return KindParagraph
}

// recombineItalicMarker merges the split form `(` + <i>x</i> + `)` back into
// plain leading text so marker matching sees "(x)".
func recombineItalicMarker(node *etree.Element) {
	if node.Text() != "(" {
		return
	}
	ital := node.SelectElement("i")
	if ital == nil {
		return
	}
	tail, ok := tailOf(ital)
	if !ok || !strings.HasPrefix(tail, ")") {
		return
	}
	italText := ital.Text()
	node.RemoveChildAt(ital.Index() + 1)
	node.RemoveChild(ital)
	node.SetText("(" + italText + tail)
}

// extractRawProvisions converts the raw children of a sect element into an
// ordered Provision list. Each source paragraph can produce one, two or
// three Provisions: an optional structural marker node, the text content
// node, and an optional quotation-end boundary.
func (p *Parser) extractRawProvisions(sect *etree.Element) []Provision {
	var out []Provision
	isHUW := false
	idx := 0
	emit := func(pr Provision) {
		pr.Index = idx
		idx++
		out = append(out, pr)
	}

	for _, node := range sect.ChildElements() {
		if node.Tag != "p" && node.Tag != "table" {
			continue
		}
		layout := parseLayout(node.SelectAttrValue("class", ""))
		text := strings.TrimSpace(collectText(node))

		if node.Tag == "table" {
			emit(Provision{Kind: KindTable, Layout: layout, XML: p.parseTable(node), Text: text})
			continue
		}
		if text == "" {
			emit(Provision{Kind: KindTBlock, Layout: layout, XML: p.parseP(node), Text: text})
			continue
		}

		recombineItalicMarker(node)

		kind := KindTBlock
		eid := ""
		pnum := ""
		inserted := false

		// A bold run with trailing text marks an inserted top-level
		// section heading when indented past the insertion threshold.
		if b := node.SelectElement("b"); b != nil {
			if tail, ok := tailOf(b); ok && tail != "" {
				pnum = strings.TrimSpace(b.Text())
				stripElements(node, "b")
				if layout.Hanging+layout.Margin > insertedSectionThreshold {
					kind = KindSection
					inserted = true
					eid = akn.EIDSnippet("sect", pnum)
				}
			}
		}

		if m, ok := p.patterns.MatchMarker(node.Text()); ok {
			switch m.Kind {
			case pattern.MarkerSubsection:
				kind = KindSubsection
				eid = akn.EIDSnippet("subsect", m.Text)
			case pattern.MarkerParagraph:
				id := m.Identifier()
				kind = paragraphOrSubparagraph(id, layout.Margin, isHUW)
				label := "para"
				if kind == KindSubparagraph {
					label = "subpara"
				}
				eid = akn.EIDSnippet(label, m.Text)
				isHUW = id == "h" || id == "u" || id == "w"
			case pattern.MarkerClause:
				kind = KindClause
				eid = akn.EIDSnippet("clause", m.Text)
			case pattern.MarkerSubclause:
				kind = KindSubclause
				eid = akn.EIDSnippet("subclause", m.Text)
			}
			pnum = m.Text
			node.SetText(pattern.StripMarker(node.Text(), m))
		}

		parsed := p.parseP(node)

		if kind != KindTBlock {
			container := akn.MakeContainer(string(kind), makeNum(pnum), nil, map[string]string{"eId": eid})
			// The structural provision keeps the pre-strip text: a marker
			// opening with a curly quote ("“(1) ...") is what tells the
			// amendment parser a quoted block begins here.
			emit(Provision{
				Kind:     kind,
				EID:      eid,
				Inserted: inserted,
				Layout:   layout,
				XML:      container,
				Text:     text,
			})
		}

		emit(Provision{Kind: KindTBlock, Inserted: inserted, Layout: layout, XML: parsed, Text: text})

		// A paragraph ending with an unbalanced closing curly quote
		// closes an amendment quotation; the boundary carries the final
		// two characters so the end-quote attribute can reproduce them.
		if strings.HasSuffix(text, pattern.CloseDoubleQuote) &&
			strings.Count(text, pattern.CloseDoubleQuote) > strings.Count(text, pattern.OpenDoubleQuote) {
			emit(Provision{Kind: KindQuoteEnd, Inserted: true, Layout: layout, Text: lastRunes(text, 2)})
		}
	}
	return out
}

// lastRunes returns the final n runes of s.
func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
