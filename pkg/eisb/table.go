package eisb

import (
	"strings"

	"github.com/beevik/etree"
)

// parseTable converts an eISB table element into the target schema's table
// representation, in place: the tbody wrapper is flattened, column widths
// move from the colgroup into per-cell styles, the first row becomes header
// cells and cell paragraphs are normalized.
func (p *Parser) parseTable(table *etree.Element) *etree.Element {
	stripTags(table, "tbody")

	style := ""
	if cls := table.SelectAttrValue("class", ""); cls != "" {
		table.RemoveAttr("class")
		style = styleFromClass(cls)
	}

	var colwidths []string
	if colgroup := table.SelectElement("colgroup"); colgroup != nil {
		for _, col := range colgroup.SelectElements("col") {
			colwidths = append(colwidths, strings.TrimSuffix(col.SelectAttrValue("width", ""), "%"))
		}
		table.RemoveChild(colgroup)
	}
	style += ";colwidths:" + strings.Join(colwidths, ",")
	table.CreateAttr("style", style)
	table.CreateAttr("width", strings.TrimSuffix(table.SelectAttrValue("width", ""), "%"))

	for rowIdx, tr := range table.SelectElements("tr") {
		for colIdx, td := range tr.SelectElements("td") {
			valign := td.SelectAttrValue("valign", "")
			td.RemoveAttr("valign")
			if rowIdx == 0 {
				td.Tag = "th"
			}
			width := ""
			if colIdx < len(colwidths) {
				width = colwidths[colIdx]
			}
			td.CreateAttr("style", "width:"+width+";vertical-align:"+valign)
			for _, cellP := range td.SelectElements("p") {
				p.parseP(cellP)
			}
		}
	}

	for _, attr := range append([]etree.Attr(nil), table.Attr...) {
		if attr.Key != "style" && attr.Key != "width" {
			table.RemoveAttr(attr.Key)
		}
	}
	return table
}
