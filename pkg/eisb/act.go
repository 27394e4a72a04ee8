package eisb

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/coolbeans/actsetl/pkg/akn"
)

// ordinalSuffix strips "1st", "22nd", "3rd", "11th" day ordinals so the date
// parses with plain layouts.
var ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

var enactmentLayouts = []string{
	"2 January 2006",
	"January 2 2006",
	"2 January, 2006",
	"2006-01-02",
}

// parseEnactmentDate accepts the date forms seen in eISB metadata, including
// ordinal days ("11th March, 2025").
func parseEnactmentDate(s string) (time.Time, error) {
	s = strings.TrimSpace(ordinalSuffix.ReplaceAllString(s, "$1"))
	for _, layout := range enactmentLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised enactment date %q", s)
}

// ActMetadata extracts the act-level metadata needed to build the document
// skeleton: short title, act number, year, enactment date and the long title
// paragraph from the frontmatter.
func (p *Parser) ActMetadata(act *etree.Element) (akn.ActMeta, error) {
	md := act.SelectElement("metadata")
	if md == nil {
		return akn.ActMeta{}, fmt.Errorf("act has no metadata element")
	}
	meta := akn.ActMeta{Status: "enacted"}
	if t := md.SelectElement("title"); t != nil {
		meta.ShortTitle = strings.TrimSpace(t.Text())
	}
	if n := md.SelectElement("number"); n != nil {
		meta.Number = strings.TrimSpace(n.Text())
	}
	if y := md.SelectElement("year"); y != nil {
		meta.Year = strings.TrimSpace(y.Text())
	}
	if meta.Number == "" || meta.Year == "" {
		return akn.ActMeta{}, fmt.Errorf("act metadata is missing number or year")
	}
	p.log.Info("parsing act", zap.String("title", meta.ShortTitle),
		zap.String("number", meta.Number), zap.String("year", meta.Year))

	doe := ""
	if d := md.SelectElement("dateofenactment"); d != nil {
		doe = d.Text()
	}
	date, err := parseEnactmentDate(doe)
	if err != nil {
		return akn.ActMeta{}, fmt.Errorf("act %s/%s: %w", meta.Number, meta.Year, err)
	}
	meta.DateEnacted = date

	for _, fp := range act.FindElements("./frontmatter/p") {
		text := collectText(fp)
		if strings.Contains(text, "AN ACT TO") || strings.Contains(text, "An Act to") {
			meta.LongTitle = p.parseP(fp)
			break
		}
	}
	if meta.LongTitle == nil {
		return akn.ActMeta{}, fmt.Errorf("act %s/%s has no long title paragraph", meta.Number, meta.Year)
	}
	return meta, nil
}
