package akn

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
)

// ActMeta is the plain metadata record extracted from an eISB act document.
type ActMeta struct {
	Number      string
	Year        string
	DateEnacted time.Time
	Status      string
	ShortTitle  string

	// LongTitle is the already-normalized long-title paragraph element.
	LongTitle *etree.Element
}

// FRBR holds the ELI URI fragments for the work, expression and
// manifestation levels.
//
// URIs deliberately omit the domain, pending a decision over the hosting
// domain name.
type FRBR struct {
	Work          string
	Expression    string
	Manifestation string
}

// ELIFragments composes FRBR URI snippets from act metadata.
func ELIFragments(meta ActMeta, lang string) FRBR {
	work := fmt.Sprintf("/eli/ie/oireachtas/%s/act/%s", meta.Year, meta.Number)
	exp := fmt.Sprintf("%s/%s/%s", work, meta.Status, lang)
	return FRBR{
		Work:          work,
		Expression:    exp,
		Manifestation: exp + "/akn",
	}
}

// DateSuffix renders a day of the month as an ordinal: 1 -> "1st", 22 -> "22nd".
func DateSuffix(day int) string {
	if day >= 4 && day <= 20 || day >= 24 && day <= 30 {
		return fmt.Sprintf("%dth", day)
	}
	return fmt.Sprintf("%d%s", day, []string{"st", "nd", "rd"}[day%10-1])
}

// Skeleton builds the act element with its meta block (FRBR identification,
// empty activeModifications, TLC references), cover page, preface and an
// empty body ready for content.
func Skeleton(meta ActMeta) *etree.Element {
	uris := ELIFragments(meta, "en")
	enacted := meta.DateEnacted.Format("2006-01-02")

	act := etree.NewElement("act")
	act.CreateAttr("name", "ActOfTheOireachtas")

	m := act.CreateElement("meta")
	ident := m.CreateElement("identification")
	ident.CreateAttr("source", "#source")

	work := ident.CreateElement("FRBRWork")
	frbrThis(work, uris.Work).CreateAttr("showAs", meta.ShortTitle)
	frbrURI(work, uris.Work)
	frbrDate(work, enacted, "enacted")
	frbrAuthor(work)
	work.CreateElement("FRBRcountry").CreateAttr("value", "ie")
	work.CreateElement("FRBRnumber").CreateAttr("value", meta.Number)
	work.CreateElement("FRBRname").CreateAttr("value", meta.ShortTitle)

	exp := ident.CreateElement("FRBRExpression")
	frbrThis(exp, uris.Expression)
	frbrURI(exp, uris.Expression)
	frbrDate(exp, enacted, "enacted")
	frbrAuthor(exp)
	exp.CreateElement("FRBRauthoritative").CreateAttr("value", "true")
	exp.CreateElement("FRBRlanguage").CreateAttr("language", "eng")

	mani := ident.CreateElement("FRBRManifestation")
	frbrThis(mani, uris.Manifestation)
	frbrURI(mani, uris.Manifestation)
	frbrDate(mani, time.Now().Format("2006-01-02"), "transformed")
	frbrAuthor(mani)
	mani.CreateElement("FRBRformat").CreateAttr("value", "application/akn+xml")

	analysis := m.CreateElement("analysis")
	analysis.CreateAttr("source", "#source")
	analysis.CreateElement("activeModifications")

	refs := m.CreateElement("references")
	refs.CreateAttr("source", "#source")
	org := refs.CreateElement("TLCOrganization")
	org.CreateAttr("eId", "source")
	org.CreateAttr("href", "https://www.data.oireachtas.ie")
	org.CreateAttr("showAs", "Houses of the Oireachtas")

	cover := act.CreateElement("coverPage")
	cover.AddChild(harp())
	cover.AddChild(docNumber(meta))
	cover.AddChild(shortTitle(meta))
	cover.CreateElement("p").SetText("CONTENTS")
	cover.CreateElement("toc")

	preface := act.CreateElement("preface")
	preface.AddChild(harp())
	preface.AddChild(docNumber(meta))
	preface.AddChild(shortTitle(meta))
	if meta.LongTitle != nil {
		preface.CreateElement("longTitle").AddChild(meta.LongTitle)
	}

	dateP := preface.CreateElement("p")
	dateP.CreateAttr("class", "DateOfEnactment")
	dateP.CreateAttr("style", "text-indent:0;margin-left:8;text-align:right")
	docDate := dateP.CreateElement("docDate")
	docDate.CreateAttr("date", enacted)
	docDate.SetText(fmt.Sprintf("[%s %s]",
		DateSuffix(meta.DateEnacted.Day()), meta.DateEnacted.Format("January, 2006")))

	formula := preface.CreateElement("formula")
	formula.CreateAttr("name", "EnactingText")
	formula.CreateAttr("style", "text-indent:0;margin-left:8;text-align:left")
	formula.CreateElement("p").SetText("Be it enacted by the Oireachtas as follows:")

	act.CreateElement("body")
	return act
}

// Root wraps an act element in the akomaNtoso root with namespace and
// schemaLocation attributes.
func Root(act *etree.Element) *etree.Element {
	root := etree.NewElement("akomaNtoso")
	root.CreateAttr("xmlns", NS)
	root.CreateAttr("xmlns:xsi", xsiNS)
	root.CreateAttr("xsi:schemaLocation", SchemaLocation)
	root.AddChild(act)
	return root
}

func frbrThis(parent *etree.Element, uri string) *etree.Element {
	el := parent.CreateElement("FRBRthis")
	el.CreateAttr("value", uri)
	return el
}

func frbrURI(parent *etree.Element, uri string) {
	parent.CreateElement("FRBRuri").CreateAttr("value", uri)
}

func frbrDate(parent *etree.Element, date, name string) {
	el := parent.CreateElement("FRBRdate")
	el.CreateAttr("date", date)
	el.CreateAttr("name", name)
}

func frbrAuthor(parent *etree.Element) {
	parent.CreateElement("FRBRauthor").CreateAttr("href", "#source")
}

func harp() *etree.Element {
	p := etree.NewElement("p")
	p.CreateAttr("class", "harp")
	p.CreateElement("img").CreateAttr("src", "/static/images/base/harp.jpg")
	return p
}

func docNumber(meta ActMeta) *etree.Element {
	p := etree.NewElement("p")
	p.CreateAttr("class", "Number")
	dn := p.CreateElement("docNumber")
	dn.CreateElement("i").SetText("Number")
	dn.CreateText(meta.Number)
	dn.CreateElement("i").SetText("of")
	dn.CreateText(meta.Year)
	return p
}

func shortTitle(meta ActMeta) *etree.Element {
	p := etree.NewElement("p")
	p.CreateAttr("class", "shortTitle")
	p.CreateElement("shortTitle").SetText(meta.ShortTitle)
	return p
}
