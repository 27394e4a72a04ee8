package eisb

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func serialize(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.AddChild(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("serializing: %v", err)
	}
	return s
}

func TestParseSection(t *testing.T) {
	p := NewParser()
	sect := mustElement(t, `<sect>
		<number>5</number>
		<title><p>Offences</p></title>
		<p class="0 11 0 left 0 0">(1) A person commits an offence.</p>
		<p class="0 14 0 left 0 0">(a) on summary conviction,</p>
	</sect>`)

	provs, mods, err := p.ParseSection(sect)
	if err != nil {
		t.Fatalf("ParseSection: %v", err)
	}
	if len(mods) != 0 {
		t.Errorf("got %d amendment records, want 0", len(mods))
	}

	if provs[0].Kind != KindSection || provs[0].EID != "sect_5" {
		t.Errorf("root provision = %v %q", provs[0].Kind, provs[0].EID)
	}
	sectEl := provs[0].XML
	if got := sectEl.SelectAttrValue("eId", ""); got != "sect_5" {
		t.Errorf("section eId = %q", got)
	}
	if h := sectEl.SelectElement("heading"); h == nil || h.Text() != "Offences" {
		t.Errorf("heading = %v", h)
	}
	if b := sectEl.FindElement("./num/b"); b == nil || b.Text() != "5" {
		t.Errorf("num = %v", b)
	}

	root := p.BuildHierarchy(provs)
	if root.FindElement("./subsection/paragraph") == nil {
		t.Error("provision hierarchy not reconstructed under section")
	}
}

func TestParseSectionMissingNumber(t *testing.T) {
	p := NewParser()
	sect := mustElement(t, `<sect><title><p>Orphan</p></title></sect>`)
	if _, _, err := p.ParseSection(sect); err == nil {
		t.Error("want error for sect without number")
	}
}

func TestParseSectionMissingTitle(t *testing.T) {
	p := NewParser()
	sect := mustElement(t, `<sect><number>9</number></sect>`)
	if _, _, err := p.ParseSection(sect); err == nil {
		t.Error("want error for sect without title paragraph")
	}
}

const bodyFixture = `<body>
	<part>
		<title><p>PART 1</p><p>Preliminary and General</p></title>
		<sect>
			<number>1</number>
			<title><p>Short title</p></title>
			<p class="0 11 0 left 0 0">(1) This Act may be cited as the Example Act 2025.</p>
		</sect>
		<chapter>
			<title><p>Chapter 2</p><p>Amendments</p></title>
			<sect>
				<number>2</number>
				<title><p>Amendment of Principal Act</p></title>
				<p class="0 11 0 left 0 0">Section 4 is amended by the substitution of &#8220;one month&#8221; for &#8220;one week&#8221;.</p>
			</sect>
		</chapter>
	</part>
	<sect>
		<number>3</number>
		<title><p>Regulations</p></title>
		<p class="0 11 0 left 0 0">(1) The Minister may make regulations.</p>
		<p class="0 14 0 left 0 0">(a) prescribing fees,</p>
	</sect>
</body>`

func TestParseBody(t *testing.T) {
	p := NewParser()
	eisbBody := mustElement(t, bodyFixture)
	aknBody := etree.NewElement("body")

	mods, err := p.ParseBody(eisbBody, aknBody)
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}

	part := aknBody.SelectElement("part")
	if part == nil {
		t.Fatal("no part in output")
	}
	if got := part.SelectAttrValue("eId", ""); got != "part_1" {
		t.Errorf("part eId = %q", got)
	}
	if num := part.SelectElement("num"); num == nil || num.Text() != "PART 1" {
		t.Errorf("part num = %v", num)
	}
	if h := part.SelectElement("heading"); h == nil || h.Text() != "Preliminary and General" {
		t.Errorf("part heading = %v", h)
	}
	if part.SelectElement("section") == nil {
		t.Error("section 1 not nested under part")
	}

	chapter := part.SelectElement("chapter")
	if chapter == nil {
		t.Fatal("no chapter under part")
	}
	if got := chapter.SelectAttrValue("eId", ""); got != "part_1_chapter_2" {
		t.Errorf("chapter eId = %q, want parent-prefixed", got)
	}
	if chapter.SelectElement("section") == nil {
		t.Error("section 2 not nested under chapter")
	}

	if aknBody.SelectElement("section") == nil {
		t.Error("top-level section 3 missing")
	}

	if len(mods) != 1 {
		t.Fatalf("got %d amendment records, want 1 from section 2", len(mods))
	}
	if !strings.Contains(mods[0].DestinationURI, "section_4") {
		t.Errorf("destination = %q", mods[0].DestinationURI)
	}
}

func TestParseBodySkipsMalformedSection(t *testing.T) {
	p := NewParser()
	eisbBody := mustElement(t, `<body>
		<sect><title><p>No number</p></title></sect>
		<sect>
			<number>2</number>
			<title><p>Valid</p></title>
			<p class="0 11 0 left 0 0">(1) Kept.</p>
		</sect>
	</body>`)
	aknBody := etree.NewElement("body")
	if _, err := p.ParseBody(eisbBody, aknBody); err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	if got := len(aknBody.SelectElements("section")); got != 1 {
		t.Errorf("got %d sections, want the malformed one skipped", got)
	}
}

func TestParseBodyParallelMatchesSequential(t *testing.T) {
	run := func(workers int) (string, []string) {
		p := NewParser(WithWorkers(workers))
		eisbBody := mustElement(t, bodyFixture)
		aknBody := etree.NewElement("body")
		mods, err := p.ParseBody(eisbBody, aknBody)
		if err != nil {
			t.Fatalf("ParseBody(workers=%d): %v", workers, err)
		}
		var dests []string
		for _, m := range mods {
			dests = append(dests, m.DestinationURI)
		}
		return serialize(t, aknBody), dests
	}

	seqXML, seqMods := run(1)
	parXML, parMods := run(4)
	if seqXML != parXML {
		t.Error("parallel output differs from sequential output")
	}
	if len(seqMods) != len(parMods) {
		t.Fatalf("mod counts differ: %d vs %d", len(seqMods), len(parMods))
	}
	for i := range seqMods {
		if seqMods[i] != parMods[i] {
			t.Errorf("mod %d order differs: %q vs %q", i, seqMods[i], parMods[i])
		}
	}
}

func TestParseSchedules(t *testing.T) {
	p := NewParser()
	root := mustElement(t, `<act>
		<backmatter>
			<schedule>
				<title><p>SCHEDULE 1</p><p>Repealed Enactments</p></title>
				<p class="0 0 0 left 0 0">Entries follow.</p>
				<table width="100%"><colgroup><col width="50%"/><col width="50%"/></colgroup>
					<tr><td valign="top"><p>Act</p></td><td valign="top"><p>Extent</p></td></tr>
				</table>
			</schedule>
			<schedule>
				<title><p>SCHEDULE 2</p><p>Forms</p></title>
				<p class="0 0 0 left 0 0">Form A.</p>
			</schedule>
		</backmatter>
	</act>`)
	body := etree.NewElement("body")

	p.ParseSchedules(root, body)

	scheds := body.SelectElements("hcontainer")
	if len(scheds) != 2 {
		t.Fatalf("got %d schedules, want 2", len(scheds))
	}
	first := scheds[0]
	if first.SelectAttrValue("name", "") != "schedule" {
		t.Errorf("name = %q", first.SelectAttrValue("name", ""))
	}
	if first.SelectAttrValue("eId", "") != "sched_1" {
		t.Errorf("eId = %q", first.SelectAttrValue("eId", ""))
	}
	if num := first.SelectElement("num"); num == nil || num.Text() != "SCHEDULE 1" {
		t.Errorf("num = %v", num)
	}
	if h := first.SelectElement("heading"); h == nil || h.Text() != "Repealed Enactments" {
		t.Errorf("heading = %v", h)
	}
	content := first.SelectElement("content")
	if content == nil {
		t.Fatal("no content")
	}
	if content.SelectElement("p") == nil || content.SelectElement("table") == nil {
		t.Error("schedule content incomplete")
	}
	if scheds[1].SelectAttrValue("eId", "") != "sched_2" {
		t.Errorf("second eId = %q", scheds[1].SelectAttrValue("eId", ""))
	}
}

func TestActMetadata(t *testing.T) {
	p := NewParser()
	act := mustElement(t, `<act>
		<metadata>
			<title>Example Act 2025</title>
			<number>6</number>
			<year>2025</year>
			<dateofenactment>11th March, 2025</dateofenactment>
		</metadata>
		<frontmatter>
			<p>Some preamble.</p>
			<p>AN ACT TO PROVIDE FOR EXAMPLES AND RELATED MATTERS.</p>
		</frontmatter>
	</act>`)

	meta, err := p.ActMetadata(act)
	if err != nil {
		t.Fatalf("ActMetadata: %v", err)
	}
	if meta.ShortTitle != "Example Act 2025" || meta.Number != "6" || meta.Year != "2025" {
		t.Errorf("meta = %+v", meta)
	}
	if got := meta.DateEnacted.Format("2006-01-02"); got != "2025-03-11" {
		t.Errorf("date = %q", got)
	}
	if meta.Status != "enacted" {
		t.Errorf("status = %q", meta.Status)
	}
	if meta.LongTitle == nil || !strings.Contains(meta.LongTitle.Text(), "AN ACT TO") {
		t.Errorf("long title = %v", meta.LongTitle)
	}
}

func TestActMetadataMissing(t *testing.T) {
	p := NewParser()
	act := mustElement(t, `<act><metadata><title>No number</title></metadata></act>`)
	if _, err := p.ActMetadata(act); err == nil {
		t.Error("want error for incomplete metadata")
	}
}
