package eisb

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/coolbeans/actsetl/pkg/akn"
)

func textProvision(text string) Provision {
	p := etree.NewElement("p")
	p.SetText(text)
	return Provision{Kind: KindTBlock, XML: p, Text: text}
}

func TestAmendmentParserIdlePassthrough(t *testing.T) {
	a := NewAmendmentParser("sect_1", "", nil, nil)
	status, data := a.Process(textProvision("The Minister may make regulations."))
	if status != StatusIdle {
		t.Errorf("status = %v, want idle", status)
	}
	if data != nil {
		t.Errorf("data = %v, want nil", data)
	}
	if len(a.Metadata()) != 0 {
		t.Errorf("metadata = %+v, want none", a.Metadata())
	}
}

func TestAmendmentParserInlineSubstitution(t *testing.T) {
	a := NewAmendmentParser("sect_12", "", nil, nil)
	text := "Section 118 of the Principal Act is amended in subsection 5 by the substitution of “20 days” for “14 days”."

	status, mod := a.Process(textProvision(text))
	if status != StatusCompletedInline {
		t.Fatalf("status = %v, want completed inline", status)
	}
	if mod.Tag != "mod" {
		t.Fatalf("element = %s, want mod", mod.Tag)
	}
	if got := mod.SelectAttrValue("eId", ""); got != "sect_12_mod_1" {
		t.Errorf("mod eId = %q", got)
	}
	qt := mod.SelectElement("quotedText")
	if qt == nil {
		t.Fatal("mod has no quotedText child")
	}
	if qt.Text() != "20 days" {
		t.Errorf("quotedText = %q", qt.Text())
	}
	if qt.SelectAttrValue("startQuote", "") != "“" || qt.SelectAttrValue("endQuote", "") != "”" {
		t.Error("quotedText missing quote attributes")
	}

	meta := a.Metadata()
	if len(meta) != 1 {
		t.Fatalf("got %d metadata records, want 1", len(meta))
	}
	if meta[0].Kind != akn.ModSubstitution {
		t.Errorf("kind = %v", meta[0].Kind)
	}
	if meta[0].OldText != "14 days" || meta[0].NewText != "20 days" {
		t.Errorf("old/new = %q/%q", meta[0].OldText, meta[0].NewText)
	}
	if meta[0].SourceEID != "#sect_12_mod_1" {
		t.Errorf("source = %q", meta[0].SourceEID)
	}
	if want := "#principal_act/section_118__subsect_5"; meta[0].DestinationURI != want {
		t.Errorf("destination = %q, want %q", meta[0].DestinationURI, want)
	}
}

func TestAmendmentParserBlockSubstitution(t *testing.T) {
	a := NewAmendmentParser("sect_3", "", nil, nil)

	status, _ := a.Process(textProvision(
		"The Principal Act is amended by the substitution of the following section for section 5:"))
	if status != StatusConsumed {
		t.Fatalf("instruction status = %v, want consumed", status)
	}

	quoted := textProvision("“5. The Minister may by regulations provide for fees.")
	status, _ = a.Process(quoted)
	if status != StatusConsumed {
		t.Fatalf("content status = %v, want consumed", status)
	}
	if got := quoted.XML.Text(); strings.HasPrefix(got, "“") {
		t.Errorf("opening quote not stripped from buffered element: %q", got)
	}

	status, block := a.Process(Provision{Kind: KindQuoteEnd, Text: ".”"})
	if status != StatusCompletedBlock {
		t.Fatalf("closing status = %v, want completed block", status)
	}
	if block.Tag != "block" || block.SelectAttrValue("name", "") != "quotedStructure" {
		t.Errorf("wrapper = <%s name=%q>", block.Tag, block.SelectAttrValue("name", ""))
	}
	qs := block.FindElement("./mod/quotedStructure")
	if qs == nil {
		t.Fatal("no mod/quotedStructure inside block")
	}
	if qs.SelectAttrValue("startQuote", "") != "“" {
		t.Error("startQuote missing")
	}
	if qs.SelectAttrValue("endQuote", "") != ".”" {
		t.Errorf("endQuote = %q, want closing characters", qs.SelectAttrValue("endQuote", ""))
	}
	if len(qs.ChildElements()) == 0 {
		t.Error("quoted content not spliced into quotedStructure")
	}

	meta := a.Metadata()
	if len(meta) != 1 {
		t.Fatalf("got %d metadata records, want 1", len(meta))
	}
	if meta[0].Kind != akn.ModSubstitution {
		t.Errorf("kind = %v", meta[0].Kind)
	}
	if !strings.Contains(meta[0].DestinationURI, "section_5") {
		t.Errorf("destination = %q, want it to reference section 5", meta[0].DestinationURI)
	}
}

func TestAmendmentParserQuotedSubsectionStructure(t *testing.T) {
	a := NewAmendmentParser("sect_3", "", nil, nil)

	a.Process(textProvision(
		"The Principal Act is amended by the substitution of the following subsection for section 5:"))
	a.Process(textProvision("“"))

	sub := etree.NewElement("subsection")
	a.Process(Provision{Kind: KindSubsection, EID: "subsect_1", XML: sub, Text: "(1)"})
	a.Process(textProvision("inserted content"))

	status, block := a.Process(Provision{Kind: KindQuoteEnd, Text: "”."})
	if status != StatusCompletedBlock {
		t.Fatalf("status = %v, want completed block", status)
	}

	got := block.FindElement("./mod/quotedStructure/subsection")
	if got == nil {
		t.Fatal("quoted subsection not reconstructed inside quotedStructure")
	}
	if got.SelectAttrValue("eId", "") != "subsect_1" {
		t.Errorf("eId = %q", got.SelectAttrValue("eId", ""))
	}
	if p := got.FindElement("./content/p"); p == nil || p.Text() != "inserted content" {
		t.Errorf("subsection content = %v", p)
	}

	meta := a.Metadata()
	if len(meta) != 1 || !strings.Contains(meta[0].DestinationURI, "section_5") {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestParseSectionQuotedMarkerKeepsStructure(t *testing.T) {
	// The opening quote and subsection marker share a paragraph here, so the
	// classifier's structural provision must keep the quote in its text for
	// the amendment parser to buffer it rather than discard it as
	// connective boilerplate.
	p := NewParser()
	sect := mustElement(t, `<sect>
		<number>3</number>
		<title><p>Amendment of Principal Act</p></title>
		<p class="0 11 0 left 0 0">The Principal Act is amended by the substitution of the following subsection for section 5:</p>
		<p class="0 11 0 left 0 0">&#8220;(1) Inserted content</p>
		<p class="0 11 0 left 0 0">continues here.&#8221;</p>
	</sect>`)

	provs, mods, err := p.ParseSection(sect)
	if err != nil {
		t.Fatalf("ParseSection: %v", err)
	}
	if len(mods) != 1 || !strings.Contains(mods[0].DestinationURI, "section_5") {
		t.Errorf("metadata = %+v, want one record targeting section 5", mods)
	}

	root := p.BuildHierarchy(provs)
	qs := root.FindElement("./content/block/mod/quotedStructure")
	if qs == nil {
		t.Fatal("no quotedStructure under the section content")
	}
	sub := qs.SelectElement("subsection")
	if sub == nil {
		t.Fatal("quoted subsection container lost during reconstruction")
	}
	if got := sub.SelectAttrValue("eId", ""); got != "subsect_1" {
		t.Errorf("subsection eId = %q", got)
	}
	if num := sub.SelectElement("num"); num == nil || num.Text() != "“(1)" {
		t.Errorf("subsection num = %v", num)
	}
	if body := sub.FindElement("./content/p"); body == nil || body.Text() != "Inserted content" {
		t.Errorf("subsection content = %v", body)
	}
}

func TestAmendmentParserInsertionPosition(t *testing.T) {
	a := NewAmendmentParser("sect_4", "", nil, nil)

	a.Process(textProvision(
		"Section 9 of the Principal Act is amended by the insertion of the following subsection after subsection (2):"))
	a.Process(textProvision("“(2A) The notice shall be in writing."))
	status, _ := a.Process(Provision{Kind: KindQuoteEnd, Text: ".”"})
	if status != StatusCompletedBlock {
		t.Fatalf("status = %v, want completed block", status)
	}

	meta := a.Metadata()
	if len(meta) != 1 {
		t.Fatalf("got %d metadata records", len(meta))
	}
	if meta[0].Kind != akn.ModInsertion {
		t.Errorf("kind = %v, want insertion", meta[0].Kind)
	}
	if meta[0].Position != "after" {
		t.Errorf("position = %q, want after", meta[0].Position)
	}
}

func TestAmendmentParserBoilerplateBetweenInstructionAndQuote(t *testing.T) {
	a := NewAmendmentParser("sect_6", "", nil, nil)

	a.Process(textProvision(
		"The Act is amended by the substitution of the following section for section 2:"))
	status, _ := a.Process(textProvision("in Part 3,"))
	if status != StatusConsumed {
		t.Errorf("boilerplate status = %v, want consumed", status)
	}
	// The machine is still waiting for the opening quote.
	status, _ = a.Process(textProvision("“2. Definitions."))
	if status != StatusConsumed {
		t.Errorf("quoted content status = %v, want consumed", status)
	}
	status, _ = a.Process(Provision{Kind: KindQuoteEnd, Text: ".”"})
	if status != StatusCompletedBlock {
		t.Errorf("closing status = %v, want completed block", status)
	}
}

func TestAmendmentParserStrayQuoteEnd(t *testing.T) {
	a := NewAmendmentParser("sect_7", "", nil, nil)
	a.Process(textProvision(
		"The Act is amended by the substitution of the following section for section 2:"))
	// Force the consuming state, then clear the mod to simulate a
	// malformed document.
	a.Process(textProvision("“2. Text."))
	a.currentMod = nil

	status, data := a.Process(Provision{Kind: KindQuoteEnd, Text: ".”"})
	if status != StatusConsumed || data != nil {
		t.Errorf("stray quote end: status = %v, data = %v; want consumed, nil", status, data)
	}
	if a.state != stateIdle {
		t.Error("machine did not reset after stray quote end")
	}
}

func TestAmendmentParserDestinationFallback(t *testing.T) {
	a := NewAmendmentParser("sect_8", "#custom_act", nil, nil)
	if got := a.destinationURI("the definition of relevant person"); got != "#custom_act" {
		t.Errorf("fallback destination = %q, want bare act URI", got)
	}
}

func TestProcessAmendmentsDeterministic(t *testing.T) {
	build := func() []Provision {
		return []Provision{
			textProvision("Section 118 of the Principal Act is amended by the substitution of “20 days” for “14 days”."),
			textProvision("(2) Another provision."),
		}
	}

	run := func() (string, int) {
		a := NewAmendmentParser("sect_1", "", nil, nil)
		processed, meta := processAmendments(a, build(), a.log)
		doc := etree.NewDocument()
		for _, pr := range processed {
			if pr.XML != nil {
				doc.AddChild(pr.XML.Copy())
			}
		}
		s, _ := doc.WriteToString()
		return s, len(meta)
	}

	first, firstMeta := run()
	for i := 0; i < 3; i++ {
		again, againMeta := run()
		if again != first || againMeta != firstMeta {
			t.Fatalf("run %d differed from first run", i+2)
		}
	}
}

func TestProcessAmendmentsInlineFallback(t *testing.T) {
	// An inline instruction as the very first provision has nothing to
	// attach to; the mod must still surface as a block.
	a := NewAmendmentParser("sect_2", "", nil, nil)
	raw := []Provision{
		textProvision("Section 1 is amended by the substitution of “A” for “B”."),
	}
	processed, meta := processAmendments(a, raw, a.log)
	if len(processed) != 1 {
		t.Fatalf("got %d provisions, want 1", len(processed))
	}
	if processed[0].Kind != KindModBlock {
		t.Errorf("kind = %v, want mod_block", processed[0].Kind)
	}
	if len(meta) != 1 {
		t.Errorf("got %d metadata records, want 1", len(meta))
	}
}

func TestProcessAmendmentsInlineAttachesToPrevious(t *testing.T) {
	a := NewAmendmentParser("sect_2", "", nil, nil)
	raw := []Provision{
		textProvision("(1) Ordinary provision."),
		textProvision("Section 1 is amended by the substitution of “A” for “B”."),
	}
	processed, _ := processAmendments(a, raw, a.log)
	if len(processed) != 1 {
		t.Fatalf("got %d provisions, want 1", len(processed))
	}
	if mod := processed[0].XML.SelectElement("mod"); mod == nil {
		t.Error("inline mod not attached to the preceding provision")
	}
}
