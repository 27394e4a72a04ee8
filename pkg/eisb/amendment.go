package eisb

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/coolbeans/actsetl/pkg/akn"
	"github.com/coolbeans/actsetl/pkg/pattern"
)

// Status is the outcome of feeding one provision to the amendment parser.
type Status string

const (
	// StatusIdle: the parser did not consume the provision; the caller
	// forwards it unchanged.
	StatusIdle Status = "idle"

	// StatusConsumed: the provision was absorbed as amendment instruction
	// or quoted content and must not be forwarded.
	StatusConsumed Status = "consumed"

	// StatusCompletedBlock: a block-form mod was completed; the returned
	// element is the finished block.
	StatusCompletedBlock Status = "completed_block"

	// StatusCompletedInline: an inline mod was completed; the returned
	// element is the mod to splice into the originating provision.
	StatusCompletedInline Status = "completed_inline"
)

// amendState is the internal state of the machine.
type amendState int

const (
	stateIdle amendState = iota
	stateParsingInstruction
	stateConsumingContent
)

// AmendmentParser recognises legislative amendment instructions in a
// provision stream and captures the quoted replacement or insertion text
// that follows. One instance serves exactly one section; it holds no global
// state, so independent sections may be parsed concurrently.
type AmendmentParser struct {
	state           amendState
	sectionEID      string
	principalActURI string
	patterns        *pattern.Library
	log             *zap.Logger

	modCounter int
	metadata   []akn.AmendmentMetadata

	currentMod *etree.Element
	details    *pattern.Instruction
	buffer     []Provision
}

// NewAmendmentParser creates a state machine for one section. A nil pattern
// library or logger falls back to a fresh library and a no-op logger.
func NewAmendmentParser(sectionEID, principalActURI string, lib *pattern.Library, log *zap.Logger) *AmendmentParser {
	if lib == nil {
		lib = pattern.NewLibrary()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if principalActURI == "" {
		principalActURI = DefaultPrincipalActURI
	}
	return &AmendmentParser{
		state:           stateIdle,
		sectionEID:      sectionEID,
		principalActURI: principalActURI,
		patterns:        lib,
		log:             log,
		modCounter:      1,
	}
}

// Metadata returns the amendment records accumulated so far, in the order
// the instructions were recognised.
func (a *AmendmentParser) Metadata() []akn.AmendmentMetadata {
	return a.metadata
}

// destinationURI builds a URI-like fragment from an instruction's target
// description, e.g. "section 118(5)" -> "#principal_act/section_118__5".
// Text that cannot be decomposed falls back to the bare principal-act URI.
func (a *AmendmentParser) destinationURI(text string) string {
	text = strings.ReplaceAll(strings.ToLower(text), "subsection", "subsect")
	comps := a.patterns.DestinationComponents(text)
	if len(comps) == 0 {
		a.log.Warn("could not generate destination URI", zap.String("text", text))
		return a.principalActURI
	}
	parts := make([]string, len(comps))
	for i, c := range comps {
		parts[i] = c.Label + "_" + c.ID
	}
	return a.principalActURI + "/" + strings.Join(parts, "__")
}

// nextModEID mints the eId for the next mod element of this section.
func (a *AmendmentParser) nextModEID() string {
	return fmt.Sprintf("%s_mod_%d", a.sectionEID, a.modCounter)
}

// Process feeds one provision through the state machine and returns what the
// caller should do with it. The returned element is non-nil only for the two
// completion statuses. Process never fails: malformed amendment language is
// logged and recovered.
func (a *AmendmentParser) Process(prov Provision) (Status, *etree.Element) {
	switch a.state {
	case stateIdle:
		return a.processIdle(prov)
	case stateParsingInstruction:
		return a.processInstruction(prov)
	case stateConsumingContent:
		return a.processContent(prov)
	}
	return StatusIdle, nil
}

func (a *AmendmentParser) processIdle(prov Provision) (Status, *etree.Element) {
	instr := a.patterns.MatchInstruction(prov.Text)
	if instr == nil {
		return StatusIdle, nil
	}

	if instr.Inline {
		// Both old and new text are quoted literals in the instruction
		// sentence itself; the mod completes immediately.
		modEID := a.nextModEID()
		mod := etree.NewElement("mod")
		mod.CreateAttr("eId", modEID)
		qt := mod.CreateElement("quotedText")
		qt.CreateAttr("startQuote", pattern.OpenDoubleQuote)
		qt.CreateAttr("endQuote", pattern.CloseDoubleQuote)
		qt.SetText(instr.NewText)

		a.metadata = append(a.metadata, akn.AmendmentMetadata{
			Kind:           akn.ModSubstitution,
			SourceEID:      "#" + modEID,
			DestinationURI: a.destinationURI(prov.Text),
			OldText:        instr.OldText,
			NewText:        instr.NewText,
		})
		a.modCounter++
		return StatusCompletedInline, mod
	}

	a.state = stateParsingInstruction
	a.details = instr
	return StatusConsumed, nil
}

func (a *AmendmentParser) processInstruction(prov Provision) (Status, *etree.Element) {
	text := prov.Text
	odq := pattern.OpenDoubleQuote

	opensQuote := text == odq ||
		(strings.HasPrefix(text, odq) && !strings.Contains(text[len(odq):], odq))
	if !opensQuote {
		// Connective boilerplate between the instruction sentence and
		// the quoted block; dropped from the main stream.
		return StatusConsumed, nil
	}

	a.state = stateConsumingContent
	modEID := a.nextModEID()
	a.currentMod = etree.NewElement("mod")
	a.currentMod.CreateAttr("eId", modEID)
	a.currentMod.CreateElement("quotedStructure").CreateAttr("startQuote", odq)

	a.metadata = append(a.metadata, akn.AmendmentMetadata{
		Kind:           akn.ModKind(a.details.Kind),
		SourceEID:      "#" + modEID,
		DestinationURI: a.destinationURI(a.details.DestinationText),
		Position:       a.details.Position,
	})

	// The old/new text of a block-form amendment is carried by the quoted
	// structure itself, so the opening quote character is stripped from
	// the first buffered node.
	if prov.XML != nil && strings.HasPrefix(prov.XML.Text(), odq) {
		prov.XML.SetText(strings.TrimPrefix(prov.XML.Text(), odq))
	}
	a.buffer = append(a.buffer, prov)
	return StatusConsumed, nil
}

func (a *AmendmentParser) processContent(prov Provision) (Status, *etree.Element) {
	if prov.Kind != KindQuoteEnd {
		a.buffer = append(a.buffer, prov)
		return StatusConsumed, nil
	}

	// Source documents occasionally end an amendment section with a stray
	// punctuation-plus-quote sequence; recover rather than abort.
	var qs *etree.Element
	if a.currentMod != nil {
		qs = a.currentMod.SelectElement("quotedStructure")
	}
	if qs == nil {
		a.log.Warn("quotation end without an open quoted structure; skipping closure",
			zap.String("section", a.sectionEID), zap.String("text", prov.Text))
		a.reset()
		return StatusConsumed, nil
	}

	endQuote := prov.Text
	if endQuote == "" {
		endQuote = pattern.CloseDoubleQuote
	}
	qs.CreateAttr("endQuote", endQuote)

	if len(a.buffer) > 0 {
		// A quoted block may itself contain nested subsections and
		// paragraphs; rebuild its internal structure under a synthetic
		// container and splice the children in.
		container := Provision{Kind: Kind("quoted"), XML: etree.NewElement("div")}
		built := buildHierarchy(append([]Provision{container}, a.buffer...), a.log)
		if built != nil {
			for _, child := range built.ChildElements() {
				qs.AddChild(child)
			}
		}
	}

	block := etree.NewElement("block")
	block.CreateAttr("name", "quotedStructure")
	block.AddChild(a.currentMod)

	a.modCounter++
	a.reset()
	return StatusCompletedBlock, block
}

func (a *AmendmentParser) reset() {
	a.state = stateIdle
	a.currentMod = nil
	a.details = nil
	a.buffer = nil
}

// processAmendments runs the state machine over a section's raw provisions
// and produces the filtered stream the hierarchy builder consumes. Completed
// blocks enter the stream as mod_block provisions at the position of the
// provision that triggered completion; completed inline mods are spliced
// into the most recent already-emitted provision carrying content, falling
// back to a top-level mod_block when none exists.
func processAmendments(a *AmendmentParser, raw []Provision, log *zap.Logger) ([]Provision, []akn.AmendmentMetadata) {
	var processed []Provision
	for _, prov := range raw {
		status, data := a.Process(prov)
		switch status {
		case StatusConsumed:
			continue
		case StatusCompletedBlock:
			processed = append(processed, Provision{
				Kind:     KindModBlock,
				Inserted: true,
				Layout:   prov.Layout,
				XML:      data,
				Index:    prov.Index,
			})
		case StatusCompletedInline:
			attached := false
			for j := len(processed) - 1; j >= 0; j-- {
				if processed[j].XML != nil {
					processed[j].XML.AddChild(data)
					attached = true
					break
				}
			}
			if !attached {
				processed = append(processed, Provision{
					Kind:     KindModBlock,
					Inserted: true,
					Layout:   prov.Layout,
					XML:      data,
					Index:    prov.Index,
				})
				log.Warn("inline modification had no prior provision to attach to; emitted as mod_block",
					zap.String("section", a.sectionEID))
			}
		default:
			processed = append(processed, prov)
		}
	}
	return processed, a.Metadata()
}
