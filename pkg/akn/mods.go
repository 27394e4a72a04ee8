package akn

import (
	"github.com/beevik/etree"
)

// ModKind classifies a textual modification record.
type ModKind string

const (
	ModSubstitution ModKind = "substitution"
	ModInsertion    ModKind = "insertion"
)

// AmendmentMetadata describes one recognised textual amendment. Records are
// immutable values: they are accumulated per section during parsing and
// concatenated in document order by the body walk.
type AmendmentMetadata struct {
	Kind ModKind

	// SourceEID references the mod element carrying the amendment payload,
	// e.g. "#sect_3_mod_1".
	SourceEID string

	// DestinationURI is the URI-like fragment built from the instruction's
	// target description, e.g. "#principal_act/section_118__subsect_5".
	DestinationURI string

	// Position qualifies insertions ("after"); empty otherwise.
	Position string

	// OldText and NewText are set only for inline substitutions.
	OldText string
	NewText string
}

// BuildActiveModifications serializes amendment metadata into the
// activeModifications analysis block: one textualMod child per record with
// source/destination/old/new sub-elements as applicable.
func BuildActiveModifications(mods []AmendmentMetadata) *etree.Element {
	active := etree.NewElement("activeModifications")
	for _, m := range mods {
		tm := active.CreateElement("textualMod")
		tm.CreateAttr("type", string(m.Kind))
		tm.CreateElement("source").CreateAttr("href", m.SourceEID)
		dest := tm.CreateElement("destination")
		dest.CreateAttr("href", m.DestinationURI)
		if m.Position != "" {
			dest.CreateAttr("pos", m.Position)
		}
		if m.OldText != "" {
			tm.CreateElement("old").SetText(m.OldText)
		}
		if m.NewText != "" {
			tm.CreateElement("new").SetText(m.NewText)
		}
	}
	return active
}
