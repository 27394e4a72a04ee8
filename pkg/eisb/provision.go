// Package eisb reconstructs explicit legal-document structure from the flat,
// layout-driven XML published on the electronic Irish Statute Book. It
// classifies source paragraphs into provisions, tracks amendment language to
// extract quoted inserted/substituted text, and reassembles the classified
// stream into a nested Akoma Ntoso fragment.
package eisb

import (
	"github.com/beevik/etree"
)

// Kind is the closed set of provision classifications.
type Kind string

const (
	KindPart         Kind = "part"
	KindChapter      Kind = "chapter"
	KindSection      Kind = "section"
	KindSubsection   Kind = "subsection"
	KindParagraph    Kind = "paragraph"
	KindSubparagraph Kind = "subparagraph"
	KindClause       Kind = "clause"
	KindSubclause    Kind = "subclause"
	KindSchedule     Kind = "schedule"
	KindArticle      Kind = "article"

	// KindTable and KindTBlock are inline content, not structural levels.
	KindTable  Kind = "table"
	KindTBlock Kind = "tblock"

	// KindModBlock is a completed amendment block produced by the
	// amendment parser.
	KindModBlock Kind = "mod_block"

	// KindQuoteStart and KindQuoteEnd mark quotation boundaries. Start
	// boundaries are recognised positionally by the amendment parser;
	// the classifier only ever emits end markers.
	KindQuoteStart Kind = "quotestart"
	KindQuoteEnd   Kind = "quoteend"
)

// levels is the canonical structural ordering, shallowest first. Kinds not
// listed here sort after all of these (depth-first leaves).
var levels = []Kind{
	KindPart, KindChapter, KindSection, KindSubsection,
	KindParagraph, KindSubparagraph, KindClause, KindSubclause,
}

// levelOf returns the structural depth index of a kind, or len(levels) for
// inline and unrecognised kinds.
func levelOf(k Kind) int {
	switch k {
	case KindPart:
		return 0
	case KindChapter:
		return 1
	case KindSection:
		return 2
	case KindSubsection:
		return 3
	case KindParagraph:
		return 4
	case KindSubparagraph:
		return 5
	case KindClause:
		return 6
	case KindSubclause:
		return 7
	default:
		return len(levels)
	}
}

// isInlineContainer reports whether a kind is appended into the current
// element's content container rather than opening a structural level.
func isInlineContainer(k Kind) bool {
	switch k {
	case KindTable, KindTBlock, KindModBlock:
		return true
	default:
		return false
	}
}

// Layout carries the typographic attributes of a source paragraph. eISB
// encodes them as the first, second and fourth tokens of a six-token class
// string; they drive structural-level disambiguation.
type Layout struct {
	Hanging int
	Margin  int
	Align   string
}

// defaultLayout is used when the class descriptor is absent or malformed.
var defaultLayout = Layout{Hanging: 0, Margin: 0, Align: "left"}

// Layout unit thresholds tuned to eISB typography.
const (
	// insertedSectionThreshold: a bold run indented past this combined
	// hanging+margin is an inserted (amendment-quoted) section heading.
	insertedSectionThreshold = 8

	// paragraphMarginThreshold is the margin at which letter markers are
	// ordinary paragraphs.
	paragraphMarginThreshold = 14

	// subparagraphMarginThreshold is the margin of roman-numeral
	// subparagraphs nested one level deeper.
	subparagraphMarginThreshold = 17
)

// Provision is one classified unit of source content: the intermediate
// representation between the flat eISB stream and the nested output tree.
type Provision struct {
	Kind Kind

	// EID is the local identifier fragment, e.g. "subsect_1a". It is
	// unique only within the enclosing section until the hierarchy
	// builder prefixes it with its ancestors.
	EID string

	// Inserted is true when the provision is text introduced by an
	// amendment (inside a quotation).
	Inserted bool

	Layout Layout

	// XML is the transformed element for this provision; nil for
	// boundary markers.
	XML *etree.Element

	// Text is the flattened source text, used for marker matching and
	// amendment-instruction detection.
	Text string

	// Index is the monotonic position among provisions of the same
	// section, used to re-associate inline amendment output with its
	// originating provision.
	Index int
}
