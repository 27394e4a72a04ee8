// Package pattern provides the compiled text-matching rules used to classify
// eISB provisions and to recognise legislative amendment instructions.
//
// A Library is an immutable value: build one with NewLibrary and pass it by
// reference to the parsers that need it. No matcher in this package panics on
// unmatched input; every method returns a zero value or nil instead.
package pattern

import (
	"regexp"
	"strings"
)

// Curly quotation marks used by eISB to delimit inserted statutory text.
const (
	OpenDoubleQuote  = "“" // “
	CloseDoubleQuote = "”" // ”
	OpenSingleQuote  = "‘" // ‘
	CloseSingleQuote = "’" // ’
)

// MarkerKind identifies which provision-marker shape matched.
type MarkerKind string

const (
	MarkerSubsection MarkerKind = "subsection"
	MarkerParagraph  MarkerKind = "paragraph"
	MarkerClause     MarkerKind = "clause"
	MarkerSubclause  MarkerKind = "subclause"
)

// Marker is a matched provision marker at the start of a paragraph's text.
type Marker struct {
	Kind MarkerKind

	// Text is the full matched marker, including parentheses and any
	// leading curly quote, e.g. `“(1A)` or `(iv)`.
	Text string

	// End is the byte offset just past the match in the input string.
	// Stripping input[:End] and trimming leading whitespace yields the
	// provision's remaining prose.
	End int
}

// Identifier returns the marker reduced to its alphanumeric characters,
// lowercased, e.g. `“(1A)` -> "1a".
func (m Marker) Identifier() string {
	var b strings.Builder
	for _, r := range m.Text {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		} else if r >= 'A' && r <= 'Z' {
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// InstructionKind classifies an amendment instruction.
type InstructionKind string

const (
	Substitution InstructionKind = "substitution"
	Insertion    InstructionKind = "insertion"
)

// Instruction is a recognised amendment instruction phrase.
type Instruction struct {
	Kind InstructionKind

	// Inline is true when both the new and the old text appear as quoted
	// literals inside the instruction sentence itself.
	Inline  bool
	NewText string
	OldText string

	// Position qualifies insertions ("after") and is empty otherwise.
	Position string

	// DestinationText is the free-text description of the amendment
	// target, e.g. "section 118(5) of the Principal Act".
	DestinationText string
}

// Component is one (label, identifier) pair decomposed from destination text.
type Component struct {
	Label string // section, subsect or paragraph
	ID    string
}

// OJRef is a parsed citation of the Official Journal of the EU.
type OJRef struct {
	Series string
	Number string
	Year   string
	Page   string
}

// Library holds the compiled matchers. Construct with NewLibrary.
type Library struct {
	subsection *regexp.Regexp
	paragraph  *regexp.Regexp
	clause     *regexp.Regexp
	subclause  *regexp.Regexp

	inlineSubstitution *regexp.Regexp
	substitution       *regexp.Regexp
	insertionAfter     *regexp.Regexp
	insertionSimple    *regexp.Regexp

	destination *regexp.Regexp
	ojReference *regexp.Regexp
}

// NewLibrary compiles the full matcher set.
func NewLibrary() *Library {
	// A marker may carry a leading curly quote when the marker itself is
	// part of inserted text.
	const q = "[“”]?"
	return &Library{
		subsection: regexp.MustCompile(`^\s?(` + q + `\(\d+[A-Z]*\))`),
		paragraph:  regexp.MustCompile(`^\s?(` + q + `\([a-z]+\))`),
		clause:     regexp.MustCompile(`^\s?(` + q + `\([IVX]+\))`),
		subclause:  regexp.MustCompile(`^\s?(` + q + `\([A-Z]+\))`),

		inlineSubstitution: regexp.MustCompile(
			`by the substitution of (["'\x{201c}\x{201d}\x{2018}\x{2019}][^"'\x{201c}\x{201d}\x{2018}\x{2019}]+["'\x{201c}\x{201d}\x{2018}\x{2019}]) for (["'\x{201c}\x{201d}\x{2018}\x{2019}][^"'\x{201c}\x{201d}\x{2018}\x{2019}]+["'\x{201c}\x{201d}\x{2018}\x{2019}])`),
		substitution:    regexp.MustCompile(`(?i)by the substitution of .* for (.+)`),
		insertionAfter:  regexp.MustCompile(`(?i)by the insertion of .* after (.+)`),
		insertionSimple: regexp.MustCompile(`(?i)by the insertion of the following definitions:`),

		destination: regexp.MustCompile(`(section|subsect|paragraph) (\w+)`),
		ojReference: regexp.MustCompile(`OJ(No)?(?P<series>[CL])(?P<number>\d+),\d+(?P<year>\d{4}),?p(?P<page>\d+)`),
	}
}

// MatchMarker identifies a provision marker at the start of text. The four
// shapes are tried in a fixed order: subsection, paragraph, clause,
// subclause. The first match wins; ok is false when none matches.
func (l *Library) MatchMarker(text string) (Marker, bool) {
	for _, c := range []struct {
		kind MarkerKind
		re   *regexp.Regexp
	}{
		{MarkerSubsection, l.subsection},
		{MarkerParagraph, l.paragraph},
		{MarkerClause, l.clause},
		{MarkerSubclause, l.subclause},
	} {
		if loc := c.re.FindStringSubmatchIndex(text); loc != nil {
			return Marker{
				Kind: c.kind,
				Text: text[loc[2]:loc[3]],
				End:  loc[1],
			}, true
		}
	}
	return Marker{}, false
}

// StripMarker removes a matched marker from the front of text and trims
// leading whitespace from what remains.
func StripMarker(text string, m Marker) string {
	if m.End > len(text) {
		return ""
	}
	return strings.TrimLeft(text[m.End:], " \t\n\u00a0")
}

const instructionQuoteCutset = `"'` + "“”‘’"

// MatchInstruction tests text against the amendment instruction phrases.
// The patterns are tried in priority order and the first match wins; the
// ordering is a correctness requirement, because the general substitution
// pattern also matches every inline substitution sentence.
func (l *Library) MatchInstruction(text string) *Instruction {
	if m := l.inlineSubstitution.FindStringSubmatch(text); m != nil {
		return &Instruction{
			Kind:    Substitution,
			Inline:  true,
			NewText: strings.Trim(m[1], instructionQuoteCutset),
			OldText: strings.Trim(m[2], instructionQuoteCutset),
		}
	}
	if m := l.substitution.FindStringSubmatch(text); m != nil {
		return &Instruction{
			Kind:            Substitution,
			DestinationText: strings.Trim(m[1], ":"),
		}
	}
	if m := l.insertionAfter.FindStringSubmatch(text); m != nil {
		return &Instruction{
			Kind:            Insertion,
			Position:        "after",
			DestinationText: strings.Trim(m[1], ":"),
		}
	}
	if l.insertionSimple.MatchString(text) {
		return &Instruction{Kind: Insertion}
	}
	return nil
}

// DestinationComponents extracts every (label, identifier) pair from free
// destination text. Callers lowercase the text and rewrite "subsection" to
// "subsect" before decomposition.
func (l *Library) DestinationComponents(text string) []Component {
	var out []Component
	for _, m := range l.destination.FindAllStringSubmatch(text, -1) {
		out = append(out, Component{Label: m[1], ID: m[2]})
	}
	return out
}

// OJReference parses a condensed Official Journal citation such as
// "OJNoL123,141998,p1". Whitespace and dots must already be removed.
func (l *Library) OJReference(text string) (OJRef, bool) {
	m := l.ojReference.FindStringSubmatch(text)
	if m == nil {
		return OJRef{}, false
	}
	ref := OJRef{}
	for i, name := range l.ojReference.SubexpNames() {
		switch name {
		case "series":
			ref.Series = m[i]
		case "number":
			ref.Number = m[i]
		case "year":
			ref.Year = m[i]
		case "page":
			ref.Page = m[i]
		}
	}
	return ref, true
}
