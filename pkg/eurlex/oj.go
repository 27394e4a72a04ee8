// Package eurlex converts Official Journal citations found in statute
// footnotes into EUR-Lex URIs.
package eurlex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coolbeans/actsetl/pkg/pattern"
)

const baseURL = "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri="

// URIFromCitation parses a footnote reference to the Official Journal of the
// EU (e.g. "OJ No. L123, 14.5.1998, p.1") into a EUR-Lex CELLAR URI.
// Returns "" when the text is not a recognisable OJ citation.
func URIFromCitation(lib *pattern.Library, citation string) string {
	condensed := strings.NewReplacer(".", "", " ", "").Replace(citation)
	ref, ok := lib.OJReference(condensed)
	if !ok {
		return ""
	}
	num, err := strconv.Atoi(ref.Number)
	if err != nil {
		return ""
	}
	page, err := strconv.Atoi(ref.Page)
	if err != nil {
		return ""
	}
	uri := fmt.Sprintf("uriserv:OJ.%s_.%s.%03d.01.%04d.01.ENG", ref.Series, ref.Year, num, page)
	return baseURL + uri
}
