// Package transform normalizes raw eISB XML before parsing. Act XML on the
// statute book encodes fadas, curly quotes and the euro sign as empty DTD
// elements; these become literal UTF-8 characters, and the whole document is
// normalized to NFC so downstream string matching sees one representation.
package transform

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// entity element name -> literal replacement.
var entities = map[string]string{
	"afada": "á", "efada": "é", "ifada": "í", "ofada": "ó", "ufada": "ú",
	"Afada": "Á", "Efada": "É", "Ifada": "Í", "Ofada": "Ó", "Ufada": "Ú",
	"euro":  "€",
	"odq":   "“",
	"cdq":   "”",
	"osq":   "‘",
	"csq":   "’",
}

var replacer = newReplacer()

func newReplacer() *strings.Replacer {
	var pairs []string
	for name, lit := range entities {
		// Self-closing with and without a space, and the empty pair form.
		pairs = append(pairs,
			"<"+name+"/>", lit,
			"<"+name+" />", lit,
			"<"+name+"></"+name+">", lit,
		)
	}
	return strings.NewReplacer(pairs...)
}

// Normalize replaces DTD character elements with their literal characters and
// returns the document in Unicode NFC form.
func Normalize(src []byte) []byte {
	return norm.NFC.Bytes([]byte(replacer.Replace(string(src))))
}
