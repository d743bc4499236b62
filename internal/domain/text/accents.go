package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// accentTable maps each base letter to the accented forms folded into it.
var accentTable = map[string]string{
	"a": "áàâäãåā",
	"c": "çćč",
	"e": "éèêëēę",
	"g": "ğ",
	"i": "íìîïī",
	"n": "ñń",
	"o": "óòôöõ",
	"u": "úùûü",
	"y": "ýÿ",
	"A": "ÁÀÂÄÃÅĀ",
	"C": "ÇĆČ",
	"E": "ÉÈÊËĒĘ",
	"G": "Ğ",
	"I": "ÍÌÎÏĪ",
	"N": "ÑŃ",
	"O": "ÓÒÔÖÕ",
	"U": "ÚÙÛÜ",
	"Y": "ÝŸ",
}

var accentReplacer = buildAccentReplacer()

func buildAccentReplacer() *strings.Replacer {
	var pairs []string
	for base, accented := range accentTable {
		for _, r := range accented {
			pairs = append(pairs, string(r), base)
		}
	}
	return strings.NewReplacer(pairs...)
}

// FoldAccents substitutes accented letters with their base letter. Input is
// composed to NFC first so decomposed sequences (e + U+0301) hit the table.
// Case is preserved; folding happens before lowercasing.
func FoldAccents(s string) string {
	return accentReplacer.Replace(norm.NFC.String(s))
}
