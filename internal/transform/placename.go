package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	xtransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// placeSuffixes are Census legal/statistical area descriptions appended to
// place names ("Austin city", "Honolulu CDP"). Longest first.
var placeSuffixes = []string{
	"consolidated government",
	"metropolitan government",
	"unified government",
	"city and borough",
	"urban county",
	"municipality",
	"zona urbana",
	"comunidad",
	"borough",
	"village",
	"city",
	"town",
	"cdp",
}

// FoldName lower-cases s, strips diacritics and collapses whitespace, so that
// "San José" and "san jose" compare equal.
func FoldName(s string) string {
	t := xtransform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := xtransform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = cases.Fold().String(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// PlaceNameVariants returns the folded forms of a Census place NAME under which
// a city may be matched: the full place name without the ", State" suffix and,
// when present, the same name without its area description. "Austin city,
// Texas" yields "austin city" and "austin".
func PlaceNameVariants(censusName string) []string {
	name := censusName
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	full := FoldName(name)
	if full == "" {
		return nil
	}
	variants := []string{full}
	for _, suffix := range placeSuffixes {
		if strings.HasSuffix(full, " "+suffix) {
			stripped := strings.TrimSpace(strings.TrimSuffix(full, suffix))
			if stripped != "" {
				variants = append(variants, stripped)
			}
			break
		}
	}
	return variants
}
