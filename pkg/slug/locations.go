package slug

import "strings"

// locationNames maps canonical location slugs to their display names. Kept in
// sync with the locations the site exposes as browse pages.
var locationNames = map[string]string{
	"ubud":      "Ubud",
	"canggu":    "Canggu",
	"seminyak":  "Seminyak",
	"sanur":     "Sanur",
	"denpasar":  "Denpasar",
	"jimbaran":  "Jimbaran",
	"kuta":      "Kuta",
	"legian":    "Legian",
	"nusa-dua":  "Nusa Dua",
	"uluwatu":   "Uluwatu",
	"tabanan":   "Tabanan",
	"candidasa": "Candidasa",
	"amed":      "Amed",
	"lovina":    "Lovina",
	"pemuteran": "Pemuteran",
	"munduk":    "Munduk",
	"sidemen":   "Sidemen",
}

// LocationDisplayName converts a location slug to its display form, title-casing
// unknown slugs word by word.
func LocationDisplayName(locationSlug string) string {
	if name, ok := locationNames[locationSlug]; ok {
		return name
	}
	words := strings.Split(locationSlug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// LocationSlug converts a display name to its canonical slug, preferring the
// known mapping over generated slugs.
func LocationSlug(displayName string) string {
	for s, name := range locationNames {
		if strings.EqualFold(name, displayName) {
			return s
		}
	}
	return Base(displayName)
}
