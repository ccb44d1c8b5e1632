package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category discriminates the two listing kinds sharing the slug pipeline.
type Category string

const (
	CategoryStudio  Category = "studio"
	CategoryRetreat Category = "retreat"
)

const maxSlugLength = 100

// stripDiacritics decomposes to NFD and drops combining marks, so "Café" and
// "Cafe" produce the same slug.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Base normalizes free text into a URL-safe slug segment: lowercase ASCII
// letters and digits separated by single hyphens, at most 100 characters.
func Base(text string) string {
	lowered := strings.ToLower(text)

	decomposed, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		// Transform only fails on malformed UTF-8; the filter below drops
		// whatever is left over anyway.
		decomposed = lowered
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteByte('-')
		}
	}

	collapsed := collapseHyphens(b.String())
	if len(collapsed) > maxSlugLength {
		collapsed = strings.Trim(collapsed[:maxSlugLength], "-")
	}
	return collapsed
}

// Generate builds the canonical listing slug from name, location and category.
// It is a pure function: identical inputs always yield the identical slug.
// Same name in the same city yields the same slug; determinism is the contract,
// not uniqueness.
func Generate(name, location string, category Category) string {
	loc := Base(location)
	if loc == "" {
		loc = "bali"
	}
	composed := fmt.Sprintf("%s-%s-yoga-%s", Base(name), loc, category)
	// Concatenation can produce adjacent hyphens when a segment is empty.
	composed = collapseHyphens(composed)
	if len(composed) > maxSlugLength {
		composed = strings.Trim(composed[:maxSlugLength], "-")
	}
	return composed
}

// ForLocation normalizes a location name for use in location routes.
func ForLocation(location string) string {
	return Base(location)
}

// IsValid reports whether s matches the generated slug shape.
func IsValid(s string) bool {
	if s == "" || len(s) > maxSlugLength {
		return false
	}
	lastHyphen := true // disallow leading hyphen
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastHyphen = false
		case c == '-':
			if lastHyphen {
				return false
			}
			lastHyphen = true
		default:
			return false
		}
	}
	return !lastHyphen
}

// Parsed holds the components recovered from a generated listing slug.
type Parsed struct {
	Name     string
	Location string
	Category Category
}

// Parse splits a listing slug back into its components. Slugs that do not
// carry the "-yoga-studio"/"-yoga-retreat" suffix return the whole slug as
// Name with an empty Category.
func Parse(s string) Parsed {
	for _, category := range []Category{CategoryStudio, CategoryRetreat} {
		suffix := "-yoga-" + string(category)
		if !strings.HasSuffix(s, suffix) {
			continue
		}
		rest := strings.TrimSuffix(s, suffix)
		idx := strings.LastIndex(rest, "-")
		if idx < 0 {
			return Parsed{Name: rest, Category: category}
		}
		return Parsed{
			Name:     rest[:idx],
			Location: rest[idx+1:],
			Category: category,
		}
	}
	return Parsed{Name: s}
}

func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for i := 0; i < len(s); i++ {
		if s[i] == '-' {
			prevHyphen = true
			continue
		}
		if prevHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		prevHyphen = false
		b.WriteByte(s[i])
	}
	return b.String()
}
