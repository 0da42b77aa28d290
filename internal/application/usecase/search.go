package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var searchNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize baja a minúsculas y quita diacríticos para búsqueda
// acento-insensible ("García" -> "garcia").
func Normalize(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	out, _, err := transform.String(searchNormalizer, q)
	if err != nil {
		return q
	}
	return out
}
