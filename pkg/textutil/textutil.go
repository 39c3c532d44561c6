package textutil

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// strict elimina cualquier etiqueta HTML; es seguro para uso concurrente.
var strict = bluemonday.StrictPolicy()

// Clean quita etiquetas HTML, colapsa espacios y recorta. Las entidades se devuelven como texto plano
// ("O'Neil" sigue siendo "O'Neil").
func Clean(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// Fold normaliza para búsqueda: minúsculas y sin tildes ("Gómez" -> "gomez").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// NormalizeEmail recorta y pasa a minúsculas.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeDNI quita espacios y puntos ("12.345.678" -> "12345678").
func NormalizeDNI(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ContainsFolded indica si needle aparece en alguno de los campos, ignorando tildes y mayúsculas.
func ContainsFolded(needle string, fields ...string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), n) {
			return true
		}
	}
	return false
}
