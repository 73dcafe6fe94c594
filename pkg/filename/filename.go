// Package filename derives filesystem-safe names for fetched resources.
package filename

import (
	"mime"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord  = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	dashRuns = regexp.MustCompile(`[-\s]+`)
)

// asciiFold decomposes accented characters and drops anything outside ASCII.
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Slugify normalizes value into a lowercase token safe for any filesystem.
// Accented characters are folded to their ASCII base and remaining non-ASCII
// runes are dropped. Runs of whitespace and hyphens collapse to a single
// hyphen; leading and trailing hyphens and underscores are trimmed.
func Slugify(value string) string {
	folded, _, err := transform.String(asciiFold, value)
	if err != nil {
		folded = value
	}
	return slugify(folded)
}

// SlugifyUnicode is Slugify without the ASCII restriction: the value is
// NFKC-normalized and unicode letters and digits survive.
func SlugifyUnicode(value string) string {
	return slugify(norm.NFKC.String(value))
}

func slugify(value string) string {
	value = nonWord.ReplaceAllString(strings.ToLower(value), "")
	value = dashRuns.ReplaceAllString(value, "-")
	return strings.Trim(value, "-_")
}

// FromHeaders extracts the declared filename from a Content-Disposition
// response header. The second return is false when no filename is declared
// and the caller must fall back to a name derived from the source path.
func FromHeaders(headers http.Header) (string, bool) {
	disposition := headers.Get("Content-Disposition")
	if disposition == "" {
		return "", false
	}
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name, ok := params["filename"]; ok && name != "" {
			return name, true
		}
	}
	// Tolerate sloppy servers that emit bare filename= values the stdlib
	// parser rejects.
	if _, value, found := strings.Cut(disposition, "filename="); found {
		value = strings.TrimSpace(value)
		if i := strings.IndexByte(value, ';'); i >= 0 {
			value = value[:i]
		}
		value = strings.Trim(value, `"`)
		if value != "" {
			return value, true
		}
	}
	return "", false
}
