package helpers

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]`)
	spacesAndScores = regexp.MustCompile(`[\s_]+`)
	multiHyphen     = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a title: lowercased, accents stripped,
// whitespace collapsed to hyphens, suffixed with a unix timestamp for
// uniqueness.
func Slugify(title string) string {
	return SlugifyWithSuffix(title, fmt.Sprintf("%d", time.Now().UnixMilli()))
}

// SlugifyWithSuffix is Slugify with an explicit uniqueness suffix.
func SlugifyWithSuffix(title, suffix string) string {
	slug := strings.ToLower(title)

	// Strip diacritics: decompose, drop combining marks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, slug); err == nil {
		slug = stripped
	}

	slug = spacesAndScores.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = multiHyphen.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	return slug + "-" + suffix
}
