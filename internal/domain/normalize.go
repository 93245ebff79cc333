package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback slugs used when normalization leaves nothing behind.
const (
	DefaultEventSlug    = "event"
	DefaultSourceSlug   = "source"
	DefaultTagSlug      = "tag"
	DefaultTimelineSlug = "timeline"
)

// NormalizeText prepares text for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of whitespace into one space
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Slugify turns free text into a URL slug: the text is decomposed (NFD),
// combining marks are dropped, letters are lowercased, every run of
// non-alphanumeric characters becomes a single hyphen and leading/trailing
// hyphens are trimmed. An empty result yields fallback.
func Slugify(text, fallback string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingHyphen := false
	for _, r := range strings.ToLower(stripped) {
		if isSlugRune(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// isSlugRune keeps ASCII letters and digits only; anything else separates.
func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// NormalizeSpace trims text and collapses inner whitespace runs, keeping case.
func NormalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
