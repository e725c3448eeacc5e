// Package tags canonicalises the free-form tags on books and logs.
package tags

import (
	"regexp"
	"strings"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches anything but letters, digits and dashes in any script.
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// Slug converts user input to a canonical tag.
//
//	"Past Papers"   → "past-papers"
//	"past_papers"   → "past-papers"
//	"  英単語 "      → "英単語"
//	"★ Review!"     → "review"
func Slug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = disallowedRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Normalize slugs every tag, dropping empties and duplicates while keeping
// first-seen order. The result is never nil.
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		slug := Slug(raw)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out
}
