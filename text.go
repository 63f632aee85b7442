package metasift

import (
	"net/url"
	"strings"
)

// CleanText collapses every run of Unicode whitespace (including
// non-breaking spaces) to a single space and trims the ends.
// Returns "" when nothing remains.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FirstNonEmpty returns the first value that still has content after
// cleaning, in cleaned form. It is the ordered-fallback rule used to
// resolve every record field from its prioritized signals.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if c := CleanText(v); c != "" {
			return c
		}
	}
	return ""
}

// ResolveURL resolves ref against base using standard URL join semantics.
// Absolute refs pass through unchanged; empty or unparsable input
// resolves to "".
func ResolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

// DedupeStrings removes duplicates by exact string equality, preserving
// first-seen order.
func DedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
