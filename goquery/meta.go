package goquery

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// metaContent returns the content attribute of the first meta tag matching
// any of the given keys, checked in order. Each key is looked up as a
// property attribute first, then as a name attribute, which covers both
// OpenGraph-style and plain meta tags.
func metaContent(doc *goquery.Document, keys ...string) string {
	for _, key := range keys {
		for _, attr := range []string{"property", "name"} {
			sel := doc.Find(fmt.Sprintf(`meta[%s=%q]`, attr, key)).First()
			if content, ok := sel.Attr("content"); ok && content != "" {
				return content
			}
		}
	}
	return ""
}
