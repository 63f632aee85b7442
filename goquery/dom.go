package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/siftworks/metasift"
)

// contentThreshold is the accumulated paragraph length after which no
// further containers are scanned for body text.
const contentThreshold = 500

// domTitle returns the document title, falling back to the first heading.
func domTitle(doc *goquery.Document) string {
	return metasift.FirstNonEmpty(
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)
}

// domContent builds a lead-in excerpt from the page body. It scans article
// and main containers (the body when a page has neither), collecting every
// paragraph's cleaned text, and stops before the next container once the
// accumulated length passes the threshold. Paragraphs are joined with a
// blank line.
func domContent(doc *goquery.Document) string {
	containers := doc.Find("article, main")
	if containers.Length() == 0 {
		containers = doc.Find("body")
	}

	var paras []string
	var total int
	containers.EachWithBreak(func(_ int, container *goquery.Selection) bool {
		container.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := metasift.CleanText(p.Text()); text != "" {
				paras = append(paras, text)
				total += len(text)
			}
		})
		return total <= contentThreshold
	})

	return strings.Join(paras, "\n\n")
}

// domImages collects image URLs from img tags inside article and main
// containers, in document order. Lazy-loaded images carry their URL in
// data-src instead of src.
func domImages(doc *goquery.Document) []string {
	var urls []string
	doc.Find("article img, main img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		if src != "" {
			urls = append(urls, src)
		}
	})
	return urls
}
