// Package goquery implements the record parsers on PuerkitoBio/goquery.
// Each parser reads independent signals from a document (JSON-LD
// structured data, social meta tags, DOM heuristics) and resolves one
// value per field in a fixed priority order.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/siftworks/metasift"
)

// Compile-time interface verification.
var _ metasift.ArticleParser = (*ArticleParser)(nil)

// ArticleParser implements metasift.ArticleParser on goquery. Signals are
// read from JSON-LD structured data, OpenGraph/Twitter meta tags and DOM
// heuristics, then resolved per field in that priority order.
type ArticleParser struct{}

// NewArticleParser creates a new ArticleParser.
func NewArticleParser() *ArticleParser {
	return &ArticleParser{}
}

// articleLD holds the signals read from the first structured-data object
// describing an article. The zero value means no such object was found.
type articleLD struct {
	title       string
	author      string
	published   string
	description string
	image       string
}

// articleTypes are the schema.org types accepted as article objects.
var articleTypes = []string{"article", "newsarticle", "blogposting"}

func extractArticleLD(doc *goquery.Document) articleLD {
	obj := firstOfType(jsonldObjects(doc), articleTypes...)
	if obj == nil {
		return articleLD{}
	}
	return articleLD{
		title: metasift.FirstNonEmpty(
			asString(obj["headline"]),
			nameOf(obj["name"]),
		),
		author: joinedNames(obj["author"]),
		published: metasift.FirstNonEmpty(
			asString(obj["datePublished"]),
			asString(obj["dateCreated"]),
			asString(obj["dateModified"]),
		),
		description: textOf(obj["description"]),
		image:       imageURL(obj["image"]),
	}
}

// ParseArticle extracts an Article from html, resolving relative URLs
// against baseURL. Missing or malformed signals leave fields empty; only
// an unreadable document is an error.
func (p *ArticleParser) ParseArticle(html, baseURL string) (*metasift.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, metasift.Errorf(metasift.EINVALID, "failed to parse HTML: %v", err)
	}

	ld := extractArticleLD(doc)

	// Image candidates: structured data, then social meta tags, then img
	// tags inside article/main containers. All resolved against the final
	// URL, deduplicated preserving first-seen order.
	candidates := []string{
		ld.image,
		metaContent(doc, "og:image"),
		metaContent(doc, "twitter:image"),
	}
	candidates = append(candidates, domImages(doc)...)
	var images []string
	for _, c := range candidates {
		if resolved := metasift.ResolveURL(baseURL, metasift.CleanText(c)); resolved != "" {
			images = append(images, resolved)
		}
	}
	images = metasift.DedupeStrings(images)

	topImage := metasift.FirstNonEmpty(
		metasift.ResolveURL(baseURL, metasift.CleanText(ld.image)),
		metasift.ResolveURL(baseURL, metasift.CleanText(metaContent(doc, "og:image"))),
	)
	if topImage == "" && len(images) > 0 {
		topImage = images[0]
	}

	return &metasift.Article{
		URL:    baseURL,
		Source: metasift.FirstNonEmpty(metaContent(doc, "og:site_name", "application-name", "twitter:site")),
		Title: metasift.FirstNonEmpty(
			ld.title,
			metaContent(doc, "og:title", "twitter:title"),
			domTitle(doc),
		),
		Author: metasift.FirstNonEmpty(
			ld.author,
			metaContent(doc, "author", "article:author"),
		),
		PublishedAt: metasift.FirstNonEmpty(
			ld.published,
			metaContent(doc, "article:published_time", "pubdate", "date", "og:updated_time"),
		),
		Description: metasift.FirstNonEmpty(
			ld.description,
			metaContent(doc, "og:description", "twitter:description"),
		),
		Content:  domContent(doc),
		TopImage: topImage,
		Images:   images,
	}, nil
}
