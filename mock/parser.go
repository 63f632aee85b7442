package mock

import "github.com/siftworks/metasift"

var _ metasift.ArticleParser = (*ArticleParser)(nil)

// ArticleParser is a mock implementation of metasift.ArticleParser.
type ArticleParser struct {
	ParseArticleFn func(html, baseURL string) (*metasift.Article, error)
}

func (p *ArticleParser) ParseArticle(html, baseURL string) (*metasift.Article, error) {
	return p.ParseArticleFn(html, baseURL)
}

var _ metasift.PriceParser = (*PriceParser)(nil)

// PriceParser is a mock implementation of metasift.PriceParser.
type PriceParser struct {
	ParsePriceFn func(html, baseURL string) (*metasift.PriceInfo, error)
}

func (p *PriceParser) ParsePrice(html, baseURL string) (*metasift.PriceInfo, error) {
	return p.ParsePriceFn(html, baseURL)
}
