package metasift

// Article represents the metadata extracted from a news or blog page.
// Every field except URL is optional: a field that could not be resolved
// from any signal is left empty rather than guessed.
type Article struct {
	// URL is the final post-redirect URL of the page.
	URL string `json:"url"`

	// Source is the publishing site name (og:site_name and friends).
	Source string `json:"source"`

	Title  string `json:"title"`
	Author string `json:"author"`

	// PublishedAt carries the publication date as found on the page,
	// typically ISO 8601. The string is passed through without parsing
	// or validation.
	PublishedAt string `json:"published_at"`

	Description string `json:"description"`

	// Content holds cleaned paragraph text joined with blank lines.
	// It is a lead-in excerpt, not the full page body.
	Content string `json:"content"`

	// TopImage is the best single image for the page, as an absolute URL.
	TopImage string `json:"top_image"`

	// Images lists collected image URLs, absolute, ordered and deduplicated.
	Images []string `json:"images"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	return nil
}

// ArticleParser extracts an Article from an HTML document.
type ArticleParser interface {
	// ParseArticle reads signals from html and resolves them into a record.
	// Relative URLs are resolved against baseURL, which is also recorded as
	// the article URL. Missing or malformed signals leave fields empty;
	// only an unreadable document returns an error.
	ParseArticle(html, baseURL string) (*Article, error)
}
