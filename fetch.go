package metasift

import "context"

// FetchResult holds a successfully fetched page.
type FetchResult struct {
	// HTML is the response body decoded to UTF-8.
	HTML string

	// FinalURL is the request URL after following redirects.
	FinalURL string

	// Header holds the response headers with lowercased keys.
	// Only the first value of each header is retained.
	Header map[string]string
}

// Fetcher retrieves HTML pages over the network.
// Implementations are expected to retry transient failures before giving up.
type Fetcher interface {
	// Fetch retrieves the page at url.
	// The context controls timeout and cancellation, including the sleeps
	// between retry attempts.
	// Returns EUNAVAILABLE after exhausting retries on transport failures
	// and EHTTP for status failures (carrying the status code).
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
