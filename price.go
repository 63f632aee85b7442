package metasift

import (
	"context"
	"regexp"
	"time"
)

// PriceInfo represents one observation of a product page: its identity,
// price state and availability at the moment of extraction. Records are
// immutable once assembled.
type PriceInfo struct {
	URL string `json:"url"`

	// ASIN is the product identifier, usually ten uppercase letters and
	// digits, taken from the URL path or the page itself.
	ASIN string `json:"asin"`

	Title string `json:"title"`

	// Price is nil when no price could be parsed from any signal.
	// A parsed price is never negative.
	Price *float64 `json:"price"`

	// Currency is the ISO 4217 code, set only when structured data
	// supplied one or the symbol maps to a known code.
	Currency string `json:"currency"`

	// Symbol is the raw currency glyph as it appeared in the price text.
	Symbol string `json:"symbol"`

	Availability string `json:"availability"`

	// Timestamp records when the observation was resolved, in UTC.
	// It is always set; it is never read from the page.
	Timestamp time.Time `json:"timestamp"`
}

// Validate returns an error if the price observation contains invalid fields.
func (p *PriceInfo) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "price observation URL required")
	}
	if p.Price != nil && *p.Price < 0 {
		return Errorf(EINVALID, "price cannot be negative")
	}
	if p.Timestamp.IsZero() {
		return Errorf(EINVALID, "price observation timestamp required")
	}
	return nil
}

// PriceParser extracts a PriceInfo from an HTML document.
type PriceParser interface {
	// ParsePrice reads price signals from html and resolves them into an
	// observation stamped with the current time. Relative URLs are resolved
	// against baseURL, which is also recorded as the observation URL.
	// Missing or malformed signals leave fields empty; only an unreadable
	// document returns an error.
	ParsePrice(html, baseURL string) (*PriceInfo, error)
}

// PriceWriter persists price observations.
type PriceWriter interface {
	RecordPrice(ctx context.Context, info *PriceInfo) error
}

// PriceService stores price observations and answers history queries.
type PriceService interface {
	// RecordPrice appends an observation to the history.
	RecordPrice(ctx context.Context, info *PriceInfo) error

	// RecordChange appends info only if it differs from the most recent
	// observation for the same URL. Reports whether a row was written.
	RecordChange(ctx context.Context, info *PriceInfo) (bool, error)

	// LastPrice retrieves the most recent observation for a URL.
	// Returns ENOTFOUND if no observation exists.
	LastPrice(ctx context.Context, url string) (*PriceInfo, error)

	// FindPrices retrieves observations matching the filter, newest first.
	FindPrices(ctx context.Context, filter PriceFilter) ([]*PriceInfo, error)
}

// PriceFilter represents a filter for FindPrices.
type PriceFilter struct {
	URL  *string `json:"url"`
	ASIN *string `json:"asin"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

var (
	asinPathRE = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})(?:/|\?|$)`)
	asinRE     = regexp.MustCompile(`^[A-Z0-9]{10}$`)
)

// ASINFromURL extracts the product identifier from URL path patterns like
// /dp/B08N5WRWNW/ and /gp/product/B08N5WRWNW. Returns "" when the URL does
// not carry one.
func ASINFromURL(rawurl string) string {
	m := asinPathRE.FindStringSubmatch(rawurl)
	if m == nil {
		return ""
	}
	return m[1]
}

// ValidASIN reports whether s is exactly ten uppercase letters or digits.
func ValidASIN(s string) bool {
	return asinRE.MatchString(s)
}
