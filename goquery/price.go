package goquery

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/siftworks/metasift"
)

// Compile-time interface verification.
var _ metasift.PriceParser = (*PriceParser)(nil)

// PriceParser implements metasift.PriceParser on goquery. Price signals
// are resolved from structured data first, then from a chain of known
// price element selectors, and finally from a split whole/fraction
// element pair.
type PriceParser struct {
	// now stamps the observation; overridable in tests.
	now func() time.Time
}

// NewPriceParser creates a new PriceParser.
func NewPriceParser() *PriceParser {
	return &PriceParser{now: time.Now}
}

// priceSelectors are the known price elements, tried in order. The first
// one with non-empty text or a content attribute wins.
var priceSelectors = []string{
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	"#priceblock_saleprice",
	".a-price .a-offscreen",
	"#corePrice_feature_div .a-offscreen",
}

// availabilitySelectors are tried in order for the stock message.
var availabilitySelectors = []string{
	"#availability .a-color-success",
	"#availability .a-color-price",
	"#availability",
}

// priceTypes are the schema.org types accepted as product objects.
var priceTypes = []string{"product", "offer"}

// priceLD holds the signals read from the first structured-data object
// describing a product or offer.
type priceLD struct {
	price    float64
	priceOK  bool
	currency string
	name     string
	sku      string
}

func extractPriceLD(doc *goquery.Document) priceLD {
	obj := firstOfType(jsonldObjects(doc), priceTypes...)
	if obj == nil {
		return priceLD{}
	}

	// The offers field may be a single offer, a list of offers, or absent
	// entirely when the matched object is itself an offer.
	offers := obj
	switch v := obj["offers"].(type) {
	case map[string]any:
		offers = v
	case []any:
		if first := firstObject(v); first != nil {
			offers = first
		}
	}

	ld := priceLD{
		currency: asString(offers["priceCurrency"]),
		name:     asString(obj["name"]),
	}
	if v, ok := amount(offers["price"]); ok {
		ld.price, ld.priceOK = v, true
	} else if v, ok := amount(offers["lowPrice"]); ok {
		ld.price, ld.priceOK = v, true
	}
	if sku := metasift.FirstNonEmpty(asString(obj["sku"]), asString(obj["mpn"])); metasift.ValidASIN(sku) {
		ld.sku = sku
	}
	return ld
}

// ParsePrice extracts a PriceInfo from html, resolving the observation URL
// from baseURL and stamping it with the current UTC time. Missing or
// malformed signals leave fields empty; only an unreadable document is an
// error.
func (p *PriceParser) ParsePrice(html, baseURL string) (*metasift.PriceInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, metasift.Errorf(metasift.EINVALID, "failed to parse HTML: %v", err)
	}

	ld := extractPriceLD(doc)

	info := &metasift.PriceInfo{
		URL:          baseURL,
		ASIN:         resolveASIN(doc, baseURL, ld.sku),
		Availability: availability(doc),
		Timestamp:    p.now().UTC(),
	}

	// Title: product title element, then og:title; a structured-data name
	// always wins when present.
	info.Title = metasift.FirstNonEmpty(
		ld.name,
		doc.Find("#productTitle").First().Text(),
		metaContent(doc, "og:title"),
	)

	if ld.priceOK {
		info.Price = &ld.price
	} else {
		v, symbol, ok := selectorPrice(doc)
		info.Symbol = symbol
		if ok {
			info.Price = &v
		} else if v, ok := splitPrice(doc); ok {
			info.Price = &v
		}
	}

	// Currency comes from structured data when available, from the symbol
	// table otherwise; it is never guessed.
	info.Currency = metasift.CleanText(ld.currency)
	if info.Currency == "" && info.Symbol != "" {
		info.Currency = metasift.CurrencyCode(info.Symbol)
	}

	return info, nil
}

// resolveASIN finds the product identifier: URL path first, then hidden
// form inputs, then data-asin attributes, then the structured-data sku.
func resolveASIN(doc *goquery.Document, baseURL, sku string) string {
	if asin := metasift.ASINFromURL(baseURL); asin != "" {
		return asin
	}
	if v, ok := doc.Find(`input[name="ASIN"], input#ASIN`).First().Attr("value"); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	var fromAttr string
	doc.Find("[data-asin]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		v, _ := sel.Attr("data-asin")
		if metasift.ValidASIN(v) {
			fromAttr = v
			return false
		}
		return true
	})
	if fromAttr != "" {
		return fromAttr
	}
	return sku
}

// selectorPrice walks the price selector chain and parses the first
// element carrying usable text. A recognized symbol is reported even when
// the amount itself fails to parse.
func selectorPrice(doc *goquery.Document) (value float64, symbol string, ok bool) {
	for _, sel := range priceSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := metasift.CleanText(el.Text())
		if text == "" {
			content, _ := el.Attr("content")
			text = metasift.CleanText(content)
		}
		if text == "" {
			continue
		}
		v, sym, parsed := metasift.ParsePrice(text)
		if parsed && v >= 0 {
			return v, sym, true
		}
		return 0, sym, false
	}
	return 0, "", false
}

// splitPrice reconstructs a price from the split whole/fraction element
// pair some product pages use, as whole.fraction with the fraction
// zero-padded to two digits.
func splitPrice(doc *goquery.Document) (float64, bool) {
	whole := digitsOf(doc.Find(".a-price .a-price-whole").First().Text())
	if whole == "" {
		return 0, false
	}
	frac := digitsOf(doc.Find(".a-price .a-price-fraction").First().Text())
	f := 0
	if frac != "" {
		n, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		f = n
	}
	v, err := strconv.ParseFloat(fmt.Sprintf("%s.%02d", whole, f), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// availability returns the cleaned stock message, most specific selector
// first.
func availability(doc *goquery.Document) string {
	for _, sel := range availabilitySelectors {
		if text := metasift.CleanText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
