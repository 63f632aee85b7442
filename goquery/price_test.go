package goquery_test

import (
	"testing"
	"time"

	"github.com/siftworks/metasift/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceParser_ParsePrice(t *testing.T) {
	t.Parallel()

	parser := goquery.NewPriceParser()

	t.Run("extracts price and currency from structured data offers", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script type="application/ld+json">
{"@type": "Product", "name": "Widget Deluxe", "offers": {"price": "19.99", "priceCurrency": "USD"}}
</script></head><body></body></html>`

		info, err := parser.ParsePrice(html, "https://www.example.com/dp/B08N5WRWNW/")

		require.NoError(t, err)
		require.NotNil(t, info.Price)
		assert.Equal(t, 19.99, *info.Price)
		assert.Equal(t, "USD", info.Currency)
		assert.Equal(t, "Widget Deluxe", info.Title)
		assert.Equal(t, "B08N5WRWNW", info.ASIN)
		assert.False(t, info.Timestamp.IsZero())
		assert.Equal(t, time.UTC, info.Timestamp.Location())
	})

	t.Run("falls back to lowPrice and the first offer in a list", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script type="application/ld+json">
{"@type": "Product", "offers": [{"lowPrice": 12.5, "priceCurrency": "EUR"}, {"price": 99}]}
</script></head><body></body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")

		require.NoError(t, err)
		require.NotNil(t, info.Price)
		assert.Equal(t, 12.5, *info.Price)
		assert.Equal(t, "EUR", info.Currency)
	})

	t.Run("structured-data name overrides the product title element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script type="application/ld+json">
{"@type": "Product", "name": "LD Name"}
</script></head><body><span id="productTitle"> Page Title </span></body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")

		require.NoError(t, err)
		assert.Equal(t, "LD Name", info.Title)
	})

	t.Run("uses the selector chain when structured data has no price", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<span id="productTitle">Widget</span>
<span id="priceblock_ourprice">$1,234.56</span>
<span class="a-price"><span class="a-offscreen">$9.99</span></span>
</body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")

		require.NoError(t, err)
		require.NotNil(t, info.Price)
		assert.Equal(t, 1234.56, *info.Price)
		assert.Equal(t, "$", info.Symbol)
		assert.Equal(t, "USD", info.Currency)
		assert.Equal(t, "Widget", info.Title)
	})

	t.Run("reads a price from the content attribute when text is empty", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><span id="priceblock_ourprice" content="£12.34"></span></body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")

		require.NoError(t, err)
		require.NotNil(t, info.Price)
		assert.Equal(t, 12.34, *info.Price)
		assert.Equal(t, "£", info.Symbol)
		assert.Equal(t, "GBP", info.Currency)
	})

	t.Run("reconstructs a split whole and fraction pair", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><span class="a-price">
<span class="a-price-whole">1,299</span><span class="a-price-fraction">5</span>
</span></body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")

		require.NoError(t, err)
		require.NotNil(t, info.Price)
		assert.Equal(t, 1299.05, *info.Price)
	})

	t.Run("split pair without a fraction implies zero cents", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><span class="a-price">
<span class="a-price-whole">42</span>
</span></body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")

		require.NoError(t, err)
		require.NotNil(t, info.Price)
		assert.Equal(t, 42.0, *info.Price)
	})

	t.Run("extracts ASIN from hidden input and data attributes", func(t *testing.T) {
		t.Parallel()

		fromInput := `<html><body><input name="ASIN" value="B000000001"></body></html>`
		info, err := parser.ParsePrice(fromInput, "https://example.com/p")
		require.NoError(t, err)
		assert.Equal(t, "B000000001", info.ASIN)

		fromAttr := `<html><body><div data-asin="not-an-asin"></div><div data-asin="B000000002"></div></body></html>`
		info, err = parser.ParsePrice(fromAttr, "https://example.com/p")
		require.NoError(t, err)
		assert.Equal(t, "B000000002", info.ASIN)
	})

	t.Run("accepts structured-data sku as ASIN only when well-formed", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script type="application/ld+json">
{"@type": "Product", "sku": "B000000003"}
</script></head><body></body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")
		require.NoError(t, err)
		assert.Equal(t, "B000000003", info.ASIN)

		malformed := `<html><head><script type="application/ld+json">
{"@type": "Product", "sku": "too-short"}
</script></head><body></body></html>`

		info, err = parser.ParsePrice(malformed, "https://example.com/p")
		require.NoError(t, err)
		assert.Empty(t, info.ASIN)
	})

	t.Run("picks the most specific availability message", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="availability">
<span class="a-color-success"> In Stock. </span>
<span class="a-color-price">Only 2 left</span>
</div></body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")

		require.NoError(t, err)
		assert.Equal(t, "In Stock.", info.Availability)
	})

	t.Run("leaves price absent when no signal yields one", func(t *testing.T) {
		t.Parallel()

		info, err := parser.ParsePrice("<html><body><p>No price here.</p></body></html>", "https://example.com/p")

		require.NoError(t, err)
		assert.Nil(t, info.Price)
		assert.Empty(t, info.Currency)
		assert.Empty(t, info.Symbol)
	})

	t.Run("currency is never guessed without structured data or a known symbol", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><span id="priceblock_ourprice">1.234,56</span></body></html>`

		info, err := parser.ParsePrice(html, "https://example.com/p")

		require.NoError(t, err)
		require.NotNil(t, info.Price)
		assert.Equal(t, 1234.56, *info.Price)
		assert.Empty(t, info.Symbol)
		assert.Empty(t, info.Currency)
	})
}
