package metasift

import (
	"strconv"
	"strings"
)

// currencies maps known price symbols to ISO 4217 codes.
var currencies = map[string]string{
	"$":   "USD",
	"£":   "GBP",
	"€":   "EUR",
	"₹":   "INR",
	"¥":   "JPY",
	"C$":  "CAD",
	"CA$": "CAD",
	"A$":  "AUD",
	"AU$": "AUD",
}

// priceSymbols lists the known symbols longest first, so compound symbols
// like "CA$" match before "$".
var priceSymbols = []string{"CA$", "AU$", "C$", "A$", "$", "£", "€", "₹", "¥"}

// CurrencyCode maps a currency symbol to its ISO 4217 code.
// Unknown symbols map to "".
func CurrencyCode(symbol string) string {
	return currencies[symbol]
}

// ParsePrice extracts a numeric amount and a currency symbol from free-form
// price text like "$1,234.56" or "1.234,56 €". The symbol is recognized as a
// prefix or suffix; the amount is parsed after disambiguating thousands
// grouping from the decimal mark. Malformed amounts are never an error: ok
// is false and the symbol, if one was recognized, is still returned.
func ParsePrice(text string) (value float64, symbol string, ok bool) {
	s := strings.TrimSpace(strings.ReplaceAll(text, " ", " "))
	for _, sym := range priceSymbols {
		if strings.HasPrefix(s, sym) {
			symbol = sym
			s = strings.TrimSpace(strings.TrimPrefix(s, sym))
			break
		}
		if strings.HasSuffix(s, sym) {
			symbol = sym
			s = strings.TrimSpace(strings.TrimSuffix(s, sym))
			break
		}
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	candidate := b.String()
	if candidate == "" {
		return 0, symbol, false
	}

	lastDot := strings.LastIndex(candidate, ".")
	lastComma := strings.LastIndex(candidate, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both separators present: the rightmost one is the decimal mark,
		// the other is thousands grouping.
		if lastComma > lastDot {
			candidate = strings.ReplaceAll(candidate, ".", "")
			candidate = strings.ReplaceAll(candidate, ",", ".")
		} else {
			candidate = strings.ReplaceAll(candidate, ",", "")
		}
	case lastComma >= 0:
		// Comma only: treat it as the decimal mark when the final group has
		// 1-2 digits, as thousands grouping otherwise. A four-digit group
		// like "1,2345" is therefore read as grouping; the ambiguity is
		// inherent to the input.
		if n := len(candidate) - lastComma - 1; n == 1 || n == 2 {
			candidate = strings.ReplaceAll(candidate, ",", ".")
		} else {
			candidate = strings.ReplaceAll(candidate, ",", "")
		}
	}

	v, err := strconv.ParseFloat(candidate, 64)
	if err != nil {
		return 0, symbol, false
	}
	return v, symbol, true
}
