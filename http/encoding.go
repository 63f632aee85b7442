package http

import (
	"mime"

	"github.com/gogs/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// decodeHTML converts a response body to UTF-8. The charset declared in the
// Content-Type header wins; bodies without a usable declaration fall back
// to statistical detection, and finally to reading the bytes as UTF-8.
func decodeHTML(body []byte, contentType string) string {
	if enc := declaredEncoding(contentType); enc != nil {
		if s, ok := decode(body, enc); ok {
			return s
		}
	}
	if enc := detectedEncoding(body); enc != nil {
		if s, ok := decode(body, enc); ok {
			return s
		}
	}
	return string(body)
}

// declaredEncoding resolves the charset parameter of a Content-Type header.
// Missing and unknown labels resolve to nil.
func declaredEncoding(contentType string) encoding.Encoding {
	if contentType == "" {
		return nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}
	label := params["charset"]
	if label == "" {
		return nil
	}
	enc, _ := charset.Lookup(label)
	return enc
}

// detectedEncoding statistically detects the body's charset. The detector
// names charsets by IANA label, which the WHATWG index resolves.
func detectedEncoding(body []byte) encoding.Encoding {
	result, err := chardet.NewHtmlDetector().DetectBest(body)
	if err != nil || result == nil {
		return nil
	}
	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		return nil
	}
	return enc
}

func decode(body []byte, enc encoding.Encoding) (string, bool) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
