package goquery

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonldTypeRE matches script type attributes that may carry structured
// data.
var jsonldTypeRE = regexp.MustCompile(`(?i)application/(ld\+json|json)`)

// jsonldObjects collects every structured-data candidate in the document:
// top-level objects, elements of top-level lists, and elements of an
// object's @graph list. Scripts that fail to parse are skipped silently.
func jsonldObjects(doc *goquery.Document) []map[string]any {
	var objs []map[string]any
	doc.Find("script[type]").Each(func(_ int, sel *goquery.Selection) {
		typ, _ := sel.Attr("type")
		if !jsonldTypeRE.MatchString(typ) {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return
		}
		switch v := data.(type) {
		case []any:
			for _, item := range v {
				if obj, ok := item.(map[string]any); ok {
					objs = append(objs, obj)
				}
			}
		case map[string]any:
			if graph, ok := v["@graph"].([]any); ok {
				for _, item := range graph {
					if obj, ok := item.(map[string]any); ok {
						objs = append(objs, obj)
					}
				}
				return
			}
			objs = append(objs, v)
		}
	})
	return objs
}

// firstOfType returns the first candidate whose @type names one of the
// wanted types, or nil.
func firstOfType(objs []map[string]any, wanted ...string) map[string]any {
	for _, obj := range objs {
		if typeMatches(obj, wanted) {
			return obj
		}
	}
	return nil
}

// typeMatches reports whether the object's @type (a string or a list of
// strings) names one of the wanted types, comparing case-insensitively.
func typeMatches(obj map[string]any, wanted []string) bool {
	var names []string
	switch t := obj["@type"].(type) {
	case string:
		names = []string{t}
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
	}
	for _, name := range names {
		name = strings.ToLower(name)
		for _, w := range wanted {
			if name == w {
				return true
			}
		}
	}
	return false
}

// The helpers below normalize the heterogeneous shapes structured data
// uses for a single field (a bare string, an object with a well-known
// key, or a list of either) into plain values, so the extractors never
// branch on shape at the call site.

// asString returns v when it is a string, "" otherwise.
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// nameOf extracts a display name from a string or from an object carrying
// name or @id.
func nameOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s := asString(t["name"]); s != "" {
			return s
		}
		return asString(t["@id"])
	}
	return ""
}

// joinedNames flattens an author-like field (a value or a list of values)
// into a comma-separated list of names.
func joinedNames(v any) string {
	list, ok := v.([]any)
	if !ok {
		return nameOf(v)
	}
	var names []string
	for _, item := range list {
		if n := nameOf(item); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

// imageURL extracts an image URL from a string, from an object carrying
// url or contentUrl, or from a list of either (first element wins).
func imageURL(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s := asString(t["url"]); s != "" {
			return s
		}
		return asString(t["contentUrl"])
	case []any:
		if len(t) > 0 {
			return imageURL(t[0])
		}
	}
	return ""
}

// textOf extracts text from a string or from a localized object carrying
// @value or text.
func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s := asString(t["@value"]); s != "" {
			return s
		}
		return asString(t["text"])
	}
	return ""
}

// firstObject returns the first object element of a list, or nil.
func firstObject(list []any) map[string]any {
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			return obj
		}
	}
	return nil
}

// amount extracts a positive numeric amount from a JSON number or string.
// String amounts may use a decimal comma. Zero, negative and malformed
// amounts are rejected.
func amount(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if t > 0 {
			return t, true
		}
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && f > 0 {
			return f, true
		}
	}
	return 0, false
}
