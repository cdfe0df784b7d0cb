package tileset

import (
	"net/url"
	"strings"
)

// ParseList returns every value of field in a raw query string, keeping
// repeats and order: ParseList("d=1&e=2&d=3", "d") is ["1", "3"].
func ParseList(query, field string) []string {
	var out []string
	for pair := range strings.SplitSeq(query, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k != field {
			continue
		}
		if unescaped, err := url.QueryUnescape(v); err == nil {
			v = unescaped
		}
		out = append(out, v)
	}
	return out
}
