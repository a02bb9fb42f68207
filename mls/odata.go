package mls

import (
	"net/url"
	"strconv"
	"strings"
)

// pageSize caps every Property query. Callers cannot change it.
const pageSize = 10

// Literal renders s as an OData string literal, doubling embedded single quotes.
func Literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type odataQuery struct {
	filter  string
	selects []string
	top     int
	orderBy string
}

// encode keeps the system query options in a fixed order and leaves the "$" prefix
// readable; values are escaped with %20 for spaces.
func (q odataQuery) encode() string {
	parts := make([]string, 0, 4)
	if q.filter != "" {
		parts = append(parts, "$filter="+escapeValue(q.filter))
	}
	if len(q.selects) > 0 {
		parts = append(parts, "$select="+escapeValue(strings.Join(q.selects, ",")))
	}
	if q.top > 0 {
		parts = append(parts, "$top="+strconv.Itoa(q.top))
	}
	if q.orderBy != "" {
		parts = append(parts, "$orderby="+escapeValue(q.orderBy))
	}
	return strings.Join(parts, "&")
}

func escapeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

func withQuery(base string, q odataQuery) string {
	enc := q.encode()
	if enc == "" {
		return base
	}
	if strings.Contains(base, "?") {
		return base + "&" + enc
	}
	return base + "?" + enc
}
