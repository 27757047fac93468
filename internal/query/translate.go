// Package query turns raw request parameters into store-ready query
// descriptors and computes pagination windows over counted result sets.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"bootcamper/internal/domain"
)

// Reserved parameter names that shape the query instead of filtering it.
const (
	paramSelect = "select"
	paramSort   = "sort"
	paramPage   = "page"
	paramLimit  = "limit"
)

// DefaultSortField orders listings newest-first when no sort is given.
const DefaultSortField = "createdAt"

// comparisonOps maps the bracketed operator tokens accepted in filter
// parameters to their store-native counterparts. Tokens outside this table
// are rejected rather than passed through.
var comparisonOps = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// SortKey is a single ordering criterion.
type SortKey struct {
	Field string
	Desc  bool
}

// Descriptor is the translated intent of a list request: a filter document,
// an optional projection, ordered sort keys and a page window.
type Descriptor struct {
	Filter     bson.M
	Projection bson.M
	Sort       []SortKey
	Page       int
	Limit      int
}

// Offset is the number of documents skipped before the current page.
func (d Descriptor) Offset() int64 {
	return int64(d.Page-1) * int64(d.Limit)
}

// SortDoc renders the sort keys as an ordered store sort document.
func (d Descriptor) SortDoc() bson.D {
	doc := make(bson.D, 0, len(d.Sort))
	for _, k := range d.Sort {
		dir := 1
		if k.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: k.Field, Value: dir})
	}
	return doc
}

// Translate builds a Descriptor from raw query parameters.
//
// Filter parameters are exact-match by default; a bracketed suffix selects a
// comparison operator, e.g. averageCost[lte]=10000. Values that parse as
// numbers or booleans are coerced so store comparisons behave numerically.
func Translate(params url.Values) (Descriptor, error) {
	d := Descriptor{
		Filter: bson.M{},
		Page:   positiveInt(params.Get(paramPage)),
		Limit:  positiveInt(params.Get(paramLimit)),
	}

	for key, vals := range params {
		if key == paramSelect || key == paramSort || key == paramPage || key == paramLimit {
			continue
		}
		if len(vals) == 0 {
			continue
		}
		field, op, err := splitFilterKey(key)
		if err != nil {
			return Descriptor{}, err
		}
		if op == "" {
			d.Filter[field] = coerce(vals[0])
			continue
		}
		pred, ok := d.Filter[field].(bson.M)
		if !ok {
			pred = bson.M{}
			d.Filter[field] = pred
		}
		if op == "$in" {
			pred[op] = coerceList(vals[0])
		} else {
			pred[op] = coerce(vals[0])
		}
	}

	if sel := strings.TrimSpace(params.Get(paramSelect)); sel != "" {
		d.Projection = bson.M{}
		for _, f := range strings.Split(sel, ",") {
			if f = strings.TrimSpace(f); f != "" {
				d.Projection[f] = 1
			}
		}
		if len(d.Projection) == 0 {
			return Descriptor{}, domain.InvalidQueryError{Param: paramSelect, Msg: "no fields given"}
		}
	}

	if raw := strings.TrimSpace(params.Get(paramSort)); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			f = strings.TrimSpace(f)
			if f == "" || f == "-" {
				return Descriptor{}, domain.InvalidQueryError{Param: paramSort, Msg: "empty sort key"}
			}
			if strings.HasPrefix(f, "-") {
				d.Sort = append(d.Sort, SortKey{Field: f[1:], Desc: true})
			} else {
				d.Sort = append(d.Sort, SortKey{Field: f})
			}
		}
	} else {
		d.Sort = []SortKey{{Field: DefaultSortField, Desc: true}}
	}

	return d, nil
}

// splitFilterKey separates "field[op]" into field name and mapped operator.
// A bare field name returns an empty operator.
func splitFilterKey(key string) (field, op string, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.ContainsAny(key, "]$") {
			return "", "", domain.InvalidQueryError{Param: key, Msg: "malformed filter key"}
		}
		return key, "", nil
	}
	if open == 0 || !strings.HasSuffix(key, "]") {
		return "", "", domain.InvalidQueryError{Param: key, Msg: "malformed filter key"}
	}
	field = key[:open]
	token := key[open+1 : len(key)-1]
	mapped, ok := comparisonOps[token]
	if !ok {
		return "", "", domain.InvalidQueryError{Param: key, Msg: "unknown operator " + strconv.Quote(token)}
	}
	return field, mapped, nil
}

// coerce turns a raw parameter value into the most useful store type.
func coerce(raw string) interface{} {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func coerceList(raw string) []interface{} {
	parts := strings.Split(raw, ",")
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, coerce(p))
		}
	}
	return out
}

// positiveInt parses a base-10 page or limit value. Anything missing,
// unparsable or below 1 falls back to 1.
func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
