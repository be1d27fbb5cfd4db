// Package osmtags matches OpenStreetMap tag values.
package osmtags

import (
	"fmt"
	"strings"
)

// Filter matches features whose Key tag has one of Values. With no Values
// any value of Key matches. A Value of "*" also matches any value.
type Filter struct {
	Key    string
	Values []string
}

// Matches reports whether tags pass the filter.
func (f Filter) Matches(tags map[string]string) bool {
	v, ok := tags[f.Key]
	if !ok {
		return false
	}
	if len(f.Values) == 0 {
		return true
	}
	for _, want := range f.Values {
		if want == "*" {
			return true
		}
	}
	return ValueContains(v, f.Values...)
}

func (f Filter) String() string {
	if len(f.Values) == 0 {
		return f.Key
	}
	return f.Key + "=" + strings.Join(f.Values, ",")
}

// ParseFilter parses "key" or "key=v1,v2".
func ParseFilter(s string) (Filter, error) {
	key, values, hasValues := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return Filter{}, fmt.Errorf("invalid tag filter %q: missing key", s)
	}
	f := Filter{Key: key}
	if hasValues {
		for _, v := range strings.Split(values, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				f.Values = append(f.Values, v)
			}
		}
		if len(f.Values) == 0 {
			return Filter{}, fmt.Errorf("invalid tag filter %q: empty value list", s)
		}
	}
	return f, nil
}

// MatchAny reports whether any filter matches. No filters matches
// everything.
func MatchAny(tags map[string]string, filters []Filter) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if f.Matches(tags) {
			return true
		}
	}
	return false
}

// ValueContains reports whether a tag value contains one of needles. Values
// may be semicolon separated lists, and "needle:suffix" counts as needle.
func ValueContains(tagValue string, needles ...string) bool {
	values := strings.Split(tagValue, ";")
	for _, v := range values {
		v = strings.TrimSpace(v)
		for _, n := range needles {
			if v == n {
				return true
			}
			if strings.HasPrefix(v, n+":") {
				return true
			}
		}
	}
	return false
}
