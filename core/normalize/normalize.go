// Package normalize canonicalizes URLs so that discovery and deduplication
// see one spelling per resource.
package normalize

import (
	"net/url"
	"strings"
)

// Tracking parameters removed by default.
var defaultStripParams = []string{
	"utm_source", "utm_medium", "utm_campaign",
	"utm_term", "utm_content", "fbclid",
}

type options struct {
	stripParams  []string
	keepFragment bool
}

// Option adjusts normalization behavior.
type Option func(*options)

// StripParams replaces the default set of query parameters to remove.
func StripParams(names ...string) Option {
	return func(o *options) { o.stripParams = names }
}

// KeepFragment preserves the URL fragment instead of dropping it.
func KeepFragment() Option {
	return func(o *options) { o.keepFragment = true }
}

// URL returns the canonical form of raw: tracking parameters removed,
// fragment dropped (unless kept), remaining query parameters in their
// original order. Unparseable input is returned unchanged. The function is
// idempotent.
func URL(raw string, opts ...Option) string {
	o := options{stripParams: defaultStripParams}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.RawQuery != "" {
		u.RawQuery = filterQuery(u.RawQuery, o.stripParams)
	}
	if !o.keepFragment {
		u.Fragment = ""
		u.RawFragment = ""
	}
	return u.String()
}

// filterQuery walks the raw query pair by pair so that parameter order
// survives the rewrite. url.Values cannot do this, it is map-backed.
func filterQuery(rawQuery string, strip []string) string {
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		val := ""
		hasVal := false
		if i := strings.Index(pair, "="); i >= 0 {
			key, val = pair[:i], pair[i+1:]
			hasVal = true
		}
		decoded, err := url.QueryUnescape(key)
		if err != nil {
			decoded = key
		}
		if stripped(decoded, strip) {
			continue
		}
		if hasVal {
			kept = append(kept, key+"="+val)
		} else {
			kept = append(kept, key)
		}
	}
	return strings.Join(kept, "&")
}

func stripped(name string, strip []string) bool {
	for _, s := range strip {
		if name == s {
			return true
		}
	}
	return false
}
