// Package dataset derives a stable dataset name from a source URL. The
// heuristic is empirical and order-sensitive; it is kept exactly as tuned
// against the government portals it was built for, so changing token sets or
// ordering here will silently re-key existing datasets in storage.
package dataset

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	extRe     = regexp.MustCompile(`(?i)\.[a-z0-9]{1,5}$`)
	digitsRe  = regexp.MustCompile(`\d+`)
	invalidRe = regexp.MustCompile(`[^0-9a-zA-Z\-]`)
	langRe    = regexp.MustCompile(`(^|-)pt$|(^|-)br$`)
)

// Path segments that carry no dataset meaning.
var stopwords = map[string]bool{
	"pt": true, "br": true, "www": true, "gov": true, "gov.br": true,
	"acesso": true, "informacao": true, "acoes": true, "programas": true,
	"financiamento": true, "conteudo": true, "conteudos": true,
	"conteudo-static": true, "static": true, "api": true, "search": true,
	"a": true, "de": true, "do": true, "da": true,
}

// Tokens that identify a dataset by themselves. Ordered-first in the output
// but kept in path order relative to each other.
var priorityTokens = []string{
	"fundeb", "vaat", "salario-educacao", "salario", "fnde", "consultas",
}

// Infer names the dataset for a source URL. It never fails: when the path
// yields no usable tokens it falls back to the hostname, then to the first
// underscore-separated segment of the job name, then to "generic_dataset".
// Same URL and job name always produce the same result.
func Infer(rawURL, jobName string) string {
	u, err := url.Parse(rawURL)
	if err == nil {
		if name := fromPath(u.Path); name != "" {
			return name
		}
		if name := fromHost(u.Hostname()); name != "" {
			return name
		}
	}
	if jobName != "" {
		seg := strings.SplitN(jobName, "_", 2)[0]
		if seg != "" {
			return seg
		}
	}
	return "generic_dataset"
}

func fromPath(path string) string {
	var tokens []string
	for _, part := range strings.Split(path, "/") {
		tok := cleanSegment(part)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return ""
	}

	var prioritized, rest []string
	for _, t := range tokens {
		if isPriority(t) {
			prioritized = append(prioritized, t)
		} else {
			rest = append(rest, t)
		}
	}
	ordered := append(prioritized, rest...)
	if len(ordered) > 2 {
		ordered = ordered[:2]
	}
	for i, t := range ordered {
		ordered[i] = strings.ReplaceAll(t, "-", "_")
	}
	return strings.Join(ordered, "_")
}

// cleanSegment reduces one path segment to its meaningful token, or ""
// when nothing survives.
func cleanSegment(part string) string {
	s := strings.ToLower(strings.TrimSpace(part))
	if s == "" {
		return ""
	}
	s = extRe.ReplaceAllString(s, "")
	s = digitsRe.ReplaceAllString(s, "")
	s = invalidRe.ReplaceAllString(s, "")
	// A language-code suffix disqualifies the whole segment, not just the
	// suffix.
	if langRe.MatchString(s) {
		return ""
	}
	s = strings.Trim(s, "-")
	if s == "" || stopwords[s] {
		return ""
	}

	subs := strings.Split(s, "-")
	var meaningful []string
	for _, sub := range subs {
		if len(sub) > 1 && !stopwords[sub] {
			meaningful = append(meaningful, sub)
		}
	}
	if len(meaningful) == 0 {
		return ""
	}
	// A multi-word segment is kept whole, a mostly-noise one is reduced to
	// its first meaningful sub-token.
	if len(meaningful) > 1 && strings.Contains(s, "-") {
		return s
	}
	return meaningful[0]
}

func isPriority(tok string) bool {
	norm := strings.ReplaceAll(tok, "-", "_")
	for _, p := range priorityTokens {
		if norm == strings.ReplaceAll(p, "-", "_") {
			return true
		}
	}
	return false
}

func fromHost(host string) string {
	h := strings.ToLower(host)
	h = strings.TrimSuffix(h, ".gov.br")
	h = strings.TrimSuffix(h, ".gov")
	h = strings.TrimPrefix(h, "www.")
	h = strings.ReplaceAll(h, ".", "_")
	h = strings.Trim(h, "_")
	return h
}
