// Package filter narrows a discovered link set down to the files a job
// should ingest. Each source gets one of a closed set of strategies, chosen
// by ForSource from the source URL.
package filter

import (
	"net/url"
	"path"
	"strings"

	"github.com/gaurav-prasanna/doclake/core"
)

// Strategy selects candidate file URLs from a page's links.
type Strategy interface {
	Filter(links []core.Link) []string
}

// ForSource maps a source URL to its strategy. Known government portals get
// their dedicated strategy; a "vaat" or "/fundeb/" path overrides the host
// match. Everything else gets Default.
func ForSource(sourceURL string, params map[string]any) Strategy {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return Default{}
	}
	host := strings.ToLower(u.Hostname())
	p := strings.ToLower(u.Path)
	vaatPath := strings.Contains(p, "vaat") || strings.Contains(p, "/fundeb/")

	if host == "www.gov.br" || strings.HasSuffix(host, ".gov.br") {
		if vaatPath {
			return FundebVaat{Hints: paramHints(params)}
		}
		return SalarioEducacao{Hint: paramString(params, "filename_contains")}
	}
	if vaatPath {
		return FundebVaat{Hints: paramHints(params)}
	}
	return Default{}
}

// fallback applies the shared safety net: when the hint rules selected
// nothing, fall back to every PDF link, and when there are no PDFs either,
// to every link.
func fallback(links []core.Link, selected []string) []string {
	if len(selected) > 0 {
		return selected
	}
	var pdfs []string
	for _, l := range links {
		if core.DetectResourceType(l.URL, "") == core.ResourcePDF {
			pdfs = append(pdfs, l.URL)
		}
	}
	if len(pdfs) > 0 {
		return pdfs
	}
	all := make([]string, 0, len(links))
	for _, l := range links {
		all = append(all, l.URL)
	}
	return all
}

// FundebVaat selects VAAT publication lists from FNDE/Fundeb pages.
type FundebVaat struct {
	// Hints match against the lowercased filename and anchor text.
	Hints []string
}

func (s FundebVaat) hints() []string {
	if len(s.Hints) > 0 {
		return s.Hints
	}
	return []string{"vaat", "listadefinit"}
}

func (s FundebVaat) Filter(links []core.Link) []string {
	hints := s.hints()
	var selected []string
	for _, l := range links {
		name := strings.ToLower(path.Base(urlPath(l.URL)))
		text := strings.ToLower(l.Text)
		matched := false
		for _, h := range hints {
			if strings.Contains(name, h) || strings.Contains(text, h) {
				matched = true
				break
			}
		}
		if !matched && core.DetectResourceType(l.URL, "") == core.ResourcePDF {
			p := strings.ToLower(urlPath(l.URL))
			if strings.Contains(p, "/vaat") || strings.Contains(p, "vaat/") {
				matched = true
			}
		}
		if matched {
			selected = append(selected, l.URL)
		}
	}
	return fallback(links, selected)
}

// SalarioEducacao selects the monthly per-state distribution spreadsheets
// published on gov.br.
type SalarioEducacao struct {
	// Hint is matched case-insensitively against filename and anchor text.
	Hint string
}

func (s SalarioEducacao) hint() string {
	if s.Hint != "" {
		return strings.ToLower(s.Hint)
	}
	return "distribuiomensalporuf"
}

func (s SalarioEducacao) Filter(links []core.Link) []string {
	hint := s.hint()
	var selected []string
	for _, l := range links {
		name := strings.ToLower(path.Base(urlPath(l.URL)))
		text := strings.ToLower(l.Text)
		if strings.Contains(name, hint) || strings.Contains(text, hint) {
			selected = append(selected, l.URL)
		}
	}
	return fallback(links, selected)
}

// Default keeps every link.
type Default struct{}

func (Default) Filter(links []core.Link) []string {
	urls := make([]string, 0, len(links))
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	return urls
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

func paramHints(params map[string]any) []string {
	raw, ok := params["hints"]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var hints []string
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			hints = append(hints, strings.ToLower(s))
		}
	}
	return hints
}

func paramString(params map[string]any, key string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}
