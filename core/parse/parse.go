// Package parse extracts hyperlinks from HTML pages.
package parse

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/doclake/core"
	"github.com/gaurav-prasanna/doclake/core/normalize"
)

// Links parses the document and returns every anchor as an absolute,
// normalized link. Duplicates (after normalization) are collapsed keeping
// first-seen order and first-seen anchor text. Malformed hrefs are skipped.
func Links(html, baseURL string) ([]core.Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", baseURL, err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %s: %w", baseURL, err)
	}

	var links []core.Link
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := normalize.URL(base.ResolveReference(ref).String())
		if seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, core.Link{
			URL:  abs,
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return links, nil
}
