package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `
<html><body>
  <a href="/docs/lista_vaat_2025.pdf">Lista VAAT 2025</a>
  <a href="https://www.gov.br/docs/lista_vaat_2025.pdf?utm_source=tw">  duplicate text  </a>
  <a href="relatorio.pdf"> Relatório </a>
  <a href="">empty</a>
  <a href="http://%zz">broken</a>
  <a href="/other">Other page</a>
</body></html>`

func TestLinksResolvesAndDedupes(t *testing.T) {
	links, err := Links(page, "https://www.gov.br/fundeb/")
	require.NoError(t, err)

	var urls []string
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	assert.Equal(t, []string{
		"https://www.gov.br/docs/lista_vaat_2025.pdf",
		"https://www.gov.br/fundeb/relatorio.pdf",
		"https://www.gov.br/other",
	}, urls)
}

func TestLinksKeepsFirstSeenText(t *testing.T) {
	links, err := Links(page, "https://www.gov.br/fundeb/")
	require.NoError(t, err)
	require.NotEmpty(t, links)
	assert.Equal(t, "Lista VAAT 2025", links[0].Text)
}

func TestLinksTrimsAnchorText(t *testing.T) {
	links, err := Links(page, "https://www.gov.br/fundeb/")
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "Relatório", links[1].Text)
}

func TestLinksBadBaseURL(t *testing.T) {
	_, err := Links(page, "http://%zz invalid")
	assert.Error(t, err)
}

func TestLinksEmptyDocument(t *testing.T) {
	links, err := Links("<html></html>", "https://example.com/")
	require.NoError(t, err)
	assert.Empty(t, links)
}
