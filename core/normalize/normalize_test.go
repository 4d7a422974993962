package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLStripsTrackingParams(t *testing.T) {
	got := URL("https://example.com/page?id=7&utm_source=tw&utm_campaign=x&q=fundeb")
	assert.Equal(t, "https://example.com/page?id=7&q=fundeb", got)
}

func TestURLPreservesParamOrder(t *testing.T) {
	got := URL("https://example.com/?z=1&utm_medium=mail&a=2&m=3")
	assert.Equal(t, "https://example.com/?z=1&a=2&m=3", got)
}

func TestURLDropsEmptyQuery(t *testing.T) {
	got := URL("https://example.com/page?utm_source=tw&fbclid=abc")
	assert.Equal(t, "https://example.com/page", got)
}

func TestURLDropsFragment(t *testing.T) {
	assert.Equal(t, "https://example.com/page?id=1",
		URL("https://example.com/page?id=1#section-2"))
}

func TestURLKeepFragment(t *testing.T) {
	assert.Equal(t, "https://example.com/page#top",
		URL("https://example.com/page#top", KeepFragment()))
}

func TestURLCustomStripParams(t *testing.T) {
	got := URL("https://example.com/?session=abc&id=1", StripParams("session"))
	assert.Equal(t, "https://example.com/?id=1", got)
}

func TestURLMalformedPassesThrough(t *testing.T) {
	raw := "http://%zz invalid"
	assert.Equal(t, raw, URL(raw))
}

func TestURLValuelessParamKept(t *testing.T) {
	assert.Equal(t, "https://example.com/?flag&id=1",
		URL("https://example.com/?flag&utm_term=x&id=1"))
}

func TestURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/page?id=7&utm_source=tw&q=fundeb#frag",
		"https://www.gov.br/fnde/pt-br/vaat?b=2&a=1",
		"https://example.com/?flag",
		"relative/path?x=1",
	}
	for _, in := range inputs {
		once := URL(in)
		assert.Equal(t, once, URL(once), "input %q", in)
	}
}
