package analyze

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		html     string
		expected []string
	}{
		{
			name: "relative and absolute links resolved",
			base: "http://example.com/docs/index.html",
			html: `<a href="/about">About</a>
<a href="guide.html">Guide</a>
<a href="http://other.org/z">Other</a>`,
			expected: []string{
				"http://example.com/about",
				"http://example.com/docs/guide.html",
				"http://other.org/z",
			},
		},
		{
			name:     "non http schemes dropped",
			base:     "http://example.com/",
			html:     `<a href="mailto:a@b.c">m</a><a href="javascript:void(0)">j</a><a href="tel:123">t</a><a href="ftp://example.com/f">f</a>`,
			expected: []string{},
		},
		{
			name:     "duplicates and fragments collapse",
			base:     "http://example.com/",
			html:     `<a href="/a">1</a><a href="/a#top">2</a><a href="http://EXAMPLE.com/a">3</a>`,
			expected: []string{"http://example.com/a"},
		},
		{
			name:     "empty and missing href ignored",
			base:     "http://example.com/",
			html:     `<a href="">e</a><a name="anchor">n</a><a href="   ">s</a>`,
			expected: []string{},
		},
		{
			name:     "scheme relative link inherits scheme",
			base:     "https://example.com/",
			html:     `<a href="//cdn.example.com/lib.js">cdn</a>`,
			expected: []string{"https://cdn.example.com/lib.js"},
		},
		{
			name:     "query strings kept",
			base:     "http://example.com/",
			html:     `<a href="/search?q=token&page=2">s</a>`,
			expected: []string{"http://example.com/search?q=token&page=2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links, err := ExtractLinks(mustParse(t, tt.base), tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, links)
		})
	}
}
