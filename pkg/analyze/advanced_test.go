package analyze

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sriram-PR/leakcrawl/pkg/models"
)

func TestBuildAdvancedInfo(t *testing.T) {
	headers := http.Header{}
	headers.Set("Server", "nginx/1.18.0")
	body := `<html><!-- build 42 --><body>
<!--
  TODO: remove debug endpoint
-->
<!-- build 42 -->
<!--   -->
</body></html>`

	info := BuildAdvancedInfo("http://example.com/page?id=7&debug=true&id=8", headers, body)

	assert.Equal(t, "nginx/1.18.0", info.ServerHeader)
	assert.Equal(t, []string{"TODO: remove debug endpoint", "build 42"}, info.HTMLComments)
	assert.Equal(t, []string{"id", "debug"}, info.QueryParams)
}

func TestBuildAdvancedInfo_Defaults(t *testing.T) {
	info := BuildAdvancedInfo("http://example.com/", http.Header{}, "<p>plain</p>")

	assert.Equal(t, models.UnknownServer, info.ServerHeader)
	assert.Nil(t, info.HTMLComments)
	assert.Nil(t, info.QueryParams)
	assert.False(t, info.HasSignals())
}

func TestQueryParamNames(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected []string
	}{
		{"none", "http://example.com/", nil},
		{"order of first appearance", "http://example.com/?b=1&a=2&b=3", []string{"b", "a"}},
		{"names only, blank values kept", "http://example.com/?token=&flag", []string{"token", "flag"}},
		{"escaped name", "http://example.com/?user%5Bid%5D=1", []string{"user[id]"}},
		{"empty segments skipped", "http://example.com/?&&x=1&", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QueryParamNames(tt.url))
		})
	}
}
