package analyze

import (
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/Sriram-PR/leakcrawl/pkg/models"
)

// Comment bodies may span lines.
var htmlCommentRe = regexp.MustCompile(`(?s)<!--(.*?)-->`)

// BuildAdvancedInfo collects the server header, HTML comments and query parameter names for a page
func BuildAdvancedInfo(pageURL string, headers http.Header, body string) *models.AdvancedInfo {
	info := &models.AdvancedInfo{ServerHeader: models.UnknownServer}
	if server := strings.TrimSpace(headers.Get("Server")); server != "" {
		info.ServerHeader = server
	}
	info.HTMLComments = ExtractComments(body)
	info.QueryParams = QueryParamNames(pageURL)
	return info
}

// ExtractComments returns the trimmed, non-empty, distinct HTML comment bodies in sorted order
func ExtractComments(body string) []string {
	found := htmlCommentRe.FindAllStringSubmatch(body, -1)
	if len(found) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(found))
	var comments []string
	for _, m := range found {
		text := strings.TrimSpace(m[1])
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		comments = append(comments, text)
	}
	sort.Strings(comments)
	return comments
}

// QueryParamNames returns the distinct parameter names of the URL's query string in order of first appearance.
// url.Values is a map and loses that order, so the raw query is walked directly.
func QueryParamNames(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return nil
	}
	var names []string
	seen := make(map[string]struct{})
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		name, unescapeErr := url.QueryUnescape(key)
		if unescapeErr != nil {
			name = key
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
