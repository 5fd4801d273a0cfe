package analyze

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/leakcrawl/pkg/parse"
	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

// ExtractLinks finds every anchor href in htmlBody, resolves it against base and keeps the fetchable ones
// Links are canonicalized (fragment dropped), deduplicated and returned sorted
// Domain scoping is left to the caller
func ExtractLinks(base *url.URL, htmlBody string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML from '%s': %w", utils.ErrParsing, base, err)
	}
	return ExtractLinksFromDocument(base, doc), nil
}

// ExtractLinksFromDocument is ExtractLinks over an already parsed document
func ExtractLinksFromDocument(base *url.URL, doc *goquery.Document) []string {
	foundLinks := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, element *goquery.Selection) {
		href, exists := element.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			return
		}

		// Resolve URL relative to the page URL
		linkURL, parseErr := base.Parse(href)
		if parseErr != nil {
			return // Skip unparseable links
		}
		canonical := parse.CanonicalURL(linkURL)
		if !parse.IsFetchable(canonical) {
			return // Skip mailto:, tel:, javascript: etc
		}
		foundLinks[canonical] = struct{}{}
	})

	links := make([]string, 0, len(foundLinks))
	for link := range foundLinks {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}
