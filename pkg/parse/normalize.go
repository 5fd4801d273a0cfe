package parse

import (
	"net"
	"net/url"
	"strings"
)

// CanonicalURL standardizes a URL for use as a visited-set key and report entry
// It lowercases the scheme and host, removes default ports (80 for http, 443 for https) and drops the fragment
// Path and query are preserved: the query feeds advanced analysis and an empty path stays empty
// Does not modify the input *url.URL
func CanonicalURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	// Work on a copy
	canonical := *u

	canonical.Scheme = strings.ToLower(canonical.Scheme)
	canonical.Host = strings.ToLower(canonical.Host)

	// Remove default ports
	host, port, err := net.SplitHostPort(canonical.Host)
	if err == nil {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""

	return canonical.String()
}

// ParseAndCanonicalize parses a URL string and returns its canonical form along with the parsed URL
func ParseAndCanonicalize(rawURL string) (string, *url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, err
	}
	return CanonicalURL(parsed), parsed, nil
}
