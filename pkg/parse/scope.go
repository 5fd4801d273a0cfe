package parse

import (
	"net/url"
	"strings"
)

// IsFetchable reports whether rawURL parses with an http or https scheme and a non-empty host
func IsFetchable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// IsInScope reports whether candidateHost is seedHost or one of its subdomains.
// Comparison is case-insensitive and label-aligned: "evilexample.com" is not in scope of "example.com".
func IsInScope(seedHost, candidateHost string) bool {
	seed := strings.ToLower(seedHost)
	candidate := strings.ToLower(candidateHost)
	if seed == "" || candidate == "" {
		return false
	}
	return candidate == seed || strings.HasSuffix(candidate, "."+seed)
}

// HostOf returns the lowercased hostname of rawURL without any port, or "" if it cannot be parsed
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
