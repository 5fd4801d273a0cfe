package models

import "time"

// UnknownServer is recorded when a response carries no Server header.
// It never appears in reports.
const UnknownServer = "Unknown"

// WorkItem represents a URL and the depth at which it was discovered
type WorkItem struct {
	URL   string
	Depth int
}

// PageResult holds everything found on one successfully fetched page.
// Matches maps a pattern to its sorted, deduplicated matched strings; patterns
// without matches are absent.
type PageResult struct {
	Matches  map[string][]string `yaml:"matches"`
	Advanced *AdvancedInfo       `yaml:"advanced,omitempty"`
}

// HasFindings reports whether the page has anything worth surfacing in the summary.
func (r *PageResult) HasFindings() bool {
	if r == nil {
		return false
	}
	if len(r.Matches) > 0 {
		return true
	}
	return r.Advanced.HasSignals()
}

// AdvancedInfo holds auxiliary signals collected in advanced mode.
type AdvancedInfo struct {
	ServerHeader string   `yaml:"server_header,omitempty"`
	HTMLComments []string `yaml:"html_comments,omitempty"`
	QueryParams  []string `yaml:"query_params,omitempty"`
}

// HasServer is true when a real Server header was observed.
func (a *AdvancedInfo) HasServer() bool {
	return a != nil && a.ServerHeader != "" && a.ServerHeader != UnknownServer
}

// HasSignals is true if any advanced field carries a non-default value.
func (a *AdvancedInfo) HasSignals() bool {
	if a == nil {
		return false
	}
	return a.HasServer() || len(a.HTMLComments) > 0 || len(a.QueryParams) > 0
}

// PageDBEntry stores the visit state of a page URL in the visited store
type PageDBEntry struct {
	Status      PageStatus `json:"status"`                // visiting, visited or failed
	ErrorType   string     `json:"error_type,omitempty"`  // Error category (on failure)
	LastAttempt time.Time  `json:"last_attempt"`          // Timestamp of the fetch attempt
	Depth       int        `json:"depth"`                 // Depth at which the page was first discovered
	StatusCode  int        `json:"status_code,omitempty"` // HTTP status of the response (on visit)
}
