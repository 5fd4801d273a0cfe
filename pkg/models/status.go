package models

// PageStatus is the traversal state of a URL: Unvisited -> Visiting -> Visited|Failed
type PageStatus string

const (
	PageStatusUnvisited PageStatus = ""         // Zero value = never seen
	PageStatusVisiting  PageStatus = "visiting" // Claimed by a worker, fetch in progress
	PageStatusVisited   PageStatus = "visited"  // Fetched and analyzed
	PageStatusFailed    PageStatus = "failed"   // Fetch failed, branch terminated
	PageStatusDBError   PageStatus = "db_error" // Store lookup failed
)

// String implements fmt.Stringer for logging
func (s PageStatus) String() string {
	if s == "" {
		return "unvisited"
	}
	return string(s)
}

// IsValid returns true if the status is a known operational value
func (s PageStatus) IsValid() bool {
	switch s {
	case PageStatusVisiting, PageStatusVisited, PageStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true once a URL can no longer change state
func (s PageStatus) IsTerminal() bool {
	return s == PageStatusVisited || s == PageStatusFailed
}
