package config

import (
	"fmt"
	"time"

	"github.com/Sriram-PR/leakcrawl/pkg/parse"
	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

// Validate checks AppConfig fields and applies defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// Required: BaseURL
	if c.BaseURL == "" {
		return nil, fmt.Errorf("%w: base_url is required", utils.ErrConfigValidation)
	}
	if !parse.IsFetchable(c.BaseURL) {
		return nil, fmt.Errorf("%w: invalid base_url '%s' (need http(s) scheme and host)", utils.ErrConfigValidation, c.BaseURL)
	}

	// CrawlDepth
	if c.CrawlDepth == nil {
		depth := DefaultCrawlDepth
		c.CrawlDepth = &depth
	} else if *c.CrawlDepth < 0 {
		warnings = append(warnings, "crawl_depth cannot be negative, setting to 0 (seed page only)")
		zero := 0
		c.CrawlDepth = &zero
	}

	// File names
	if c.RegexFile == "" {
		c.RegexFile = DefaultRegexFile
	}
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
	if c.SortedOutputFile == "" {
		c.SortedOutputFile = DefaultSortedOutputFile
	}
	if c.NoURLOutputFile == "" {
		c.NoURLOutputFile = DefaultNoURLOutputFile
	}
	if c.OutputFile == c.SortedOutputFile || c.OutputFile == c.NoURLOutputFile || c.SortedOutputFile == c.NoURLOutputFile {
		return warnings, fmt.Errorf("%w: output_file, sorted_output_file and nourl_output_file must differ", utils.ErrConfigValidation)
	}

	// NumWorkers
	if c.NumWorkers < 0 {
		warnings = append(warnings, "num_workers cannot be negative, defaulting to 1")
		c.NumWorkers = 1
	} else if c.NumWorkers == 0 {
		c.NumWorkers = 1
	}

	// TraversalOrder
	switch c.TraversalOrder {
	case "":
		c.TraversalOrder = OrderDepthFirst
	case OrderDepthFirst, OrderBreadthFirst:
	default:
		return warnings, fmt.Errorf("%w: traversal_order must be '%s' or '%s', got '%s'",
			utils.ErrConfigValidation, OrderDepthFirst, OrderBreadthFirst, c.TraversalOrder)
	}

	// RequestTimeout
	if c.RequestTimeout < 0 {
		warnings = append(warnings, fmt.Sprintf("request_timeout cannot be negative, defaulting to %v", DefaultRequestTimeout))
		c.RequestTimeout = DefaultRequestTimeout
	} else if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	// MaxPageSizeBytes
	if c.MaxPageSizeBytes < 0 {
		warnings = append(warnings, "max_page_size_bytes cannot be negative, using default")
		c.MaxPageSizeBytes = DefaultMaxPageSizeBytes
	} else if c.MaxPageSizeBytes == 0 {
		c.MaxPageSizeBytes = DefaultMaxPageSizeBytes
	}

	// VisitedStore
	switch c.VisitedStore {
	case "":
		c.VisitedStore = StoreMemory
	case StoreMemory, StoreBadger:
	default:
		return warnings, fmt.Errorf("%w: visited_store must be '%s' or '%s', got '%s'",
			utils.ErrConfigValidation, StoreMemory, StoreBadger, c.VisitedStore)
	}

	c.validateHTTPClientSettings()

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
	if h.MaxRedirects <= 0 {
		h.MaxRedirects = 10
	}
}
