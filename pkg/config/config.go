package config

import "time"

// Traversal orders for the crawl frontier
const (
	OrderDepthFirst   = "depth_first"
	OrderBreadthFirst = "breadth_first"
)

// Visited-set backends
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Defaults for options that may be omitted from the config file
const (
	DefaultCrawlDepth       = 1
	DefaultRegexFile        = "regex_patterns.txt"
	DefaultOutputFile       = "results.yaml"
	DefaultSortedOutputFile = "results-sorted.yaml"
	DefaultNoURLOutputFile  = "resultsnourl.yaml"
	DefaultUserAgent        = "leakcrawl/1.0"
	DefaultRequestTimeout   = 10 * time.Second
	DefaultMaxPageSizeBytes = 10 << 20 // 10 MiB
)

// AppConfig holds the application configuration loaded from config.yaml
type AppConfig struct {
	BaseURL            string           `yaml:"base_url"`
	CrawlDepth         *int             `yaml:"crawl_depth,omitempty"` // Pointer so an explicit 0 differs from "unset"
	Advanced           bool             `yaml:"advanced,omitempty"`
	RegexFile          string           `yaml:"regex_file,omitempty"`
	OutputFile         string           `yaml:"output_file,omitempty"`
	SortedOutputFile   string           `yaml:"sorted_output_file,omitempty"`
	NoURLOutputFile    string           `yaml:"nourl_output_file,omitempty"`
	NumWorkers         int              `yaml:"num_workers,omitempty"`
	TraversalOrder     string           `yaml:"traversal_order,omitempty"`
	RequestTimeout     time.Duration    `yaml:"request_timeout,omitempty"` // Bound on a single page fetch
	UserAgent          string           `yaml:"user_agent,omitempty"`
	MaxPageSizeBytes   int64            `yaml:"max_page_size_bytes,omitempty"`
	VisitedStore       string           `yaml:"visited_store,omitempty"`
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
	MaxRedirects          int           `yaml:"max_redirects,omitempty"`
}

// MaxDepth returns the effective crawl depth
func (c *AppConfig) MaxDepth() int {
	if c.CrawlDepth == nil {
		return DefaultCrawlDepth
	}
	return *c.CrawlDepth
}
