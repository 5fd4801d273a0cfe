package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"

	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

// Page is a fetched and decoded response
type Page struct {
	FinalURL   string      // URL after redirects
	StatusCode int         // Any status is accepted; non-2xx pages are still analyzed
	Header     http.Header // Response headers
	Body       string      // Body decoded to UTF-8
}

// PageFetcher retrieves a single page
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// Options controls a Fetcher's per-request behaviour
type Options struct {
	UserAgent    string
	Timeout      time.Duration // 0 disables the per-request deadline
	MaxBodyBytes int64         // 0 disables the size limit
	// InScope, when set, is consulted for every redirect hop before it is followed
	InScope func(host string) bool
}

// Fetcher performs one GET per page with a bounded deadline and body size
type Fetcher struct {
	client *http.Client
	opts   Options
	log    *logrus.Entry
}

// NewFetcher creates a new Fetcher instance. When opts.InScope is set the
// Fetcher works on a copy of client whose redirect policy refuses hops that
// leave the scope, so no request is ever sent to an out-of-scope host.
func NewFetcher(client *http.Client, opts Options, log *logrus.Entry) *Fetcher {
	if opts.InScope != nil {
		client = scopedClient(client, opts.InScope)
	}
	return &Fetcher{
		client: client,
		opts:   opts,
		log:    log,
	}
}

// Fetch issues a single GET for rawURL and returns the decoded page.
// There is no retry: a failed page is reported to the caller and skipped.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	reqLog := f.log.WithField("url", rawURL)

	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrRequestCreation, err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	resLog := reqLog.WithFields(logrus.Fields{"status_code": resp.StatusCode, "status": resp.Status})
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		resLog.Debug("Successfully fetched")
	} else {
		resLog.Debug("Non-2xx response, analyzing anyway")
	}

	var reader io.Reader = resp.Body
	if f.opts.MaxBodyBytes > 0 {
		// One extra byte lets us tell "exactly at limit" from "over limit"
		reader = io.LimitReader(resp.Body, f.opts.MaxBodyBytes+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, err)
	}
	if f.opts.MaxBodyBytes > 0 && int64(len(raw)) > f.opts.MaxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", utils.ErrPageTooLarge, f.opts.MaxBodyBytes)
	}

	body, err := decodeBody(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Page{
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func scopedClient(client *http.Client, inScope func(host string) bool) *http.Client {
	scoped := *client
	next := client.CheckRedirect
	scoped.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if !inScope(req.URL.Hostname()) {
			return fmt.Errorf("%w: redirect to '%s'", utils.ErrScopeViolation, req.URL)
		}
		if next != nil {
			return next(req, via)
		}
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}
	return &scoped
}

// decodeBody converts raw bytes to UTF-8 using the declared or sniffed charset
func decodeBody(raw []byte, contentType string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrBodyDecode, err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrBodyDecode, err)
	}
	return string(decoded), nil
}
