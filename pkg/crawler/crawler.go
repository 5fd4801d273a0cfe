package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Sriram-PR/leakcrawl/pkg/analyze"
	"github.com/Sriram-PR/leakcrawl/pkg/config"
	"github.com/Sriram-PR/leakcrawl/pkg/fetch"
	"github.com/Sriram-PR/leakcrawl/pkg/models"
	"github.com/Sriram-PR/leakcrawl/pkg/parse"
	"github.com/Sriram-PR/leakcrawl/pkg/queue"
	"github.com/Sriram-PR/leakcrawl/pkg/storage"
	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

// ErrAlreadyRan is returned when Run is called a second time on the same Crawler
var ErrAlreadyRan = errors.New("crawler already ran")

// progressInterval controls how often the waiter logs crawl progress
var progressInterval = 30 * time.Second

// Crawler drives the traversal of one seed URL
type Crawler struct {
	log      *logrus.Entry
	cfg      *config.AppConfig
	patterns *analyze.PatternSet

	store   storage.VisitedStore
	fetcher fetch.PageFetcher

	seedURL  string
	seedHost string

	ran              atomic.Bool
	processedCounter atomic.Int64 // Items that reached a terminal state
}

// NewCrawler creates a Crawler for cfg.BaseURL. cfg must already be validated.
func NewCrawler(
	cfg *config.AppConfig,
	patterns *analyze.PatternSet,
	store storage.VisitedStore,
	fetcher fetch.PageFetcher,
	baseLogger *logrus.Entry,
) (*Crawler, error) {
	if store == nil || fetcher == nil {
		return nil, fmt.Errorf("%w: crawler needs a store and a fetcher", utils.ErrConfigValidation)
	}
	if !parse.IsFetchable(cfg.BaseURL) {
		return nil, fmt.Errorf("%w: base_url '%s' must be an absolute http(s) URL", utils.ErrConfigValidation, cfg.BaseURL)
	}
	seedURL, _, err := parse.ParseAndCanonicalize(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base_url: %w", utils.ErrConfigValidation, err)
	}
	seedHost := parse.HostOf(seedURL)

	return &Crawler{
		log:      baseLogger.WithField("seed_host", seedHost),
		cfg:      cfg,
		patterns: patterns,
		store:    store,
		fetcher:  fetcher,
		seedURL:  seedURL,
		seedHost: seedHost,
	}, nil
}

// Run crawls from the seed until the frontier is exhausted or ctx is cancelled.
// It returns only after every in-flight fetch has finished. On cancellation the
// partial result is returned together with ctx.Err().
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	if !c.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRan
	}

	maxDepth := c.cfg.MaxDepth()
	numWorkers := c.cfg.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	order := queue.LIFO
	if c.cfg.TraversalOrder == config.OrderBreadthFirst {
		order = queue.FIFO
	}

	runLog := c.log.WithFields(logrus.Fields{"max_depth": maxDepth, "order": c.cfg.TraversalOrder})
	runLog.Infof("Crawl starting from %s with %d worker(s), %d pattern(s)", c.seedURL, numWorkers, c.patterns.Len())
	runLog.WithField("patterns", c.patterns.Patterns()).Debug("Active patterns")
	startTime := time.Now()

	state := newCrawlState(c.seedURL, c.seedHost, maxDepth, c.store)
	frontier := queue.NewFrontier(order, c.log)
	var inFlight sync.WaitGroup // Items pushed but not yet finished

	allDone := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	for i := 1; i <= numWorkers; i++ {
		workerLog := c.log.WithField("worker_id", i)
		g.Go(func() error {
			c.worker(gctx, state, frontier, &inFlight, workerLog)
			return nil
		})
	}

	// Waiter: closes the frontier once all work is done or the crawl is cancelled
	g.Go(func() error {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-allDone:
				runLog.Debug("Waiter: all items processed, closing frontier")
				frontier.Close()
				return nil
			case <-gctx.Done():
				abandoned := frontier.Close()
				runLog.Warnf("Waiter: crawl cancelled (%v), abandoning %d queued item(s)", gctx.Err(), abandoned)
				for i := 0; i < abandoned; i++ {
					inFlight.Done()
				}
				return nil
			case <-ticker.C:
				visited, _ := c.store.GetVisitedCount()
				runLog.WithFields(logrus.Fields{
					"visited":         visited,
					"frontier_len":    frontier.Len(),
					"processed_tasks": c.processedCounter.Load(),
				}).Info("Crawl Progress")
			}
		}
	})

	// Seed
	inFlight.Add(1)
	if !frontier.Add(&models.WorkItem{URL: c.seedURL, Depth: 0}) {
		inFlight.Done()
	}
	go func() {
		inFlight.Wait()
		close(allDone)
	}()

	// Join barrier: no result leaves Run while a fetch is still running
	_ = g.Wait()

	result := state.snapshot()
	summaryLog := c.log.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"crawled":  len(result.CrawledURLs),
		"analyzed": len(result.Pages),
		"failed":   len(result.Failed),
	})
	summaryLog.Info("CRAWL FINISHED")

	return result, ctx.Err()
}

// worker pops items until the frontier is closed
func (c *Crawler) worker(ctx context.Context, state *CrawlState, frontier *queue.Frontier, inFlight *sync.WaitGroup, workerLog *logrus.Entry) {
	workerLog.Debug("Worker starting")
	defer workerLog.Debug("Worker finished")

	for {
		item, ok := frontier.Pop()
		if !ok {
			return
		}
		c.processItem(ctx, state, frontier, inFlight, item, workerLog)
	}
}

// processItem runs one frontier item through claim, fetch, analyze and link discovery
func (c *Crawler) processItem(ctx context.Context, state *CrawlState, frontier *queue.Frontier, inFlight *sync.WaitGroup, item *models.WorkItem, workerLog *logrus.Entry) {
	taskLog := workerLog.WithFields(logrus.Fields{"url": item.URL, "depth": item.Depth})
	startTime := time.Now()
	claimed := false

	defer func() {
		if r := recover(); r != nil {
			taskLog.WithFields(logrus.Fields{
				"panic_info":  r,
				"stack_trace": string(debug.Stack()),
			}).Error("PANIC recovered in processItem")
			if claimed {
				if err := state.recordFailed(item.URL, item.Depth, "Panic"); err != nil {
					taskLog.Errorf("Failed to record panic status: %v", err)
				}
			}
		}
		if claimed {
			c.processedCounter.Add(1)
		}
		inFlight.Done()
	}()

	if item.Depth > state.maxDepth {
		taskLog.Debug("Beyond max depth, skipping")
		return
	}
	if ctx.Err() != nil {
		return
	}

	added, err := state.claim(item.URL, item.Depth)
	if err != nil {
		taskLog.WithField("category", utils.CategorizeError(err)).Errorf("Could not claim URL: %v", err)
		return
	}
	if !added {
		if taskLog.Logger.IsLevelEnabled(logrus.DebugLevel) {
			status, _, _ := state.store.CheckPageStatus(item.URL)
			taskLog.Debugf("Already %s, skipping", status)
		}
		return
	}
	claimed = true

	page, err := c.fetcher.Fetch(ctx, item.URL)
	if err == nil && !parse.IsInScope(state.seedHost, parse.HostOf(page.FinalURL)) {
		err = fmt.Errorf("%w: redirected to '%s'", utils.ErrScopeViolation, page.FinalURL)
	}
	if err != nil {
		category := utils.CategorizeError(err)
		taskLog.WithFields(logrus.Fields{"category": category, "duration": time.Since(startTime).String()}).Warnf("Fetch failed: %v", err)
		if dbErr := state.recordFailed(item.URL, item.Depth, category); dbErr != nil {
			taskLog.Errorf("Failed to record failed status: %v", dbErr)
		}
		return
	}

	result := c.analyzePage(item.URL, page)
	if err := state.recordVisited(item.URL, item.Depth, page.StatusCode, result); err != nil {
		taskLog.Errorf("Failed to record visited status: %v", err)
	}
	taskLog.WithFields(logrus.Fields{
		"status_code": page.StatusCode,
		"patterns":    len(result.Matches),
		"duration":    time.Since(startTime).String(),
	}).Info("Page analyzed")

	if item.Depth >= state.maxDepth {
		return
	}

	children := c.discoverLinks(state, page, taskLog)
	for i := range children {
		// Reverse order so a LIFO frontier hands them out in sorted order
		child := children[i]
		if frontier.Order() == queue.LIFO {
			child = children[len(children)-1-i]
		}
		inFlight.Add(1)
		if !frontier.Add(&models.WorkItem{URL: child, Depth: item.Depth + 1}) {
			inFlight.Done()
		}
	}
}

// analyzePage builds the PageResult for a fetched page
func (c *Crawler) analyzePage(pageURL string, page *fetch.Page) *models.PageResult {
	result := &models.PageResult{Matches: c.patterns.Search(page.Body)}
	if !c.cfg.Advanced {
		return result
	}
	result.Advanced = analyze.BuildAdvancedInfo(pageURL, page.Header, page.Body)
	for _, comment := range result.Advanced.HTMLComments {
		result.Matches = analyze.MergeMatches(result.Matches, c.patterns.Search(comment))
	}
	return result
}

// discoverLinks returns the in-scope links of a page, sorted
func (c *Crawler) discoverLinks(state *CrawlState, page *fetch.Page, taskLog *logrus.Entry) []string {
	base, err := url.Parse(page.FinalURL)
	if err != nil {
		taskLog.Warnf("Cannot resolve links against '%s': %v", page.FinalURL, err)
		return nil
	}
	links, err := analyze.ExtractLinks(base, page.Body)
	if err != nil {
		taskLog.WithField("category", utils.CategorizeError(err)).Warnf("Link extraction failed: %v", err)
		return nil
	}

	inScope := links[:0]
	for _, link := range links {
		if parse.IsInScope(state.seedHost, parse.HostOf(link)) {
			inScope = append(inScope, link)
		} else {
			taskLog.Debugf("Out of scope, not following: %s", link)
		}
	}
	taskLog.Debugf("Discovered %d in-scope link(s) of %d", len(inScope), len(links))
	return inScope
}
