package crawler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sriram-PR/leakcrawl/pkg/models"
	"github.com/Sriram-PR/leakcrawl/pkg/storage"
)

// CrawlState is the single mutable state of one crawl.
// The visited set lives in the store; everything else is guarded by mu.
type CrawlState struct {
	seedURL  string
	seedHost string
	maxDepth int
	store    storage.VisitedStore

	mu     sync.Mutex
	order  []string                      // Visit order
	pages  map[string]*models.PageResult // Successfully analyzed pages
	depths map[string]int                // Depth of first discovery, final once set
	failed map[string]string             // URL -> error category
}

func newCrawlState(seedURL, seedHost string, maxDepth int, store storage.VisitedStore) *CrawlState {
	return &CrawlState{
		seedURL:  seedURL,
		seedHost: seedHost,
		maxDepth: maxDepth,
		store:    store,
		pages:    make(map[string]*models.PageResult),
		depths:   make(map[string]int),
		failed:   make(map[string]string),
	}
}

// claim atomically moves pageURL from Unvisited to Visiting.
// Returns false when another item already claimed it.
func (s *CrawlState) claim(pageURL string, depth int) (bool, error) {
	added, err := s.store.MarkPageVisited(pageURL, depth)
	if err != nil || !added {
		return false, err
	}
	s.mu.Lock()
	s.order = append(s.order, pageURL)
	s.depths[pageURL] = depth
	s.mu.Unlock()
	return true, nil
}

var errAlreadyFinal = errors.New("page already has a final status")

// ensureNotFinal refuses a second Visited/Failed transition for pageURL
func (s *CrawlState) ensureNotFinal(pageURL string) error {
	status, _, err := s.store.CheckPageStatus(pageURL)
	if err != nil {
		return err
	}
	if status.IsTerminal() {
		return fmt.Errorf("%w: '%s' is %s", errAlreadyFinal, pageURL, status)
	}
	return nil
}

// recordVisited stores the page's result and moves it to Visited
func (s *CrawlState) recordVisited(pageURL string, depth, statusCode int, result *models.PageResult) error {
	if err := s.ensureNotFinal(pageURL); err != nil {
		return err
	}
	s.mu.Lock()
	s.pages[pageURL] = result
	s.mu.Unlock()
	return s.store.UpdatePageStatus(pageURL, &models.PageDBEntry{
		Status:      models.PageStatusVisited,
		LastAttempt: time.Now(),
		Depth:       depth,
		StatusCode:  statusCode,
	})
}

// recordFailed moves the page to Failed; no PageResult is kept for it
func (s *CrawlState) recordFailed(pageURL string, depth int, category string) error {
	if err := s.ensureNotFinal(pageURL); err != nil {
		return err
	}
	s.mu.Lock()
	s.failed[pageURL] = category
	s.mu.Unlock()
	return s.store.UpdatePageStatus(pageURL, &models.PageDBEntry{
		Status:      models.PageStatusFailed,
		ErrorType:   category,
		LastAttempt: time.Now(),
		Depth:       depth,
	})
}

// Result is the outcome of one crawl, handed to the report aggregator.
type Result struct {
	SeedURL     string
	CrawledURLs []string                      // Visit order, no duplicates
	Pages       map[string]*models.PageResult // Only successfully fetched pages
	Depths      map[string]int
	Failed      map[string]string
}

// snapshot copies the state into a Result. Must only be called after every worker has exited.
func (s *CrawlState) snapshot() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &Result{
		SeedURL:     s.seedURL,
		CrawledURLs: append([]string(nil), s.order...),
		Pages:       make(map[string]*models.PageResult, len(s.pages)),
		Depths:      make(map[string]int, len(s.depths)),
		Failed:      make(map[string]string, len(s.failed)),
	}
	for k, v := range s.pages {
		res.Pages[k] = v
	}
	for k, v := range s.depths {
		res.Depths[k] = v
	}
	for k, v := range s.failed {
		res.Failed[k] = v
	}
	return res
}
