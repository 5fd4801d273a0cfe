package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/leakcrawl/pkg/config"
	"github.com/Sriram-PR/leakcrawl/pkg/models"
	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

// PageStore handles page visitation state
type PageStore interface {
	// MarkPageVisited atomically claims a URL, recording it as visiting at the given depth
	// Returns true if the URL was newly added, false if it already existed
	MarkPageVisited(pageURL string, depth int) (bool, error)

	// CheckPageStatus retrieves the status and details of a page URL
	// Returns PageStatusUnvisited when the URL was never claimed
	CheckPageStatus(pageURL string) (status models.PageStatus, entry *models.PageDBEntry, err error)

	// UpdatePageStatus updates the status and details for a page URL
	// Entries whose status is not a known operational value are rejected
	UpdatePageStatus(pageURL string, entry *models.PageDBEntry) error
}

// StoreAdmin handles lifecycle and administrative operations
type StoreAdmin interface {
	// GetVisitedCount returns the number of claimed URLs
	GetVisitedCount() (int, error)

	// Close releases the store's resources
	Close() error
}

// VisitedStore combines all store interfaces for components that need full access
type VisitedStore interface {
	PageStore
	StoreAdmin
}

// New returns the visited store selected by kind (config.StoreMemory or config.StoreBadger).
// Both backends live only for the duration of one crawl.
func New(kind string, logger *logrus.Entry) (VisitedStore, error) {
	switch kind {
	case config.StoreMemory, "":
		return NewMemoryStore(logger), nil
	case config.StoreBadger:
		return NewBadgerStore(logger)
	default:
		return nil, fmt.Errorf("%w: unknown visited store '%s'", utils.ErrConfigValidation, kind)
	}
}

// checkEntry rejects entries that would put an unknown status into the store
func checkEntry(pageURL string, entry *models.PageDBEntry) error {
	if entry == nil || !entry.Status.IsValid() {
		var status models.PageStatus
		if entry != nil {
			status = entry.Status
		}
		return fmt.Errorf("%w: invalid status '%s' for '%s'", utils.ErrDatabase, status, pageURL)
	}
	return nil
}
