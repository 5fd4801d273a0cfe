package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/leakcrawl/pkg/models"
)

// MemoryStore implements VisitedStore with a mutex-guarded map
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]models.PageDBEntry
	closed  bool
	log     *logrus.Entry
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore(logger *logrus.Entry) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]models.PageDBEntry),
		log:     logger,
	}
}

var errStoreClosed = errors.New("visited store closed")

// MarkPageVisited implements the VisitedStore interface
func (s *MemoryStore) MarkPageVisited(pageURL string, depth int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, errStoreClosed
	}
	if _, exists := s.entries[pageURL]; exists {
		return false, nil
	}
	s.entries[pageURL] = models.PageDBEntry{
		Status:      models.PageStatusVisiting,
		LastAttempt: time.Now(),
		Depth:       depth,
	}
	return true, nil
}

// CheckPageStatus implements the VisitedStore interface
func (s *MemoryStore) CheckPageStatus(pageURL string) (models.PageStatus, *models.PageDBEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.PageStatusDBError, nil, errStoreClosed
	}
	entry, exists := s.entries[pageURL]
	if !exists {
		return models.PageStatusUnvisited, nil, nil
	}
	return entry.Status, &entry, nil
}

// UpdatePageStatus implements the VisitedStore interface
func (s *MemoryStore) UpdatePageStatus(pageURL string, entry *models.PageDBEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}
	if err := checkEntry(pageURL, entry); err != nil {
		return err
	}
	s.entries[pageURL] = *entry
	s.log.Debugf("Updated page status for '%s' to '%s'", pageURL, entry.Status)
	return nil
}

// GetVisitedCount implements the VisitedStore interface
func (s *MemoryStore) GetVisitedCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

// Close implements the VisitedStore interface
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}
