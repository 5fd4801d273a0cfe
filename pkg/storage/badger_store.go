package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/leakcrawl/pkg/log"
	"github.com/Sriram-PR/leakcrawl/pkg/models"
	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

const pageKeyPrefix = "page:" // Prefix for page URL keys in DB

// BadgerStore implements the VisitedStore interface using an in-memory BadgerDB.
// Nothing is written to disk, so no state survives the crawl.
type BadgerStore struct {
	db       *badger.DB
	log      *logrus.Entry
	keyCount atomic.Int64 // Cached key count for O(1) GetVisitedCount
}

// NewBadgerStore opens an in-memory BadgerDB for one crawl
func NewBadgerStore(logger *logrus.Entry) (*BadgerStore, error) {
	store := &BadgerStore{log: logger}

	badgerLogger := log.NewBadgerLogrusAdapter(logger.WithField("component", "badgerdb"))
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(badgerLogger).
		WithNumVersionsToKeep(1) // Only keep the latest state

	var err error
	store.db, err = badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open in-memory badger database: %w", utils.ErrDatabase, err)
	}

	logger.Info("In-memory visited URL database initialized.")
	return store, nil
}

const maxConflictRetries = 10

// dbUpdate wraps db.Update with a retry loop for BadgerDB transaction conflicts.
// Concurrent MVCC transactions on the same key return badger.ErrConflict; the loser
// retries and then observes the winner's write.
func (s *BadgerStore) dbUpdate(fn func(txn *badger.Txn) error) error {
	for i := 0; i < maxConflictRetries; i++ {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debugf("BadgerDB transaction conflict (attempt %d/%d), retrying", i+1, maxConflictRetries)
	}
	return fmt.Errorf("%w: transaction conflict not resolved after %d retries", utils.ErrDatabase, maxConflictRetries)
}

// MarkPageVisited implements the VisitedStore interface
func (s *BadgerStore) MarkPageVisited(pageURL string, depth int) (bool, error) {
	if s.db == nil || s.db.IsClosed() {
		return false, errStoreClosed
	}
	key := []byte(pageKeyPrefix + pageURL)
	entryBytes, errJson := json.Marshal(&models.PageDBEntry{
		Status:      models.PageStatusVisiting,
		LastAttempt: time.Now(),
		Depth:       depth,
	})
	if errJson != nil {
		return false, fmt.Errorf("%w: failed to marshal PageDBEntry for key '%s': %w", utils.ErrParsing, string(key), errJson)
	}

	added := false
	err := s.dbUpdate(func(txn *badger.Txn) error {
		added = false // Reset on conflict retry
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			errSet := txn.SetEntry(badger.NewEntry(key, entryBytes))
			if errSet == nil {
				added = true
			}
			return errSet
		}
		// Key already exists or another error occurred
		return errGet
	})

	if err != nil {
		s.log.WithField("key", string(key)).Errorf("DB Update error in MarkPageVisited: %v", err)
		return false, fmt.Errorf("%w: marking page key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	if added {
		s.keyCount.Add(1)
	}
	return added, nil
}

// CheckPageStatus implements the VisitedStore interface
func (s *BadgerStore) CheckPageStatus(pageURL string) (models.PageStatus, *models.PageDBEntry, error) {
	status := models.PageStatusUnvisited
	var entry *models.PageDBEntry
	key := []byte(pageKeyPrefix + pageURL)

	errView := s.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return fmt.Errorf("%w: failed getting page key '%s': %w", utils.ErrDatabase, string(key), errGet)
		}

		return item.Value(func(val []byte) error {
			var decodedEntry models.PageDBEntry
			if errJson := json.Unmarshal(val, &decodedEntry); errJson != nil {
				return fmt.Errorf("%w: failed to unmarshal PageDBEntry for key '%s': %w", utils.ErrParsing, string(key), errJson)
			}
			entry = &decodedEntry
			status = decodedEntry.Status
			return nil
		})
	})

	if errView != nil {
		s.log.Errorf("DB View error in CheckPageStatus for key '%s': %v", string(key), errView)
		return models.PageStatusDBError, nil, errView
	}
	return status, entry, nil
}

// UpdatePageStatus implements the VisitedStore interface
func (s *BadgerStore) UpdatePageStatus(pageURL string, entry *models.PageDBEntry) error {
	if s.db == nil || s.db.IsClosed() {
		return errStoreClosed
	}
	if err := checkEntry(pageURL, entry); err != nil {
		return err
	}
	key := []byte(pageKeyPrefix + pageURL)

	entryBytes, errJson := json.Marshal(entry)
	if errJson != nil {
		wrappedErr := fmt.Errorf("%w: failed to marshal PageDBEntry for key '%s': %w", utils.ErrParsing, string(key), errJson)
		s.log.Error(wrappedErr)
		return wrappedErr
	}

	isNew := false
	err := s.dbUpdate(func(txn *badger.Txn) error {
		_, errGet := txn.Get(key)
		isNew = errors.Is(errGet, badger.ErrKeyNotFound)
		return txn.SetEntry(badger.NewEntry(key, entryBytes))
	})

	if err != nil {
		s.log.WithField("key", string(key)).Errorf("DB Update error in UpdatePageStatus: %v", err)
		return fmt.Errorf("%w: failed setting page status for key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	if isNew {
		s.keyCount.Add(1)
	}

	s.log.Debugf("Successfully updated page status for key '%s' to '%s'", string(key), entry.Status)
	return nil
}

// GetVisitedCount implements the VisitedStore interface.
// Returns the cached key count maintained by atomic increments on writes.
func (s *BadgerStore) GetVisitedCount() (int, error) {
	return int(s.keyCount.Load()), nil
}

// Close implements the VisitedStore interface
func (s *BadgerStore) Close() error {
	if s.db != nil && !s.db.IsClosed() {
		s.log.Info("Closing visited DB...")
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Error closing visited DB: %v", err)
			return err
		}
		s.log.Info("Visited DB closed.")
		return nil
	}
	s.log.Info("Visited DB already closed or was not initialized.")
	return nil
}
