// Package nvstore is the non-volatile key/value collaborator, backed by a
// badger database. Persist stages writes under an internal mutex that stays
// held until Commit; callers must commit from the same goroutine that staged,
// a rendezvous discipline enforced by design rather than at runtime.
package nvstore

import (
	"fmt"

	"github.com/dgraph-io/badger"
	"go.uber.org/zap"
)

type Store struct {
	log *zap.Logger
	db  *badger.DB

	mu     chan struct{} // held from first Persist until Commit
	held   bool
	staged map[string][]byte
}

func New(log *zap.Logger, db *badger.DB) *Store {
	return &Store{
		log: log,
		db:  db,
		mu:  make(chan struct{}, 1),
	}
}

// Persist stages one value for the next Commit. The first Persist of a batch
// acquires the store mutex; it is not released until Commit, so a second
// batch blocks until the first one commits.
func (s *Store) Persist(key string, value []byte) {
	if !s.held {
		s.mu <- struct{}{}
		s.held = true
		s.staged = make(map[string][]byte, 4)
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	s.staged[key] = buf
}

// Retrieve reads one value. It takes its own short lock so reads never
// interleave with a commit in flight.
func (s *Store) Retrieve(key string) ([]byte, bool) {
	s.mu <- struct{}{}
	defer func() { <-s.mu }()
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return out, true
}

// Commit writes all staged values durably and releases the mutex. Returns
// false on failure; the staged batch is discarded either way.
func (s *Store) Commit() bool {
	if !s.held {
		return true
	}
	staged := s.staged
	s.staged = nil
	s.held = false
	defer func() { <-s.mu }()

	err := s.db.Update(func(txn *badger.Txn) error {
		for k, v := range staged {
			if err := txn.Set([]byte(k), v); err != nil {
				return fmt.Errorf("failed to set %s: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("commit failed", zap.Error(err))
		return false
	}
	return true
}
