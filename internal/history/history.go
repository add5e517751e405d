// Package history keeps a bounded local log of pasted transcripts in badger.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/rbright/transkeet/internal/logging"
)

var entryPrefix = []byte("entry/")

// Entry is one pasted transcript.
type Entry struct {
	ID       string        `json:"id"`
	At       time.Time     `json:"at"`
	Text     string        `json:"text"`
	Duration time.Duration `json:"duration"`
}

// Store is safe for concurrent use.
type Store struct {
	db         *badger.DB
	maxEntries int
	now        func() time.Time
}

// DefaultDir returns the on-disk location under the state dir.
func DefaultDir() (string, error) {
	dir, err := logging.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// Open opens (or creates) a store in dir keeping at most maxEntries entries.
func Open(dir string, maxEntries int) (*Store, error) {
	return open(badger.DefaultOptions(dir), maxEntries)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory(maxEntries int) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), maxEntries)
}

func open(opts badger.Options, maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("history max entries must be > 0, got %d", maxEntries)
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return &Store{db: db, maxEntries: maxEntries, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends text captured from audioDuration of speech.
func (s *Store) Record(text string, audioDuration time.Duration) error {
	_, err := s.Append(Entry{Text: text, Duration: audioDuration})
	return err
}

// Append stores entry, filling ID and At when empty, then prunes the oldest
// entries beyond the limit.
func (s *Store) Append(entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = s.now()
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("encode history entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(entry), value)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("write history entry: %w", err)
	}

	if err := s.prune(); err != nil {
		return entry, err
	}
	return entry, nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, n)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = entryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seekLast()); it.ValidForPrefix(entryPrefix) && len(entries) < n; it.Next() {
			var entry Entry
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &entry)
			}); err != nil {
				return fmt.Errorf("decode history entry %q: %w", it.Item().Key(), err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Len returns the number of stored entries.
func (s *Store) Len() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = entryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// prune deletes the oldest entries beyond maxEntries.
func (s *Store) prune() error {
	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		opts.Prefix = entryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seen := 0
		for it.Seek(seekLast()); it.ValidForPrefix(entryPrefix); it.Next() {
			seen++
			if seen > s.maxEntries {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrTxnTooBig) {
		return fmt.Errorf("prune history: %d stale entries: %w", len(stale), err)
	}
	return err
}

// entryKey orders entries by time: prefix + big-endian unix nanos + id.
func entryKey(entry Entry) []byte {
	key := make([]byte, 0, len(entryPrefix)+8+len(entry.ID))
	key = append(key, entryPrefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(entry.At.UnixNano()))
	return append(key, entry.ID...)
}

func seekLast() []byte {
	return append(append([]byte(nil), entryPrefix...), 0xFF)
}
