package inboxd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/acastano/inboxtui/internal/models"
)

// ErrNotFound is returned when no message carries the requested ID.
var ErrNotFound = errors.New("message not found")

// Store persists messages in BadgerDB.
//
// The primary key is "msg:{recipient}:{timestamp_padded}:{uuid}":
//  1. The recipient prefix makes per-agent listing a single prefix scan.
//  2. 19-digit zero padding of UnixNano keeps keys chronologically sorted
//     lexicographically, so a reverse scan yields newest first.
//  3. The trailing uuid disambiguates two messages in the same nanosecond.
//
// A secondary "id:{message_id}" entry maps the public message ID to the
// primary key for point lookups and updates.
type Store struct {
	db  *badger.DB
	log *slog.Logger
}

// NewStore wraps an open BadgerDB handle.
func NewStore(db *badger.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

func primaryKey(msg *models.Message, at time.Time) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", msg.To, at.UnixNano(), uuid.NewString()))
}

func idKey(id string) []byte {
	return []byte("id:" + id)
}

// NewMessageID builds the public message ID: a second-resolution UTC
// stamp, the sender, and a short random suffix for uniqueness.
func NewMessageID(from string, at time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s_%s_%s", at.UTC().Format("20060102_150405"), from, suffix)
}

// Create persists msg. The caller assigns ID, Timestamp and Status.
func (s *Store) Create(msg *models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	key := primaryKey(msg, msg.Time())
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(idKey(msg.ID), key)
	})
}

// Get returns the message with the given public ID.
func (s *Store) Get(id string) (*models.Message, error) {
	var msg models.Message
	err := s.db.View(func(txn *badger.Txn) error {
		key, err := resolveID(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return translateBadgerErr(err)
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &msg)
		})
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListFor returns one page of messages addressed to recipient, newest
// first, plus the recipient's total count. A non-empty status restricts the
// listing (and the total) to messages in that state.
func (s *Store) ListFor(recipient string, status models.Status, offset, limit int) ([]models.Message, int, error) {
	var page []models.Message
	total := 0
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:" + recipient + ":")
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse scan needs a seek past the newest key of the prefix.
		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var msg models.Message
			err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &msg)
			})
			if err != nil {
				return err
			}
			if status != "" && msg.Status != status {
				continue
			}
			pos := total
			total++
			if pos < offset || len(page) >= limit {
				continue
			}
			page = append(page, msg)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// ListAll returns one page of the global listing across all recipients,
// newest first, optionally restricted to one status. Keys group by
// recipient, so ordering is restored in memory.
func (s *Store) ListAll(status models.Status, offset, limit int) ([]models.Message, error) {
	var all []models.Message
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:")
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var msg models.Message
			err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &msg)
			})
			if err != nil {
				return err
			}
			if status != "" && msg.Status != status {
				continue
			}
			all = append(all, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Time().After(all[j].Time())
	})

	if offset >= len(all) {
		return []models.Message{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Update loads the message with the given ID, applies mutate and writes it
// back under the same primary key (the timestamp never changes, so the key
// is stable).
func (s *Store) Update(id string, mutate func(*models.Message)) (*models.Message, error) {
	var msg models.Message
	err := s.db.Update(func(txn *badger.Txn) error {
		key, err := resolveID(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return translateBadgerErr(err)
		}
		if err := item.Value(func(v []byte) error {
			return json.Unmarshal(v, &msg)
		}); err != nil {
			return err
		}
		mutate(&msg)
		data, err := json.Marshal(&msg)
		if err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func resolveID(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(idKey(id))
	if err != nil {
		return nil, translateBadgerErr(err)
	}
	return item.ValueCopy(nil)
}

func translateBadgerErr(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}
