package weights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/llmrec/recjudge/internal/models"
)

// Key layout
const (
	currentKey        = "weights:current"
	feedbackKeyPrefix = "feedback:"
)

// BadgerStore implements Store on a BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	closer func() error
}

// OpenBadgerStore opens (creating if needed) a store in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open weight store at %s: %w", dir, err)
	}
	return &BadgerStore{db: db, closer: db.Close}, nil
}

// NewBadgerStore wraps an already open DB. Close does not close it.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Close closes the DB if the store opened it.
func (s *BadgerStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Load returns the saved weights.
func (s *BadgerStore) Load(ctx context.Context) (models.WeightVector, error) {
	var w models.WeightVector

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(currentKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get weights: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &w)
		})
	})
	if err != nil {
		return models.WeightVector{}, err
	}

	return w, nil
}

// Save replaces the saved weights.
func (s *BadgerStore) Save(ctx context.Context, w models.WeightVector) error {
	if err := w.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(currentKey), data)
	})
}

// AppendFeedback stores fb under a key ordered by its timestamp.
func (s *BadgerStore) AppendFeedback(ctx context.Context, fb Feedback) error {
	if fb.ID == "" {
		return errors.New("feedback has no ID")
	}

	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	key := fmt.Sprintf("%s%020d:%s", feedbackKeyPrefix, fb.Timestamp.UnixNano(), fb.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set feedback: %w", err)
		}
		return nil
	})
}

// Feedback returns every recorded feedback event, oldest first.
func (s *BadgerStore) Feedback(ctx context.Context) ([]Feedback, error) {
	var out []Feedback

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(feedbackKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var fb Feedback
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &fb)
			})
			if err != nil {
				return fmt.Errorf("decode feedback %s: %w", it.Item().Key(), err)
			}
			out = append(out, fb)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	return out, nil
}
