package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"doxreduce/internal/domain"
)

var (
	bucketFiles = []byte("files")
	bucketMeta  = []byte("meta")
)

// BoltStore is a ManifestStore backed by a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketFiles, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type entryMeta struct {
	Hash      string `json:"hash"`
	Size      int64  `json:"size"`
	ReducedAt int64  `json:"reduced_at"`
}

func (s *BoltStore) PutEntry(entry domain.ManifestEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(entryMeta{
			Hash:      entry.Hash,
			Size:      entry.Size,
			ReducedAt: entry.ReducedAt.Unix(),
		})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketFiles).Put([]byte(entry.Path), data)
	})
}

func (s *BoltStore) GetEntry(path string) (domain.ManifestEntry, bool, error) {
	var entry domain.ManifestEntry
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(path))
		if data == nil {
			return nil
		}
		var meta entryMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("decode entry %s: %w", path, err)
		}
		entry = toEntry(path, meta)
		found = true
		return nil
	})
	return entry, found, err
}

func (s *BoltStore) DeleteEntry(path string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).Delete([]byte(path))
	})
}

// ListEntries returns every entry in path order.
func (s *BoltStore) ListEntries() ([]domain.ManifestEntry, error) {
	var entries []domain.ManifestEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).ForEach(func(k, v []byte) error {
			var meta entryMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("decode entry %s: %w", k, err)
			}
			entries = append(entries, toEntry(string(k), meta))
			return nil
		})
	})
	return entries, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func toEntry(path string, meta entryMeta) domain.ManifestEntry {
	return domain.ManifestEntry{
		Path:      path,
		Hash:      meta.Hash,
		Size:      meta.Size,
		ReducedAt: time.Unix(meta.ReducedAt, 0),
	}
}
