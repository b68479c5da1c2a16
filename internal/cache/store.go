// Package cache keeps processed records in a bbolt file so that unchanged
// PDFs are not read again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/joseph-ayodele/energy-invoices/internal/invoice"
)

const bucketName = "records"

// Store is a bbolt-backed record cache. Keys combine the settings
// fingerprint with the sha256 of the file content, so changing the
// extraction settings never serves stale records.
type Store struct {
	db          *bbolt.DB
	fingerprint string
}

// Open opens or creates the cache file at path.
func Open(path, fingerprint string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, fingerprint: fingerprint}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) key(sum string) []byte {
	return []byte(s.fingerprint + ":" + sum)
}

// Get returns the record stored for the content hash sum.
func (s *Store) Get(sum string) (invoice.Record, bool, error) {
	var rec invoice.Record
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get(s.key(sum))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return invoice.Record{}, false, fmt.Errorf("unmarshaling record: %w", err)
	}
	return rec, found, nil
}

// Put stores rec under the content hash sum.
func (s *Store) Put(sum string, rec invoice.Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put(s.key(sum), data)
	})
}

// Len returns the number of cached records.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(bucketName)).Stats().KeyN
		return nil
	})
	return n, err
}

// Fingerprint hashes the settings that influence extraction.
func Fingerprint(settings any) (string, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}

// FileSum returns the hex sha256 of the file at path.
func FileSum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

type cachedProcessor struct {
	store  *Store
	next   invoice.FileProcessor
	logger *slog.Logger
}

// Wrap returns a processor that serves records from store and fills it on
// a miss. Failed files are never cached.
func Wrap(store *Store, next invoice.FileProcessor, logger *slog.Logger) invoice.FileProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &cachedProcessor{store: store, next: next, logger: logger}
}

func (c *cachedProcessor) Process(ctx context.Context, path string) (invoice.Record, error) {
	sum, err := FileSum(path)
	if err != nil {
		return c.next.Process(ctx, path)
	}

	rec, ok, err := c.store.Get(sum)
	if err != nil {
		c.logger.Warn("cache.get.failed", "path", path, "error", err)
	}
	if ok {
		c.logger.Debug("cache.hit", "path", path)
		rec.SourcePath = path
		return rec, nil
	}

	rec, err = c.next.Process(ctx, path)
	if err != nil {
		return rec, err
	}
	if err := c.store.Put(sum, rec); err != nil {
		c.logger.Warn("cache.put.failed", "path", path, "error", err)
	}
	return rec, nil
}
