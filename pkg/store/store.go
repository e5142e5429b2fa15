// Package store persists fingerprint → media key mappings between runs so
// known media can be skipped without a remote round trip.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

var mediaKeysBucket = []byte("media_keys")

// Store is a bbolt-backed media-key cache. Safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(mediaKeysBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache db: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultPath places the cache under the user's home directory, one
// database per account.
func DefaultPath(email string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gpmc", email, "cache.db"), nil
}

// GetMediaKey looks up the remote media key for a fingerprint. A miss
// returns "" without error.
func (s *Store) GetMediaKey(fp model.Fingerprint) (string, error) {
	var key string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(mediaKeysBucket).Get(fp); v != nil {
			key = string(v)
		}
		return nil
	})
	return key, err
}

// PutMediaKey records a fingerprint → media key mapping.
func (s *Store) PutMediaKey(fp model.Fingerprint, mediaKey string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(mediaKeysBucket).Put(fp, []byte(mediaKey))
	})
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
