package main

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// A Cache stores gob-encoded values in a directory, keyed by a hash of
// the inputs that produced them. A nil *Cache never hits and discards
// saves.
type Cache struct {
	dir string
}

func NewCache(dir string) *Cache {
	return &Cache{dir}
}

type CacheKey struct {
	key string
}

// MakeCacheKey hashes the gob encoding of args.
func MakeCacheKey(args ...any) (CacheKey, error) {
	h := sha256.New()

	enc := gob.NewEncoder(h)
	for _, arg := range args {
		if err := enc.Encode(arg); err != nil {
			return CacheKey{}, fmt.Errorf("encoding cache key: %w", err)
		}
	}

	return CacheKey{hex.EncodeToString(h.Sum(nil))}, nil
}

func (ck CacheKey) String() string {
	return ck.key
}

func (c *Cache) path(ck CacheKey) string {
	return filepath.Join(c.dir, ck.key)
}

// Load decodes the value stored under ck into out. It reports false if
// there is no such value or it cannot be decoded.
func (c *Cache) Load(ck CacheKey, out any) (bool, error) {
	if c == nil {
		return false, nil
	}
	f, err := os.Open(c.path(ck))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	if dec.Decode(out) != nil {
		// A stale or truncated entry is a miss.
		return false, nil
	}
	return true, nil
}

func (c *Cache) Save(ck CacheKey, val any) error {
	if c == nil {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0777); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	// Write to a temporary file first so a concurrent or interrupted
	// save never leaves a partial entry under the final name.
	f, err := os.CreateTemp(c.dir, ck.key+".tmp*")
	if err != nil {
		return fmt.Errorf("saving to cache: %w", err)
	}
	defer os.Remove(f.Name())
	enc := gob.NewEncoder(f)
	if err := enc.Encode(val); err != nil {
		f.Close()
		return fmt.Errorf("encoding cache value: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("saving to cache: %w", err)
	}
	return os.Rename(f.Name(), c.path(ck))
}
