// Package jsonl provides an append-only, line-delimited JSON sink for
// price observations.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/siftworks/metasift"
)

// Ensure Store implements metasift.PriceWriter at compile time.
var _ metasift.PriceWriter = (*Store)(nil)

// Store appends price observations to a JSONL file, one JSON-encoded
// record per line. The file and its parent directories are created on
// first write; rotation and locking are the caller's concern.
type Store struct {
	path string
}

// NewStore creates a Store writing to the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the conventional per-product file name,
// prices_<asin>.jsonl, using "unknown" when the observation carries no
// ASIN.
func DefaultPath(asin string) string {
	if asin == "" {
		asin = "unknown"
	}
	return fmt.Sprintf("prices_%s.jsonl", asin)
}

// RecordPrice appends one observation as a single JSON line.
func (s *Store) RecordPrice(ctx context.Context, info *metasift.PriceInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	line, err := json.Marshal(info)
	if err != nil {
		return metasift.Errorf(metasift.EINTERNAL, "encode price observation: %v", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return metasift.Errorf(metasift.EINTERNAL, "create output directory: %v", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return metasift.Errorf(metasift.EINTERNAL, "open %q: %v", s.path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return metasift.Errorf(metasift.EINTERNAL, "append to %q: %v", s.path, err)
	}
	return nil
}
