// Package artifact persists derived index snapshots as JSON files using an
// atomic write-then-replace pattern. Readers always observe either the old
// complete snapshot or the new one, never a partially written file.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt marks an artifact that exists but cannot be decoded. Builders
// treat it as a signal to rebuild from scratch rather than fail.
var ErrCorrupt = errors.New("artifact corrupt")

// Load reads the JSON artifact at path into v. A missing artifact satisfies
// errors.Is(err, fs.ErrNotExist); undecodable content satisfies
// errors.Is(err, ErrCorrupt).
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return nil
}

// Save writes v as indented JSON to path. The bytes go to a temp file in the
// same directory, are synced, and are renamed over path in one step, so an
// interrupted save leaves the previous snapshot intact.
//
// encoding/json serializes map keys in sorted order, which keeps repeated
// saves of equal values byte-identical.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
