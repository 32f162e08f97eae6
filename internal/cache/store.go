package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muhammadmuzzammil1998/jsonc"
)

// WriteJSON serializes v as 2-space-indented UTF-8 JSON and writes it to
// path atomically: the bytes land in a temporary file in the same
// directory, which is then renamed over the target. A reader polling the
// path never observes a half-written file. On failure the temporary file
// is removed and the previously persisted document is left untouched.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", path, err)
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".meta-*.tmp")
	if err != nil {
		return fmt.Errorf("cache: create temp in %s: %w", dir, err)
	}
	tmp := f.Name()

	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("cache: write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("cache: sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cache: close %s: %w", tmp, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cache: chmod %s: %w", tmp, err)
	}
	// Same-directory rename: atomic on the same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cache: rename %s: %w", path, err)
	}
	committed = true
	return nil
}

// ReadJSON loads a persisted document into v. The reader is tolerant of
// JSONC-style comments, since cache files are occasionally hand-edited.
// Returns false when the file is missing, unreadable, or corrupt — a
// damaged prior document must never fail a rescan.
func ReadJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		return false
	}
	return true
}
