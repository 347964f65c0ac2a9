// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tomtom215/crease/internal/metrics"
	"github.com/tomtom215/crease/internal/validation"
)

// ErrInvalidID is returned for identifiers that cannot be used as a file name.
var ErrInvalidID = errors.New("invalid cache identifier")

const entryExt = ".json"

// FileCache is a permanent on-disk store of raw API responses, one file
// <id>.json per identifier. Entries are never updated, expired or deleted.
//
// A FileCache assumes a single writer per directory.
type FileCache struct {
	dir       string
	namespace string
}

// NewFileCache returns a cache rooted at dir. The directory is created on the
// first Store.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir, namespace: "root"}
}

// Namespace returns a cache rooted at <dir>/<name>, so that endpoints keyed
// by the same identifier do not collide.
func (c *FileCache) Namespace(name string) *FileCache {
	return &FileCache{dir: filepath.Join(c.dir, name), namespace: name}
}

// Dir returns the directory holding this cache's entries.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) path(id string) (string, error) {
	if !validation.IsSafeEntityID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(c.dir, id+entryExt), nil
}

// Lookup returns the stored bytes for id. A missing entry is (nil, false, nil).
func (c *FileCache) Lookup(id string) ([]byte, bool, error) {
	p, err := c.path(id)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.RecordCacheLookup(c.namespace, false)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry %s: %w", p, err)
	}

	metrics.RecordCacheLookup(c.namespace, true)
	return data, true, nil
}

// Store writes raw for id. The write goes to a temporary file in the same
// directory which is then renamed over the entry, so readers never observe a
// partial file.
func (c *FileCache) Store(id string, raw []byte) error {
	p, err := c.path(id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", c.dir, err)
	}

	return WriteFileAtomic(p, raw)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place.
func WriteFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// DiskStats summarises the entries of one cache directory.
type DiskStats struct {
	Namespace string `json:"namespace"`
	Dir       string `json:"dir"`
	Entries   int    `json:"entries"`
	Bytes     int64  `json:"bytes"`
}

// Stats counts the entries directly inside this cache's directory. A
// directory that does not exist yet reports zero entries.
func (c *FileCache) Stats() (DiskStats, error) {
	st := DiskStats{Namespace: c.namespace, Dir: c.dir}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("read cache dir %s: %w", c.dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entryExt) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
	}
	return st, nil
}

// NamespaceStats returns Stats for every namespace directory under this
// cache, sorted by name.
func (c *FileCache) NamespaceStats() ([]DiskStats, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache dir %s: %w", c.dir, err)
	}

	var out []DiskStats
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		st, err := c.Namespace(e.Name()).Stats()
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Namespace < out[j].Namespace })
	return out, nil
}
