package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит диагностики файлов по ключу fileKey на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is the on-disk form of one diagnostic. Positions are kept
// as line/column because spans point into a FileSet that does not outlive the run.
type CachedDiagnostic struct {
	Code     uint16
	Severity uint8
	Line     uint32
	Col      uint32
	Message  string
}

// DiskPayload stores the findings of one file.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Path        string
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache initializes and returns a disk cache at the standard location
// ($XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens (creating if needed) a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не держать тысячи файлов в одном каталоге
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	renamed := false
	defer func() {
		if renamed {
			return
		}
		_ = f.Close()
		if rmErr := os.Remove(f.Name()); rmErr != nil && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads and deserializes a payload from the disk cache. A payload written
// with another schema version counts as a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// toPayload converts file diagnostics into their cached form.
func toPayload(path string, ds []diag.Diagnostic) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		Diagnostics: make([]CachedDiagnostic, len(ds)),
	}
	for i := range ds {
		d := &ds[i]
		payload.Diagnostics[i] = CachedDiagnostic{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Line:     d.Loc.Line,
			Col:      d.Loc.Col,
			Message:  d.Message,
		}
	}
	return payload
}

// fromPayload restores diagnostics bound to file id.
func fromPayload(payload *DiskPayload, id source.FileID) []diag.Diagnostic {
	if payload == nil || len(payload.Diagnostics) == 0 {
		return nil
	}
	out := make([]diag.Diagnostic, len(payload.Diagnostics))
	for i, cd := range payload.Diagnostics {
		out[i] = diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.Span{File: id},
			Loc:      source.LineCol{Line: cd.Line, Col: cd.Col},
		}
	}
	return out
}
