package tracks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Catalog is the ordered track collection bound to the file it came from.
type Catalog struct {
	Path   string
	Tracks []Track
}

// LoadCatalog reads and decodes the whole catalog file. The file must hold a
// top-level JSON array of objects; anything else is an error before any
// record is touched.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var records []Track
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}

	return &Catalog{Path: path, Tracks: records}, nil
}

// Store rewrites the catalog file in place. There is no backup and no
// atomicity: a failed write can leave the file truncated.
func (c *Catalog) Store() error {
	file, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("writing catalog %s: %w", c.Path, err)
	}

	if err := encodeTracks(file, c.Tracks); err != nil {
		file.Close()
		return fmt.Errorf("encoding catalog %s: %w", c.Path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing catalog %s: %w", c.Path, err)
	}
	return nil
}

// StoreAtomic writes to a temporary file in the catalog's directory and
// renames it over the original.
func (c *Catalog) StoreAtomic() error {
	dir := filepath.Dir(c.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(c.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing catalog %s: %w", c.Path, err)
	}
	tmpPath := tmp.Name()

	if err := encodeTracks(tmp, c.Tracks); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encoding catalog %s: %w", c.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing catalog %s: %w", c.Path, err)
	}
	if err := os.Rename(tmpPath, c.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing catalog %s: %w", c.Path, err)
	}
	return nil
}

// AcquireLock takes an advisory lock next to the catalog file, guarding the
// non-atomic rewrite against a concurrent run. It is taken before the file is
// even read; the returned func releases it.
func AcquireLock(path string) (func(), error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking catalog %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("catalog %s is locked by another run", path)
	}
	return func() { lock.Unlock() }, nil
}

func encodeTracks(w io.Writer, records []Track) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
