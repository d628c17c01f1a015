package sandbox

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/zerr"
)

// Cache is the set of historical sandboxes retained for one compiler
// flavor. It is an explicit handle: every operation that touches cache
// state receives one, so tests can point it at a temp directory.
//
// The cache is append-mostly. New sandboxes are added as new package
// combinations are requested; a completed sandbox is only ever deleted by
// the failure rollback or an explicit clean.
type Cache struct {
	Root   string
	Flavor string
}

// NewCache creates a handle for the cache under root scoped to flavor.
func NewCache(root, flavor string) *Cache {
	return &Cache{Root: root, Flavor: flavor}
}

// Dir returns the flavor-scoped cache directory.
func (c *Cache) Dir() string {
	return filepath.Join(c.Root, c.Flavor)
}

// Sandboxes lists the cache sandbox directories in lexicographic order.
// Sorting makes reuse decisions reproducible: when the same package is
// reusable from several sandboxes, the first in this order wins.
// A missing cache directory is an empty cache, not an error.
func (c *Cache) Sandboxes() ([]string, error) {
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to list cache directory"), "path", c.Dir())
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Join(c.Dir(), entry.Name()))
	}
	return dirs, nil
}

// NewSandboxDir returns a fresh, collision-free directory path for a cache
// sandbox derived from the project and its install plan.
func (c *Cache) NewSandboxDir(projectDir string, plan []domain.Package) string {
	name := domain.CacheSandboxName(projectDir, plan, uint64(time.Now().UnixNano()))
	return filepath.Join(c.Dir(), name)
}
