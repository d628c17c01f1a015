package domain

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

const (
	// RegistrySuffix marks the package registry directory inside a sandbox,
	// e.g. "x86_64-linux-ghc-9.4.8-packages.conf.d".
	RegistrySuffix = "-packages.conf.d"

	// DefaultSandboxDirName is the project sandbox location, relative to the
	// project directory.
	DefaultSandboxDirName = ".cabal-sandbox"

	// DefaultConfigFilename is the optional per-project configuration file.
	DefaultConfigFilename = "hoard.yaml"
)

// CacheSandboxName derives the directory name for a new cache sandbox from
// the project's basename, the install plan, and a per-invocation nonce.
// The hash suffix keeps concurrent and repeated runs from colliding on the
// same cache entry.
func CacheSandboxName(projectDir string, plan []Package, nonce uint64) string {
	sorted := make([]Package, len(plan))
	copy(sorted, plan)
	SortPackages(sorted)

	h := xxhash.New()
	for _, p := range sorted {
		_, _ = h.WriteString(p.String())
		_, _ = h.WriteString(";")
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], nonce)
	_, _ = h.Write(buf[:])

	return fmt.Sprintf("%s-%016x", filepath.Base(filepath.Clean(projectDir)), h.Sum64())
}
