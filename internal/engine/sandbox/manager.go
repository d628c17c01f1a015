// Package sandbox implements the lifecycle of isolated build environments
// and the on-disk cache that retains them per compiler flavor.
package sandbox

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/hoard/internal/core/ports"
	"go.trai.ch/zerr"
)

// Manager performs sandbox lifecycle operations: create, delete, populate,
// clone. It owns each sandbox exclusively for the duration of a call.
type Manager struct {
	tool     ports.Toolchain
	registry ports.RegistryReader
	logger   ports.Logger
}

// NewManager creates a Manager backed by the given toolchain and registry
// reader.
func NewManager(tool ports.Toolchain, registry ports.RegistryReader, logger ports.Logger) *Manager {
	return &Manager{
		tool:     tool,
		registry: registry,
		logger:   logger,
	}
}

// LocateRegistry finds the registry directory inside a sandbox by its fixed
// naming suffix. No match is fatal and names the searched path; more than
// one match means the sandbox is not one of ours.
func (m *Manager) LocateRegistry(sandboxDir string) (string, error) {
	entries, err := os.ReadDir(sandboxDir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read sandbox directory"), "path", sandboxDir)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(entry.Name(), domain.RegistrySuffix) {
			matches = append(matches, entry.Name())
		}
	}

	switch len(matches) {
	case 0:
		return "", zerr.With(domain.ErrRegistryNotFound, "path", sandboxDir)
	case 1:
		return filepath.Join(sandboxDir, matches[0]), nil
	default:
		err := zerr.With(domain.ErrRegistryAmbiguous, "path", sandboxDir)
		return "", zerr.With(err, "matches", strings.Join(matches, ", "))
	}
}

// CreateEmpty materializes a fresh sandbox at dir, tearing down any
// previous sandbox at the same location first.
func (m *Manager) CreateEmpty(ctx context.Context, dir string) error {
	if err := m.Delete(dir); err != nil {
		return err
	}
	return m.tool.InitSandbox(ctx, dir)
}

// Delete removes the sandbox at dir. Deleting a sandbox that does not exist
// is a no-op.
func (m *Manager) Delete(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to delete sandbox"), "path", dir)
	}
	return nil
}

// Populate copies the given descriptor files into the sandbox's registry
// and rebuilds the registry index. If any copy fails the index is left
// untouched and the error propagates; the caller decides whether the
// sandbox survives.
func (m *Manager) Populate(ctx context.Context, sandboxDir string, configs []string) error {
	registryDir, err := m.LocateRegistry(sandboxDir)
	if err != nil {
		return err
	}

	for _, src := range configs {
		dst := filepath.Join(registryDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}

	return m.tool.Recache(ctx, registryDir)
}

// Clone reproduces the source sandbox's artifact set at dst: same packages,
// freshly duplicated descriptor files.
func (m *Manager) Clone(ctx context.Context, src, dst string) error {
	registryDir, err := m.LocateRegistry(src)
	if err != nil {
		return err
	}

	records, err := m.registry.ListRecords(registryDir)
	if err != nil {
		return err
	}

	configs := make([]string, 0, len(records))
	for _, rec := range records {
		configs = append(configs, rec.ConfigPath)
	}

	if err := m.CreateEmpty(ctx, dst); err != nil {
		return err
	}
	return m.Populate(ctx, dst, configs)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // src is a registry entry path
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open package config"), "path", src)
	}
	defer in.Close() //nolint:errcheck // read-only handle

	out, err := os.Create(dst) //nolint:gosec // dst is inside a sandbox we own
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create package config"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy package config"), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to flush package config"), "path", dst)
	}
	return nil
}
