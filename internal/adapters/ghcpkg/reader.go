// Package ghcpkg implements the registry reader over GHC package databases:
// directories of textual .conf descriptors plus a binary package.cache index
// that this package never touches.
package ghcpkg

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/hoard/internal/core/ports"
	"go.trai.ch/zerr"
)

// Reader implements ports.RegistryReader for .conf descriptor directories.
type Reader struct{}

var _ ports.RegistryReader = (*Reader)(nil)

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ListRecords returns one record per descriptor file in the registry
// directory, in lexicographic filename order.
func (r *Reader) ListRecords(registryDir string) ([]domain.PackageRecord, error) {
	entries, err := os.ReadDir(registryDir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read registry directory"), "path", registryDir)
	}

	var records []domain.PackageRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".conf") {
			continue
		}

		path := filepath.Join(registryDir, entry.Name())
		data, err := os.ReadFile(path) //nolint:gosec // path is a registry entry we just listed
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read package descriptor"), "path", path)
		}

		record, err := parseDescriptor(path, string(data))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// parseDescriptor extracts identity and dependencies from a descriptor. The
// format is "key: value" with whitespace-indented continuation lines.
func parseDescriptor(path, data string) (domain.PackageRecord, error) {
	fields := make(map[string][]string)
	var current string

	for line := range strings.Lines(data) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			current = ""
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if current != "" {
				fields[current] = append(fields[current], strings.Fields(line)...)
			}
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			current = ""
			continue
		}
		current = strings.ToLower(strings.TrimSpace(key))
		fields[current] = append(fields[current], strings.Fields(value)...)
	}

	name := firstField(fields, "name")
	version := firstField(fields, "version")
	if name == "" || version == "" {
		return domain.PackageRecord{}, zerr.With(domain.ErrMalformedDescriptor, "path", path)
	}

	var depends []domain.Package
	for _, id := range fields["depends"] {
		if id == "builtin_rts" {
			continue
		}
		dep, err := domain.ParsePackageID(id)
		if err != nil {
			return domain.PackageRecord{}, zerr.With(err, "path", path)
		}
		depends = append(depends, dep)
	}

	return domain.PackageRecord{
		Package:    domain.NewPackage(name, version),
		Depends:    depends,
		ConfigPath: path,
	}, nil
}

func firstField(fields map[string][]string, key string) string {
	if values := fields[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
