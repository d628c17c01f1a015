// Package config provides the configuration loader for hoard.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/hoard/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using an optional YAML file in the
// project directory.
type Loader struct {
	Filename string
	logger   ports.Logger
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a Loader reading the default configuration filename.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Filename: domain.DefaultConfigFilename,
		logger:   logger,
	}
}

// Load reads the configuration file from the project directory, if present,
// and returns settings with all defaults applied.
func (l *Loader) Load(projectDir string) (*domain.Settings, error) {
	var file File

	path := filepath.Join(projectDir, l.Filename)
	data, err := os.ReadFile(path) //nolint:gosec // path is rooted in the project directory
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file means all defaults.
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
		}
	}

	settings := &domain.Settings{
		CacheRoot:      file.CacheRoot,
		SandboxDirName: file.SandboxDir,
		Flavor:         file.Flavor,
		GlobalRegistry: file.GlobalRegistry,
		CabalPath:      file.Tools.Cabal,
		GhcPkgPath:     file.Tools.GhcPkg,
	}

	if settings.SandboxDirName == "" {
		settings.SandboxDirName = domain.DefaultSandboxDirName
	}
	if settings.CacheRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to resolve home directory for cache root")
		}
		settings.CacheRoot = filepath.Join(home, ".hoard")
	}

	return settings, nil
}
