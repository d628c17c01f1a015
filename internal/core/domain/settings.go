package domain

import "path/filepath"

// Settings holds the resolved configuration for a run. All fields are
// populated by the config loader; zero values never reach the orchestrator.
type Settings struct {
	// CacheRoot is the directory holding per-flavor cache sandboxes.
	CacheRoot string

	// SandboxDirName is the project sandbox directory name, relative to the
	// project directory.
	SandboxDirName string

	// Flavor optionally pins the compiler identity instead of discovering it
	// from the toolchain.
	Flavor string

	// GlobalRegistry optionally pins the global registry directory.
	GlobalRegistry string

	// CabalPath and GhcPkgPath name the toolchain executables.
	CabalPath  string
	GhcPkgPath string
}

// ProjectSandboxDir returns the fixed project sandbox location for the given
// project directory.
func (s *Settings) ProjectSandboxDir(projectDir string) string {
	return filepath.Join(projectDir, s.SandboxDirName)
}
