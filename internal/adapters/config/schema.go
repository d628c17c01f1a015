package config

// File mirrors the hoard.yaml structure. Every field is optional; missing
// values fall back to the defaults applied by the loader.
type File struct {
	// CacheRoot overrides the directory holding per-flavor cache sandboxes.
	CacheRoot string `yaml:"cache_root"`

	// SandboxDir overrides the project sandbox directory name.
	SandboxDir string `yaml:"sandbox_dir"`

	// Flavor pins the compiler identity instead of discovering it.
	Flavor string `yaml:"flavor"`

	// GlobalRegistry pins the global registry directory instead of asking
	// the toolchain for it.
	GlobalRegistry string `yaml:"global_registry"`

	Tools ToolsSection `yaml:"tools"`
}

// ToolsSection names the toolchain executables.
type ToolsSection struct {
	Cabal  string `yaml:"cabal"`
	GhcPkg string `yaml:"ghc_pkg"`
}
