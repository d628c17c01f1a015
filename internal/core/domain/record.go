package domain

// PackageRecord is one installed-package entry read from a registry: the
// package identity, the dependencies it was built against, and the path of
// its descriptor file inside that registry.
//
// A record belongs to exactly one registry; copying the descriptor file into
// another registry produces a new, independent record.
type PackageRecord struct {
	Package Package

	// Depends lists the package identities this artifact was compiled
	// against, as recorded by the compiler at build time.
	Depends []Package

	// ConfigPath is the absolute path of the descriptor file.
	ConfigPath string
}
