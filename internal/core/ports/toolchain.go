// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/hoard/internal/core/domain"
)

// Toolchain abstracts the external compiler and package-manager commands.
// The core never shells out directly; everything that touches a subprocess
// goes through this port.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	// Flavor reports the compiler identity (platform plus compiler version,
	// e.g. "x86_64-linux-ghc-9.4.8") used to segregate caches.
	Flavor(ctx context.Context) (string, error)

	// GlobalRegistryDir reports the directory of the read-only global
	// package registry.
	GlobalRegistryDir(ctx context.Context) (string, error)

	// Plan computes the install plan for the project via a dependency
	// resolution dry-run against global-only package visibility.
	Plan(ctx context.Context, projectDir string) ([]domain.Package, error)

	// InitSandbox materializes a fresh isolated build environment rooted at
	// the given directory.
	InitSandbox(ctx context.Context, dir string) error

	// Install builds the given packages inside the sandbox. Artifacts
	// already present in the sandbox's registry are reused, the rest are
	// compiled.
	Install(ctx context.Context, sandboxDir string, pkgs []domain.Package) error

	// Recache rebuilds a registry's lookup index after its contents changed.
	Recache(ctx context.Context, registryDir string) error
}
