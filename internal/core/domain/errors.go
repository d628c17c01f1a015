package domain

import "go.trai.ch/zerr"

var (
	// ErrRegistryNotFound is returned when a sandbox contains no package
	// registry directory.
	ErrRegistryNotFound = zerr.New("package registry not found")

	// ErrRegistryAmbiguous is returned when a sandbox contains more than one
	// directory matching the registry suffix.
	ErrRegistryAmbiguous = zerr.New("multiple package registries found")

	// ErrToolFailed is returned when an external toolchain invocation exits
	// with a non-zero status.
	ErrToolFailed = zerr.New("toolchain invocation failed")

	// ErrDependencyCycle is returned when a registry's recorded dependencies
	// form a cycle, which the toolchain should make impossible.
	ErrDependencyCycle = zerr.New("dependency cycle detected")

	// ErrMalformedDescriptor is returned when a package descriptor cannot be
	// parsed into an identity and dependency list.
	ErrMalformedDescriptor = zerr.New("malformed package descriptor")
)
