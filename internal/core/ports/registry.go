package ports

import "go.trai.ch/hoard/internal/core/domain"

// RegistryReader lists the installed-package records of a registry
// directory. Parsing the descriptor format is this port's whole job; the
// core only ever sees identities, dependency edges, and descriptor paths.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type RegistryReader interface {
	// ListRecords returns one record per descriptor file in the registry
	// directory, in a deterministic (sorted) order.
	ListRecords(registryDir string) ([]domain.PackageRecord, error)
}
