// Package domain contains the core data model for the sandbox cache:
// package identities, installed-package records, and the per-sandbox
// dependency graph.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Package identifies a build artifact by name and version.
// Two Packages are equal iff both fields match; instances never mutate.
type Package struct {
	Name    InternedString
	Version InternedString
}

// NewPackage creates a Package from raw name and version strings.
func NewPackage(name, version string) Package {
	return Package{
		Name:    NewInternedString(name),
		Version: NewInternedString(version),
	}
}

// String renders the canonical "name-version" form used in reports and
// descriptor identifiers.
func (p Package) String() string {
	return p.Name.String() + "-" + p.Version.String()
}

// ParsePackageID parses an installed-package identifier into a Package.
// Accepted forms are "name-version" and "name-version-abihash", where the
// name may itself contain hyphens (e.g. "unordered-containers-0.2.20").
func ParsePackageID(id string) (Package, error) {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return Package{}, zerr.With(ErrMalformedDescriptor, "id", id)
	}

	// A trailing ABI hash is a long dot-free alphanumeric component.
	if isABIHash(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
		if len(parts) < 2 {
			return Package{}, zerr.With(ErrMalformedDescriptor, "id", id)
		}
	}

	version := parts[len(parts)-1]
	if !isVersion(version) {
		return Package{}, zerr.With(ErrMalformedDescriptor, "id", id)
	}

	name := strings.Join(parts[:len(parts)-1], "-")
	if name == "" {
		return Package{}, zerr.With(ErrMalformedDescriptor, "id", id)
	}

	return NewPackage(name, version), nil
}

func isVersion(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

func isABIHash(s string) bool {
	if len(s) < 20 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		digit := c >= '0' && c <= '9'
		lower := c >= 'a' && c <= 'z'
		if !digit && !lower {
			return false
		}
	}
	// All-digit components are versions, not hashes.
	return strings.IndexFunc(s, func(r rune) bool { return r >= 'a' && r <= 'z' }) >= 0
}

// DedupePlan removes duplicate identities from an install plan, keeping the
// first occurrence order. Multiplicities carry no meaning in a plan.
func DedupePlan(plan []Package) []Package {
	seen := make(map[Package]struct{}, len(plan))
	out := make([]Package, 0, len(plan))
	for _, p := range plan {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SortPackages orders packages by their canonical string form so that
// reports and cache decisions are reproducible.
func SortPackages(pkgs []Package) {
	slices.SortFunc(pkgs, func(a, b Package) int {
		return strings.Compare(a.String(), b.String())
	})
}
