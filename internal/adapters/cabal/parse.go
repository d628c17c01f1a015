package cabal

import (
	"strings"

	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	planMarker      = "the following would be installed"
	planEmptyMarker = "already installed"
)

// parsePlanOutput extracts package identities from a solver dry-run report.
// The identities follow a marker line; each line's first field is a package
// id, optionally followed by annotations like "(new package)".
func parsePlanOutput(output string) ([]domain.Package, error) {
	var (
		plan      []domain.Package
		inListing bool
	)

	for line := range strings.Lines(output) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !inListing {
			lower := strings.ToLower(line)
			if strings.Contains(lower, planEmptyMarker) {
				return nil, nil
			}
			if strings.Contains(lower, planMarker) {
				inListing = true
			}
			continue
		}

		id, _, _ := strings.Cut(line, " ")
		pkg, err := domain.ParsePackageID(id)
		if err != nil {
			// The listing ends at the first line that is not a package id
			// (warnings, notes).
			break
		}
		plan = append(plan, pkg)
	}

	return plan, nil
}

// parseRegistryListing extracts the registry directory from a "ghc-pkg list"
// report: the first non-indented line, with a trailing colon stripped.
func parseRegistryListing(output string) (string, error) {
	for line := range strings.Lines(output) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		return strings.TrimSuffix(line, ":"), nil
	}
	return "", zerr.With(zerr.New("no registry path in ghc-pkg listing"), "output", strings.TrimSpace(output))
}

// parseGhcPkgVersion extracts the compiler version from the ghc-pkg
// "--version" banner ("GHC package manager version 9.4.8").
func parseGhcPkgVersion(output string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) == 0 {
		return "", zerr.New("empty ghc-pkg version output")
	}
	version := fields[len(fields)-1]
	if version == "" || version[0] < '0' || version[0] > '9' {
		return "", zerr.With(zerr.New("unrecognized ghc-pkg version output"), "output", strings.TrimSpace(output))
	}
	return version, nil
}
