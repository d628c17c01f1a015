// Package analyzer implements the cache-reuse decision: which packages of
// an install plan can be copied from historical sandboxes and which must be
// built.
package analyzer

import (
	"context"
	"slices"
	"strings"

	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/hoard/internal/core/ports"
	"go.trai.ch/hoard/internal/engine/sandbox"
)

// Reuse pairs a reusable package with the descriptor file that realizes it.
type Reuse struct {
	Package    domain.Package
	ConfigPath string
}

// Result partitions an install plan: Missing must be built, Reusable can be
// copied. Both slices are sorted by package identity.
type Result struct {
	Missing  []domain.Package
	Reusable []Reuse
}

// Analyzer computes reuse decisions against a cache.
type Analyzer struct {
	registry  ports.RegistryReader
	sandboxes *sandbox.Manager
}

// New creates an Analyzer.
func New(registry ports.RegistryReader, sandboxes *sandbox.Manager) *Analyzer {
	return &Analyzer{
		registry:  registry,
		sandboxes: sandboxes,
	}
}

// Analyze walks every cache sandbox in order and collects the maximal
// dependency-consistent subset of the plan that prior builds can supply.
// Global packages participate in consistency checks but are never reusable
// artifacts themselves: they need no placement.
func (a *Analyzer) Analyze(ctx context.Context, cache *sandbox.Cache, plan []domain.Package, global []domain.PackageRecord) (*Result, error) {
	plan = domain.DedupePlan(plan)

	// Candidate versions by package name; plan entries take precedence over
	// global entries with the same name.
	candidates := make(map[domain.InternedString]domain.Package, len(plan)+len(global))
	for _, p := range plan {
		if _, ok := candidates[p.Name]; !ok {
			candidates[p.Name] = p
		}
	}
	globalSet := make(map[domain.Package]struct{}, len(global))
	for _, rec := range global {
		globalSet[rec.Package] = struct{}{}
		if _, ok := candidates[rec.Package.Name]; !ok {
			candidates[rec.Package.Name] = rec.Package
		}
	}

	dirs, err := cache.Sandboxes()
	if err != nil {
		return nil, err
	}

	reused := make(map[domain.Package]string)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := a.analyzeSandbox(dir, candidates, globalSet, global, reused); err != nil {
			return nil, err
		}
	}

	result := &Result{}
	for _, p := range plan {
		if path, ok := reused[p]; ok {
			result.Reusable = append(result.Reusable, Reuse{Package: p, ConfigPath: path})
		} else {
			result.Missing = append(result.Missing, p)
		}
	}
	domain.SortPackages(result.Missing)
	sortReuses(result.Reusable)
	return result, nil
}

// analyzeSandbox adds one sandbox's closed reusable subset to reused,
// keeping earlier sandboxes' resolutions on identity collisions.
func (a *Analyzer) analyzeSandbox(
	dir string,
	candidates map[domain.InternedString]domain.Package,
	globalSet map[domain.Package]struct{},
	global []domain.PackageRecord,
	reused map[domain.Package]string,
) error {
	registryDir, err := a.sandboxes.LocateRegistry(dir)
	if err != nil {
		return err
	}

	records, err := a.registry.ListRecords(registryDir)
	if err != nil {
		return err
	}

	// The sandbox's view of the world: its own registry shadowing the
	// global one.
	graph := domain.NewGraph()
	for _, rec := range records {
		graph.Add(rec)
	}
	for _, rec := range global {
		graph.Add(rec)
	}
	if err := graph.Validate(); err != nil {
		return err
	}

	// Start from every sandbox record whose identity matches a candidate,
	// then shrink to the closed subset: a package stays only while each of
	// its recorded dependencies is version-consistent with the candidates
	// and is itself either global or staying. Dropping a package can strand
	// its dependents, hence the fixed point.
	closed := make(map[domain.Package]domain.PackageRecord)
	for _, rec := range records {
		if cand, ok := candidates[rec.Package.Name]; ok && cand == rec.Package {
			closed[rec.Package] = rec
		}
	}

	for changed := true; changed; {
		changed = false
		for pkg, rec := range closed {
			if !a.depsSatisfied(rec, candidates, globalSet, closed) {
				delete(closed, pkg)
				changed = true
			}
		}
	}

	// First sandbox wins on identity collisions; iterate records (sorted by
	// the reader) rather than the map so resolution order is deterministic.
	for _, rec := range records {
		pkg := rec.Package
		if _, ok := closed[pkg]; !ok {
			continue
		}
		if _, isGlobal := globalSet[pkg]; isGlobal {
			continue
		}
		if _, taken := reused[pkg]; taken {
			continue
		}
		reused[pkg] = rec.ConfigPath
	}
	return nil
}

func (a *Analyzer) depsSatisfied(
	rec domain.PackageRecord,
	candidates map[domain.InternedString]domain.Package,
	globalSet map[domain.Package]struct{},
	closed map[domain.Package]domain.PackageRecord,
) bool {
	for _, dep := range rec.Depends {
		cand, ok := candidates[dep.Name]
		if !ok || cand.Version != dep.Version {
			return false
		}
		if _, isGlobal := globalSet[dep]; isGlobal {
			continue
		}
		if _, staying := closed[dep]; !staying {
			return false
		}
	}
	return true
}

func sortReuses(reuses []Reuse) {
	slices.SortFunc(reuses, func(a, b Reuse) int {
		return strings.Compare(a.Package.String(), b.Package.String())
	})
}
