package analyzer_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.trai.ch/hoard/internal/adapters/ghcpkg"
	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/hoard/internal/core/ports/mocks"
	"go.trai.ch/hoard/internal/engine/analyzer"
	"go.trai.ch/hoard/internal/engine/sandbox"
	"go.uber.org/mock/gomock"
)

const flavor = "x86_64-linux-ghc-9.4.8"

type fixture struct {
	analyzer *analyzer.Analyzer
	cache    *sandbox.Cache
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	tool := mocks.NewMockToolchain(ctrl) // lifecycle calls are not exercised by Analyze
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	reader := ghcpkg.NewReader()
	manager := sandbox.NewManager(tool, reader, log)

	return &fixture{
		analyzer: analyzer.New(reader, manager),
		cache:    sandbox.NewCache(t.TempDir(), flavor),
	}
}

// addSandbox creates a cache sandbox whose registry holds one descriptor
// per entry. Entries are "id" or "id -> dep1 dep2".
func (f *fixture) addSandbox(t *testing.T, name string, entries ...string) {
	t.Helper()
	registryDir := filepath.Join(f.cache.Dir(), name, flavor+domain.RegistrySuffix)
	if err := os.MkdirAll(registryDir, 0o750); err != nil {
		t.Fatal(err)
	}
	writeRegistry(t, registryDir, entries...)
}

func writeRegistry(t *testing.T, registryDir string, entries ...string) {
	t.Helper()
	for _, entry := range entries {
		id, deps, _ := strings.Cut(entry, " -> ")
		pkg, err := domain.ParsePackageID(id)
		if err != nil {
			t.Fatal(err)
		}
		content := fmt.Sprintf("name: %s\nversion: %s\nid: %s\n", pkg.Name, pkg.Version, id)
		if deps != "" {
			content += "depends: " + deps + "\n"
		}
		if err := os.WriteFile(filepath.Join(registryDir, id+".conf"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// globalRecords builds global registry records from "id" / "id -> deps"
// entries without touching the filesystem.
func globalRecords(t *testing.T, entries ...string) []domain.PackageRecord {
	t.Helper()
	var records []domain.PackageRecord
	for _, entry := range entries {
		id, deps, _ := strings.Cut(entry, " -> ")
		pkg, err := domain.ParsePackageID(id)
		if err != nil {
			t.Fatal(err)
		}
		rec := domain.PackageRecord{Package: pkg}
		if deps != "" {
			for _, depID := range strings.Fields(deps) {
				dep, err := domain.ParsePackageID(depID)
				if err != nil {
					t.Fatal(err)
				}
				rec.Depends = append(rec.Depends, dep)
			}
		}
		records = append(records, rec)
	}
	return records
}

func plan(ids ...string) []domain.Package {
	pkgs := make([]domain.Package, 0, len(ids))
	for _, id := range ids {
		pkg, err := domain.ParsePackageID(id)
		if err != nil {
			panic(err)
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}

func missingIDs(res *analyzer.Result) []string {
	out := make([]string, 0, len(res.Missing))
	for _, p := range res.Missing {
		out = append(out, p.String())
	}
	return out
}

func reusableIDs(res *analyzer.Result) []string {
	out := make([]string, 0, len(res.Reusable))
	for _, r := range res.Reusable {
		out = append(out, r.Package.String())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAnalyze_EmptyPlan(t *testing.T) {
	f := newFixture(t)

	res, err := f.analyzer.Analyze(context.Background(), f.cache, nil, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Missing) != 0 || len(res.Reusable) != 0 {
		t.Errorf("empty plan should yield empty result, got missing=%v reusable=%v",
			missingIDs(res), reusableIDs(res))
	}
}

func TestAnalyze_EmptyCache(t *testing.T) {
	f := newFixture(t)

	res, err := f.analyzer.Analyze(context.Background(), f.cache, plan("a-1.0", "b-2.0"), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !equalStrings(missingIDs(res), []string{"a-1.0", "b-2.0"}) {
		t.Errorf("expected everything missing, got %v", missingIDs(res))
	}
	if len(res.Reusable) != 0 {
		t.Errorf("expected nothing reusable, got %v", reusableIDs(res))
	}
}

func TestAnalyze_FullHit(t *testing.T) {
	f := newFixture(t)
	f.addSandbox(t, "proj-0001", "a-1.0 -> b-2.0", "b-2.0")

	res, err := f.analyzer.Analyze(context.Background(), f.cache, plan("a-1.0", "b-2.0"), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Missing) != 0 {
		t.Errorf("expected nothing missing, got %v", missingIDs(res))
	}
	if !equalStrings(reusableIDs(res), []string{"a-1.0", "b-2.0"}) {
		t.Errorf("expected full reuse, got %v", reusableIDs(res))
	}
	for _, r := range res.Reusable {
		if r.ConfigPath == "" {
			t.Errorf("reusable %s has no config path", r.Package)
		}
	}
}

func TestAnalyze_Partition(t *testing.T) {
	f := newFixture(t)
	f.addSandbox(t, "proj-0001", "a-1.0", "c-3.0")

	p := plan("a-1.0", "b-2.0", "c-3.0")
	res, err := f.analyzer.Analyze(context.Background(), f.cache, p, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// missing and reusable partition the plan exactly.
	seen := make(map[string]int)
	for _, id := range missingIDs(res) {
		seen[id]++
	}
	for _, id := range reusableIDs(res) {
		seen[id]++
	}
	for _, pkg := range p {
		if seen[pkg.String()] != 1 {
			t.Errorf("package %s appears %d times across the partition", pkg, seen[pkg.String()])
		}
	}
	if !equalStrings(missingIDs(res), []string{"b-2.0"}) {
		t.Errorf("expected only b-2.0 missing, got %v", missingIDs(res))
	}
}

func TestAnalyze_VersionMismatchExcludes(t *testing.T) {
	// The cached a-1.0 was built against d-1.0, but the plan wants d-2.0:
	// a-1.0 matches by identity yet must not be reused.
	f := newFixture(t)
	f.addSandbox(t, "proj-0001", "a-1.0 -> d-1.0", "d-1.0")

	res, err := f.analyzer.Analyze(context.Background(), f.cache, plan("a-1.0", "d-2.0"), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Reusable) != 0 {
		t.Errorf("expected nothing reusable, got %v", reusableIDs(res))
	}
	if !equalStrings(missingIDs(res), []string{"a-1.0", "d-2.0"}) {
		t.Errorf("expected both missing, got %v", missingIDs(res))
	}
}

func TestAnalyze_ExclusionCascades(t *testing.T) {
	// c depends on b depends on a; a is version-inconsistent, so the whole
	// chain must drop out even though b and c match by identity.
	f := newFixture(t)
	f.addSandbox(t, "proj-0001",
		"a-1.0 -> d-1.0",
		"b-2.0 -> a-1.0",
		"c-3.0 -> b-2.0",
		"d-1.0")

	res, err := f.analyzer.Analyze(context.Background(), f.cache, plan("a-1.0", "b-2.0", "c-3.0", "d-2.0"), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Reusable) != 0 {
		t.Errorf("expected the exclusion to cascade through the chain, got %v", reusableIDs(res))
	}
}

func TestAnalyze_GlobalSatisfiesDependency(t *testing.T) {
	f := newFixture(t)
	f.addSandbox(t, "proj-0001", "a-1.0 -> base-4.17.2.1")
	global := globalRecords(t, "base-4.17.2.1")

	res, err := f.analyzer.Analyze(context.Background(), f.cache, plan("a-1.0"), global)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !equalStrings(reusableIDs(res), []string{"a-1.0"}) {
		t.Errorf("expected a-1.0 reusable against the global base, got %v", reusableIDs(res))
	}
	if len(res.Missing) != 0 {
		t.Errorf("expected nothing missing, got %v", missingIDs(res))
	}
}

func TestAnalyze_GlobalNeverReusable(t *testing.T) {
	// Even when a sandbox happens to contain a descriptor for a global
	// package, the global package needs no placement.
	f := newFixture(t)
	f.addSandbox(t, "proj-0001", "base-4.17.2.1", "a-1.0 -> base-4.17.2.1")
	global := globalRecords(t, "base-4.17.2.1")

	res, err := f.analyzer.Analyze(context.Background(), f.cache, plan("a-1.0"), global)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for _, id := range reusableIDs(res) {
		if id == "base-4.17.2.1" {
			t.Error("global package must never appear in reusable")
		}
	}
}

func TestAnalyze_FirstSandboxWins(t *testing.T) {
	f := newFixture(t)
	f.addSandbox(t, "alpha-0001", "a-1.0")
	f.addSandbox(t, "beta-0002", "a-1.0")

	res, err := f.analyzer.Analyze(context.Background(), f.cache, plan("a-1.0"), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Reusable) != 1 {
		t.Fatalf("expected exactly one resolution, got %v", reusableIDs(res))
	}
	if !strings.Contains(res.Reusable[0].ConfigPath, "alpha-0001") {
		t.Errorf("expected the lexicographically first sandbox to win, got %s", res.Reusable[0].ConfigPath)
	}
}

func TestAnalyze_CycleIsFatal(t *testing.T) {
	f := newFixture(t)
	f.addSandbox(t, "proj-0001", "a-1.0 -> b-2.0", "b-2.0 -> a-1.0")

	_, err := f.analyzer.Analyze(context.Background(), f.cache, plan("a-1.0"), nil)
	if err == nil {
		t.Fatal("expected a cycle in a registry to surface as an error")
	}
}
