package app_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.trai.ch/hoard/internal/adapters/ghcpkg"
	"go.trai.ch/hoard/internal/adapters/telemetry"
	"go.trai.ch/hoard/internal/app"
	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/hoard/internal/core/ports/mocks"
	"go.trai.ch/hoard/internal/engine/analyzer"
	"go.trai.ch/hoard/internal/engine/sandbox"
	"go.uber.org/mock/gomock"
)

const flavor = "x86_64-linux-ghc-9.4.8"

type fixture struct {
	app    *app.App
	tool   *mocks.MockToolchain
	config *mocks.MockConfigLoader
	log    *mocks.MockLogger

	cacheRoot  string
	globalDir  string
	projectDir string
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	tool := mocks.NewMockToolchain(ctrl)
	config := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	reader := ghcpkg.NewReader()
	manager := sandbox.NewManager(tool, reader, log)
	analysis := analyzer.New(reader, manager)

	f := &fixture{
		app:        app.New(config, tool, reader, analysis, manager, log, telemetry.NewNoOp()),
		tool:       tool,
		config:     config,
		log:        log,
		cacheRoot:  t.TempDir(),
		globalDir:  t.TempDir(),
		projectDir: t.TempDir(),
	}
	writeConf(t, f.globalDir, "base-4.17.2.1")
	return f
}

func (f *fixture) request(dryRun bool, plan ...string) app.RealizeRequest {
	pkgs := make([]domain.Package, 0, len(plan))
	for _, id := range plan {
		pkg, err := domain.ParsePackageID(id)
		if err != nil {
			panic(err)
		}
		pkgs = append(pkgs, pkg)
	}
	return app.RealizeRequest{
		Flavor:            flavor,
		DryRun:            dryRun,
		CacheRoot:         f.cacheRoot,
		Plan:              pkgs,
		ProjectDir:        f.projectDir,
		ProjectSandboxDir: filepath.Join(f.projectDir, domain.DefaultSandboxDirName),
		GlobalRegistryDir: f.globalDir,
	}
}

// addCacheSandbox seeds a sandbox under the flavor cache with descriptors
// for the given package IDs.
func (f *fixture) addCacheSandbox(t *testing.T, name string, ids ...string) {
	t.Helper()
	registryDir := filepath.Join(f.cacheRoot, flavor, name, flavor+domain.RegistrySuffix)
	if err := os.MkdirAll(registryDir, 0o750); err != nil {
		t.Fatal(err)
	}
	for _, id := range ids {
		writeConf(t, registryDir, id)
	}
}

func writeConf(t *testing.T, dir, id string) {
	t.Helper()
	pkg, err := domain.ParsePackageID(id)
	if err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf("name: %s\nversion: %s\nid: %s\n", pkg.Name, pkg.Version, id)
	if err := os.WriteFile(filepath.Join(dir, id+".conf"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// initSandbox mimics the toolchain laying out a sandbox with an empty
// registry directory.
func initSandbox(t *testing.T) func(ctx context.Context, dir string) error {
	return func(_ context.Context, dir string) error {
		t.Helper()
		return os.MkdirAll(filepath.Join(dir, flavor+domain.RegistrySuffix), 0o750)
	}
}

// cacheSandboxes lists the flavor cache contents by name.
func (f *fixture) cacheSandboxes(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.cacheRoot, flavor))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestRealize_DryRunTouchesNothing(t *testing.T) {
	f := newFixture(t)

	// No toolchain expectations: a dry run must not init or build anything.
	if err := f.app.Realize(context.Background(), f.request(true, "text-2.0.2")); err != nil {
		t.Fatalf("Realize failed: %v", err)
	}
	if len(f.cacheSandboxes(t)) != 0 {
		t.Error("dry run must not create cache sandboxes")
	}
	if _, err := os.Stat(filepath.Join(f.projectDir, domain.DefaultSandboxDirName)); !errors.Is(err, os.ErrNotExist) {
		t.Error("dry run must not create the project sandbox")
	}
}

func TestRealize_FullHitSkipsInstall(t *testing.T) {
	f := newFixture(t)
	f.addCacheSandbox(t, "old-0001", "text-2.0.2")

	// Only sandbox plumbing runs; Install is never called.
	f.tool.EXPECT().InitSandbox(gomock.Any(), gomock.Any()).DoAndReturn(initSandbox(t))
	f.tool.EXPECT().Recache(gomock.Any(), gomock.Any()).Return(nil)

	if err := f.app.Realize(context.Background(), f.request(false, "text-2.0.2")); err != nil {
		t.Fatalf("Realize failed: %v", err)
	}

	conf := filepath.Join(f.projectDir, domain.DefaultSandboxDirName, flavor+domain.RegistrySuffix, "text-2.0.2.conf")
	if _, err := os.Stat(conf); err != nil {
		t.Errorf("expected reused descriptor in project sandbox: %v", err)
	}
	if sandboxes := f.cacheSandboxes(t); len(sandboxes) != 1 {
		t.Errorf("full reuse must not add cache sandboxes, got %v", sandboxes)
	}
}

func TestRealize_BuildPopulatesCacheThenProject(t *testing.T) {
	f := newFixture(t)

	var builtIn string
	f.tool.EXPECT().InitSandbox(gomock.Any(), gomock.Any()).DoAndReturn(initSandbox(t)).Times(2)
	f.tool.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, dir string, pkgs []domain.Package) error {
			builtIn = dir
			registryDir := filepath.Join(dir, flavor+domain.RegistrySuffix)
			for _, pkg := range pkgs {
				writeConf(t, registryDir, pkg.String())
			}
			return nil
		})
	f.tool.EXPECT().Recache(gomock.Any(), gomock.Any()).Return(nil)

	if err := f.app.Realize(context.Background(), f.request(false, "aeson-2.1.2.1")); err != nil {
		t.Fatalf("Realize failed: %v", err)
	}

	if got := f.cacheSandboxes(t); len(got) != 1 {
		t.Fatalf("expected one retained cache sandbox, got %v", got)
	}
	if filepath.Dir(builtIn) != filepath.Join(f.cacheRoot, flavor) {
		t.Errorf("the build must run in the cache sandbox, ran in %s", builtIn)
	}
	conf := filepath.Join(f.projectDir, domain.DefaultSandboxDirName, flavor+domain.RegistrySuffix, "aeson-2.1.2.1.conf")
	if _, err := os.Stat(conf); err != nil {
		t.Errorf("expected built descriptor cloned into project sandbox: %v", err)
	}
}

func TestRealize_FailedBuildRollsBackCacheSandbox(t *testing.T) {
	f := newFixture(t)

	buildErr := errors.New("compilation failed")
	f.tool.EXPECT().InitSandbox(gomock.Any(), gomock.Any()).DoAndReturn(initSandbox(t))
	f.tool.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any()).Return(buildErr)

	err := f.app.Realize(context.Background(), f.request(false, "aeson-2.1.2.1"))
	if !errors.Is(err, buildErr) {
		t.Fatalf("expected the build error to surface, got %v", err)
	}

	if got := f.cacheSandboxes(t); len(got) != 0 {
		t.Errorf("a failed build must not leave a cache sandbox behind, got %v", got)
	}
	if _, statErr := os.Stat(filepath.Join(f.projectDir, domain.DefaultSandboxDirName)); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("a failed build must not create the project sandbox")
	}
}

func TestInstall_WiresSettingsAndPlan(t *testing.T) {
	f := newFixture(t)

	f.config.EXPECT().Load(f.projectDir).Return(&domain.Settings{
		CacheRoot:      f.cacheRoot,
		SandboxDirName: domain.DefaultSandboxDirName,
		GlobalRegistry: f.globalDir,
	}, nil)
	f.tool.EXPECT().Flavor(gomock.Any()).Return(flavor, nil)
	f.tool.EXPECT().Plan(gomock.Any(), f.projectDir).Return(
		[]domain.Package{domain.NewPackage("text", "2.0.2")}, nil)

	// Dry run: analysis only, no sandbox work.
	if err := f.app.Install(context.Background(), f.projectDir, app.InstallOptions{DryRun: true}); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
}

func TestClean_RemovesFlavorCacheAndProjectSandbox(t *testing.T) {
	f := newFixture(t)
	f.addCacheSandbox(t, "old-0001", "text-2.0.2")
	f.addCacheSandbox(t, "old-0002", "aeson-2.1.2.1")
	projectSandbox := filepath.Join(f.projectDir, domain.DefaultSandboxDirName)
	if err := os.MkdirAll(projectSandbox, 0o750); err != nil {
		t.Fatal(err)
	}

	f.config.EXPECT().Load(f.projectDir).Return(&domain.Settings{
		CacheRoot:      f.cacheRoot,
		SandboxDirName: domain.DefaultSandboxDirName,
		Flavor:         flavor,
	}, nil)

	if err := f.app.Clean(context.Background(), f.projectDir); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if got := f.cacheSandboxes(t); len(got) != 0 {
		t.Errorf("expected an empty cache after clean, got %v", got)
	}
	if _, err := os.Stat(projectSandbox); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected the project sandbox to be removed")
	}
}
