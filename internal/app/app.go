// Package app implements the application layer for hoard.
package app

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/hoard/internal/core/ports"
	"go.trai.ch/hoard/internal/engine/analyzer"
	"go.trai.ch/hoard/internal/engine/sandbox"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	config    ports.ConfigLoader
	tool      ports.Toolchain
	registry  ports.RegistryReader
	analyzer  *analyzer.Analyzer
	sandboxes *sandbox.Manager
	logger    ports.Logger
	telemetry ports.Telemetry
}

// New creates a new App instance.
func New(
	config ports.ConfigLoader,
	tool ports.Toolchain,
	registry ports.RegistryReader,
	analyzer *analyzer.Analyzer,
	sandboxes *sandbox.Manager,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		config:    config,
		tool:      tool,
		registry:  registry,
		analyzer:  analyzer,
		sandboxes: sandboxes,
		logger:    logger,
		telemetry: telemetry,
	}
}

// InstallOptions adjusts how Install behaves.
type InstallOptions struct {
	// DryRun reports the reuse decision without touching any sandbox.
	DryRun bool
}

// Install resolves the project's install plan and realizes its dependencies
// into the project sandbox, reusing cached build artifacts where the plan
// allows it.
func (a *App) Install(ctx context.Context, projectDir string, opts InstallOptions) error {
	settings, err := a.config.Load(projectDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	flavor := settings.Flavor
	if flavor == "" {
		flavor, err = a.tool.Flavor(ctx)
		if err != nil {
			return zerr.Wrap(err, "failed to determine compiler flavor")
		}
	}

	globalDir := settings.GlobalRegistry
	if globalDir == "" {
		globalDir, err = a.tool.GlobalRegistryDir(ctx)
		if err != nil {
			return zerr.Wrap(err, "failed to locate global registry")
		}
	}

	planCtx, vtx := a.telemetry.Record(ctx, "resolve install plan")
	plan, err := a.tool.Plan(planCtx, projectDir)
	vtx.Complete(err)
	if err != nil {
		return zerr.Wrap(err, "failed to compute install plan")
	}

	return a.Realize(ctx, RealizeRequest{
		Flavor:            flavor,
		DryRun:            opts.DryRun,
		CacheRoot:         settings.CacheRoot,
		Plan:              plan,
		ProjectDir:        projectDir,
		ProjectSandboxDir: settings.ProjectSandboxDir(projectDir),
		GlobalRegistryDir: globalDir,
	})
}

// RealizeRequest carries everything Realize needs; Install assembles it from
// settings and toolchain discovery, tests assemble it directly.
type RealizeRequest struct {
	Flavor            string
	DryRun            bool
	CacheRoot         string
	Plan              []domain.Package
	ProjectDir        string
	ProjectSandboxDir string
	GlobalRegistryDir string
}

// Realize analyzes the plan against the flavor cache and materializes the
// project sandbox. When every plan package is reusable the sandbox is
// assembled from cached descriptors alone; otherwise a new cache sandbox is
// built first and the project sandbox is cloned from it, so the cache only
// ever retains sandboxes whose build fully succeeded.
func (a *App) Realize(ctx context.Context, req RealizeRequest) error {
	global, err := a.registry.ListRecords(req.GlobalRegistryDir)
	if err != nil {
		return zerr.Wrap(err, "failed to read global registry")
	}

	cache := sandbox.NewCache(req.CacheRoot, req.Flavor)
	result, err := a.analyzer.Analyze(ctx, cache, req.Plan, global)
	if err != nil {
		return zerr.Wrap(err, "failed to analyze cache reuse")
	}

	for _, reuse := range result.Reusable {
		a.logger.Info(fmt.Sprintf("reusing %s", reuse.Package))
	}
	for _, pkg := range result.Missing {
		a.logger.Info(fmt.Sprintf("installing %s", pkg))
	}

	if req.DryRun {
		return nil
	}

	if len(result.Missing) == 0 {
		return a.realizeFromCache(ctx, req, result)
	}
	return a.realizeWithBuild(ctx, cache, req, result)
}

// realizeFromCache is the fast path: the whole plan is served by cached
// descriptors, no compiler runs.
func (a *App) realizeFromCache(ctx context.Context, req RealizeRequest, result *analyzer.Result) error {
	ctx, vtx := a.telemetry.Record(ctx, "assemble sandbox from cache")
	err := a.assembleSandbox(ctx, req.ProjectSandboxDir, result)
	if err != nil {
		vtx.Complete(err)
		return err
	}
	vtx.Cached()
	return nil
}

// realizeWithBuild builds the missing packages in a fresh cache sandbox and
// clones the result into the project sandbox. A failed build removes the
// cache sandbox again so no partial artifact set is ever offered for reuse.
func (a *App) realizeWithBuild(ctx context.Context, cache *sandbox.Cache, req RealizeRequest, result *analyzer.Result) error {
	cacheDir := cache.NewSandboxDir(req.ProjectDir, req.Plan)

	if err := a.buildCacheSandbox(ctx, cacheDir, req, result); err != nil {
		return err
	}

	if err := a.sandboxes.Clone(ctx, cacheDir, req.ProjectSandboxDir); err != nil {
		return zerr.Wrap(err, "failed to clone cache sandbox into project")
	}
	return nil
}

func (a *App) buildCacheSandbox(ctx context.Context, cacheDir string, req RealizeRequest, result *analyzer.Result) error {
	ctx, vtx := a.telemetry.Record(ctx, "build missing packages")

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := a.sandboxes.Delete(cacheDir); err != nil {
			a.logger.Error(zerr.Wrap(err, "failed to roll back cache sandbox"))
		}
	}()

	err := a.assembleSandbox(ctx, cacheDir, result)
	if err == nil {
		err = a.tool.Install(ctx, cacheDir, req.Plan)
		if err != nil {
			err = zerr.Wrap(err, "failed to install missing packages")
		}
	}
	vtx.Complete(err)
	if err != nil {
		return err
	}

	committed = true
	return nil
}

// assembleSandbox creates a fresh sandbox at dir holding the reusable
// descriptors from the analysis.
func (a *App) assembleSandbox(ctx context.Context, dir string, result *analyzer.Result) error {
	if err := a.sandboxes.CreateEmpty(ctx, dir); err != nil {
		return zerr.Wrap(err, "failed to create sandbox")
	}

	if len(result.Reusable) == 0 {
		return nil
	}

	configs := make([]string, 0, len(result.Reusable))
	for _, reuse := range result.Reusable {
		configs = append(configs, reuse.ConfigPath)
	}
	if err := a.sandboxes.Populate(ctx, dir, configs); err != nil {
		return zerr.Wrap(err, "failed to populate sandbox from cache")
	}
	return nil
}

// Clean deletes the project sandbox and every cache sandbox for the
// project's compiler flavor.
func (a *App) Clean(ctx context.Context, projectDir string) error {
	settings, err := a.config.Load(projectDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	flavor := settings.Flavor
	if flavor == "" {
		flavor, err = a.tool.Flavor(ctx)
		if err != nil {
			return zerr.Wrap(err, "failed to determine compiler flavor")
		}
	}

	cache := sandbox.NewCache(settings.CacheRoot, flavor)
	dirs, err := cache.Sandboxes()
	if err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	g.Go(func() error {
		return a.sandboxes.Delete(settings.ProjectSandboxDir(projectDir))
	})
	for _, dir := range dirs {
		g.Go(func() error {
			a.logger.Info(fmt.Sprintf("removing %s", dir))
			return a.sandboxes.Delete(dir)
		})
	}
	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, "failed to clean cache")
	}

	// The flavor directory itself is disposable once empty.
	_ = os.Remove(cache.Dir())
	return nil
}
