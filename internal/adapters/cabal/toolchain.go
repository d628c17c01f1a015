// Package cabal implements the toolchain port by shelling out to the cabal
// and ghc-pkg executables.
package cabal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.trai.ch/hoard/internal/core/domain"
	"go.trai.ch/hoard/internal/core/ports"
	"go.trai.ch/zerr"
)

// Toolchain implements ports.Toolchain using the cabal and ghc-pkg CLIs.
type Toolchain struct {
	cabal  string
	ghcPkg string
	logger ports.Logger
}

var _ ports.Toolchain = (*Toolchain)(nil)

// NewToolchain creates a Toolchain wrapping the given executables. Empty
// paths fall back to the bare command names resolved via PATH.
func NewToolchain(logger ports.Logger, cabalPath, ghcPkgPath string) *Toolchain {
	if cabalPath == "" {
		cabalPath = "cabal"
	}
	if ghcPkgPath == "" {
		ghcPkgPath = "ghc-pkg"
	}
	return &Toolchain{
		cabal:  cabalPath,
		ghcPkg: ghcPkgPath,
		logger: logger,
	}
}

// Flavor reports the compiler identity, e.g. "x86_64-linux-ghc-9.4.8".
func (t *Toolchain) Flavor(ctx context.Context) (string, error) {
	output, err := t.run(ctx, "", t.ghcPkg, "--version")
	if err != nil {
		return "", err
	}

	version, err := parseGhcPkgVersion(string(output))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-ghc-%s", flavorArch(runtime.GOARCH), flavorOS(runtime.GOOS), version), nil
}

// GlobalRegistryDir reports the directory of the global package registry.
func (t *Toolchain) GlobalRegistryDir(ctx context.Context) (string, error) {
	output, err := t.run(ctx, "", t.ghcPkg, "list", "--global")
	if err != nil {
		return "", err
	}

	dir, err := parseRegistryListing(string(output))
	if err != nil {
		return "", err
	}
	return dir, nil
}

// Plan computes the install plan via a dependency-resolution dry-run with
// only the global registry visible.
func (t *Toolchain) Plan(ctx context.Context, projectDir string) ([]domain.Package, error) {
	output, err := t.run(ctx, projectDir, t.cabal,
		"install", "--dry-run", "--package-db=clear", "--package-db=global")
	if err != nil {
		return nil, err
	}

	plan, err := parsePlanOutput(string(output))
	if err != nil {
		return nil, err
	}
	return domain.DedupePlan(plan), nil
}

// InitSandbox materializes a fresh sandbox rooted at dir.
func (t *Toolchain) InitSandbox(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create sandbox directory"), "path", dir)
	}
	_, err := t.run(ctx, dir, t.cabal, "sandbox", "init", "--sandbox", ".")
	return err
}

// Install builds the given packages inside the sandbox at sandboxDir.
// Artifacts already present in the sandbox's registry are picked up by the
// solver and reused; the rest are compiled.
func (t *Toolchain) Install(ctx context.Context, sandboxDir string, pkgs []domain.Package) error {
	args := []string{"install"}
	for _, p := range pkgs {
		args = append(args, p.String())
	}

	cmd := exec.CommandContext(ctx, t.cabal, args...) //nolint:gosec // package ids come from the solver
	cmd.Dir = sandboxDir
	cmd.Stdout = &logWriter{logger: t.logger, level: "info"}
	cmd.Stderr = &logWriter{logger: t.logger, level: "error"}

	if err := cmd.Run(); err != nil {
		return t.wrapRunError(err, t.cabal, args)
	}
	return nil
}

// Recache rebuilds the lookup index of the registry at registryDir.
func (t *Toolchain) Recache(ctx context.Context, registryDir string) error {
	_, err := t.run(ctx, "", t.ghcPkg, "recache", "--package-db="+registryDir)
	return err
}

// run executes a toolchain command and returns its stdout. Failures carry
// the command line and captured stderr as error metadata.
func (t *Toolchain) run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // argv is built from validated inputs
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.Output()
	if err != nil {
		return nil, t.wrapRunError(err, name, args)
	}
	return output, nil
}

func (t *Toolchain) wrapRunError(err error, name string, args []string) error {
	toolErr := zerr.With(zerr.Wrap(err, "toolchain invocation failed"), "tool", name)
	toolErr = zerr.With(toolErr, "args", strings.Join(args, " "))
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr = zerr.With(toolErr, "exit_code", exitErr.ExitCode())
		if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
			toolErr = zerr.With(toolErr, "stderr", stderr)
		}
	}
	return errors.Join(domain.ErrToolFailed, toolErr)
}

// logWriter forwards subprocess output lines to the logger.
type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Warn(line)
		}
	}
	return len(p), nil
}

func flavorArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i386"
	default:
		return goarch
	}
}

func flavorOS(goos string) string {
	if goos == "darwin" {
		return "osx"
	}
	return goos
}
