// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/deliver/internal/config"
	"github.com/invowk/deliver/internal/manifest"
	"github.com/invowk/deliver/internal/shell"
	"github.com/invowk/deliver/internal/tui"
	"github.com/invowk/deliver/pkg/cmdtree"
)

// ProjectDir is the per-project directory scanned for agent manifests.
const ProjectDir = ".deliver"

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer.
	App struct {
		Config    ConfigProvider
		Manifests ManifestSource
		Runner    manifest.ScriptRunner
		// Chooser overrides the terminal chooser built from configuration.
		Chooser cmdtree.Chooser
		// Confirmer overrides the terminal confirmation prompt.
		Confirmer Confirmer
		workDir   string
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer
		execute   func(ctx context.Context, root *cobra.Command) error
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Manifests ManifestSource
		Runner    manifest.ScriptRunner
		Chooser   cmdtree.Chooser
		Confirmer Confirmer
		// WorkDir defaults to the current directory.
		WorkDir string
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
		// Execute runs the assembled root command. Defaults to fang.
		Execute func(ctx context.Context, root *cobra.Command) error
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ManifestSource finds the agent manifests to register.
	ManifestSource interface {
		Discover(ctx context.Context, dirs []string) manifest.Result
	}

	// Confirmer asks the user a yes/no question.
	Confirmer interface {
		Confirm(ctx context.Context, opts tui.ConfirmOptions) (bool, error)
	}

	dirManifestSource struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Manifests == nil {
		deps.Manifests = dirManifestSource{}
	}
	if deps.Runner == nil {
		deps.Runner = shell.NewRunner()
	}
	if deps.Execute == nil {
		deps.Execute = executeWithFang
	}
	if deps.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		deps.WorkDir = wd
	}

	return &App{
		Config:    deps.Config,
		Manifests: deps.Manifests,
		Runner:    deps.Runner,
		Chooser:   deps.Chooser,
		Confirmer: deps.Confirmer,
		workDir:   deps.WorkDir,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		execute:   deps.Execute,
	}, nil
}

// manifestDirs lists the directories scanned for manifests: the user agents
// directory, the project directory, then configured search paths.
func (a *App) manifestDirs(cfg *config.Config) []string {
	var dirs []string
	if agents, err := config.AgentsDir(); err == nil {
		dirs = append(dirs, agents)
	}
	dirs = append(dirs, filepath.Join(a.workDir, ProjectDir))
	for _, p := range cfg.SearchPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(a.workDir, p)
		}
		dirs = append(dirs, p)
	}
	return dirs
}

// chooser returns the injected chooser or a terminal chooser configured
// from cfg.
func (a *App) chooser(cfg *config.Config) cmdtree.Chooser {
	if a.Chooser != nil {
		return a.Chooser
	}
	return tui.NewChooser(a.tuiConfig(cfg))
}

// confirmer returns the injected confirmer or a terminal one configured
// from cfg.
func (a *App) confirmer(cfg *config.Config) Confirmer {
	if a.Confirmer != nil {
		return a.Confirmer
	}
	return tui.NewConfirmer(a.tuiConfig(cfg))
}

func (a *App) tuiConfig(cfg *config.Config) tui.Config {
	return tui.Config{
		Theme:      tui.ParseTheme(cfg.UI.Theme),
		Accessible: cfg.UI.Accessible,
		Input:      a.stdin,
		Output:     a.stderr,
	}
}

func (dirManifestSource) Discover(_ context.Context, dirs []string) manifest.Result {
	return manifest.Discover(dirs)
}
