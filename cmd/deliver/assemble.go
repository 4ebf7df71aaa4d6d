// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/invowk/deliver/internal/cobrarender"
	"github.com/invowk/deliver/internal/config"
	"github.com/invowk/deliver/internal/manifest"
	"github.com/invowk/deliver/pkg/cmdtree"
)

const (
	rootShort = "Compose the commands of many agents into one CLI"

	// codeRegisterFailed marks a manifest that loaded but could not be
	// turned into commands.
	codeRegisterFailed = "manifest_register_failed"
)

// Assembly is the product of one assembly run: the rendered cobra tree and
// everything that went into it.
type Assembly struct {
	Root        *cobra.Command
	Tree        *cmdtree.Optimized
	Config      *config.Config
	Manifests   []*manifest.Manifest
	Diagnostics []manifest.Diagnostic
}

// Assemble discovers manifests, builds the raw command forest, resolves its
// conflicts and renders the result as a cobra command tree. Built-in commands
// are registered before any manifest.
func (a *App) Assemble(ctx context.Context, cfg *config.Config) (*Assembly, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	asm := &Assembly{Config: cfg}
	reg := cmdtree.NewRegistry(config.AppName, rootShort)
	for _, o := range rootOptions() {
		if err := reg.AddOption(o); err != nil {
			return nil, err
		}
	}
	if err := registerBuiltins(reg, a, asm); err != nil {
		return nil, fmt.Errorf("failed to register built-in commands: %w", err)
	}

	found := a.Manifests.Discover(ctx, a.manifestDirs(cfg))
	asm.Diagnostics = found.Diagnostics
	for _, m := range found.Manifests {
		if err := manifest.Register(reg, m, a.Runner, cfg.DefaultConflict); err != nil {
			asm.Diagnostics = append(asm.Diagnostics, manifest.Diagnostic{
				Severity: manifest.SeverityError,
				Code:     codeRegisterFailed,
				Message:  fmt.Sprintf("agent %q was not registered: %v", m.Agent, err),
				Path:     m.Path,
				Cause:    err,
			})
			continue
		}
		asm.Manifests = append(asm.Manifests, m)
	}
	for _, d := range asm.Diagnostics {
		slog.Debug("manifest diagnostic", "code", d.Code, "path", d.Path, "message", d.Message)
	}

	raw, err := reg.Build()
	if err != nil {
		return nil, err
	}
	opt, err := cmdtree.Optimize(raw)
	if err != nil {
		return nil, err
	}
	asm.Tree = opt

	root := &cobra.Command{
		Use:   config.AppName,
		Short: rootShort,
		Long: TitleStyle.Render(config.AppName) + SubtitleStyle.Render(" - "+rootShort) + `

Agents describe their commands in manifests (TOML, YAML or CUE) placed in
~/.deliver/agents, in .deliver/ of the current project, or in a configured
search path. Commands that collide are combined according to each
command's conflict policy.`,
		SilenceUsage: true,
	}
	r := cobrarender.New(root, cobrarender.Options{Chooser: a.chooser(cfg)})
	if err := cmdtree.Render(opt, r); err != nil {
		return nil, err
	}
	asm.Root = r.Command()
	return asm, nil
}
