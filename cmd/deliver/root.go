// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/invowk/deliver/internal/config"
	"github.com/invowk/deliver/internal/issue"
	"github.com/invowk/deliver/internal/logging"
	"github.com/invowk/deliver/internal/shell"
	"github.com/invowk/deliver/internal/tui"
	"github.com/invowk/deliver/pkg/cmdtree"
)

const (
	flagConfig  = "config"
	flagVerbose = "verbose"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// globalFlags are the root flags needed before the command tree exists.
type globalFlags struct {
	configPath string
	verbose    bool
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the application and runs it with the process arguments.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
	os.Exit(app.Run(context.Background(), os.Args[1:]))
}

// Run loads configuration, assembles the command tree and executes args
// against it. It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	flags := prescanFlags(args)

	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		WorkDir:        a.workDir,
	})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		cfg = config.DefaultConfig()
	}
	if flags.verbose {
		cfg.UI.Verbose = true
	}
	applyColorScheme(cfg.UI.ColorScheme)
	logging.Install(a.stderr, cfg.EffectiveLogLevel())

	asm, err := a.Assemble(ctx, cfg)
	if err != nil {
		var assemblyErr *cmdtree.AssemblyError
		if errors.As(err, &assemblyErr) {
			fmt.Fprint(a.stderr, RenderAssemblyError(assemblyErr))
			renderIssue(a.stderr, issue.CommandConflictId, cfg.UI.ColorScheme)
		} else {
			fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, cfg.UI.Verbose))
		}
		return 1
	}

	root := asm.Root
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	return a.exitCode(a.execute(ctx, root), cfg)
}

// exitCode maps an execution error to a process exit code, printing the
// catalog entry for errors that have one.
func (a *App) exitCode(err error, cfg *config.Config) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var statusErr *shell.ExitStatusError
	if errors.As(err, &statusErr) {
		slog.Debug("script exited with non-zero status", "code", statusErr.Code)
		return statusErr.Code
	}

	switch {
	case errors.Is(err, tui.ErrNotInteractive), errors.Is(err, cmdtree.ErrNoChooser):
		renderIssue(a.stderr, issue.ChoiceNotInteractiveId, cfg.UI.ColorScheme)
	case errors.Is(err, cmdtree.ErrNoHandler):
		renderIssue(a.stderr, issue.NoHandlerId, cfg.UI.ColorScheme)
	case errors.Is(err, shell.ErrScriptSyntax):
		renderIssue(a.stderr, issue.ScriptExecutionFailedId, cfg.UI.ColorScheme)
	}
	return 1
}

// prescanFlags extracts the root flags that influence assembly. Unknown
// flags and parse errors are left to cobra.
func prescanFlags(args []string) globalFlags {
	var g globalFlags
	fs := pflag.NewFlagSet(config.AppName, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.StringVar(&g.configPath, flagConfig, "", "")
	fs.BoolVarP(&g.verbose, flagVerbose, "v", false, "")
	_ = fs.Parse(args)
	return g
}

// rootOptions are the flags shared by every command.
func rootOptions() []cmdtree.Option {
	return []cmdtree.Option{
		{Name: flagConfig, Description: "config file (default is $XDG_CONFIG_HOME/deliver/config.cue)"},
		{Name: flagVerbose, Short: "v", Type: cmdtree.OptionBool, Description: "enable verbose output"},
	}
}

// executeWithFang runs root with fang's styled help and error output.
func executeWithFang(ctx context.Context, root *cobra.Command) error {
	return fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
}

func applyColorScheme(scheme config.ColorScheme) {
	switch scheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

// renderIssue prints the catalog entry for id, styled for the color scheme.
func renderIssue(w io.Writer, id issue.Id, scheme config.ColorScheme) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	style := "dark"
	if scheme == config.ColorSchemeLight || (scheme == config.ColorSchemeAuto && !lipgloss.HasDarkBackground()) {
		style = "light"
	}
	rendered, err := entry.Render(style)
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own formatting; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
